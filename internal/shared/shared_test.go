package shared

import "testing"

func TestSlugify(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "basic",
			in:   "Abbey Road",
			want: "abbey-road",
		},
		{
			name: "punctuation stripped",
			in:   "What's the Story (Morning Glory)?",
			want: "whats-the-story-morning-glory",
		},
		{
			name: "whitespace runs collapse",
			in:   "  OK   Computer  ",
			want: "ok-computer",
		},
		{
			name: "unicode letters kept",
			in:   "Björk",
			want: "björk",
		},
		{
			name: "empty input",
			in:   "",
			want: "unknown",
		},
		{
			name: "only punctuation",
			in:   "!?!",
			want: "unknown",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Library.TrackLimit != 200 {
		t.Errorf("TrackLimit = %d, want 200", config.Library.TrackLimit)
	}
	if config.Library.GenreLimit != 10 {
		t.Errorf("GenreLimit = %d, want 10", config.Library.GenreLimit)
	}
	if config.Media.GradientStart != "#667EEA" {
		t.Errorf("GradientStart = %q, want #667EEA", config.Media.GradientStart)
	}
	if config.Credentials.LastFM.BaseURL == "" {
		t.Error("LastFM.BaseURL is empty")
	}
}
