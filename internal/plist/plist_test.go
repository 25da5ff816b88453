package plist

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
)

// parseElement parses an XML fragment and returns its root element.
func parseElement(t *testing.T, fragment string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(fragment); err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}
	root := doc.Root()
	if root == nil {
		t.Fatal("fragment has no root element")
	}
	return root
}

func TestDecodePrimitives(t *testing.T) {
	tc := []struct {
		name     string
		fragment string
		want     Value
	}{
		{
			name:     "string",
			fragment: `<string>Abbey Road</string>`,
			want:     String("Abbey Road"),
		},
		{
			name:     "empty string",
			fragment: `<string></string>`,
			want:     String(""),
		},
		{
			name:     "integer",
			fragment: `<integer>42</integer>`,
			want:     Int(42),
		},
		{
			name:     "negative integer",
			fragment: `<integer>-7</integer>`,
			want:     Int(-7),
		},
		{
			name:     "empty integer defaults to zero",
			fragment: `<integer></integer>`,
			want:     Int(0),
		},
		{
			name:     "true",
			fragment: `<true/>`,
			want:     Bool(true),
		},
		{
			name:     "false",
			fragment: `<false/>`,
			want:     Bool(false),
		},
		{
			name:     "date stays verbatim",
			fragment: `<date>2019-03-02T04:41:10Z</date>`,
			want:     String("2019-03-02T04:41:10Z"),
		},
		{
			name:     "unknown tag decodes to null",
			fragment: `<data>b64payload</data>`,
			want:     Null,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(parseElement(t, tt.fragment))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeMalformedInteger(t *testing.T) {
	_, err := Decode(parseElement(t, `<integer>abc</integer>`))
	if err == nil {
		t.Fatal("Decode() expected error for non-numeric integer")
	}

	var malformed *MalformedIntegerError
	if !errors.As(err, &malformed) {
		t.Fatalf("Decode() error = %T, want *MalformedIntegerError", err)
	}
	if malformed.Text != "abc" {
		t.Errorf("MalformedIntegerError.Text = %q, want %q", malformed.Text, "abc")
	}
}

func TestDecodeMalformedIntegerAbortsSubtree(t *testing.T) {
	fragment := `<dict>
		<key>Name</key><string>ok</string>
		<key>Play Count</key><integer>many</integer>
	</dict>`

	_, err := Decode(parseElement(t, fragment))
	var malformed *MalformedIntegerError
	if !errors.As(err, &malformed) {
		t.Fatalf("Decode() error = %v, want MalformedIntegerError", err)
	}
}

func TestDecodeDict(t *testing.T) {
	tc := []struct {
		name      string
		fragment  string
		wantKeys  []string
		wantPairs map[string]Value
	}{
		{
			name: "pairs in source order",
			fragment: `<dict>
				<key>Name</key><string>Come Together</string>
				<key>Play Count</key><integer>120</integer>
				<key>Loved</key><true/>
			</dict>`,
			wantKeys: []string{"Name", "Play Count", "Loved"},
			wantPairs: map[string]Value{
				"Name":       String("Come Together"),
				"Play Count": Int(120),
				"Loved":      Bool(true),
			},
		},
		{
			name: "dangling trailing key dropped",
			fragment: `<dict>
				<key>A</key><string>x</string>
				<key>B</key>
			</dict>`,
			wantKeys: []string{"A"},
			wantPairs: map[string]Value{
				"A": String("x"),
			},
		},
		{
			name: "duplicate key keeps last value",
			fragment: `<dict>
				<key>A</key><string>first</string>
				<key>A</key><string>second</string>
			</dict>`,
			wantKeys: []string{"A"},
			wantPairs: map[string]Value{
				"A": String("second"),
			},
		},
		{
			name:      "empty dict",
			fragment:  `<dict></dict>`,
			wantKeys:  []string{},
			wantPairs: map[string]Value{},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(parseElement(t, tt.fragment))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			dict, err := got.AsDict()
			if err != nil {
				t.Fatalf("Dict() error = %v", err)
			}
			if dict.Len() != len(tt.wantKeys) {
				t.Fatalf("Len() = %d, want %d", dict.Len(), len(tt.wantKeys))
			}
			for i, k := range dict.Keys() {
				if k != tt.wantKeys[i] {
					t.Errorf("Keys()[%d] = %q, want %q", i, k, tt.wantKeys[i])
				}
			}
			for k, want := range tt.wantPairs {
				v, ok := dict.Get(k)
				if !ok {
					t.Fatalf("Get(%q) missing", k)
				}
				if !v.Equal(want) {
					t.Errorf("Get(%q) = %v, want %v", k, v, want)
				}
			}
		})
	}
}

func TestDecodeArray(t *testing.T) {
	got, err := Decode(parseElement(t, `<array>
		<string>one</string>
		<integer>2</integer>
		<array><true/></array>
	</array>`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	items, err := got.AsArray()
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	want := []Value{String("one"), Int(2), ArrayValue([]Value{Bool(true)})}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if !items[i].Equal(want[i]) {
			t.Errorf("item %d = %v, want %v", i, items[i], want[i])
		}
	}
}

func TestDecodeNestedLibraryShape(t *testing.T) {
	fragment := `<dict>
		<key>Tracks</key>
		<dict>
			<key>1001</key>
			<dict>
				<key>Name</key><string>Karma Police</string>
				<key>Artist</key><string>Radiohead</string>
				<key>Play Count</key><integer>88</integer>
			</dict>
		</dict>
	</dict>`

	got, err := Decode(parseElement(t, fragment))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	top, err := got.AsDict()
	if err != nil {
		t.Fatalf("top-level is not a dict: %v", err)
	}

	tracksVal, ok := top.Get("Tracks")
	if !ok {
		t.Fatal("missing Tracks record")
	}
	tracks, err := tracksVal.AsDict()
	if err != nil {
		t.Fatalf("Tracks is not a dict: %v", err)
	}

	trackVal, ok := tracks.Get("1001")
	if !ok {
		t.Fatal("missing track 1001")
	}
	track, err := trackVal.AsDict()
	if err != nil {
		t.Fatalf("track is not a dict: %v", err)
	}

	name, _ := track.Get("Name")
	if s, err := name.AsString(); err != nil || s != "Karma Police" {
		t.Errorf("Name = (%q, %v), want Karma Police", s, err)
	}
	count, _ := track.Get("Play Count")
	if n, err := count.AsInt(); err != nil || n != 88 {
		t.Errorf("Play Count = (%d, %v), want 88", n, err)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	el := parseElement(t, `<dict>
		<key>A</key><array><integer>1</integer><integer>2</integer></array>
		<key>B</key><string>x</string>
	</dict>`)

	first, err := Decode(el)
	if err != nil {
		t.Fatalf("first Decode() error = %v", err)
	}
	second, err := Decode(el)
	if err != nil {
		t.Fatalf("second Decode() error = %v", err)
	}
	if !first.Equal(second) {
		t.Error("repeated decodes of the same tree are not equal")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	inner := NewDict()
	inner.Set("Name", String("Pyramid Song"))
	inner.Set("Play Count", Int(301))
	inner.Set("Loved", Bool(true))

	top := NewDict()
	top.Set("Tracks", DictValue(inner))
	top.Set("Order", ArrayValue([]Value{Int(3), Int(1), Int(2)}))

	original := DictValue(top)

	decoded, err := Decode(Encode(original))
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v", err)
	}
	if !decoded.Equal(original) {
		t.Error("round trip did not reproduce an equal record")
	}
}

func TestAccessorsWrongVariant(t *testing.T) {
	tc := []struct {
		name   string
		access func(Value) error
		want   Kind
	}{
		{"string accessor", func(v Value) error { _, err := v.AsString(); return err }, KindString},
		{"int accessor", func(v Value) error { _, err := v.AsInt(); return err }, KindInt},
		{"bool accessor", func(v Value) error { _, err := v.AsBool(); return err }, KindBool},
		{"dict accessor", func(v Value) error { _, err := v.AsDict(); return err }, KindDict},
		{"array accessor", func(v Value) error { _, err := v.AsArray(); return err }, KindArray},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.access(Null)
			var wrong *WrongVariantError
			if !errors.As(err, &wrong) {
				t.Fatalf("error = %T, want *WrongVariantError", err)
			}
			if wrong.Want != tt.want || wrong.Got != KindNull {
				t.Errorf("WrongVariantError = %+v, want Want=%v Got=%v", wrong, tt.want, KindNull)
			}
		})
	}
}
