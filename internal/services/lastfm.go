// Last.fm implementation of [ImageService]
//
// Response types based on https://www.last.fm/api/show/album.getInfo and
// artist.getInfo. Only the image lists are mapped.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aveledo/tracktop/internal/shared"
	"golang.org/x/time/rate"
)

const defaultLastFMBaseURL = "http://ws.audioscrobbler.com/2.0/"

// LastFMImage represents one entry of an image size list.
type LastFMImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type albumInfo struct {
	Images []LastFMImage `json:"image"`
}

type artistInfo struct {
	Images []LastFMImage `json:"image"`
}

type albumInfoResponse struct {
	Album *albumInfo `json:"album"`
	lastFMError
}

type artistInfoResponse struct {
	Artist *artistInfo `json:"artist"`
	lastFMError
}

// lastFMError is the API's inline error payload (code 6 = not found).
type lastFMError struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

// LastFMService implements ImageService against the Last.fm web API.
// Requests are throttled with a [rate.Limiter] so batch fetches stay
// inside the API's informal limits.
type LastFMService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLastFMService creates a Last.fm client. An empty baseURL uses the
// public API endpoint; requestsPerSec <= 0 defaults to 5.
func NewLastFMService(baseURL, apiKey string, requestsPerSec float64) *LastFMService {
	if baseURL == "" {
		baseURL = defaultLastFMBaseURL
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 5.0
	}

	return &LastFMService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), 1),
	}
}

func (s *LastFMService) Name() string {
	return "Last.fm"
}

// doRequest performs a throttled GET against the Last.fm API and decodes
// the JSON response into result.
func (s *LastFMService) doRequest(ctx context.Context, method string, params url.Values, result any) error {
	if s.apiKey == "" {
		return shared.ErrMissingAPIKey
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("method", method)
	params.Set("api_key", s.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: last.fm status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// AlbumCoverURL looks up the largest cover image for an album.
func (s *LastFMService) AlbumCoverURL(ctx context.Context, artist, album string) (string, error) {
	params := url.Values{}
	params.Set("artist", artist)
	params.Set("album", album)

	var response albumInfoResponse
	if err := s.doRequest(ctx, "album.getinfo", params, &response); err != nil {
		return "", err
	}

	if response.Code != 0 || response.Album == nil {
		return "", fmt.Errorf("%w: album %s - %s", shared.ErrImageNotFound, artist, album)
	}

	return largestImage(response.Album.Images, artist+" - "+album)
}

// ArtistImageURL looks up the largest image for an artist.
func (s *LastFMService) ArtistImageURL(ctx context.Context, artist string) (string, error) {
	params := url.Values{}
	params.Set("artist", artist)

	var response artistInfoResponse
	if err := s.doRequest(ctx, "artist.getinfo", params, &response); err != nil {
		return "", err
	}

	if response.Code != 0 || response.Artist == nil {
		return "", fmt.Errorf("%w: artist %s", shared.ErrImageNotFound, artist)
	}

	return largestImage(response.Artist.Images, artist)
}

// largestImage returns the last non-empty URL of a size list. Last.fm
// orders image lists small to large, so scanning backwards finds the
// largest populated entry.
func largestImage(images []LastFMImage, subject string) (string, error) {
	for i := len(images) - 1; i >= 0; i-- {
		if images[i].URL != "" {
			return images[i].URL, nil
		}
	}
	return "", fmt.Errorf("%w: %s", shared.ErrImageNotFound, subject)
}
