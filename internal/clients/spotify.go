package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/anvex/concertly/backend/internal/models"
)

const (
	spotifyAccountsURL = "https://accounts.spotify.com"
	spotifyAPIBaseURL  = "https://api.spotify.com/v1"

	// Refresh the token a minute before Spotify says it expires so a
	// request in flight never carries a token that dies mid-call.
	tokenExpiryBuffer = time.Minute
)

// spotifyTokenCache holds the single shared client-credentials token. Many
// requests read it concurrently; whichever request first observes expiry
// refreshes it. Two concurrent refreshes are harmless; last write wins.
type spotifyTokenCache struct {
	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func (tc *spotifyTokenCache) get() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.accessToken != "" && time.Now().Before(tc.expiresAt.Add(-tokenExpiryBuffer)) {
		return tc.accessToken, true
	}
	return "", false
}

func (tc *spotifyTokenCache) set(token string, expiresIn int64) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.accessToken = token
	tc.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// SpotifyClient looks up artist metadata and top tracks using the
// client-credentials flow. The access token is cached process-wide and
// refreshed on expiry.
type SpotifyClient struct {
	accountsURL  string
	apiBaseURL   string
	clientID     string
	clientSecret string
	http         *http.Client
	token        *spotifyTokenCache
}

// NewSpotifyClient creates a new SpotifyClient
func NewSpotifyClient(clientID, clientSecret string) *SpotifyClient {
	return &SpotifyClient{
		accountsURL:  spotifyAccountsURL,
		apiBaseURL:   spotifyAPIBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         newHTTPClient(),
		token:        &spotifyTokenCache{},
	}
}

// NewSpotifyClientWithBaseURLs is used by tests to point the client at
// fake account and API servers.
func NewSpotifyClientWithBaseURLs(clientID, clientSecret, accountsURL, apiBaseURL string) *SpotifyClient {
	c := NewSpotifyClient(clientID, clientSecret)
	c.accountsURL = accountsURL
	c.apiBaseURL = apiBaseURL
	return c
}

// AccessToken returns a valid token, refreshing the cached one when it is
// missing or within a minute of expiry.
func (c *SpotifyClient) AccessToken(ctx context.Context) (string, error) {
	if token, ok := c.token.get(); ok {
		return token, nil
	}

	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL+"/api/token", body)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify token request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("spotify token response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Provider: "Spotify", Status: resp.StatusCode, Body: string(raw)}
	}

	var tokenResp models.SpotifyTokenResponse
	if err := json.Unmarshal(raw, &tokenResp); err != nil {
		return "", fmt.Errorf("spotify token response decode failed: %w", err)
	}

	c.token.set(tokenResp.AccessToken, tokenResp.ExpiresIn)
	return tokenResp.AccessToken, nil
}

// SearchArtist returns the best artist match for the query, or nil when
// Spotify has no match. Tour suffixes ("Artist - World Tour 2026") are
// stripped before searching.
func (c *SpotifyClient) SearchArtist(ctx context.Context, query string) (*models.SpotifyArtist, error) {
	cleaned := cleanArtistQuery(query)

	params := url.Values{}
	params.Set("q", cleaned)
	params.Set("type", "artist")
	params.Set("limit", "1")
	params.Set("market", "US")

	var search models.SpotifySearchResponse
	if err := c.get(ctx, "/search?"+params.Encode(), &search); err != nil {
		return nil, err
	}
	if len(search.Artists.Items) == 0 {
		return nil, nil
	}
	return &search.Artists.Items[0], nil
}

// TopTracks returns the artist's top tracks in the US market.
func (c *SpotifyClient) TopTracks(ctx context.Context, artistID string) ([]models.SpotifyTrack, error) {
	var top models.SpotifyTopTracksResponse
	if err := c.get(ctx, "/artists/"+url.PathEscape(artistID)+"/top-tracks?market=US", &top); err != nil {
		return nil, err
	}
	return top.Tracks, nil
}

// GetArtist returns metadata for a single artist by ID.
func (c *SpotifyClient) GetArtist(ctx context.Context, artistID string) (*models.SpotifyArtist, error) {
	var artist models.SpotifyArtist
	if err := c.get(ctx, "/artists/"+url.PathEscape(artistID), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// RelatedArtists returns artists similar to the given one. Callers treat
// this as best-effort enrichment and tolerate failure.
func (c *SpotifyClient) RelatedArtists(ctx context.Context, artistID string) ([]models.SpotifyArtist, error) {
	var related models.SpotifyRelatedArtistsResponse
	if err := c.get(ctx, "/artists/"+url.PathEscape(artistID)+"/related-artists", &related); err != nil {
		return nil, err
	}
	return related.Artists, nil
}

func (c *SpotifyClient) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("spotify response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Provider: "Spotify", Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("spotify response decode failed: %w", err)
	}
	return nil
}

// cleanArtistQuery strips tour names and parenthesised extras that
// Ticketmaster appends to attraction names.
func cleanArtistQuery(q string) string {
	cleaned := strings.SplitN(q, "-", 2)[0]
	cleaned = strings.SplitN(cleaned, "(", 2)[0]
	return strings.TrimSpace(cleaned)
}
