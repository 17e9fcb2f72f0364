package models

// Spotify Web API payloads for the client-credentials flow, artist search
// and top-tracks lookups. Nested optional fields (album art, preview URLs,
// follower counts) are modeled explicitly so the reshaping code never has
// to chase untyped maps.

type SpotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type SpotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Popularity int            `json:"popularity"`
	Images     []SpotifyImage `json:"images"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type SpotifySearchResponse struct {
	Artists struct {
		Items []SpotifyArtist `json:"items"`
	} `json:"artists"`
}

type SpotifyTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
	Album      struct {
		Images []SpotifyImage `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type SpotifyTopTracksResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

type SpotifyRelatedArtistsResponse struct {
	Artists []SpotifyArtist `json:"artists"`
}

// Track is the reshaped top-track summary returned to the frontend.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"previewUrl"`
	AlbumArt   string `json:"albumArt"`
	SpotifyURL string `json:"spotifyUrl"`
}

// ArtistInfo is the reshaped artist summary for the detail view.
type ArtistInfo struct {
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Popularity int            `json:"popularity"`
	Followers  int            `json:"followers"`
	Images     []SpotifyImage `json:"images"`
}

// RelatedArtist is one entry of the best-effort related-artists list.
type RelatedArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
}
