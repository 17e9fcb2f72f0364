package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/anvex/concertly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const maxRelatedArtists = 5

// SpotifyHandler proxies artist metadata and top-track lookups
type SpotifyHandler struct {
	spotify *clients.SpotifyClient
}

// NewSpotifyHandler creates a new SpotifyHandler
func NewSpotifyHandler(spotify *clients.SpotifyClient) *SpotifyHandler {
	return &SpotifyHandler{spotify: spotify}
}

// RegisterSpotifyRoutes registers Spotify proxy routes
func (h *SpotifyHandler) RegisterSpotifyRoutes(g *echo.Group) {
	g.GET("/spotify/search", h.SearchArtist)
	g.GET("/spotify/concerts", h.GetArtistInfo)
}

// SearchArtist finds the best artist match for a free-text query and
// returns the artist ID with their top tracks. No match is not an error:
// the detail view tolerates absent enrichment.
func (h *SpotifyHandler) SearchArtist(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Artist name is required"})
	}

	ctx := c.Request().Context()

	artist, err := h.spotify.SearchArtist(ctx, q)
	if err != nil {
		log.Printf("Spotify artist search failed for %q: %v", q, err)
		return c.JSON(upstreamStatus(err), echo.Map{"error": "Failed to fetch Spotify data"})
	}
	if artist == nil {
		return c.JSON(http.StatusOK, echo.Map{"artistId": nil, "tracks": []models.Track{}})
	}

	spotifyTracks, err := h.spotify.TopTracks(ctx, artist.ID)
	if err != nil {
		log.Printf("Spotify top tracks failed for artist %s: %v", artist.ID, err)
		return c.JSON(upstreamStatus(err), echo.Map{"error": "Failed to fetch Spotify data"})
	}

	tracks := make([]models.Track, 0, len(spotifyTracks))
	for _, t := range spotifyTracks {
		track := models.Track{
			ID:         t.ID,
			Name:       t.Name,
			PreviewURL: t.PreviewURL,
			SpotifyURL: t.ExternalURLs.Spotify,
		}
		if len(t.Album.Images) > 0 {
			track.AlbumArt = t.Album.Images[0].URL
		}
		tracks = append(tracks, track)
	}

	return c.JSON(http.StatusOK, echo.Map{"artistId": artist.ID, "tracks": tracks})
}

// GetArtistInfo returns artist metadata plus a best-effort list of related
// artists for the detail view.
func (h *SpotifyHandler) GetArtistInfo(c echo.Context) error {
	artistID := c.QueryParam("artistId")
	if artistID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Artist ID is required"})
	}

	ctx := c.Request().Context()

	artist, err := h.spotify.GetArtist(ctx, artistID)
	if err != nil {
		var upstream *clients.UpstreamError
		if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":   "Artist not found in Spotify",
				"message": "This artist may not be available on Spotify",
			})
		}
		log.Printf("Spotify artist lookup failed for %s: %v", artistID, err)
		return c.JSON(upstreamStatus(err), echo.Map{"error": "Failed to fetch Spotify data"})
	}

	// Related artists are pure enrichment; a failure here must not sink
	// the rest of the response.
	related := []models.RelatedArtist{}
	relatedArtists, err := h.spotify.RelatedArtists(ctx, artistID)
	if err != nil {
		log.Printf("Could not fetch related artists for %s, continuing without them: %v", artistID, err)
	} else {
		for i, a := range relatedArtists {
			if i == maxRelatedArtists {
				break
			}
			related = append(related, models.RelatedArtist{
				ID:     a.ID,
				Name:   a.Name,
				Genres: a.Genres,
				Images: a.Images,
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"artist": models.ArtistInfo{
			Name:       artist.Name,
			Genres:     artist.Genres,
			Popularity: artist.Popularity,
			Followers:  artist.Followers.Total,
			Images:     artist.Images,
		},
		"relatedArtists": related,
	})
}
