package handlers

import (
	"log"
	"net/http"

	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/labstack/echo/v4"
)

// YouTubeHandler proxies video searches for the event detail view
type YouTubeHandler struct {
	youtube *clients.YouTubeClient
}

// NewYouTubeHandler creates a new YouTubeHandler
func NewYouTubeHandler(youtube *clients.YouTubeClient) *YouTubeHandler {
	return &YouTubeHandler{youtube: youtube}
}

// RegisterYouTubeRoutes registers video search routes
func (h *YouTubeHandler) RegisterYouTubeRoutes(g *echo.Group) {
	g.GET("/youtube", h.SearchVideos)
}

// SearchVideos returns up to three live-performance videos for the query
func (h *YouTubeHandler) SearchVideos(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Search query is required"})
	}

	videos, err := h.youtube.SearchVideos(c.Request().Context(), q)
	if err != nil {
		log.Printf("YouTube search failed for %q: %v", q, err)
		return c.JSON(upstreamStatus(err), echo.Map{"error": "Failed to fetch YouTube videos"})
	}

	return c.JSON(http.StatusOK, echo.Map{"videos": videos})
}
