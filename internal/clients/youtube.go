package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/anvex/concertly/backend/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const maxVideoResults = 3

// YouTubeClient searches for live-performance videos through the YouTube
// Data API v3.
type YouTubeClient struct {
	service *youtube.Service
}

// NewYouTubeClient creates a new YouTubeClient authenticated by API key
func NewYouTubeClient(ctx context.Context, apiKey string) (*YouTubeClient, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeClient{service: service}, nil
}

// NewYouTubeClientWithService is used by tests to inject a service backed
// by a fake server.
func NewYouTubeClientWithService(service *youtube.Service) *YouTubeClient {
	return &YouTubeClient{service: service}
}

// SearchVideos returns up to three video summaries for the query. The
// query is biased towards live performances since that is what a concert
// detail view embeds.
func (c *YouTubeClient) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(query + " live performance").
		Type("video").
		MaxResults(maxVideoResults).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{Provider: "YouTube", Status: apiErr.Code, Body: apiErr.Message}
		}
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	videos := []models.Video{}
	for _, item := range resp.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}
		video := models.Video{
			ID:    item.Id.VideoId,
			Title: item.Snippet.Title,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			video.Thumbnail = item.Snippet.Thumbnails.High.Url
		}
		videos = append(videos, video)
	}
	return videos, nil
}
