package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/anvex/concertly/backend/internal/models"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient fetches forecasts and current conditions. Units are
// imperial to match what the frontend displays.
type OpenWeatherClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewOpenWeatherClient creates a new OpenWeatherClient
func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		baseURL: openWeatherBaseURL,
		apiKey:  apiKey,
		http:    newHTTPClient(),
	}
}

// NewOpenWeatherClientWithBaseURL is used by tests to point the client at
// a fake server.
func NewOpenWeatherClientWithBaseURL(apiKey, baseURL string) *OpenWeatherClient {
	c := NewOpenWeatherClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Forecast returns the 5-day / 3-hour forecast for the given coordinates.
func (c *OpenWeatherClient) Forecast(ctx context.Context, lat, lon string) (*models.OpenWeatherForecastResponse, error) {
	var forecast models.OpenWeatherForecastResponse
	if err := c.get(ctx, "/forecast", lat, lon, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// Current returns current conditions, used when the event date is beyond
// the 5-day forecast window.
func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon string) (*models.OpenWeatherCurrentResponse, error) {
	var current models.OpenWeatherCurrentResponse
	if err := c.get(ctx, "/weather", lat, lon, &current); err != nil {
		return nil, err
	}
	return &current, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, path, lat, lon string, out interface{}) error {
	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)
	params.Set("appid", c.apiKey)
	params.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("openweather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openweather response read failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Provider: "OpenWeather", Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("openweather response decode failed: %w", err)
	}
	return nil
}
