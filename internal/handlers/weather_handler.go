package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/anvex/concertly/backend/internal/clients"
	"github.com/anvex/concertly/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// forecastWindow is how far out the 5-day forecast endpoint reaches.
const forecastWindow = 5 * 24 * time.Hour

// WeatherHandler proxies forecast lookups for event dates
type WeatherHandler struct {
	weather *clients.OpenWeatherClient
}

// NewWeatherHandler creates a new WeatherHandler
func NewWeatherHandler(weather *clients.OpenWeatherClient) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// RegisterWeatherRoutes registers weather routes
func (h *WeatherHandler) RegisterWeatherRoutes(g *echo.Group) {
	g.GET("/weather", h.GetWeather)
}

// GetWeather returns forecast samples near the target date. Dates within
// the 5-day window use the forecast endpoint filtered to the target day;
// dates beyond it fall back to current conditions as a rough stand-in.
func (h *WeatherHandler) GetWeather(c echo.Context) error {
	lat := c.QueryParam("lat")
	lon := c.QueryParam("lon")
	date := c.QueryParam("date")

	if lat == "" || lon == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Latitude and longitude are required"})
	}

	target, hasDate := parseEventDate(date)

	if hasDate && time.Until(target) > forecastWindow {
		current, err := h.weather.Current(c.Request().Context(), lat, lon)
		if err != nil {
			log.Printf("OpenWeather current lookup failed: %v", err)
			return c.JSON(upstreamStatus(err), echo.Map{"error": "Failed to fetch weather data"})
		}
		return c.JSON(http.StatusOK, models.WeatherResponse{
			Location: echo.Map{"name": current.Name, "coord": current.Coord},
			Forecast: []models.ForecastSample{currentAsSample(current, target)},
		})
	}

	forecast, err := h.weather.Forecast(c.Request().Context(), lat, lon)
	if err != nil {
		log.Printf("OpenWeather forecast lookup failed: %v", err)
		return c.JSON(upstreamStatus(err), echo.Map{"error": "Failed to fetch weather data"})
	}

	entries := forecast.List
	if hasDate {
		entries = entriesOnDay(forecast.List, target)
		// No samples on the target day: fall back to the nearest one
		if len(entries) == 0 && len(forecast.List) > 0 {
			entries = forecast.List[:1]
		}
	}

	samples := make([]models.ForecastSample, 0, len(entries))
	for _, entry := range entries {
		samples = append(samples, entryAsSample(entry))
	}

	return c.JSON(http.StatusOK, models.WeatherResponse{
		Location: forecast.City,
		Forecast: samples,
	})
}

// parseEventDate accepts the RFC 3339 timestamps Ticketmaster events carry
// as well as bare dates.
func parseEventDate(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func entriesOnDay(entries []models.OpenWeatherForecastEntry, target time.Time) []models.OpenWeatherForecastEntry {
	targetDay := target.UTC().Format("2006-01-02")
	matched := []models.OpenWeatherForecastEntry{}
	for _, entry := range entries {
		if time.Unix(entry.Dt, 0).UTC().Format("2006-01-02") == targetDay {
			matched = append(matched, entry)
		}
	}
	return matched
}

func entryAsSample(entry models.OpenWeatherForecastEntry) models.ForecastSample {
	sample := models.ForecastSample{
		Datetime:      time.Unix(entry.Dt, 0).UTC().Format(time.RFC3339),
		Temp:          entry.Main.Temp,
		FeelsLike:     entry.Main.FeelsLike,
		Precipitation: entry.Pop * 100,
		Humidity:      entry.Main.Humidity,
		WindSpeed:     entry.Wind.Speed,
	}
	if len(entry.Weather) > 0 {
		sample.Description = entry.Weather[0].Description
		sample.Icon = entry.Weather[0].Icon
	}
	return sample
}

func currentAsSample(current *models.OpenWeatherCurrentResponse, target time.Time) models.ForecastSample {
	sample := models.ForecastSample{
		Datetime:  target.UTC().Format(time.RFC3339),
		Temp:      current.Main.Temp,
		FeelsLike: current.Main.FeelsLike,
		Humidity:  current.Main.Humidity,
		WindSpeed: current.Wind.Speed,
	}
	if len(current.Weather) > 0 {
		sample.Description = current.Weather[0].Description
		sample.Icon = current.Weather[0].Icon
	}
	return sample
}
