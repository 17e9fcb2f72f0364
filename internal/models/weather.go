package models

// OpenWeather payloads. Only the fields the forecast reshaping reads are
// modeled; everything else in the provider response is ignored.

type OpenWeatherCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type OpenWeatherMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

type OpenWeatherWind struct {
	Speed float64 `json:"speed"`
}

// OpenWeatherForecastEntry is one 3-hour sample from the 5-day forecast.
type OpenWeatherForecastEntry struct {
	Dt      int64                  `json:"dt"`
	Main    OpenWeatherMain        `json:"main"`
	Weather []OpenWeatherCondition `json:"weather"`
	Pop     float64                `json:"pop"`
	Wind    OpenWeatherWind        `json:"wind"`
}

type OpenWeatherCity struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

type OpenWeatherForecastResponse struct {
	List []OpenWeatherForecastEntry `json:"list"`
	City OpenWeatherCity            `json:"city"`
}

// OpenWeatherCurrentResponse is the current-conditions endpoint payload,
// used for event dates beyond the 5-day forecast window.
type OpenWeatherCurrentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main    OpenWeatherMain        `json:"main"`
	Weather []OpenWeatherCondition `json:"weather"`
	Wind    OpenWeatherWind        `json:"wind"`
}

// ForecastSample is one reshaped forecast entry returned to the frontend.
type ForecastSample struct {
	Datetime      string  `json:"datetime"`
	Temp          float64 `json:"temp"`
	FeelsLike     float64 `json:"feels_like"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	Precipitation float64 `json:"precipitation"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
}

type WeatherResponse struct {
	Location interface{}      `json:"location"`
	Forecast []ForecastSample `json:"forecast"`
}
