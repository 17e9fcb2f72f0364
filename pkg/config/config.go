package config

import (
	"log"
	"os"
)

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type Config struct {
	Port                    string
	Env                     string
	JWTSecret               string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	TicketmasterAPIKey      string
	OpenWeatherAPIKey       string
	GoogleAPIKey            string
	Spotify                 SpotifyConfig
}

func Load() *Config {
	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "concertly"),
		TicketmasterAPIKey:      getEnv("TICKETMASTER_API_KEY", ""),
		OpenWeatherAPIKey:       getEnv("OPENWEATHER_API_KEY", ""),
		GoogleAPIKey:            getEnv("GOOGLE_API_KEY", ""),
		Spotify: SpotifyConfig{
			ClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
			ClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		},
	}

	cfg.warnMissingAPIKeys()
	return cfg
}

// warnMissingAPIKeys logs which provider keys are absent. A missing key
// degrades the matching proxy endpoint but must not stop the server.
func (c *Config) warnMissingAPIKeys() {
	keys := map[string]string{
		"TICKETMASTER_API_KEY":  c.TicketmasterAPIKey,
		"OPENWEATHER_API_KEY":   c.OpenWeatherAPIKey,
		"GOOGLE_API_KEY":        c.GoogleAPIKey,
		"SPOTIFY_CLIENT_ID":     c.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET": c.Spotify.ClientSecret,
	}
	for name, value := range keys {
		if value == "" {
			log.Printf("Warning: %s is not configured", name)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
