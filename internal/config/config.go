package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client side.
	APIBaseURL  string
	StateDir    string
	HTTPTimeout time.Duration

	// Dev backend.
	Port      string
	JWTSecret string
	DBUrl     string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment and defaults")
	}

	baseURL := os.Getenv("RATEVIEW_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	stateDir := os.Getenv("RATEVIEW_STATE_DIR")
	if stateDir == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			stateDir = filepath.Join(configDir, "rateview")
		} else {
			stateDir = ".rateview"
		}
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		} else {
			log.Printf("invalid HTTP_TIMEOUT %q, keeping %s", raw, timeout)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		APIBaseURL:  baseURL,
		StateDir:    stateDir,
		HTTPTimeout: timeout,
		Port:        port,
		JWTSecret:   os.Getenv("JWT_SECRET"),
		DBUrl:       os.Getenv("DB_URL"),
	}
}
