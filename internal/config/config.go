package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AllowedOrigin string

	PokeAPIURL   string
	PokemonMaxID int

	// Game tuning
	BattleDuration time.Duration
	WinPoints      int

	// Upgrade endpoint rate limiting
	WSRateLimit  int
	WSRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment, with a .env file as
// fallback. Every value has a safe default; the server runs with no
// environment at all.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	apiURL := os.Getenv("POKEAPI_URL")
	if apiURL == "" {
		apiURL = "https://pokeapi.co/api/v2"
	}

	maxID := 600
	if v := os.Getenv("POKEMON_MAX_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxID = n
		}
	}

	battleDuration := 12 * time.Second
	if v := os.Getenv("BATTLE_DURATION_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			battleDuration = time.Duration(n) * time.Millisecond
		}
	}

	winPoints := 3
	if v := os.Getenv("WIN_POINTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			winPoints = n
		}
	}

	wsRateLimit := 30
	if v := os.Getenv("WS_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			wsRateLimit = n
		}
	}

	wsRateWindow := time.Minute
	if v := os.Getenv("WS_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			wsRateWindow = time.Duration(n) * time.Second
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:        port,
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		PokeAPIURL:     apiURL,
		PokemonMaxID:   maxID,
		BattleDuration: battleDuration,
		WinPoints:      winPoints,
		WSRateLimit:    wsRateLimit,
		WSRateWindow:   wsRateWindow,
		LogLevel:       logLevel,
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}
}
