package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"pantagon/internal/metrics"
)

type Config struct {
	Port        int
	DatabaseURL string
	BurnFilter  metrics.BurnFilter
	LogLevel    string
	LogPretty   bool
	CORSOrigins []string
}

// Load reads settings from the environment, falling back to ./.env.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(".", ".env"))
}

func LoadFrom(envPath string) (Config, error) {
	values := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		fileValues, err := godotenv.Read(envPath)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", envPath, err)
		}
		values = fileValues
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("stat %s: %w", envPath, err)
	}

	lookup := func(key string) string {
		return firstNonEmpty(os.Getenv(key), values[key])
	}

	cfg := Config{
		Port:        8080,
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
	}
	if portRaw := lookup("PORT"); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT: %q", portRaw)
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = lookup("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required (environment variable or .env)")
	}

	filter, err := metrics.ParseBurnFilter(lookup("BURN_RATE_FILTER"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BURN_RATE_FILTER: %w", err)
	}
	cfg.BurnFilter = filter

	if level := lookup("LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if prettyRaw := lookup("LOG_PRETTY"); prettyRaw != "" {
		pretty, err := strconv.ParseBool(prettyRaw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_PRETTY: %q", prettyRaw)
		}
		cfg.LogPretty = pretty
	}

	if originsRaw := lookup("CORS_ORIGINS"); originsRaw != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(originsRaw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}

	return cfg, nil
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if value := strings.TrimSpace(candidate); value != "" {
			return value
		}
	}
	return ""
}
