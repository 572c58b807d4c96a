package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds process-wide configuration loaded from the environment.
type Config struct {
	Port           string
	Env            string
	UserAgent      string
	CacheDir       string
	RateLimit      float64
	RateBurst      int
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		UserAgent: os.Getenv("SEC_USER_AGENT"),
		CacheDir:  getEnv("EDGARFACTS_CACHE_DIR", defaultCacheDir()),
	}

	rateLimit := 10.0
	if v := os.Getenv("EDGARFACTS_RATE_LIMIT"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid EDGARFACTS_RATE_LIMIT: %w", err)
		}
		rateLimit = parsed
	}
	cfg.RateLimit = rateLimit
	cfg.RateBurst = int(rateLimit)
	if cfg.RateBurst < 1 {
		cfg.RateBurst = 1
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	} else {
		for _, origin := range strings.Split(allowedOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	// SEC's fair-access policy requires a descriptive User-Agent on every
	// request; without one EDGAR returns 403 for all callers.
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("SEC_USER_AGENT environment variable is required (format: \"App Name contact@example.com\")")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".edgarfacts-cache"
	}
	return filepath.Join(home, ".edgarfacts", "cache")
}
