package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultAddr = "localhost:3000"

// config is the server configuration, read from the environment after an
// optional .env file has been loaded.
type config struct {
	DBURL       string
	Addr        string
	Location    *time.Location // zone that defines "today" and day boundaries
	CORSOrigins []string
}

func loadConfig() (config, error) {
	cfg := config{
		DBURL:    os.Getenv("DB_URL"),
		Addr:     os.Getenv("ADDR"),
		Location: time.Local,
	}
	if cfg.DBURL == "" {
		return cfg, errors.New("DB_URL is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}

	if tz := os.Getenv("TIME_ZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid TIME_ZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}
	return cfg, nil
}
