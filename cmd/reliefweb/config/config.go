package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/client"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

// Config holds the settings shared by every command.
type Config struct {
	AppName        string
	APIURL         string
	CacheDir       string
	HTTPTimeout    time.Duration
	RetryMax       int
	MonitorCountry string
	MonitorLogDir  string
	OutputDir      string
	DatabaseURL    string
	ListenAddr     string
	LogLevel       zerolog.Level
}

// Load reads the given .env files (".env" when none are given) into the
// environment and builds a Config from it. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		AppName:        getEnv("RELIEFWEB_APPNAME", "omdena-datacamp"),
		APIURL:         getEnv("RELIEFWEB_API_URL", "https://api.reliefweb.int/v1"),
		CacheDir:       getEnv("RELIEFWEB_CACHE_DIR", "data"),
		MonitorCountry: getEnv("MONITOR_COUNTRY", "United States of America"),
		MonitorLogDir:  getEnv("MONITOR_LOG_DIR", "monitoring_logs"),
		OutputDir:      getEnv("OUTPUT_DIR", "output"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
	}

	var err error
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("RELIEFWEB_HTTP_TIMEOUT", "60s")); err != nil {
		return Config{}, fmt.Errorf("invalid RELIEFWEB_HTTP_TIMEOUT: %w", err)
	}
	if cfg.RetryMax, err = strconv.Atoi(getEnv("RELIEFWEB_RETRY_MAX", "3")); err != nil {
		return Config{}, fmt.Errorf("invalid RELIEFWEB_RETRY_MAX: %w", err)
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Client returns the HTTP settings of the API client.
func (c Config) Client() client.Config {
	return client.Config{
		BaseURI:  c.APIURL,
		Timeout:  c.HTTPTimeout,
		RetryMax: c.RetryMax,
	}
}

// Reference returns the reference loader settings. The HTTP client is left
// for the caller to inject.
func (c Config) Reference() reference.Config {
	return reference.DefaultConfig(c.APIURL, c.AppName, c.CacheDir)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
