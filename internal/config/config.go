// Package config reads server settings from the environment. A .env file in
// the working directory, when present, seeds variables that are not already
// set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = 8080
	DefaultDBPath       = "data/snippets.db"
	DefaultMaxBodyBytes = 1 << 20
)

type Config struct {
	Port     int
	DBPath   string
	LogLevel slog.Level

	// JWTSecret signs access tokens. Empty disables authentication; every
	// mutating request is then rejected with 401.
	JWTSecret string

	// MaxBodyBytes caps every request body. Snippet code has no limit of
	// its own, so this is the only bound on how much a client can store.
	MaxBodyBytes int64

	// CORSOrigins lists the origins allowed to call the API from a browser.
	// Empty means same-origin only. "*" allows any origin without
	// credentials.
	CORSOrigins []string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// AuthEnabled reports whether tokens can be issued.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

// GitHubEnabled reports whether the GitHub OAuth routes should be mounted.
func (c Config) GitHubEnabled() bool {
	return c.AuthEnabled() && c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Tests pass a map lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:               DefaultPort,
		DBPath:             DefaultDBPath,
		LogLevel:           slog.LevelInfo,
		JWTSecret:          getenv("JWT_SECRET"),
		MaxBodyBytes:       DefaultMaxBodyBytes,
		GitHubClientID:     getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  getenv("GITHUB_CALLBACK_URL"),
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	if v := getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("config: invalid MAX_BODY_BYTES %q", v)
		}
		cfg.MaxBodyBytes = n
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("config: invalid LOG_LEVEL %q", v)
		}
	}

	if v := getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return Config{}, fmt.Errorf("config: CORS_ORIGINS %q has no origins", v)
		}
		cfg.CORSOrigins = origins
	}

	if (cfg.GitHubClientID == "") != (cfg.GitHubClientSecret == "") {
		return Config{}, errors.New("config: GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together")
	}
	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}
