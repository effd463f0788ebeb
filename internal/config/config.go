// Package config loads server settings from the environment.
//
// A .env file in the working directory is read first (missing is fine), then
// variables are parsed into Config with struct tags.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/wordscramble/internal/words"
)

// Config holds every environment-driven setting.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/app.db"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"scramble_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	Environment    string `env:"NODE_ENV" envDefault:"development"`

	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	StartWordsFile string `env:"WORDS_START_FILE"`
	DictionaryFile string `env:"WORDS_DICTIONARY_FILE"`
	Language       string `env:"WORDS_LANGUAGE" envDefault:"en"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the current environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTExpiresDays <= 0 {
		return Config{}, fmt.Errorf("parse env: JWT_EXPIRES_DAYS must be positive, got %d", cfg.JWTExpiresDays)
	}
	return cfg, nil
}

// Production reports whether cookies should be Secure.
func (c Config) Production() bool { return c.Environment == "production" }

// TokenTTL is the lifetime of auth tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}

// Words returns the word list settings.
func (c Config) Words() words.Config {
	return words.Config{
		StartFile:      c.StartWordsFile,
		DictionaryFile: c.DictionaryFile,
		Language:       c.Language,
	}
}
