// Package config reads settings from the environment, after an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Store    string `envconfig:"RATE_STORE" default:"json"`
	DataFile string `envconfig:"RATE_DATA_FILE" default:"ratings.json"`
	DSN      string `envconfig:"RATE_DSN"`
	RedisURL string `envconfig:"RATE_REDIS_URL" default:"redis://localhost:6379/0"`
	APIURL   string `envconfig:"RATE_API_URL" default:"http://localhost:8080"`

	SaveTimeout time.Duration `envconfig:"RATE_SAVE_TIMEOUT" default:"10s"`

	ChartWidth  int    `envconfig:"RATE_CHART_WIDTH" default:"760"`
	ChartHeight int    `envconfig:"RATE_CHART_HEIGHT" default:"0"`
	SteepBelow  int    `envconfig:"RATE_STEEP_BELOW" default:"500"`
	Theme       string `envconfig:"RATE_THEME" default:"classic"`

	// Embedded so their variables keep the names given in their tags.
	Log
	Server
}

type Log struct {
	Level string `envconfig:"RATE_LOG_LEVEL" default:"warn"`
	File  string `envconfig:"RATE_LOG_FILE"`
	JSON  bool   `envconfig:"RATE_LOG_JSON" default:"false"`
}

type Server struct {
	Addr        string   `envconfig:"RATED_ADDR" default:":8080"`
	JWTSecret   string   `envconfig:"RATED_JWT_SECRET"`
	CORSOrigins []string `envconfig:"RATED_CORS_ORIGINS" default:"http://localhost:4321"`
}

// Load reads .env when present, then the environment. Variables already
// set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &cfg, nil
}
