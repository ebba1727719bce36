package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Port the web frontend listens on
	Port int `env:"PORT" envDefault:"3000"`

	// Base URL of the backend transaction API
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`

	// Public URL of this site, used for canonical links, sitemap and OG tags
	SiteURL string `env:"SITE_URL" envDefault:"https://sudogwon.com"`

	// Optional TTF path for OG image text (Korean glyphs need a local font)
	OGFontPath string `env:"OG_FONT_PATH"`

	// Number of sequential search requests issued by the perf-test page
	PerfTestRuns int `env:"PERF_TEST_RUNS" envDefault:"100"`
}

func LoadConfig() (*Config, error) {
	// Local development reads a .env file; absence is not an error
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
