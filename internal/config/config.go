// Package config loads the service configuration from environment
// variables, with sane defaults for local development.
package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// TaxonomyPath points at the catalog taxonomy JSON file.
	TaxonomyPath string

	ArchiveBaseURL    string
	ArchiveUserAgent  string
	ArchiveRPS        int
	ArchiveMaxRetries int

	CORSAllowedOrigins []string
	RequestSizeLimit   int64
	ClientRPS          float64
	ClientBurst        int
}

// Load reads the configuration from the environment.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ADDR", ":5000")
	v.SetDefault("TAXONOMY_PATH", "configs/catalog.json")
	v.SetDefault("ARCHIVE_BASE_URL", "https://archive.org")
	v.SetDefault("ARCHIVE_USER_AGENT", "opdsapi/1.0")
	v.SetDefault("ARCHIVE_RPS", 10)
	v.SetDefault("ARCHIVE_MAX_RETRIES", 3)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("REQUEST_SIZE_LIMIT", 1<<20)
	v.SetDefault("CLIENT_RPS", 20.0)
	v.SetDefault("CLIENT_BURST", 40)

	return Config{
		Addr:               v.GetString("APP_ADDR"),
		TaxonomyPath:       v.GetString("TAXONOMY_PATH"),
		ArchiveBaseURL:     v.GetString("ARCHIVE_BASE_URL"),
		ArchiveUserAgent:   v.GetString("ARCHIVE_USER_AGENT"),
		ArchiveRPS:         v.GetInt("ARCHIVE_RPS"),
		ArchiveMaxRetries:  v.GetInt("ARCHIVE_MAX_RETRIES"),
		CORSAllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		RequestSizeLimit:   v.GetInt64("REQUEST_SIZE_LIMIT"),
		ClientRPS:          v.GetFloat64("CLIENT_RPS"),
		ClientBurst:        v.GetInt("CLIENT_BURST"),
	}
}
