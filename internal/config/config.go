// Package config loads runtime settings from the environment. Every
// variable carries the INSIGHTS_ prefix, e.g. INSIGHTS_ADDR.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the service settings.
type Config struct {
	Addr          string `envconfig:"ADDR" default:":8080"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	DBPath        string `envconfig:"DB_PATH" default:"./insights.db"`
	MaxUploadSize int64  `envconfig:"MAX_UPLOAD_SIZE" default:"10485760"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("INSIGHTS", &c); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return c, nil
}
