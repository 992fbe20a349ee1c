// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings the Lambda reads at cold start.
type Config struct {
	// TableName is the catalog table. Required.
	TableName string `env:"TABLE_NAME,required,notEmpty"`

	// Region the stack is deployed in. Informational; the SDK resolves
	// its own region from the execution environment.
	Region string `env:"REGION" envDefault:"eu-west-1"`

	// SourceLanguage is the language code overviews are written in.
	SourceLanguage string `env:"SOURCE_LANGUAGE" envDefault:"en"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
