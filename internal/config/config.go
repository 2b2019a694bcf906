// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Config holds the process settings read from the environment.
type Config struct {
	ConversionsFile  string        `envconfig:"CONVERSIONS_FILE"`
	ForceLowerCase   bool          `envconfig:"FORCE_LOWER_CASE" default:"true"`
	Harmonize        bool          `envconfig:"HARMONIZE" default:"true"`
	RescueSmiles     bool          `envconfig:"RESCUE_SMILES" default:"true"`
	ObabelPath       string        `envconfig:"OBABEL_PATH" default:"obabel"`
	ConverterTimeout time.Duration `envconfig:"CONVERTER_TIMEOUT" default:"30s"`
	LogDevelopment   bool          `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// Prefix is prepended to every variable name, e.g. MSMETA_OBABEL_PATH.
const Prefix = "MSMETA"

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process(Prefix, &c)
	return &c, err
}

// Logger builds the zap logger selected by LogDevelopment.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
