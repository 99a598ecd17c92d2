// Package config parses environment variables into tagged structs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses the environment into cfg using `env` tags. Nested structs are
// walked, so one call fills the whole configuration tree.
//
// Example:
//
//	type Engine struct {
//	    CatchAllSlug string `env:"CATCH_ALL_SLUG" envDefault:"other"`
//	    Concurrency  int    `env:"ENGINE_CONCURRENCY" envDefault:"8"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
