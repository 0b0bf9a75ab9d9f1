package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Delete-selection policies. The two shipped front-end variants disagree on
// whether delete selection applies to every pin or only to pins created this
// session, so the rule is configuration rather than code.
const (
	DeletePolicyAll     = "all"
	DeletePolicyNewOnly = "new-only"
)

// Config holds the configuration for the map service.
// Environment variables are automatically parsed from the DRAGONMAP_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// MarkersDir holds the per-category marker data files (treasure.json, ...)
	MarkersDir string `envconfig:"MARKERS_DIR" default:"./markers"`

	// DataDir overrides the local state directory (defaults to ~/.dragonsword-map)
	DataDir string `envconfig:"DATA_DIR" default:""`

	// AdminPassphrase gates admin mode. A cosmetic gate, not a security boundary.
	AdminPassphrase string `envconfig:"ADMIN_PASSPHRASE" default:"1338"`

	// DeletePolicy selects which pins can be toggled for deletion: "all" or "new-only"
	DeletePolicy string `envconfig:"DELETE_POLICY" default:"all"`
}

// ResolveDefaults validates derived settings.
func (c *Config) ResolveDefaults() error {
	switch c.DeletePolicy {
	case DeletePolicyAll, DeletePolicyNewOnly:
	default:
		return fmt.Errorf("unsupported DELETE_POLICY: %s", c.DeletePolicy)
	}
	if c.AdminPassphrase == "" {
		return fmt.Errorf("ADMIN_PASSPHRASE must not be empty")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with DRAGONMAP_
// Example: DRAGONMAP_HTTP_PORT, DRAGONMAP_MARKERS_DIR
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DRAGONMAP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("markers_dir", cfg.MarkersDir).
		Str("delete_policy", cfg.DeletePolicy).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		MarkersDir:      "./testdata/markers",
		AdminPassphrase: "1338",
		DeletePolicy:    DeletePolicyAll,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
