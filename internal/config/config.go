// Package config loads the service configuration from YAML, with sane
// defaults when no file is present.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carebridge/intake/pkg/flow"
	"github.com/carebridge/intake/pkg/persistence/middleware"
)

// RedisConfig controls the optional Redis-backed session store and locker.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// FileConfig controls the filesystem-backed session store, for
// single-instance deployments that must survive restarts without Redis.
// Ignored when Redis is enabled.
type FileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// PrivacyConfig controls the data-protection middlewares wrapped around the
// session store.
type PrivacyConfig struct {
	// EncryptionKey is a base64-encoded 32-byte AES-256 key. Empty disables
	// encryption at rest.
	EncryptionKey string `yaml:"encryption_key"`

	// FallbackKeys are base64-encoded previous keys, tried on decryption
	// failure during key rotation.
	FallbackKeys []string `yaml:"fallback_keys"`

	// MaskTopics are regular expressions matched against topic keys; the
	// values of matching keys are masked before the snapshot is persisted.
	MaskTopics []string `yaml:"mask_topics"`
}

// Middlewares builds the configured store wrappers, masking first so the
// encrypted payload already carries the scrubbed values.
func (p PrivacyConfig) Middlewares() ([]middleware.Middleware, error) {
	var out []middleware.Middleware

	if len(p.MaskTopics) > 0 {
		out = append(out, middleware.NewPIIMask(p.MaskTopics))
	}

	if p.EncryptionKey != "" {
		active, err := base64.StdEncoding.DecodeString(p.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		if len(active) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(active))
		}
		fallbacks := make([][]byte, 0, len(p.FallbackKeys))
		for i, enc := range p.FallbackKeys {
			key, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				return nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
			}
			fallbacks = append(fallbacks, key)
		}
		out = append(out, middleware.NewEncryption(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}

	return out, nil
}

// Config is the full service configuration.
type Config struct {
	// Listen is the HTTP front door address.
	Listen string `yaml:"listen"`

	Redis RedisConfig `yaml:"redis"`

	File FileConfig `yaml:"file"`

	Privacy PrivacyConfig `yaml:"privacy"`

	// Persona is the static identity the agent speaks with.
	Persona flow.Persona `yaml:"persona"`

	// Flow carries context-strategy tuning for the host.
	Flow flow.Settings `yaml:"flow"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Listen: ":7860",
		Redis: RedisConfig{
			Address: "localhost:6379",
			TTL:     24 * time.Hour,
		},
		Persona: flow.Persona{
			AgentName:   "Alice",
			ClinicName:  "Surrey Medical Clinic",
			PatientName: "Ricky Sangha",
		},
		Flow: flow.DefaultSettings(),
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
