// Package config loads process configuration from the environment.
package config

import (
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/idgen"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the process configuration
type Config struct {
	Environment string     `env:"NARRATIVE_ENV"       envDefault:"development"`
	LogLevel    slog.Level `env:"NARRATIVE_LOG_LEVEL" envDefault:"INFO"`
	GRPCPort    int        `env:"NARRATIVE_GRPC_PORT" envDefault:"50051"`

	RedisEndpoints []string `env:"NARRATIVE_REDIS_ENDPOINTS" envDefault:"localhost:6379" envSeparator:","`
	RedisPoolSize  int      `env:"NARRATIVE_REDIS_POOL_SIZE" envDefault:"10"`
	RedisUseTLS    bool     `env:"NARRATIVE_REDIS_TLS"`

	// ContentDB selects the SQLite content store. When empty, content is
	// read from ContentDir, or the embedded campaigns when that is empty too.
	ContentDB  string `env:"NARRATIVE_CONTENT_DB"`
	ContentDir string `env:"NARRATIVE_CONTENT_DIR"`

	PartyIDPrefix string `env:"NARRATIVE_PARTY_ID_PREFIX" envDefault:"party"`
}

// Load parses the process environment
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	switch c.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		vb.Field("NARRATIVE_ENV", "must be development, production or test")
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		vb.Field("NARRATIVE_GRPC_PORT", "must be between 1 and 65535")
	}
	if len(c.RedisEndpoints) == 0 {
		vb.RequiredField("NARRATIVE_REDIS_ENDPOINTS")
	}
	if !idgen.ValidPrefix(c.PartyIDPrefix) {
		vb.Field("NARRATIVE_PARTY_ID_PREFIX", "must not contain ':', braces or spaces")
	}

	return vb.Build()
}

// IsProduction reports whether the process runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
