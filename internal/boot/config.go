package boot

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,default=dev"`
	Database string `env:"DATABASE_FILE,default=imeivault.db"`
	Server   struct {
		Port        string `env:"PORT,default=8080"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
		Origins     string `env:"ALLOWED_ORIGINS,default=*"`
	}
	Auth struct {
		// JWK document holding the identity provider's ES256 public key.
		PublicJWK string `env:"AUTH_PUBLIC_JWK"`
		// HMAC fallback for dev setups without a real identity provider.
		HMACSecret string `env:"AUTH_HMAC_SECRET"`
	}
	// Principals granted the admin role at boot. There is no self-escalation
	// path, so the first admin has to come from the environment.
	Admins          []string `env:"ADMIN_PRINCIPALS"`
	InvitesRequired bool     `env:"INVITES_REQUIRED,default=true"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) DatabaseFile() string {
	return c.Database
}
