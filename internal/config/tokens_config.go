package config

import (
	"fmt"
	"time"

	"github.com/matheuscscp/jwks-issuer/internal/constants"
)

const (
	defaultTokenLifetime = 30 * time.Minute
)

type TokensConfig struct {
	Subject  string        `yaml:"subject" json:"subject"`
	Lifetime time.Duration `yaml:"lifetime" json:"lifetime"`
}

func (t *TokensConfig) validateAndInitialize() error {
	if t.Subject == "" {
		t.Subject = constants.DefaultSubject
	}
	if t.Lifetime == 0 {
		t.Lifetime = defaultTokenLifetime
	}
	if t.Lifetime < 0 {
		return fmt.Errorf("tokens.lifetime must be positive")
	}
	return nil
}
