package config

import (
	"fmt"
	"time"

	"github.com/matheuscscp/jwks-issuer/internal/constants"
)

const (
	defaultKeyTTL         = 5 * time.Minute
	defaultSeedExpiredFor = 10 * time.Minute
)

type KeysConfig struct {
	// TTL is the lifetime of keys generated when no valid key exists.
	TTL  time.Duration `yaml:"ttl" json:"ttl"`
	Seed SeedConfig    `yaml:"seed" json:"seed"`
}

// SeedConfig describes the already expired key created at startup so that
// expired tokens can be issued.
type SeedConfig struct {
	Disabled   bool          `yaml:"disabled" json:"disabled"`
	KeyID      string        `yaml:"keyID" json:"keyID"`
	ExpiredFor time.Duration `yaml:"expiredFor" json:"expiredFor"`
}

func (k *KeysConfig) validateAndInitialize() error {
	if k.TTL == 0 {
		k.TTL = defaultKeyTTL
	}
	if k.TTL < 0 {
		return fmt.Errorf("keys.ttl must be positive")
	}
	if k.Seed.KeyID == "" {
		k.Seed.KeyID = constants.SeedKeyID
	}
	if k.Seed.ExpiredFor == 0 {
		k.Seed.ExpiredFor = defaultSeedExpiredFor
	}
	if k.Seed.ExpiredFor < 0 {
		return fmt.Errorf("keys.seed.expiredFor must be positive")
	}
	return nil
}
