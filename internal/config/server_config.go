package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultServerAddr            = ":8080"
	defaultServerShutdownTimeout = 10 * time.Second
)

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	// Issuer, when set, is advertised in the OpenID configuration instead of
	// the URL derived from the request.
	Issuer          string        `yaml:"issuer" json:"issuer"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`
}

func (s *ServerConfig) validateAndInitialize() error {
	if s.Addr == "" {
		s.Addr = defaultServerAddr
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultServerShutdownTimeout
	}
	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdownTimeout must not be negative")
	}
	if s.Issuer != "" {
		u, err := url.Parse(s.Issuer)
		if err != nil {
			return fmt.Errorf("failed to parse server.issuer: %w", err)
		}
		if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return fmt.Errorf("server.issuer must be an absolute http(s) URL")
		}
		s.Issuer = strings.TrimSuffix(s.Issuer, "/")
	}
	return nil
}
