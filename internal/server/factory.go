package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matheuscscp/jwks-issuer/internal/config"
	"github.com/matheuscscp/jwks-issuer/internal/issuer"
	"github.com/matheuscscp/jwks-issuer/internal/keyring"
)

// New builds the key registry, seeds it with the configured expired key and
// returns the HTTP server exposing it.
func New(conf *config.Config) (*http.Server, error) {
	return newWithRegistry(conf, keyring.New(), time.Now,
		prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newWithRegistry(conf *config.Config, keys *keyring.Registry, nowFunc func() time.Time,
	promRegisterer prometheus.Registerer, promGatherer prometheus.Gatherer) (*http.Server, error) {

	if seed := conf.Keys.Seed; !seed.Disabled {
		if _, err := keys.GenerateKeyPair(seed.KeyID, nowFunc(), -seed.ExpiredFor); err != nil {
			return nil, fmt.Errorf("failed to seed expired key: %w", err)
		}
	}

	iss := issuer.New(keys, issuer.Options{
		Subject:       conf.Tokens.Subject,
		TokenLifetime: conf.Tokens.Lifetime,
		KeyTTL:        conf.Keys.TTL,
	})

	registerKeyGauges(promRegisterer, keys, nowFunc)
	tokensIssued := newTokensIssuedCounter(promRegisterer)

	api := newAPI(iss, conf, nowFunc, tokensIssued)
	return newServer(conf, api, promRegisterer, promGatherer), nil
}
