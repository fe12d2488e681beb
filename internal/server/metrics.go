package server

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matheuscscp/jwks-issuer/internal/constants"
	"github.com/matheuscscp/jwks-issuer/internal/keyring"
)

var metricsNamespace = prometheusName(constants.JWKSIssuer)

func newTokensIssuedCounter(promRegisterer prometheus.Registerer) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "tokens_issued_total",
		Help:      "Number of signed tokens issued, by issuance mode",
	}, []string{"mode"})
	promRegisterer.MustRegister(c)
	return c
}

// registerKeyGauges exposes the number of valid and expired signing keys,
// evaluated at scrape time.
func registerKeyGauges(promRegisterer prometheus.Registerer, keys *keyring.Registry, nowFunc func() time.Time) {
	for _, state := range []string{"valid", "expired"} {
		promRegisterer.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "signing_keys",
			Help:        "Number of signing keys in the registry, by state",
			ConstLabels: prometheus.Labels{"state": state},
		}, func() float64 {
			valid, expired := keys.Count(nowFunc())
			if state == "valid" {
				return float64(valid)
			}
			return float64(expired)
		}))
	}
}

func prometheusName(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}
