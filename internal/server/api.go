package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matheuscscp/jwks-issuer/internal/config"
	"github.com/matheuscscp/jwks-issuer/internal/constants"
	"github.com/matheuscscp/jwks-issuer/internal/issuer"
	"github.com/matheuscscp/jwks-issuer/internal/keyring"
	"github.com/matheuscscp/jwks-issuer/internal/logging"
)

const (
	// Token issuance. The presence of the "expired" query parameter selects
	// an expired signing key and an already expired token.
	pathAuth = "/auth"

	// OIDC endpoints.
	pathOpenIDConfiguration = "/.well-known/openid-configuration"
	pathJWKS                = "/.well-known/jwks.json"
)

func newAPI(ti issuer.Issuer, conf *config.Config, nowFunc func() time.Time,
	tokensIssued *prometheus.CounterVec) http.Handler {

	mux := http.NewServeMux()

	mux.HandleFunc(pathJWKS, func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		respondJSON(w, r, http.StatusOK, ti.GetJWKS(nowFunc()))
	})

	mux.HandleFunc(pathAuth, func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodPost) {
			return
		}

		l := logging.FromRequest(r)
		mode := issuanceMode(r)

		token, err := ti.IssueToken(nowFunc(), mode)
		switch {
		case errors.Is(err, issuer.ErrNoExpiredKey):
			l.WithError(err).Warn("expired token requested but no expired key exists")
			respondMessage(w, r, http.StatusBadRequest, constants.MessageNoExpiredKeys)
			return
		case err != nil:
			l.WithError(err).WithField("mode", mode.String()).Error("failed to issue token")
			respondMessage(w, r, http.StatusInternalServerError, constants.MessageInternalServerError)
			return
		}

		tokensIssued.WithLabelValues(mode.String()).Inc()
		respondJSON(w, r, http.StatusOK, map[string]string{
			"token": token,
		})
	})

	mux.HandleFunc(pathOpenIDConfiguration, func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		iss := issuerURL(r, conf)
		respondJSON(w, r, http.StatusOK, map[string]any{
			"issuer":                                iss,
			"jwks_uri":                              iss + pathJWKS,
			"id_token_signing_alg_values_supported": []string{keyring.Algorithm().String()},
			"subject_types_supported":               []string{constants.OpenIDSubjectType},
		})
	})

	return mux
}
