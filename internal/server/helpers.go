package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/matheuscscp/jwks-issuer/internal/config"
	"github.com/matheuscscp/jwks-issuer/internal/constants"
	"github.com/matheuscscp/jwks-issuer/internal/issuer"
	"github.com/matheuscscp/jwks-issuer/internal/logging"
)

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func issuerURL(r *http.Request, conf *config.Config) string {
	if conf.Server.Issuer != "" {
		return conf.Server.Issuer
	}
	return baseURL(r)
}

// issuanceMode only looks at the presence of the query parameter, its value
// is ignored.
func issuanceMode(r *http.Request) issuer.Mode {
	if r.URL.Query().Has(constants.QueryParamExpired) {
		return issuer.ModeForceExpired
	}
	return issuer.ModeNormal
}

// allowMethods responds 405 and returns false if the request method is not
// one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if slices.Contains(methods, r.Method) {
		return true
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	respondMessage(w, r, http.StatusMethodNotAllowed, constants.MessageMethodNotAllowed)
	return false
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, map[string]string{
		"message": message,
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromRequest(r).WithError(err).Error("failed to write response")
	}
}
