package issuer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"

	"github.com/matheuscscp/jwks-issuer/internal/constants"
	"github.com/matheuscscp/jwks-issuer/internal/keyring"
)

const (
	defaultTokenLifetime = 30 * time.Minute
	defaultKeyTTL        = 5 * time.Minute
)

var (
	ErrNoExpiredKey = errors.New("no expired keys available")
)

type Issuer interface {
	GetJWKS(now time.Time) JWKS
	IssueToken(now time.Time, mode Mode) (string, error)
}

type Options struct {
	// Subject is the fixed sub claim of every issued token.
	Subject string
	// TokenLifetime is added to iat for normal tokens and subtracted for
	// expired ones.
	TokenLifetime time.Duration
	// KeyTTL is the lifetime of keys generated on demand.
	KeyTTL time.Duration
}

type tokenIssuer struct {
	keys          *keyring.Registry
	subject       string
	tokenLifetime time.Duration
	keyTTL        time.Duration

	newKeyID func() string
}

func New(keys *keyring.Registry, opts Options) Issuer {
	t := &tokenIssuer{
		keys:          keys,
		subject:       opts.Subject,
		tokenLifetime: opts.TokenLifetime,
		keyTTL:        opts.KeyTTL,
		newKeyID:      uuid.NewString,
	}
	if t.subject == "" {
		t.subject = constants.DefaultSubject
	}
	if t.tokenLifetime <= 0 {
		t.tokenLifetime = defaultTokenLifetime
	}
	if t.keyTTL <= 0 {
		t.keyTTL = defaultKeyTTL
	}
	return t
}

// IssueToken signs a token for the fixed subject. In ModeNormal the first
// valid key is used, and one is generated if none exists. Two concurrent
// callers may both miss and both generate; the extra key is harmless and is
// published like any other. In ModeForceExpired the first expired key is
// used and the token is born expired.
func (t *tokenIssuer) IssueToken(now time.Time, mode Mode) (string, error) {
	kp, err := t.signingKey(now, mode)
	if err != nil {
		return "", err
	}

	exp := now.Add(t.tokenLifetime)
	if mode == ModeForceExpired {
		exp = now.Add(-t.tokenLifetime)
	}

	tok, err := jwt.NewBuilder().
		Subject(t.subject).
		IssuedAt(now).
		Expiration(exp).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	b, err := kp.Sign(tok)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with key '%s': %w", kp.KeyID(), err)
	}
	signedJWT := string(b)

	// Log the token issuance.
	b, _ = json.Marshal(tok)
	var claims map[string]any
	_ = json.Unmarshal(b, &claims)
	logData := logrus.Fields{
		jwk.KeyIDKey: kp.KeyID(),
		"mode":       mode.String(),
		"claims":     claims,
	}
	logrus.WithField("token", logData).Info("token issued")

	return signedJWT, nil
}

func (t *tokenIssuer) signingKey(now time.Time, mode Mode) (*keyring.KeyPair, error) {
	switch mode {
	case ModeForceExpired:
		kp, ok := t.keys.FindExpired(now)
		if !ok {
			return nil, ErrNoExpiredKey
		}
		return kp, nil
	case ModeNormal:
		if kp, ok := t.keys.FindValid(now); ok {
			return kp, nil
		}
		kp, err := t.keys.GenerateKeyPair(t.newKeyID(), now, t.keyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		return kp, nil
	default:
		return nil, fmt.Errorf("unknown issuance mode %d", mode)
	}
}
