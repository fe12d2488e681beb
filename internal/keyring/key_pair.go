package keyring

import (
	"crypto/rsa"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Algorithm is the signature algorithm of every key in a Registry.
func Algorithm() jwa.SignatureAlgorithm { return jwa.RS256() }

// KeyPair is an RSA signing key and its public half. A KeyPair is never
// modified after it is stored in a Registry.
type KeyPair struct {
	keyID     string
	private   jwk.Key
	public    jwk.Key
	rsaPublic *rsa.PublicKey
	expiresAt time.Time
}

// KeyID is the unique identifier carried as kid in tokens and in the JWKS.
func (k *KeyPair) KeyID() string { return k.keyID }

// ExpiresAt is the instant from which the key is no longer valid.
func (k *KeyPair) ExpiresAt() time.Time { return k.expiresAt }

// PublicKey returns the public half as a JWK with kid and alg set.
func (k *KeyPair) PublicKey() jwk.Key { return k.public }

// RSAPublicKey returns the raw public half.
func (k *KeyPair) RSAPublicKey() *rsa.PublicKey { return k.rsaPublic }

// Valid reports whether the key may still be used for signing and
// publication at now.
func (k *KeyPair) Valid(now time.Time) bool {
	return k != nil && k.expiresAt.After(now)
}

// Sign serializes tok in compact form signed with the private key. The key
// ID is carried in the protected header.
func (k *KeyPair) Sign(tok jwt.Token) ([]byte, error) {
	return jwt.Sign(tok, jwt.WithKey(Algorithm(), k.private))
}
