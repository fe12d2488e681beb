package keyring

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

const (
	keyBits = 2048
)

var (
	ErrEmptyKeyID     = errors.New("key ID must not be empty")
	ErrDuplicateKeyID = errors.New("key ID already exists")
	ErrKeyGeneration  = errors.New("key generation failed")
)

// Registry holds every key pair generated during the life of the process in
// insertion order. Records are never removed or updated.
type Registry struct {
	mu      sync.RWMutex
	records []*KeyPair
	byID    map[string]*KeyPair

	generateKey func() (*rsa.PrivateKey, error)
}

func New() *Registry {
	return &Registry{
		byID: make(map[string]*KeyPair),
	}
}

// GenerateKeyPair creates a key pair expiring at now+ttl and stores it under
// keyID. A negative ttl produces a key that is already expired.
func (r *Registry) GenerateKeyPair(keyID string, now time.Time, ttl time.Duration) (*KeyPair, error) {
	if keyID == "" {
		return nil, ErrEmptyKeyID
	}
	if r.has(keyID) {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateKeyID, keyID)
	}

	// RSA generation is slow, keep it outside the lock.
	kp, err := r.newKeyPair(keyID, now.UTC().Add(ttl))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	r.mu.Lock()
	if _, ok := r.byID[keyID]; ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateKeyID, keyID)
	}
	r.records = append(r.records, kp)
	r.byID[keyID] = kp
	size := len(r.records)
	r.mu.Unlock()

	logData := logrus.Fields{
		jwk.KeyIDKey: keyID,
		"expiresAt":  kp.expiresAt,
		"expired":    !kp.Valid(now),
		"size":       size,
	}
	logrus.WithField("key", logData).Info("key generated")

	return kp, nil
}

// FindValid returns the first key, in insertion order, that is valid at now.
func (r *Registry) FindValid(now time.Time) (*KeyPair, bool) {
	return r.find(func(k *KeyPair) bool { return k.Valid(now) })
}

// FindExpired returns the first key, in insertion order, that is expired at now.
func (r *Registry) FindExpired(now time.Time) (*KeyPair, bool) {
	return r.find(func(k *KeyPair) bool { return !k.Valid(now) })
}

// AllValid yields every key valid at now in insertion order. Each iteration
// works on a snapshot taken when it starts, so the sequence can be ranged
// over more than once and the lock is not held while yielding.
func (r *Registry) AllValid(now time.Time) iter.Seq[*KeyPair] {
	return func(yield func(*KeyPair) bool) {
		for _, k := range r.snapshot() {
			if !k.Valid(now) {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

// Count returns how many keys are valid and expired at now.
func (r *Registry) Count(now time.Time) (valid, expired int) {
	for _, k := range r.snapshot() {
		if k.Valid(now) {
			valid++
		} else {
			expired++
		}
	}
	return
}

func (r *Registry) find(match func(*KeyPair) bool) (*KeyPair, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.records {
		if match(k) {
			return k, true
		}
	}
	return nil, false
}

func (r *Registry) has(keyID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[keyID]
	return ok
}

// snapshot relies on records being append-only: elements below the length
// observed under the lock are never rewritten.
func (r *Registry) snapshot() []*KeyPair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[:len(r.records):len(r.records)]
}

func (r *Registry) newKeyPair(keyID string, expiresAt time.Time) (*KeyPair, error) {
	generateKey := generateRSAKey
	if r.generateKey != nil {
		generateKey = r.generateKey
	}
	priv, err := generateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate rsa key: %w", err)
	}

	private, err := jwk.Import(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to convert rsa key to jwk: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key from jwk: %w", err)
	}

	for _, key := range []jwk.Key{private, public} {
		if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
			return nil, fmt.Errorf("failed to set key ID: %w", err)
		}
		if err := key.Set(jwk.AlgorithmKey, Algorithm()); err != nil {
			return nil, fmt.Errorf("failed to set key algorithm: %w", err)
		}
	}

	return &KeyPair{
		keyID:     keyID,
		private:   private,
		public:    public,
		rsaPublic: &priv.PublicKey,
		expiresAt: expiresAt,
	}, nil
}

func generateRSAKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, keyBits)
}
