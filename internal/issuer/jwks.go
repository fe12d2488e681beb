package issuer

import (
	"encoding/base64"
	"math/big"
	"time"

	"github.com/matheuscscp/jwks-issuer/internal/constants"
	"github.com/matheuscscp/jwks-issuer/internal/keyring"
)

// JWK is the public descriptor of one signing key. Field order is part of
// the wire format.
type JWK struct {
	KeyID     string `json:"kid"`
	KeyType   string `json:"kty"`
	Algorithm string `json:"alg"`
	Use       string `json:"use"`
	N         string `json:"n"`
	E         string `json:"e"`
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

// GetJWKS renders every key valid at now. An empty registry yields an empty,
// non-nil key list.
func (t *tokenIssuer) GetJWKS(now time.Time) JWKS {
	keys := []JWK{}
	for kp := range t.keys.AllValid(now) {
		keys = append(keys, descriptor(kp))
	}
	return JWKS{Keys: keys}
}

func descriptor(kp *keyring.KeyPair) JWK {
	pub := kp.RSAPublicKey()
	return JWK{
		KeyID:     kp.KeyID(),
		KeyType:   constants.KeyTypeRSA,
		Algorithm: keyring.Algorithm().String(),
		Use:       constants.KeyUseSignature,
		N:         encodeUint(pub.N),
		E:         encodeUint(big.NewInt(int64(pub.E))),
	}
}

// encodeUint encodes v as minimal big-endian bytes in unpadded base64url.
func encodeUint(v *big.Int) string {
	return base64.RawURLEncoding.EncodeToString(v.Bytes())
}
