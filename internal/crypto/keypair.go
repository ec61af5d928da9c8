package crypto

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"

	"murmur/internal/domain"
)

// GenerateKeyPair returns a fresh P-256 identity key pair. The private key
// is a 32-byte scalar, the public key the uncompressed point. Fails only on
// entropy-source failure.
func GenerateKeyPair() (domain.KeyPair, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return domain.KeyPair{}, domain.Wrap(domain.CodeEntropy, "generate key pair", err)
	}
	var kp domain.KeyPair
	copy(kp.Priv[:], priv.Bytes())
	copy(kp.Pub[:], priv.PublicKey().Bytes())
	return kp, nil
}

// DerivePublicKey recomputes the uncompressed public point for priv.
func DerivePublicKey(priv []byte) (domain.PublicKey, error) {
	var pub domain.PublicKey
	k, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return pub, err
	}
	copy(pub[:], k.PublicKey().Bytes())
	return pub, nil
}

// ValidateKeyPair re-derives the public key from priv and compares
// byte-for-byte against pub. Malformed input yields false, never an error.
func ValidateKeyPair(pub, priv []byte) bool {
	if len(priv) != domain.PrivateKeySize || len(pub) != domain.PublicKeySize {
		return false
	}
	derived, err := DerivePublicKey(priv)
	if err != nil {
		return false
	}
	return bytes.Equal(derived.Slice(), pub)
}
