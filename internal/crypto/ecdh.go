package crypto

import (
	"crypto/ecdh"

	"murmur/internal/domain"
)

// DeriveSharedSecret performs P-256 ECDH between the local private key and a
// peer's uncompressed public key. The secret is the raw 32-byte x-coordinate
// of the shared point, so both sides derive the same value regardless of
// direction.
//
// The peer key is rejected with an INVALID_PEER_KEY error when it has the
// wrong length, the wrong leading byte, or does not decode to a point on the
// curve.
func DeriveSharedSecret(priv domain.PrivateKey, peerPub []byte) (domain.SharedSecret, error) {
	var secret domain.SharedSecret
	if len(peerPub) != domain.PublicKeySize || peerPub[0] != 0x04 {
		return secret, domain.ErrInvalidPeerKey
	}
	pk, err := ecdh.P256().NewPublicKey(peerPub)
	if err != nil {
		return secret, domain.Wrap(domain.CodeInvalidPeerKey, "decode peer public key", err)
	}
	sk, err := ecdh.P256().NewPrivateKey(priv.Slice())
	if err != nil {
		return secret, err
	}
	shared, err := sk.ECDH(pk)
	if err != nil {
		return secret, domain.Wrap(domain.CodeInvalidPeerKey, "ecdh", err)
	}
	copy(secret[:], shared)
	return secret, nil
}

// Compress converts an uncompressed P-256 point to its 33-byte compressed
// form. Staleness checks compare compressed forms.
func Compress(pub []byte) ([]byte, error) {
	if len(pub) != domain.PublicKeySize || pub[0] != 0x04 {
		return nil, domain.ErrInvalidPeerKey
	}
	if _, err := ecdh.P256().NewPublicKey(pub); err != nil {
		return nil, domain.Wrap(domain.CodeInvalidPeerKey, "decode public key", err)
	}
	out := make([]byte, domain.CompressedKeySize)
	out[0] = 0x02 | (pub[domain.PublicKeySize-1] & 1)
	copy(out[1:], pub[1:33])
	return out, nil
}
