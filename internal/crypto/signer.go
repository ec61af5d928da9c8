package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"time"

	"murmur/internal/domain"
)

const (
	// SignatureHexLen is the exact length of a compact signature on the
	// wire: 64 bytes of r||s, hex-encoded. Anything else is an encoding
	// defect and must not verify.
	SignatureHexLen = 128

	signatureNonceBytes = 16

	// canonicalDelimiter joins the signature payload fields. Field order
	// and delimiter are a protocol contract; any change breaks
	// verification against existing peers.
	canonicalDelimiter = "|"
)

// Signed carries the signature material attached to an outbound message.
type Signed struct {
	Signature string // compact r||s, hex, exactly 128 chars
	Nonce     string // random nonce bound into the signed payload, hex
	Timestamp int64  // signing time, bound into the signed payload
	Hash      string // SHA-256 of the plaintext, hex
}

// SignMessage signs the canonical payload for the message with a fresh
// nonce and the current timestamp, returning the compact signature.
func SignMessage(text, id string, sender, receiver domain.AccountID, priv domain.PrivateKey) (Signed, error) {
	nonce := make([]byte, signatureNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return Signed{}, domain.Wrap(domain.CodeEntropy, "generate signature nonce", err)
	}
	nonceHex := hex.EncodeToString(nonce)
	ts := time.Now().UnixMilli()

	key, err := ecdsaPrivate(priv)
	if err != nil {
		return Signed{}, err
	}
	digest := payloadDigest(text, ts, nonceHex, sender, receiver, id)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest)
	if err != nil {
		return Signed{}, err
	}

	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	sigHex := hex.EncodeToString(sig)
	if len(sigHex) != SignatureHexLen {
		return Signed{}, domain.New(domain.CodeSignatureInvalid, "compact signature encoding defect")
	}

	return Signed{
		Signature: sigHex,
		Nonce:     nonceHex,
		Timestamp: ts,
		Hash:      HashContent(text),
	}, nil
}

// VerifySignature rebuilds the canonical payload from the message's own
// fields and checks the compact signature against pub. Missing fields, a
// wrong-length signature, a malformed key or a cryptographic mismatch all
// return false; it never panics or errors.
func VerifySignature(text string, ts int64, nonce string, sender, receiver domain.AccountID, id, sigHex string, pub []byte) bool {
	if sigHex == "" || nonce == "" || len(sigHex) != SignatureHexLen {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != 64 {
		return false
	}
	key, err := ecdsaPublic(pub)
	if err != nil {
		return false
	}
	digest := payloadDigest(text, ts, nonce, sender, receiver, id)
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	return ecdsa.Verify(key, digest, r, s)
}

// HashContent returns the SHA-256 of the plaintext, hex-encoded. Stored as
// messageHash and rechecked independently of the signature.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// payloadDigest hashes the ordered canonical payload
// text|timestamp|nonce|sender|receiver|id.
func payloadDigest(text string, ts int64, nonce string, sender, receiver domain.AccountID, id string) []byte {
	payload := strings.Join([]string{
		text,
		strconv.FormatInt(ts, 10),
		nonce,
		sender.String(),
		receiver.String(),
		id,
	}, canonicalDelimiter)
	sum := sha256.Sum256([]byte(payload))
	return sum[:]
}

func ecdsaPrivate(priv domain.PrivateKey) (*ecdsa.PrivateKey, error) {
	pub, err := DerivePublicKey(priv.Slice())
	if err != nil {
		return nil, err
	}
	pk, err := ecdsaPublic(pub.Slice())
	if err != nil {
		return nil, err
	}
	return &ecdsa.PrivateKey{
		PublicKey: *pk,
		D:         new(big.Int).SetBytes(priv.Slice()),
	}, nil
}

func ecdsaPublic(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != domain.PublicKeySize || pub[0] != 0x04 {
		return nil, domain.ErrInvalidPeerKey
	}
	x := new(big.Int).SetBytes(pub[1:33])
	y := new(big.Int).SetBytes(pub[33:])
	if !elliptic.P256().IsOnCurve(x, y) {
		return nil, domain.ErrInvalidPeerKey
	}
	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
}
