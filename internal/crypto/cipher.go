package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"

	"murmur/internal/domain"
)

// NonceSize is the AES-GCM nonce length. A nonce must never be reused with
// the same key; callers draw a fresh random nonce per message.
const NonceSize = 12

// NewNonce returns a fresh random 12-byte nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, domain.Wrap(domain.CodeEntropy, "generate nonce", err)
	}
	return nonce, nil
}

// Encrypt seals plaintext with AES-256-GCM under key and nonce and returns
// the hex-encoded ciphertext (tag appended).
func Encrypt(plaintext string, key domain.SharedSecret, nonce []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(nonce) != NonceSize {
		return "", domain.New(domain.CodeUnknown, "nonce must be 12 bytes")
	}
	ct := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ct), nil
}

// Decrypt opens a hex-encoded AES-256-GCM ciphertext. Malformed hex, a wrong
// key or a failed authentication tag all yield ErrDecryptionFailed; callers
// substitute a placeholder rather than dropping the message.
func Decrypt(ciphertextHex string, key domain.SharedSecret, nonce []byte) (string, error) {
	if len(nonce) != NonceSize {
		return "", domain.ErrDecryptionFailed
	}
	ct, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return string(pt), nil
}

func newGCM(key domain.SharedSecret) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.Slice())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
