package crypto_test

import (
	"testing"

	"murmur/internal/crypto"
	"murmur/internal/domain"
)

func testSecret(t *testing.T) domain.SharedSecret {
	t.Helper()
	a, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	b, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	secret, err := crypto.DeriveSharedSecret(a.Priv, b.Pub.Slice())
	if err != nil {
		t.Fatalf("DeriveSharedSecret: %v", err)
	}
	return secret
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testSecret(t)
	nonce, err := crypto.NewNonce()
	if err != nil {
		t.Fatalf("NewNonce: %v", err)
	}

	for _, plaintext := range []string{"hello", "", "héllo wörld 🙂", "a longer message that spans more than one block of the cipher"} {
		ct, err := crypto.Encrypt(plaintext, key, nonce)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plaintext, err)
		}
		got, err := crypto.Decrypt(ct, key, nonce)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", plaintext, err)
		}
		if got != plaintext {
			t.Fatalf("round trip: got %q, want %q", got, plaintext)
		}
	}
}

func TestEncrypt_NonceSensitivity(t *testing.T) {
	key := testSecret(t)
	n1, err := crypto.NewNonce()
	if err != nil {
		t.Fatalf("NewNonce: %v", err)
	}
	n2, err := crypto.NewNonce()
	if err != nil {
		t.Fatalf("NewNonce: %v", err)
	}

	c1, err := crypto.Encrypt("hello", key, n1)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	c2, err := crypto.Encrypt("hello", key, n2)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if c1 == c2 {
		t.Fatal("distinct nonces must produce distinct ciphertexts")
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key := testSecret(t)
	nonce, err := crypto.NewNonce()
	if err != nil {
		t.Fatalf("NewNonce: %v", err)
	}
	ct, err := crypto.Encrypt("hello", key, nonce)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Flip one hex character.
	tampered := []byte(ct)
	if tampered[0] == 'f' {
		tampered[0] = '0'
	} else {
		tampered[0] = 'f'
	}

	if _, err := crypto.Decrypt(string(tampered), key, nonce); domain.ErrCode(err) != domain.CodeDecryptionFailed {
		t.Fatalf("tampered ciphertext: want DECRYPTION_FAILED, got %v", err)
	}
}

func TestDecrypt_WrongKeyAndBadHex(t *testing.T) {
	key := testSecret(t)
	other := testSecret(t)
	nonce, err := crypto.NewNonce()
	if err != nil {
		t.Fatalf("NewNonce: %v", err)
	}
	ct, err := crypto.Encrypt("hello", key, nonce)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := crypto.Decrypt(ct, other, nonce); domain.ErrCode(err) != domain.CodeDecryptionFailed {
		t.Fatalf("wrong key: want DECRYPTION_FAILED, got %v", err)
	}
	if _, err := crypto.Decrypt("not-hex", key, nonce); domain.ErrCode(err) != domain.CodeDecryptionFailed {
		t.Fatalf("bad hex: want DECRYPTION_FAILED, got %v", err)
	}
}
