package crypto_test

import (
	"testing"

	"murmur/internal/crypto"
	"murmur/internal/domain"
)

const (
	senderID   = domain.AccountID("0xA")
	receiverID = domain.AccountID("0xB")
)

func TestSignMessage_RoundTrip(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	signed, err := crypto.SignMessage("hello", "msg-1", senderID, receiverID, kp.Priv)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}
	if len(signed.Signature) != crypto.SignatureHexLen {
		t.Fatalf("signature length = %d, want %d", len(signed.Signature), crypto.SignatureHexLen)
	}
	if signed.Nonce == "" || signed.Timestamp == 0 {
		t.Fatal("signature nonce and timestamp must be set")
	}

	ok := crypto.VerifySignature("hello", signed.Timestamp, signed.Nonce,
		senderID, receiverID, "msg-1", signed.Signature, kp.Pub.Slice())
	if !ok {
		t.Fatal("fresh signature must verify")
	}
}

func TestVerifySignature_RejectsTampering(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	signed, err := crypto.SignMessage("hello", "msg-1", senderID, receiverID, kp.Priv)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}

	// Flipped text.
	if crypto.VerifySignature("hellp", signed.Timestamp, signed.Nonce,
		senderID, receiverID, "msg-1", signed.Signature, kp.Pub.Slice()) {
		t.Fatal("altered text must not verify")
	}

	// Flipped signature byte.
	tampered := []byte(signed.Signature)
	if tampered[10] == 'f' {
		tampered[10] = '0'
	} else {
		tampered[10] = 'f'
	}
	if crypto.VerifySignature("hello", signed.Timestamp, signed.Nonce,
		senderID, receiverID, "msg-1", string(tampered), kp.Pub.Slice()) {
		t.Fatal("altered signature must not verify")
	}

	// Different message id.
	if crypto.VerifySignature("hello", signed.Timestamp, signed.Nonce,
		senderID, receiverID, "msg-2", signed.Signature, kp.Pub.Slice()) {
		t.Fatal("altered message id must not verify")
	}

	// Wrong key.
	other, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if crypto.VerifySignature("hello", signed.Timestamp, signed.Nonce,
		senderID, receiverID, "msg-1", signed.Signature, other.Pub.Slice()) {
		t.Fatal("wrong public key must not verify")
	}
}

func TestVerifySignature_MalformedInputs(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	signed, err := crypto.SignMessage("hello", "msg-1", senderID, receiverID, kp.Priv)
	if err != nil {
		t.Fatalf("SignMessage: %v", err)
	}

	if crypto.VerifySignature("hello", signed.Timestamp, "", senderID, receiverID,
		"msg-1", signed.Signature, kp.Pub.Slice()) {
		t.Fatal("missing nonce must not verify")
	}
	if crypto.VerifySignature("hello", signed.Timestamp, signed.Nonce, senderID, receiverID,
		"msg-1", signed.Signature[:100], kp.Pub.Slice()) {
		t.Fatal("wrong-length signature must not verify")
	}
	if crypto.VerifySignature("hello", signed.Timestamp, signed.Nonce, senderID, receiverID,
		"msg-1", signed.Signature, kp.Pub.Slice()[:12]) {
		t.Fatal("malformed public key must not verify")
	}
}

func TestHashContent(t *testing.T) {
	h1 := crypto.HashContent("hello")
	h2 := crypto.HashContent("hello")
	h3 := crypto.HashContent("hellp")
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if h1 == h3 {
		t.Fatal("distinct content must hash differently")
	}
	if len(h1) != 64 {
		t.Fatalf("hash hex length = %d, want 64", len(h1))
	}
}
