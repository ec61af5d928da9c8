// Package trust checks message authenticity. Both checks report a boolean
// trust signal; a failed check never hides or drops the message.
package trust

import (
	"context"

	"github.com/sirupsen/logrus"

	"murmur/internal/crypto"
	"murmur/internal/domain"
)

// Service verifies message signatures against the sender's directory key
// and content hashes against the recovered plaintext.
type Service struct {
	keyring domain.Keyring
	dir     domain.KeyDirectory
	log     logrus.FieldLogger
}

// New returns a trust service backed by the given keyring and directory.
func New(keyring domain.Keyring, dir domain.KeyDirectory, log logrus.FieldLogger) *Service {
	return &Service{
		keyring: keyring,
		dir:     dir,
		log:     log.WithField("component", "trust"),
	}
}

// Verify checks msg's signature against the sender's current public key.
// Unsigned messages and key-resolution failures report false; they are
// displayed with the unverified marker, never rejected.
func (s *Service) Verify(ctx context.Context, account domain.AccountID, passphrase string, msg *domain.Message) bool {
	if msg == nil || msg.Signature == "" {
		return false
	}

	pub, ok := s.senderKey(ctx, account, passphrase, msg.Sender)
	if !ok {
		return false
	}
	return crypto.VerifySignature(msg.Text, msg.SignatureTimestamp, msg.SignatureNonce,
		msg.Sender, msg.Receiver, msg.ID, msg.Signature, pub)
}

// VerifyIntegrity recomputes the content hash and compares it with the one
// the sender attached. Messages without a hash pass vacuously.
func (s *Service) VerifyIntegrity(msg *domain.Message) bool {
	if msg == nil || msg.MessageHash == "" {
		return true
	}
	return crypto.HashContent(msg.Text) == msg.MessageHash
}

// senderKey resolves the sender's public key. The local account's own key
// comes from the keyring; a peer's comes fresh from the directory, falling
// back to the cached copy when the directory is unreachable.
func (s *Service) senderKey(ctx context.Context, account domain.AccountID, passphrase string, sender domain.AccountID) ([]byte, bool) {
	if sender == account {
		kp, ok, err := s.keyring.LoadKeyPair(account, passphrase)
		if err != nil || !ok {
			return nil, false
		}
		return kp.Pub.Slice(), true
	}

	if enc, found, err := s.dir.Resolve(ctx, sender); err == nil && found {
		raw, err := crypto.B64Decode(enc)
		if err == nil && len(raw) == domain.PublicKeySize {
			return raw, true
		}
		s.log.WithField("sender", sender).Warn("directory returned malformed public key")
	}

	cached, ok, err := s.keyring.LoadPeerKey(account, sender)
	if err != nil || !ok {
		return nil, false
	}
	return cached.Slice(), true
}

// Compile-time assertion that Service implements domain.Verifier.
var _ domain.Verifier = (*Service)(nil)
