// Package identity manages the account key pair lifecycle: generation,
// encrypted persistence, rotation and directory publication.
package identity

import (
	"context"

	"github.com/sirupsen/logrus"

	"murmur/internal/crypto"
	"murmur/internal/domain"
)

// Service creates and maintains account key pairs using a backing keyring,
// and keeps the public half published to the key directory.
type Service struct {
	keyring domain.Keyring
	dir     domain.KeyDirectory
	log     logrus.FieldLogger
}

// New returns an identity service backed by the given keyring and directory.
func New(keyring domain.Keyring, dir domain.KeyDirectory, log logrus.FieldLogger) *Service {
	return &Service{
		keyring: keyring,
		dir:     dir,
		log:     log.WithField("component", "identity"),
	}
}

// Generate draws a fresh P-256 key pair, seals it into the keyring and
// publishes the public key. A failed publication is logged and retried
// lazily via EnsurePublished; key creation itself must not fail over it.
func (s *Service) Generate(ctx context.Context, account domain.AccountID, passphrase string) (domain.KeyPair, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.keyring.SaveKeyPair(account, passphrase, kp); err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.dir.Publish(ctx, account, crypto.B64(kp.Pub.Slice())); err != nil {
		s.log.WithError(err).WithField("account", account).
			Warn("public key publication failed; will retry lazily")
	}
	return kp, nil
}

// Load opens the account's key pair and validates that the stored halves
// still belong together.
func (s *Service) Load(account domain.AccountID, passphrase string) (domain.KeyPair, bool, error) {
	kp, ok, err := s.keyring.LoadKeyPair(account, passphrase)
	if err != nil || !ok {
		return domain.KeyPair{}, false, err
	}
	if !crypto.ValidateKeyPair(kp.Pub.Slice(), kp.Priv.Slice()) {
		return domain.KeyPair{}, false, domain.New(domain.CodeStorage, "stored key pair failed validation")
	}
	return kp, true, nil
}

// Rotate replaces the account's key pair wholesale. Cached shared secrets
// derive from the old private key and are dropped in the same operation.
func (s *Service) Rotate(ctx context.Context, account domain.AccountID, passphrase string) (domain.KeyPair, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.keyring.SaveKeyPair(account, passphrase, kp); err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.keyring.DeleteSharedSecrets(account); err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.dir.Publish(ctx, account, crypto.B64(kp.Pub.Slice())); err != nil {
		s.log.WithError(err).WithField("account", account).
			Warn("rotated key publication failed; will retry lazily")
	}
	s.log.WithField("account", account).Info("key pair rotated")
	return kp, nil
}

// Validate re-derives the public key from priv and compares byte-for-byte.
func (s *Service) Validate(pub, priv []byte) bool {
	return crypto.ValidateKeyPair(pub, priv)
}

// EnsurePublished republishes the local public key when the directory does
// not carry the current value. This is the retry path for publications that
// failed during Generate or Rotate.
func (s *Service) EnsurePublished(ctx context.Context, account domain.AccountID, passphrase string) error {
	kp, ok, err := s.Load(account, passphrase)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrKeyPairNotFound
	}

	want := crypto.B64(kp.Pub.Slice())
	current, found, err := s.dir.Resolve(ctx, account)
	if err != nil {
		return err
	}
	if found && current == want {
		return nil
	}
	return s.dir.Publish(ctx, account, want)
}

// Fingerprint returns a short fingerprint of the account's public key.
func (s *Service) Fingerprint(account domain.AccountID, passphrase string) (domain.Fingerprint, error) {
	kp, ok, err := s.Load(account, passphrase)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrKeyPairNotFound
	}
	return domain.Fingerprint(crypto.Fingerprint(kp.Pub.Slice())), nil
}

// Compile-time assertion that Service implements domain.KeyPairService.
var _ domain.KeyPairService = (*Service)(nil)
