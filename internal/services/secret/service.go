// Package secret derives and caches per-peer shared secrets. Cached entries
// are derivations, never truth; the directory's current peer key wins on any
// disagreement.
package secret

import (
	"bytes"
	"context"

	"github.com/sirupsen/logrus"

	"murmur/internal/crypto"
	"murmur/internal/domain"
)

// Service resolves peer keys through the directory and turns them into
// cached ECDH shared secrets.
type Service struct {
	keyring domain.Keyring
	dir     domain.KeyDirectory
	log     logrus.FieldLogger
}

// New returns a secret service backed by the given keyring and directory.
func New(keyring domain.Keyring, dir domain.KeyDirectory, log logrus.FieldLogger) *Service {
	return &Service{
		keyring: keyring,
		dir:     dir,
		log:     log.WithField("component", "secret"),
	}
}

// Secret returns the shared secret between account and peer, deriving and
// caching it on first contact.
func (s *Service) Secret(ctx context.Context, account domain.AccountID, passphrase string, peer domain.AccountID) (domain.SharedSecret, error) {
	if cached, ok, err := s.keyring.LoadSharedSecret(account, peer); err != nil {
		return domain.SharedSecret{}, err
	} else if ok {
		return cached, nil
	}

	peerPub, ok, err := s.keyring.LoadPeerKey(account, peer)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	if !ok {
		peerPub, err = s.resolvePeerKey(ctx, account, peer)
		if err != nil {
			return domain.SharedSecret{}, err
		}
	}

	return s.derive(account, passphrase, peer, peerPub)
}

// SyncIfStale compares the cached peer key with the directory's current
// value and re-derives the secret on mismatch. Keys are compared in
// compressed form. Reports whether a re-derivation happened.
func (s *Service) SyncIfStale(ctx context.Context, account domain.AccountID, passphrase string, peer domain.AccountID) (bool, error) {
	cached, ok, err := s.keyring.LoadPeerKey(account, peer)
	if err != nil || !ok {
		return false, err
	}

	currentB64, found, err := s.dir.Resolve(ctx, peer)
	if err != nil || !found {
		// Unreachable or unpublished directory entry: keep the cache.
		return false, err
	}
	current, err := crypto.B64Decode(currentB64)
	if err != nil || len(current) != domain.PublicKeySize {
		return false, domain.ErrInvalidPeerKey
	}

	cachedCmp, err := crypto.Compress(cached.Slice())
	if err != nil {
		return false, err
	}
	currentCmp, err := crypto.Compress(current)
	if err != nil {
		return false, err
	}
	if bytes.Equal(cachedCmp, currentCmp) {
		return false, nil
	}

	s.log.WithFields(logrus.Fields{"account": account, "peer": peer}).
		Info("peer key rotated; re-deriving shared secret")

	var pub domain.PublicKey
	copy(pub[:], current)
	if err := s.keyring.SavePeerKey(account, peer, pub); err != nil {
		return false, err
	}
	if _, err := s.derive(account, passphrase, peer, pub); err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate drops every cached secret belonging to account.
func (s *Service) Invalidate(account domain.AccountID) error {
	return s.keyring.DeleteSharedSecrets(account)
}

// resolvePeerKey fetches peer's key from the directory and caches it.
func (s *Service) resolvePeerKey(ctx context.Context, account, peer domain.AccountID) (domain.PublicKey, error) {
	enc, found, err := s.dir.Resolve(ctx, peer)
	if err != nil {
		return domain.PublicKey{}, err
	}
	if !found {
		return domain.PublicKey{}, domain.ErrPeerKeyNotFound
	}
	raw, err := crypto.B64Decode(enc)
	if err != nil || len(raw) != domain.PublicKeySize {
		return domain.PublicKey{}, domain.ErrInvalidPeerKey
	}

	var pub domain.PublicKey
	copy(pub[:], raw)
	if err := s.keyring.SavePeerKey(account, peer, pub); err != nil {
		return domain.PublicKey{}, err
	}
	return pub, nil
}

// derive computes and caches the ECDH secret against peerPub.
func (s *Service) derive(account domain.AccountID, passphrase string, peer domain.AccountID, peerPub domain.PublicKey) (domain.SharedSecret, error) {
	kp, ok, err := s.keyring.LoadKeyPair(account, passphrase)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	if !ok {
		return domain.SharedSecret{}, domain.ErrKeyPairNotFound
	}
	secret, err := crypto.DeriveSharedSecret(kp.Priv, peerPub.Slice())
	if err != nil {
		return domain.SharedSecret{}, err
	}
	if err := s.keyring.SaveSharedSecret(account, peer, secret); err != nil {
		return domain.SharedSecret{}, err
	}
	return secret, nil
}

// Compile-time assertion that Service implements domain.SecretService.
var _ domain.SecretService = (*Service)(nil)
