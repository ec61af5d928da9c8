package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"murmur/internal/crypto"
	"murmur/internal/domain"
	"murmur/internal/util/memzero"
)

const (
	keyPairsFilename = "keypairs.json"
	peerKeysFilename = "peer_keys.json"
	secretsFilename  = "secrets.json"
)

// keyPairRecord is the plaintext layout sealed inside the encrypted envelope.
type keyPairRecord struct {
	Priv string `json:"priv"`
	Pub  string `json:"pub"`
}

// FileKeyring persists key material under dir. The account key pair is
// encrypted at rest under the passphrase; peer keys and cached shared
// secrets are plain JSON since they are public or rederivable.
type FileKeyring struct {
	dir string
	mu  sync.Mutex
}

// NewFileKeyring returns a FileKeyring rooted at dir.
func NewFileKeyring(dir string) *FileKeyring {
	return &FileKeyring{dir: dir}
}

// cacheKey is the single scoping scheme for per-peer entries.
func cacheKey(account, peer domain.AccountID) string {
	return string(account) + "|" + string(peer)
}

// SaveKeyPair seals kp under passphrase and stores it for account. The write
// replaces any previous pair atomically.
func (s *FileKeyring) SaveKeyPair(account domain.AccountID, passphrase string, kp domain.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(keyPairRecord{
		Priv: crypto.B64(kp.Priv.Slice()),
		Pub:  crypto.B64(kp.Pub.Slice()),
	})
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return domain.Wrap(domain.CodeStorage, "seal key pair", err)
	}

	path := filepath.Join(s.dir, keyPairsFilename)
	pairs := map[domain.AccountID][]byte{}
	if err := readJSON(path, &pairs); err != nil {
		return domain.Wrap(domain.CodeStorage, "load key pairs", err)
	}
	pairs[account] = ct
	if err := writeJSON(path, pairs, 0o600); err != nil {
		return domain.Wrap(domain.CodeStorage, "store key pairs", err)
	}
	return nil
}

// LoadKeyPair opens the sealed key pair for account. The second return is
// false when no pair exists.
func (s *FileKeyring) LoadKeyPair(account domain.AccountID, passphrase string) (domain.KeyPair, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, keyPairsFilename)
	pairs := map[domain.AccountID][]byte{}
	if err := readJSON(path, &pairs); err != nil {
		return domain.KeyPair{}, false, domain.Wrap(domain.CodeStorage, "load key pairs", err)
	}
	ct, ok := pairs[account]
	if !ok {
		return domain.KeyPair{}, false, nil
	}

	pt, err := decrypt(passphrase, ct)
	if err != nil {
		return domain.KeyPair{}, false, err
	}
	defer memzero.Zero(pt)
	var rec keyPairRecord
	if err := json.Unmarshal(pt, &rec); err != nil {
		return domain.KeyPair{}, false, domain.Wrap(domain.CodeStorage, "decode key pair", err)
	}
	priv, err := crypto.B64Decode(rec.Priv)
	if err != nil {
		return domain.KeyPair{}, false, domain.Wrap(domain.CodeStorage, "decode private key", err)
	}
	defer memzero.Zero(priv)
	pub, err := crypto.B64Decode(rec.Pub)
	if err != nil {
		return domain.KeyPair{}, false, domain.Wrap(domain.CodeStorage, "decode public key", err)
	}
	if len(priv) != domain.PrivateKeySize || len(pub) != domain.PublicKeySize {
		return domain.KeyPair{}, false, domain.New(domain.CodeStorage, "stored key pair has wrong size")
	}

	var kp domain.KeyPair
	copy(kp.Priv[:], priv)
	copy(kp.Pub[:], pub)
	return kp, true, nil
}

// SavePeerKey caches peer's public key for account.
func (s *FileKeyring) SavePeerKey(account, peer domain.AccountID, pub domain.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, peerKeysFilename)
	keys := map[string]string{}
	if err := readJSON(path, &keys); err != nil {
		return domain.Wrap(domain.CodeStorage, "load peer keys", err)
	}
	keys[cacheKey(account, peer)] = crypto.B64(pub.Slice())
	if err := writeJSON(path, keys, 0o600); err != nil {
		return domain.Wrap(domain.CodeStorage, "store peer keys", err)
	}
	return nil
}

// LoadPeerKey retrieves the cached public key of peer for account.
func (s *FileKeyring) LoadPeerKey(account, peer domain.AccountID) (domain.PublicKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, peerKeysFilename)
	keys := map[string]string{}
	if err := readJSON(path, &keys); err != nil {
		return domain.PublicKey{}, false, domain.Wrap(domain.CodeStorage, "load peer keys", err)
	}
	enc, ok := keys[cacheKey(account, peer)]
	if !ok {
		return domain.PublicKey{}, false, nil
	}
	raw, err := crypto.B64Decode(enc)
	if err != nil || len(raw) != domain.PublicKeySize {
		return domain.PublicKey{}, false, domain.New(domain.CodeStorage, "corrupted peer key entry")
	}
	var pub domain.PublicKey
	copy(pub[:], raw)
	return pub, true, nil
}

// SaveSharedSecret caches the derived secret for (account, peer).
func (s *FileKeyring) SaveSharedSecret(account, peer domain.AccountID, secret domain.SharedSecret) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, secretsFilename)
	secrets := map[string]string{}
	if err := readJSON(path, &secrets); err != nil {
		return domain.Wrap(domain.CodeStorage, "load shared secrets", err)
	}
	secrets[cacheKey(account, peer)] = crypto.B64(secret.Slice())
	if err := writeJSON(path, secrets, 0o600); err != nil {
		return domain.Wrap(domain.CodeStorage, "store shared secrets", err)
	}
	return nil
}

// LoadSharedSecret retrieves the cached secret for (account, peer).
func (s *FileKeyring) LoadSharedSecret(account, peer domain.AccountID) (domain.SharedSecret, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, secretsFilename)
	secrets := map[string]string{}
	if err := readJSON(path, &secrets); err != nil {
		return domain.SharedSecret{}, false, domain.Wrap(domain.CodeStorage, "load shared secrets", err)
	}
	enc, ok := secrets[cacheKey(account, peer)]
	if !ok {
		return domain.SharedSecret{}, false, nil
	}
	raw, err := crypto.B64Decode(enc)
	if err != nil || len(raw) != domain.SharedSecretSize {
		return domain.SharedSecret{}, false, domain.New(domain.CodeStorage, "corrupted shared secret entry")
	}
	var secret domain.SharedSecret
	copy(secret[:], raw)
	return secret, true, nil
}

// DeleteSharedSecrets drops every cached secret belonging to account. Called
// on key rotation so stale derivations cannot outlive the old key.
func (s *FileKeyring) DeleteSharedSecrets(account domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, secretsFilename)
	secrets := map[string]string{}
	if err := readJSON(path, &secrets); err != nil {
		return domain.Wrap(domain.CodeStorage, "load shared secrets", err)
	}
	prefix := string(account) + "|"
	for k := range secrets {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(secrets, k)
		}
	}
	if err := writeJSON(path, secrets, 0o600); err != nil {
		return domain.Wrap(domain.CodeStorage, "store shared secrets", err)
	}
	return nil
}

// Compile-time assertion that FileKeyring implements domain.Keyring.
var _ domain.Keyring = (*FileKeyring)(nil)
