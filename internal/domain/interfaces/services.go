package interfaces

import (
	"context"

	domaintypes "murmur/internal/domain/types"
)

// KeyPairService creates, persists and validates the account identity
// key pair, and publishes the public half to the key directory.
type KeyPairService interface {
	// Generate draws a fresh key pair, persists it and publishes the
	// public key. Publication failure is logged, not fatal.
	Generate(ctx context.Context, account domaintypes.AccountID, passphrase string) (domaintypes.KeyPair, error)

	Load(account domaintypes.AccountID, passphrase string) (domaintypes.KeyPair, bool, error)

	// Rotate replaces the pair wholesale: new keys, republished public
	// key, all cached shared secrets invalidated.
	Rotate(ctx context.Context, account domaintypes.AccountID, passphrase string) (domaintypes.KeyPair, error)

	// Validate re-derives the public key from priv and compares
	// byte-for-byte. Never fails on malformed input, only reports false.
	Validate(pub, priv []byte) bool

	// EnsurePublished republishes the local public key if the directory
	// does not currently carry it. Lazy retry path for failed publishes.
	EnsurePublished(ctx context.Context, account domaintypes.AccountID, passphrase string) error

	Fingerprint(account domaintypes.AccountID, passphrase string) (domaintypes.Fingerprint, error)
}

// SecretService derives and caches per-peer shared secrets.
type SecretService interface {
	// Secret returns the cached secret for (account, peer), deriving and
	// caching it on first contact.
	Secret(ctx context.Context, account domaintypes.AccountID, passphrase string, peer domaintypes.AccountID) (domaintypes.SharedSecret, error)

	// SyncIfStale compares the cached peer key against the directory's
	// current value and re-derives on mismatch. Reports whether a
	// re-derivation happened.
	SyncIfStale(ctx context.Context, account domaintypes.AccountID, passphrase string, peer domaintypes.AccountID) (bool, error)

	// Invalidate drops every cached secret for the account (local key
	// rotation).
	Invalidate(account domaintypes.AccountID) error
}

// Verifier checks message signatures and content hashes. Both checks return
// false rather than erroring; a failed check is a trust signal, not a reason
// to hide the message.
type Verifier interface {
	Verify(ctx context.Context, account domaintypes.AccountID, passphrase string, msg *domaintypes.Message) bool
	VerifyIntegrity(msg *domaintypes.Message) bool
}

// MessageService is the outbound flow plus conversation queries: encrypt,
// sign, optimistic insert, publish.
type MessageService interface {
	Send(ctx context.Context, account domaintypes.AccountID, passphrase string, peer domaintypes.AccountID, text string) (domaintypes.Message, error)
	History(ctx context.Context, id domaintypes.ConversationID) ([]domaintypes.Message, error)
	MarkRead(ctx context.Context, id domaintypes.ConversationID) error
	Delete(ctx context.Context, id string) error
	DeleteConversation(ctx context.Context, id domaintypes.ConversationID) error
}

// Reconciler consumes inbound envelopes: decrypt, verify, persist,
// acknowledge, notify.
type Reconciler interface {
	// Start attaches a long-lived subscription for the account. The
	// returned Unsubscribe (and ctx cancellation) detaches it; a leaked
	// listener keeps writing to a stale account's store.
	Start(ctx context.Context, account domaintypes.AccountID, passphrase string) (Unsubscribe, error)

	// Drain fetches the inbox once and reconciles every envelope in it.
	Drain(ctx context.Context, account domaintypes.AccountID, passphrase string) ([]domaintypes.Message, error)
}
