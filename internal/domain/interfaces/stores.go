package interfaces

import (
	"context"

	domaintypes "murmur/internal/domain/types"
)

// Keyring is the single source of truth for local key material: the account
// identity key pair (encrypted at rest), the peer public-key cache, and the
// cached shared secrets. One unambiguous key scheme per entity.
type Keyring interface {
	// Key pairs, scoped by account. Saves overwrite atomically from the
	// caller's perspective; no partial-write state is observable.
	SaveKeyPair(account domaintypes.AccountID, passphrase string, kp domaintypes.KeyPair) error
	LoadKeyPair(account domaintypes.AccountID, passphrase string) (domaintypes.KeyPair, bool, error)

	// Peer public-key cache (raw uncompressed form), scoped by
	// (account, peer).
	SavePeerKey(account, peer domaintypes.AccountID, pub domaintypes.PublicKey) error
	LoadPeerKey(account, peer domaintypes.AccountID) (domaintypes.PublicKey, bool, error)

	// Shared-secret cache, scoped by (account, peer). Secrets are cached
	// derivations, never truth; DeleteSharedSecrets drops all of an
	// account's secrets on key rotation.
	SaveSharedSecret(account, peer domaintypes.AccountID, secret domaintypes.SharedSecret) error
	LoadSharedSecret(account, peer domaintypes.AccountID) (domaintypes.SharedSecret, bool, error)
	DeleteSharedSecrets(account domaintypes.AccountID) error
}

// MessageStore is the idempotent local message table keyed by message id.
type MessageStore interface {
	// Insert persists the message. A second insert with an existing id is
	// a silent no-op; the first write wins.
	Insert(ctx context.Context, msg *domaintypes.Message) error

	// ByConversation returns the conversation's messages ascending by
	// timestamp. Re-querying after new inserts reflects the new state.
	ByConversation(ctx context.Context, id domaintypes.ConversationID) ([]domaintypes.Message, error)

	// MarkRead sets readAt to now for every unread message in the
	// conversation. Idempotent; readAt is never cleared once set.
	MarkRead(ctx context.Context, id domaintypes.ConversationID, at int64) error

	// UpdateStatus advances the delivery status of a single message.
	UpdateStatus(ctx context.Context, id string, status domaintypes.MessageStatus) error

	Delete(ctx context.Context, id string) error
	DeleteConversation(ctx context.Context, id domaintypes.ConversationID) error
}
