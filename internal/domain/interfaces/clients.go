package interfaces

import (
	"context"

	domaintypes "murmur/internal/domain/types"
)

// KeyDirectory is the external profile directory mapping account ids to
// their current public key, base64-encoded.
type KeyDirectory interface {
	Publish(ctx context.Context, account domaintypes.AccountID, publicKeyB64 string) error
	// Resolve returns the directory's current key for account, reporting
	// absence without error.
	Resolve(ctx context.Context, account domaintypes.AccountID) (string, bool, error)
}

// EnvelopeHandler is invoked once per delivered envelope. The transport is
// at-least-once and unordered; the same envelope may be delivered more than
// once.
type EnvelopeHandler func(env domaintypes.WireEnvelope)

// Unsubscribe detaches a transport subscription. After it returns, the
// handler is no longer invoked.
type Unsubscribe func()

// Transport is the peer-gossip relay, addressed by recipient account id.
// Publish is fire-and-forget; Delete removes a picked-up envelope from the
// recipient's inbox.
type Transport interface {
	Publish(ctx context.Context, recipient domaintypes.AccountID, env domaintypes.WireEnvelope) error
	Fetch(ctx context.Context, account domaintypes.AccountID) ([]domaintypes.WireEnvelope, error)
	Subscribe(ctx context.Context, account domaintypes.AccountID, fn EnvelopeHandler) (Unsubscribe, error)
	Delete(ctx context.Context, account domaintypes.AccountID, envelopeID string) error
}
