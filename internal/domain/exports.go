package domain

import (
	interfaces "murmur/internal/domain/interfaces"
	types "murmur/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	AccountID      = types.AccountID
	ConversationID = types.ConversationID
	Fingerprint    = types.Fingerprint
	PrivateKey     = types.PrivateKey
	PublicKey      = types.PublicKey
	SharedSecret   = types.SharedSecret
	KeyPair        = types.KeyPair
	Message        = types.Message
	MessageStatus  = types.MessageStatus
	WireEnvelope   = types.WireEnvelope
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Keyring         = interfaces.Keyring
	MessageStore    = interfaces.MessageStore
	KeyDirectory    = interfaces.KeyDirectory
	Transport       = interfaces.Transport
	EnvelopeHandler = interfaces.EnvelopeHandler
	Unsubscribe     = interfaces.Unsubscribe
	KeyPairService  = interfaces.KeyPairService
	SecretService   = interfaces.SecretService
	Verifier        = interfaces.Verifier
	MessageService  = interfaces.MessageService
	Reconciler      = interfaces.Reconciler
)

// Re-exported constants and helpers from the types subpackage.
const (
	StatusSending   = types.StatusSending
	StatusSent      = types.StatusSent
	StatusDelivered = types.StatusDelivered
	StatusRead      = types.StatusRead
	StatusFailed    = types.StatusFailed

	UndecryptableText = types.UndecryptableText

	PrivateKeySize    = types.PrivateKeySize
	PublicKeySize     = types.PublicKeySize
	CompressedKeySize = types.CompressedKeySize
	SharedSecretSize  = types.SharedSecretSize
)

// ConversationIDFor derives the canonical conversation id for two accounts.
func ConversationIDFor(a, b AccountID) ConversationID {
	return types.ConversationIDFor(a, b)
}
