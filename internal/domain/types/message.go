package types

import "github.com/uptrace/bun"

// MessageStatus tracks delivery progress of a message.
type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
	StatusFailed    MessageStatus = "failed"
)

// UndecryptableText is the placeholder substituted for the plaintext when an
// inbound message cannot be decrypted. The message is kept and shown; it is
// never dropped.
const UndecryptableText = "[Unable to decrypt]"

// Message is the locally persisted message row. The id is assigned by the
// sender at compose time and is the idempotency key for inserts.
type Message struct {
	bun.BaseModel `bun:"table:messages" json:"-"`

	ID             string         `bun:"id,pk" json:"id"`
	ConversationID ConversationID `bun:"conversation_id,notnull" json:"conversationId"`
	Sender         AccountID      `bun:"sender,notnull" json:"sender"`
	Receiver       AccountID      `bun:"receiver,notnull" json:"receiver"`

	Text     string `bun:"text" json:"text,omitempty"`
	ImageURL string `bun:"image_url" json:"imageUrl,omitempty"`
	VideoURL string `bun:"video_url" json:"videoUrl,omitempty"`

	Timestamp int64 `bun:"timestamp,notnull" json:"timestamp"`
	CreatedAt int64 `bun:"created_at,notnull" json:"createdAt"`

	// Ciphertext and nonce, both hex, present when the message travelled
	// encrypted. Decrypted reports whether Text holds recovered plaintext.
	EncryptedContent string `bun:"encrypted_content" json:"encryptedContent,omitempty"`
	IV               string `bun:"iv" json:"iv,omitempty"`
	Encrypted        bool   `bun:"encrypted" json:"encrypted"`
	Decrypted        bool   `bun:"decrypted" json:"decrypted"`

	Status MessageStatus `bun:"status,notnull" json:"status"`
	ReadAt *int64        `bun:"read_at,nullzero" json:"readAt,omitempty"`

	// Signature fields. Signature is a compact 64-byte ECDSA signature in
	// hex (exactly 128 chars when present).
	Signature          string `bun:"signature" json:"signature,omitempty"`
	SignatureNonce     string `bun:"signature_nonce" json:"signatureNonce,omitempty"`
	SignatureTimestamp int64  `bun:"signature_timestamp" json:"signatureTimestamp,omitempty"`
	MessageHash        string `bun:"message_hash" json:"messageHash,omitempty"`
	SignatureVerified  bool   `bun:"signature_verified" json:"signatureVerified"`
}
