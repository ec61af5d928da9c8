package types

// WireEnvelope is the JSON envelope exchanged over the gossip transport.
// Absent optional fields are omitted, not null-padded. The canonical field
// set and names are a protocol contract shared with every peer.
type WireEnvelope struct {
	ID       string    `json:"id"`
	Sender   AccountID `json:"sender"`
	Receiver AccountID `json:"receiver"`

	Text     string `json:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`

	Timestamp int64 `json:"timestamp"`

	EncryptedContent string `json:"encryptedContent,omitempty"`
	IV               string `json:"iv,omitempty"`

	Signature          string `json:"signature,omitempty"`
	SignatureNonce     string `json:"signatureNonce,omitempty"`
	SignatureTimestamp int64  `json:"signatureTimestamp,omitempty"`
	MessageHash        string `json:"messageHash,omitempty"`
}

// Valid reports whether the envelope passes structural validation at the
// reconciliation boundary. Envelopes without an id or sender are discarded.
func (e WireEnvelope) Valid() bool {
	return e.ID != "" && e.Sender != ""
}
