package types

import (
	"sort"
	"strings"
)

// AccountID is the stable account identifier produced by the wallet login
// (an address like "0xA..."). It addresses the key directory and the
// transport inbox.
type AccountID string

// String returns the string form of the account id.
func (a AccountID) String() string { return string(a) }

// ConversationID identifies a two-party conversation.
type ConversationID string

// String returns the string form of the conversation identifier.
func (id ConversationID) String() string { return string(id) }

// ConversationIDFor derives the canonical conversation id for two accounts.
// The pair is sorted so both sides compute the same id.
func ConversationIDFor(a, b AccountID) ConversationID {
	pair := []string{a.String(), b.String()}
	sort.Strings(pair)
	return ConversationID(strings.Join(pair, ":"))
}

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
