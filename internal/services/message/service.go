// Package message implements the outbound send flow and conversation
// queries: encrypt, sign, optimistic local insert, relay publish.
package message

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"murmur/internal/crypto"
	"murmur/internal/domain"
)

// Service composes and dispatches messages for the local account.
type Service struct {
	keyring   domain.Keyring
	secrets   domain.SecretService
	store     domain.MessageStore
	transport domain.Transport
	log       logrus.FieldLogger
}

// New returns a message service wired to the given collaborators.
func New(keyring domain.Keyring, secrets domain.SecretService, store domain.MessageStore,
	transport domain.Transport, log logrus.FieldLogger) *Service {
	return &Service{
		keyring:   keyring,
		secrets:   secrets,
		store:     store,
		transport: transport,
		log:       log.WithField("component", "message"),
	}
}

// Send encrypts, signs and dispatches text to peer. The message is inserted
// locally before publishing so the sender sees it immediately; the status
// then advances to sent or failed depending on the relay outcome. The local
// row keeps the plaintext; the wire envelope never carries it.
func (s *Service) Send(ctx context.Context, account domain.AccountID, passphrase string, peer domain.AccountID, text string) (domain.Message, error) {
	// Pick up a rotated peer key before deriving. A stale-check failure is
	// not fatal; the cached secret may still be current.
	if _, err := s.secrets.SyncIfStale(ctx, account, passphrase, peer); err != nil {
		s.log.WithError(err).WithField("peer", peer).Warn("peer key staleness check failed")
	}
	key, err := s.secrets.Secret(ctx, account, passphrase, peer)
	if err != nil {
		return domain.Message{}, err
	}

	kp, ok, err := s.keyring.LoadKeyPair(account, passphrase)
	if err != nil {
		return domain.Message{}, err
	}
	if !ok {
		return domain.Message{}, domain.ErrKeyPairNotFound
	}

	id := uuid.NewString()
	now := time.Now().UnixMilli()

	nonce, err := crypto.NewNonce()
	if err != nil {
		return domain.Message{}, err
	}
	ciphertext, err := crypto.Encrypt(text, key, nonce)
	if err != nil {
		return domain.Message{}, err
	}
	signed, err := crypto.SignMessage(text, id, account, peer, kp.Priv)
	if err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:                 id,
		ConversationID:     domain.ConversationIDFor(account, peer),
		Sender:             account,
		Receiver:           peer,
		Text:               text,
		Timestamp:          now,
		CreatedAt:          now,
		EncryptedContent:   ciphertext,
		IV:                 hex.EncodeToString(nonce),
		Encrypted:          true,
		Decrypted:          true,
		Status:             domain.StatusSending,
		Signature:          signed.Signature,
		SignatureNonce:     signed.Nonce,
		SignatureTimestamp: signed.Timestamp,
		MessageHash:        signed.Hash,
		SignatureVerified:  true,
	}
	if err := s.store.Insert(ctx, &msg); err != nil {
		return domain.Message{}, err
	}

	env := domain.WireEnvelope{
		ID:                 msg.ID,
		Sender:             msg.Sender,
		Receiver:           msg.Receiver,
		Timestamp:          msg.Timestamp,
		EncryptedContent:   msg.EncryptedContent,
		IV:                 msg.IV,
		Signature:          msg.Signature,
		SignatureNonce:     msg.SignatureNonce,
		SignatureTimestamp: msg.SignatureTimestamp,
		MessageHash:        msg.MessageHash,
	}
	if err := s.transport.Publish(ctx, peer, env); err != nil {
		if uerr := s.store.UpdateStatus(ctx, msg.ID, domain.StatusFailed); uerr != nil {
			s.log.WithError(uerr).WithField("id", msg.ID).Error("failed-status update lost")
		}
		msg.Status = domain.StatusFailed
		return msg, err
	}

	if err := s.store.UpdateStatus(ctx, msg.ID, domain.StatusSent); err != nil {
		s.log.WithError(err).WithField("id", msg.ID).Error("sent-status update lost")
	}
	msg.Status = domain.StatusSent
	return msg, nil
}

// History returns the conversation's messages ascending by timestamp.
func (s *Service) History(ctx context.Context, id domain.ConversationID) ([]domain.Message, error) {
	return s.store.ByConversation(ctx, id)
}

// MarkRead stamps every unread message in the conversation with now.
func (s *Service) MarkRead(ctx context.Context, id domain.ConversationID) error {
	return s.store.MarkRead(ctx, id, time.Now().UnixMilli())
}

// Delete removes a single message locally.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// DeleteConversation removes the whole conversation locally.
func (s *Service) DeleteConversation(ctx context.Context, id domain.ConversationID) error {
	return s.store.DeleteConversation(ctx, id)
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
