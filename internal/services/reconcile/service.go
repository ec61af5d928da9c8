// Package reconcile consumes inbound wire envelopes and turns them into
// persisted local messages: validate, decrypt, verify, persist, acknowledge,
// notify. Persistence always precedes acknowledgement, so a crash between
// the two redelivers rather than loses.
package reconcile

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"murmur/internal/crypto"
	"murmur/internal/domain"
	"murmur/internal/events"
)

// Service reconciles the relay inbox into the local message store.
type Service struct {
	secrets   domain.SecretService
	verifier  domain.Verifier
	store     domain.MessageStore
	transport domain.Transport
	bus       *events.Bus
	log       logrus.FieldLogger
}

// New returns a reconciler wired to the given collaborators.
func New(secrets domain.SecretService, verifier domain.Verifier, store domain.MessageStore,
	transport domain.Transport, bus *events.Bus, log logrus.FieldLogger) *Service {
	return &Service{
		secrets:   secrets,
		verifier:  verifier,
		store:     store,
		transport: transport,
		bus:       bus,
		log:       log.WithField("component", "reconcile"),
	}
}

// Start attaches a live subscription for account. Every delivered envelope
// runs through the reconciliation pipeline. The returned Unsubscribe (or
// cancelling ctx) detaches the listener.
func (s *Service) Start(ctx context.Context, account domain.AccountID, passphrase string) (domain.Unsubscribe, error) {
	return s.transport.Subscribe(ctx, account, func(env domain.WireEnvelope) {
		if _, err := s.reconcile(ctx, account, passphrase, env); err != nil {
			s.log.WithError(err).WithField("id", env.ID).Error("reconcile failed; envelope left queued")
		}
	})
}

// Drain fetches the inbox once and reconciles every envelope in it,
// returning the messages that were persisted by this pass.
func (s *Service) Drain(ctx context.Context, account domain.AccountID, passphrase string) ([]domain.Message, error) {
	envs, err := s.transport.Fetch(ctx, account)
	if err != nil {
		return nil, err
	}

	var out []domain.Message
	for _, env := range envs {
		msg, ok, err := s.reconcileReport(ctx, account, passphrase, env)
		if err != nil {
			s.log.WithError(err).WithField("id", env.ID).Error("reconcile failed; envelope left queued")
			continue
		}
		if ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (s *Service) reconcile(ctx context.Context, account domain.AccountID, passphrase string, env domain.WireEnvelope) (domain.Message, error) {
	msg, _, err := s.reconcileReport(ctx, account, passphrase, env)
	return msg, err
}

// reconcileReport runs one envelope through the pipeline. The bool reports
// whether a message was persisted; structurally invalid envelopes are
// discarded without error.
func (s *Service) reconcileReport(ctx context.Context, account domain.AccountID, passphrase string, env domain.WireEnvelope) (domain.Message, bool, error) {
	// Malformed envelopes are discarded but never acknowledged; transport
	// TTL or cleanup owns them.
	if !env.Valid() {
		s.log.WithFields(logrus.Fields{"id": env.ID, "sender": env.Sender}).
			Warn("discarding malformed envelope")
		return domain.Message{}, false, nil
	}

	now := time.Now().UnixMilli()
	msg := domain.Message{
		ID:                 env.ID,
		ConversationID:     domain.ConversationIDFor(env.Sender, env.Receiver),
		Sender:             env.Sender,
		Receiver:           env.Receiver,
		Text:               env.Text,
		ImageURL:           env.ImageURL,
		VideoURL:           env.VideoURL,
		Timestamp:          env.Timestamp,
		CreatedAt:          now,
		EncryptedContent:   env.EncryptedContent,
		IV:                 env.IV,
		Encrypted:          env.EncryptedContent != "",
		Status:             domain.StatusDelivered,
		Signature:          env.Signature,
		SignatureNonce:     env.SignatureNonce,
		SignatureTimestamp: env.SignatureTimestamp,
		MessageHash:        env.MessageHash,
	}

	if msg.Encrypted {
		s.decrypt(ctx, account, passphrase, &msg)
	} else {
		msg.Decrypted = true
	}

	if msg.Signature != "" && msg.Decrypted {
		msg.SignatureVerified = s.verifier.Verify(ctx, account, passphrase, &msg) &&
			s.verifier.VerifyIntegrity(&msg)
	}

	// Persist before acknowledging. Insert is idempotent by id, so a
	// redelivered envelope is a harmless no-op here.
	if err := s.store.Insert(ctx, &msg); err != nil {
		return domain.Message{}, false, err
	}
	s.ack(ctx, account, msg.ID)
	s.bus.Publish(msg)
	return msg, true, nil
}

// decrypt recovers the plaintext in place, substituting the placeholder
// when recovery fails. Undecryptable messages are kept, not dropped.
func (s *Service) decrypt(ctx context.Context, account domain.AccountID, passphrase string, msg *domain.Message) {
	// Pick up a rotated sender key before deriving; the cached secret may
	// predate their rotation.
	if _, err := s.secrets.SyncIfStale(ctx, account, passphrase, msg.Sender); err != nil {
		s.log.WithError(err).WithField("peer", msg.Sender).Warn("peer key staleness check failed")
	}

	key, err := s.secrets.Secret(ctx, account, passphrase, msg.Sender)
	if err == nil {
		var nonce []byte
		nonce, err = hex.DecodeString(msg.IV)
		if err == nil {
			var text string
			text, err = crypto.Decrypt(msg.EncryptedContent, key, nonce)
			if err == nil {
				msg.Text = text
				msg.Decrypted = true
				return
			}
		}
	}

	s.log.WithError(err).WithFields(logrus.Fields{"id": msg.ID, "sender": msg.Sender}).
		Warn("decryption failed; keeping placeholder")
	msg.Text = domain.UndecryptableText
	msg.Decrypted = false
}

// ack removes the envelope from the inbox. Best-effort: a failed delete
// only means redelivery, which the idempotent insert absorbs.
func (s *Service) ack(ctx context.Context, account domain.AccountID, id string) {
	if id == "" {
		return
	}
	if err := s.transport.Delete(ctx, account, id); err != nil {
		s.log.WithError(err).WithField("id", id).Warn("envelope acknowledgement failed")
	}
}

// Compile-time assertion that Service implements domain.Reconciler.
var _ domain.Reconciler = (*Service)(nil)
