package reconcile_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"murmur/internal/crypto"
	"murmur/internal/directory"
	"murmur/internal/domain"
	"murmur/internal/events"
	"murmur/internal/services/message"
	"murmur/internal/services/reconcile"
	"murmur/internal/services/secret"
	"murmur/internal/services/trust"
	"murmur/internal/store"
	"murmur/internal/transport"
)

const (
	alice = domain.AccountID("0xAAAA")
	bob   = domain.AccountID("0xBBBB")
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fixture wires both ends of a conversation: alice sends through the shared
// transport, bob reconciles his inbox into his own store.
type fixture struct {
	transport *transport.Memory
	aliceSvc  *message.Service
	bobStore  *store.MessageDB
	bobSvc    *reconcile.Service
	bus       *events.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := quietLogger()

	dir := directory.NewMemory()
	tr := transport.NewMemory()

	aliceKR := store.NewFileKeyring(t.TempDir())
	bobKR := store.NewFileKeyring(t.TempDir())
	for _, acct := range []struct {
		id domain.AccountID
		kr *store.FileKeyring
	}{{alice, aliceKR}, {bob, bobKR}} {
		kp, err := crypto.GenerateKeyPair()
		require.NoError(t, err)
		require.NoError(t, acct.kr.SaveKeyPair(acct.id, "pass", kp))
		require.NoError(t, dir.Publish(ctx, acct.id, crypto.B64(kp.Pub.Slice())))
	}

	aliceDB, err := store.OpenDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = aliceDB.Close() })
	aliceStore := store.NewMessageDB(aliceDB)
	require.NoError(t, aliceStore.Init(ctx))

	bobDB, err := store.OpenDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bobDB.Close() })
	bobStore := store.NewMessageDB(bobDB)
	require.NoError(t, bobStore.Init(ctx))

	bus := events.NewBus()
	t.Cleanup(bus.Close)

	bobSecrets := secret.New(bobKR, dir, log)
	bobTrust := trust.New(bobKR, dir, log)

	return &fixture{
		transport: tr,
		aliceSvc:  message.New(aliceKR, secret.New(aliceKR, dir, log), aliceStore, tr, log),
		bobStore:  bobStore,
		bobSvc:    reconcile.New(bobSecrets, bobTrust, bobStore, tr, bus, log),
		bus:       bus,
	}
}

func TestDrain_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sent, err := f.aliceSvc.Send(ctx, alice, "pass", bob, "hello bob")
	require.NoError(t, err)

	msgs, err := f.bobSvc.Drain(ctx, bob, "pass")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	got := msgs[0]
	require.Equal(t, sent.ID, got.ID)
	require.Equal(t, "hello bob", got.Text)
	require.True(t, got.Decrypted)
	require.True(t, got.SignatureVerified)
	require.Equal(t, domain.StatusDelivered, got.Status)
	require.Equal(t, domain.ConversationIDFor(alice, bob), got.ConversationID)

	// Persisted, and the inbox entry acknowledged.
	rows, err := f.bobStore.ByConversation(ctx, got.ConversationID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	left, err := f.transport.Fetch(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestDrain_DuplicateDeliveryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.aliceSvc.Send(ctx, alice, "pass", bob, "hello")
	require.NoError(t, err)

	envs, err := f.transport.Fetch(ctx, bob)
	require.NoError(t, err)
	require.Len(t, envs, 1)

	msgs, err := f.bobSvc.Drain(ctx, bob, "pass")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	// The relay redelivers the same envelope.
	require.NoError(t, f.transport.Publish(ctx, bob, envs[0]))
	_, err = f.bobSvc.Drain(ctx, bob, "pass")
	require.NoError(t, err)

	rows, err := f.bobStore.ByConversation(ctx, domain.ConversationIDFor(alice, bob))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestDrain_TamperedCiphertextKeepsPlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.aliceSvc.Send(ctx, alice, "pass", bob, "hello")
	require.NoError(t, err)

	envs, err := f.transport.Fetch(ctx, bob)
	require.NoError(t, err)
	require.Len(t, envs, 1)
	require.NoError(t, f.transport.Delete(ctx, bob, envs[0].ID))

	env := envs[0]
	tampered := []byte(env.EncryptedContent)
	if tampered[0] == 'f' {
		tampered[0] = '0'
	} else {
		tampered[0] = 'f'
	}
	env.EncryptedContent = string(tampered)
	require.NoError(t, f.transport.Publish(ctx, bob, env))

	msgs, err := f.bobSvc.Drain(ctx, bob, "pass")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, domain.UndecryptableText, msgs[0].Text)
	require.False(t, msgs[0].Decrypted)
	require.False(t, msgs[0].SignatureVerified)
}

func TestDrain_DiscardsMalformedEnvelope(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.transport.Publish(ctx, bob, domain.WireEnvelope{
		ID:       "no-sender",
		Receiver: bob,
		Text:     "anonymous",
	}))

	msgs, err := f.bobSvc.Drain(ctx, bob, "pass")
	require.NoError(t, err)
	require.Empty(t, msgs)

	rows, err := f.bobStore.ByConversation(ctx, domain.ConversationIDFor(alice, bob))
	require.NoError(t, err)
	require.Empty(t, rows)

	// Never acknowledged: transport-level cleanup owns malformed envelopes.
	left, err := f.transport.Fetch(ctx, bob)
	require.NoError(t, err)
	require.Len(t, left, 1)
}

func TestDrain_PlaintextEnvelope(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.transport.Publish(ctx, bob, domain.WireEnvelope{
		ID:        "p1",
		Sender:    alice,
		Receiver:  bob,
		Text:      "legacy plaintext",
		Timestamp: 100,
	}))

	msgs, err := f.bobSvc.Drain(ctx, bob, "pass")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "legacy plaintext", msgs[0].Text)
	require.False(t, msgs[0].Encrypted)
	require.True(t, msgs[0].Decrypted)
	require.False(t, msgs[0].SignatureVerified)
}

func TestStart_LiveSubscription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ch, cancelSub := f.bus.Subscribe(4)
	defer cancelSub()

	unsubscribe, err := f.bobSvc.Start(ctx, bob, "pass")
	require.NoError(t, err)
	defer unsubscribe()

	_, err = f.aliceSvc.Send(ctx, alice, "pass", bob, "live hello")
	require.NoError(t, err)

	select {
	case got := <-ch:
		require.Equal(t, "live hello", got.Text)
		require.True(t, got.SignatureVerified)
	case <-time.After(time.Second):
		t.Fatal("no message delivered through the bus")
	}

	rows, err := f.bobStore.ByConversation(ctx, domain.ConversationIDFor(alice, bob))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
