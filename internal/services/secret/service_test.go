package secret_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"murmur/internal/crypto"
	"murmur/internal/directory"
	"murmur/internal/domain"
	"murmur/internal/services/secret"
	"murmur/internal/store"
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

// fixture holds two accounts sharing one directory, each with their own
// keyring, as two devices would.
type fixture struct {
	dir      *directory.Memory
	aliceKR  *store.FileKeyring
	bobKR    *store.FileKeyring
	aliceSvc *secret.Service
	bobSvc   *secret.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := directory.NewMemory()

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

	return &fixture{
		dir:      dir,
		aliceKR:  aliceKR,
		bobKR:    bobKR,
		aliceSvc: secret.New(aliceKR, dir, quietLogger()),
		bobSvc:   secret.New(bobKR, dir, quietLogger()),
	}
}

func TestSecret_SymmetricAcrossAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ab, err := f.aliceSvc.Secret(ctx, alice, "pass", bob)
	require.NoError(t, err)
	ba, err := f.bobSvc.Secret(ctx, bob, "pass", alice)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}

func TestSecret_CachedOnFirstContact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.aliceSvc.Secret(ctx, alice, "pass", bob)
	require.NoError(t, err)

	// Second call must come from the cache even if the directory empties.
	f2 := secret.New(f.aliceKR, directory.NewMemory(), quietLogger())
	second, err := f2.Secret(ctx, alice, "pass", bob)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSecret_UnknownPeer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.aliceSvc.Secret(ctx, alice, "pass", "0xCCCC")
	require.Error(t, err)
	require.Equal(t, domain.CodeNotFound, domain.ErrCode(err))
}

func TestSyncIfStale_RederivesAfterPeerRotation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	before, err := f.aliceSvc.Secret(ctx, alice, "pass", bob)
	require.NoError(t, err)

	// No rotation yet: nothing to do.
	changed, err := f.aliceSvc.SyncIfStale(ctx, alice, "pass", bob)
	require.NoError(t, err)
	require.False(t, changed)

	// Bob rotates: new pair, republished key, old cache dropped.
	rotated, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, f.bobKR.SaveKeyPair(bob, "pass", rotated))
	require.NoError(t, f.bobKR.DeleteSharedSecrets(bob))
	require.NoError(t, f.dir.Publish(ctx, bob, crypto.B64(rotated.Pub.Slice())))

	changed, err = f.aliceSvc.SyncIfStale(ctx, alice, "pass", bob)
	require.NoError(t, err)
	require.True(t, changed)

	after, err := f.aliceSvc.Secret(ctx, alice, "pass", bob)
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	// Both sides converge on the new secret.
	bobSide, err := f.bobSvc.Secret(ctx, bob, "pass", alice)
	require.NoError(t, err)
	require.Equal(t, after, bobSide)
}

func TestInvalidate_DropsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.aliceSvc.Secret(ctx, alice, "pass", bob)
	require.NoError(t, err)
	require.NoError(t, f.aliceSvc.Invalidate(alice))

	_, ok, err := f.aliceKR.LoadSharedSecret(alice, bob)
	require.NoError(t, err)
	require.False(t, ok)
}
