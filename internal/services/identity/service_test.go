package identity_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"murmur/internal/crypto"
	"murmur/internal/directory"
	"murmur/internal/domain"
	"murmur/internal/services/identity"
	"murmur/internal/store"
)

const alice = domain.AccountID("0xAAAA")

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newService(t *testing.T) (*identity.Service, *store.FileKeyring, *directory.Memory) {
	t.Helper()
	kr := store.NewFileKeyring(t.TempDir())
	dir := directory.NewMemory()
	return identity.New(kr, dir, quietLogger()), kr, dir
}

func TestGenerate_PersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	svc, _, dir := newService(t)

	kp, err := svc.Generate(ctx, alice, "pass")
	require.NoError(t, err)

	loaded, ok, err := svc.Load(alice, "pass")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, kp.Pub, loaded.Pub)

	published, found, err := dir.Resolve(ctx, alice)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, crypto.B64(kp.Pub.Slice()), published)
}

func TestRotate_ReplacesKeyAndDropsSecrets(t *testing.T) {
	ctx := context.Background()
	svc, kr, dir := newService(t)

	old, err := svc.Generate(ctx, alice, "pass")
	require.NoError(t, err)

	var secret domain.SharedSecret
	secret[0] = 9
	require.NoError(t, kr.SaveSharedSecret(alice, "0xBBBB", secret))

	rotated, err := svc.Rotate(ctx, alice, "pass")
	require.NoError(t, err)
	require.NotEqual(t, old.Pub, rotated.Pub)

	// Secrets derived from the old key must be gone.
	_, ok, err := kr.LoadSharedSecret(alice, "0xBBBB")
	require.NoError(t, err)
	require.False(t, ok)

	// Directory carries the new key.
	published, found, err := dir.Resolve(ctx, alice)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, crypto.B64(rotated.Pub.Slice()), published)
}

func TestEnsurePublished_RepairsMissingEntry(t *testing.T) {
	ctx := context.Background()
	kr := store.NewFileKeyring(t.TempDir())

	// Generate against one directory, then point the service at an empty
	// one to model a publish that never landed.
	svc := identity.New(kr, directory.NewMemory(), quietLogger())
	kp, err := svc.Generate(ctx, alice, "pass")
	require.NoError(t, err)

	empty := directory.NewMemory()
	svc = identity.New(kr, empty, quietLogger())
	require.NoError(t, svc.EnsurePublished(ctx, alice, "pass"))

	published, found, err := empty.Resolve(ctx, alice)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, crypto.B64(kp.Pub.Slice()), published)
}

func TestFingerprint_StableAcrossLoads(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Generate(ctx, alice, "pass")
	require.NoError(t, err)

	fp1, err := svc.Fingerprint(alice, "pass")
	require.NoError(t, err)
	fp2, err := svc.Fingerprint(alice, "pass")
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
	require.NotEmpty(t, fp1)
}

func TestLoad_MissingAccount(t *testing.T) {
	svc, _, _ := newService(t)
	_, ok, err := svc.Load(alice, "pass")
	require.NoError(t, err)
	require.False(t, ok)
}
