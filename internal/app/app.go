// Package app wires the security core together: stores, clients, services
// and the event bus, built from a single Config.
package app

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"murmur/internal/directory"
	"murmur/internal/domain"
	"murmur/internal/events"
	"murmur/internal/services/identity"
	"murmur/internal/services/message"
	"murmur/internal/services/reconcile"
	"murmur/internal/services/secret"
	"murmur/internal/services/trust"
	"murmur/internal/store"
	"murmur/internal/transport"
)

// App is the assembled security core.
type App struct {
	Config Config
	Log    *logrus.Logger

	Keyring  *store.FileKeyring
	Messages domain.MessageService
	Keys     domain.KeyPairService
	Secrets  domain.SecretService
	Trust    domain.Verifier
	Inbox    domain.Reconciler
	Bus      *events.Bus

	db *bun.DB
}

// New builds the full dependency graph from cfg. The returned App owns the
// database handle and event bus; Close releases both.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	log := newLogger(cfg.LogLevel)

	keyring := store.NewFileKeyring(cfg.Home)

	db, err := store.OpenDB(cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	messages := store.NewMessageDB(db)
	if err := messages.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	var dir domain.KeyDirectory
	if cfg.DirectoryURL != "" {
		dir = directory.NewHTTP(cfg.DirectoryURL)
	} else {
		dir = directory.NewMemory()
	}
	var relay domain.Transport
	if cfg.RelayURL != "" {
		relay = transport.NewHTTP(cfg.RelayURL)
	} else {
		relay = transport.NewMemory()
	}

	bus := events.NewBus()
	secrets := secret.New(keyring, dir, log)
	verifier := trust.New(keyring, dir, log)

	return &App{
		Config:   cfg,
		Log:      log,
		Keyring:  keyring,
		Messages: message.New(keyring, secrets, messages, relay, log),
		Keys:     identity.New(keyring, dir, log),
		Secrets:  secrets,
		Trust:    verifier,
		Inbox:    reconcile.New(secrets, verifier, messages, relay, bus, log),
		Bus:      bus,
		db:       db,
	}, nil
}

// Close tears the core down: live bus subscribers see their channels close
// and the database handle is released.
func (a *App) Close() error {
	a.Bus.Close()
	return a.db.Close()
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
