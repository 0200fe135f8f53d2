// Package cli implements the interactive vault client: a small REPL over
// the sync engine, the room directory and the attachment store.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vaultsync/internal/blob"
	"github.com/dmitrijs2005/vaultsync/internal/cache"
	"github.com/dmitrijs2005/vaultsync/internal/config"
	"github.com/dmitrijs2005/vaultsync/internal/identity"
	"github.com/dmitrijs2005/vaultsync/internal/logging"
	"github.com/dmitrijs2005/vaultsync/internal/remote"
	"github.com/dmitrijs2005/vaultsync/internal/scope"
	"github.com/dmitrijs2005/vaultsync/internal/vault"
)

type App struct {
	config     *config.Config
	log        logging.Logger
	remote     *remote.PostgresClient
	cache      cache.Store
	identity   *identity.TokenProvider
	blobs      blob.Store
	session    *vault.Session
	sc         scope.Scope
	passphrase string
	reader     *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	rc, err := remote.NewPostgresClient(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("connecting to row store: %w", err)
	}

	var store cache.Store
	if c.CachePath != "" {
		store, err = cache.NewBoltStore(c.CachePath)
		if err != nil {
			// A broken cache file should not lock the user out of their
			// data; fall back to memory and keep going.
			log.Warn(ctx, "cache unavailable, continuing without durability", "error", err)
			store = cache.NewMemoryStore()
		}
	} else {
		store = cache.NewMemoryStore()
	}

	var blobs blob.Store
	if c.S3Bucket != "" {
		blobs, err = blob.NewS3Store(ctx, blob.S3Options{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing attachment store: %w", err)
		}
	}

	return &App{
		config:   c,
		log:      log,
		remote:   rc,
		cache:    store,
		identity: identity.NewTokenProvider([]byte(c.SecretKey)),
		blobs:    blobs,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.shutdown(ctx)
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) shutdown(ctx context.Context) {
	a.closeSession(ctx)
	if err := a.cache.Close(); err != nil {
		a.log.Warn(ctx, "closing cache", "error", err)
	}
	if err := a.remote.Close(); err != nil {
		a.log.Warn(ctx, "closing row store", "error", err)
	}
	a.passphrase = ""
}

func (a *App) hasSession() bool {
	return a.session != nil
}

// status renders the prompt segment: owner, scope and selected item.
func (a *App) status() string {
	s := a.identity.Current()
	if s.Status != identity.StatusAuthenticated {
		return "signed out"
	}
	out := s.UserID
	if a.sc.IsRoom() {
		out += " room:" + a.sc.RoomID
	}
	if a.session != nil {
		if active := a.session.Active(); active != "" {
			out += " [" + active + "]"
		}
	}
	return out
}

// openSession flushes and closes any current session, then loads the scope
// identified by roomID (empty for the personal vault).
func (a *App) openSession(ctx context.Context, roomID string) error {
	s := a.identity.Current()
	if s.Status != identity.StatusAuthenticated {
		return scope.ErrMissingIdentity
	}
	sc, err := scope.Resolve(s.UserID, roomID)
	if err != nil {
		return err
	}

	session := vault.NewSession(sc, vault.Options{
		Remote:     a.remote,
		Cache:      a.cache,
		Log:        a.log,
		Window:     a.config.DebounceWindow,
		Passphrase: a.passphrase,
		OnSyncError: func(title string, err error) {
			printlnFn(fmt.Sprintf("sync failed for %q: %v (will retry on next edit)", title, err))
		},
	})
	if err := session.Load(ctx); err != nil {
		return err
	}

	a.closeSession(ctx)
	a.session = session
	a.sc = sc
	return nil
}

func (a *App) closeSession(ctx context.Context) {
	if a.session == nil {
		return
	}
	if err := a.session.Flush(ctx); err != nil {
		a.log.Warn(ctx, "flushing pending edits", "error", err)
	}
	a.session.Close()
	a.session = nil
	a.sc = scope.Scope{}
}
