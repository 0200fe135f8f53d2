package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vaultsync/internal/cryptox"
	"github.com/dmitrijs2005/vaultsync/internal/logging"
	"github.com/dmitrijs2005/vaultsync/internal/remote"
	"github.com/dmitrijs2005/vaultsync/internal/scope"
)

// DecryptionPlaceholder is substituted for an item whose ciphertext cannot
// be opened. The failure is isolated to that item; the rest of the load
// continues.
const DecryptionPlaceholder = "[decryption failed]"

const (
	defaultWindow = 500 * time.Millisecond
	flushTimeout  = 15 * time.Second
)

// Cache is the local store consumed by the session: a namespaced
// title→item map used as a fast read path before the remote round trip and
// as an offline buffer. Write replaces the whole namespace.
type Cache interface {
	Read(ctx context.Context, namespace string) (map[string]Item, error)
	Write(ctx context.Context, namespace string, items map[string]Item) error
}

// Options configures a Session.
type Options struct {
	Remote remote.Client
	Cache  Cache

	// Log defaults to a no-op logger.
	Log logging.Logger

	// Window is the quiescence interval after the last edit before a write
	// is issued. Defaults to 500 ms.
	Window time.Duration

	// Passphrase feeds key derivation. When empty, the scope identifier is
	// used, which matches the hosted app's behavior but offers no real
	// confidentiality against anyone who knows the identifier.
	Passphrase string

	// OnSyncError, when set, receives background flush failures. There is
	// no automatic retry; the next edit's timer is the retry path.
	OnSyncError func(title string, err error)
}

// Session holds the merged in-memory collection for one scope and drives
// all reads and writes against the cache and the remote store. After Load,
// the in-memory collection is the single source of truth; cache and remote
// are write-through targets only.
//
// All methods are safe for concurrent use. Debounce timers are explicit
// per-item handles, stopped on rename, delete and Close.
type Session struct {
	sc          scope.Scope
	remote      remote.Client
	cache       Cache
	log         logging.Logger
	window      time.Duration
	passphrase  string
	onSyncError func(title string, err error)

	mu     sync.Mutex
	items  map[string]Item
	order  []string
	active string
	timers map[string]*time.Timer
	dirty  map[string]bool
	loaded bool
	closed bool
}

// NewSession builds a session for the given scope. Load must be called
// before any item operation.
func NewSession(sc scope.Scope, opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	window := opts.Window
	if window <= 0 {
		window = defaultWindow
	}
	passphrase := opts.Passphrase
	if passphrase == "" {
		passphrase = sc.SecretMaterial()
	}
	return &Session{
		sc:          sc,
		remote:      opts.Remote,
		cache:       opts.Cache,
		log:         log.With("namespace", sc.CacheNamespace()),
		window:      window,
		passphrase:  passphrase,
		onSyncError: opts.OnSyncError,
		timers:      map[string]*time.Timer{},
		dirty:       map[string]bool{},
	}
}

// Load reads the cache and the remote store, merges the two snapshots and
// installs the result as the working collection. A cache failure is
// tolerated (the cache is an optimization); a remote failure aborts the
// load and leaves any previous in-memory state untouched, so a flaky
// network never silently promotes the cache to a complete view.
func (s *Session) Load(ctx context.Context) error {
	ns := s.sc.CacheNamespace()

	local, err := s.cache.Read(ctx, ns)
	if err != nil {
		s.log.Warn(ctx, "cache read failed, continuing without local snapshot", "error", err)
		local = nil
	}

	rows, err := s.remote.List(ctx, s.sc)
	if err != nil {
		return fmt.Errorf("listing remote items: %w", err)
	}

	remoteItems := make([]Item, 0, len(rows))
	for _, row := range rows {
		remoteItems = append(remoteItems, s.itemFromRow(ctx, row))
	}

	merged, order := Merge(local, remoteItems)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.items = merged
	s.order = order
	s.loaded = true
	if _, ok := s.items[s.active]; !ok {
		s.active = ""
		if len(order) > 0 {
			s.active = order[0]
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	// Write the reconciled state back so the next load starts from it.
	if err := s.cache.Write(ctx, ns, snapshot); err != nil {
		s.log.Warn(ctx, "cache write-back failed", "error", err)
	}

	s.log.Info(ctx, "vault loaded", "items", len(merged))
	return nil
}

func (s *Session) itemFromRow(ctx context.Context, row remote.Row) Item {
	item := Item{Title: row.Title, Kind: Kind(row.Kind), UpdatedAt: row.UpdatedAt}
	if item.Kind == "" {
		item.Kind = KindNote
	}
	if row.Record.Empty() {
		// Legacy row stored before encryption: no content.
		return item
	}
	text, err := cryptox.Decrypt(row.Record, s.passphrase)
	if err != nil {
		s.log.Warn(ctx, "item decryption failed", "title", row.Title, "error", err)
		item.Text = DecryptionPlaceholder
		return item
	}
	item.Text = text
	return item
}

// Items returns the merged collection in its display order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.order))
	for _, title := range s.order {
		out = append(out, s.items[title])
	}
	return out
}

// Get returns one item by title.
func (s *Session) Get(title string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[title]
	return it, ok
}

// Active returns the currently selected title, empty when nothing is
// selected.
func (s *Session) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select makes an existing item the active one. A pending debounce timer
// of the previously active item is cancelled and its edit flushed right
// away, so no stale timer survives an item switch.
func (s *Session) Select(title string) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if _, ok := s.items[title]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("selecting %q: %w", title, ErrNoItem)
	}
	prev := s.active
	s.active = title

	flushPrev := false
	if prev != "" && prev != title {
		if t := s.timers[prev]; t != nil {
			t.Stop()
			delete(s.timers, prev)
			flushPrev = true
		}
	}
	s.mu.Unlock()

	if flushPrev {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			_ = s.flushItem(ctx, prev)
		}()
	}
	return nil
}

// Create inserts a new empty item and makes it active. The title must not
// exist in the merged collection; the check happens before any I/O. The
// item is written through to the cache and the remote store; a remote
// failure rolls the whole insert back.
func (s *Session) Create(ctx context.Context, title string, kind Kind) error {
	if title == "" {
		return fmt.Errorf("creating item: empty title")
	}
	if kind == "" {
		kind = KindNote
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if _, exists := s.items[title]; exists {
		s.mu.Unlock()
		return fmt.Errorf("creating %q: %w", title, ErrTitleConflict)
	}

	prevActive := s.active
	s.items[title] = Item{Title: title, Kind: kind, UpdatedAt: time.Now().UTC()}
	s.order = append(s.order, title)
	s.active = title
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.Write(ctx, s.sc.CacheNamespace(), snapshot); err != nil {
		s.log.Warn(ctx, "cache write failed on create", "title", title, "error", err)
	}

	row, err := s.rowFor(Item{Title: title, Kind: kind})
	if err == nil {
		err = s.remote.Upsert(ctx, s.sc, row)
	}
	if err != nil {
		// Roll back: the item must not survive locally when the
		// authoritative store never saw it.
		s.mu.Lock()
		delete(s.items, title)
		s.order = removeTitle(s.order, title)
		if s.active == title {
			s.active = prevActive
		}
		snapshot = s.snapshotLocked()
		s.mu.Unlock()
		if cerr := s.cache.Write(ctx, s.sc.CacheNamespace(), snapshot); cerr != nil {
			s.log.Warn(ctx, "cache rollback failed on create", "title", title, "error", cerr)
		}
		return fmt.Errorf("creating %q remotely: %w", title, err)
	}
	return nil
}

// SetText applies an edit to the in-memory item and (re)starts its
// debounce timer. Only the last edit before a quiet period is persisted;
// intermediate keystrokes are never flushed individually.
func (s *Session) SetText(title, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.loaded {
		return ErrNotLoaded
	}
	it, ok := s.items[title]
	if !ok {
		return fmt.Errorf("editing %q: %w", title, ErrNoItem)
	}

	it.Text = text
	it.UpdatedAt = time.Now().UTC()
	s.items[title] = it
	s.dirty[title] = true

	if t := s.timers[title]; t != nil {
		t.Stop()
	}
	s.timers[title] = time.AfterFunc(s.window, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		s.flushItem(ctx, title)
	})
	return nil
}

// Flush cancels all pending timers and persists every dirty item
// synchronously. Used on shutdown and scope switches.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	titles := make([]string, 0, len(s.dirty))
	for title := range s.dirty {
		if t := s.timers[title]; t != nil {
			t.Stop()
			delete(s.timers, title)
		}
		titles = append(titles, title)
	}
	s.mu.Unlock()

	var firstErr error
	for _, title := range titles {
		if err := s.flushItem(ctx, title); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// flushItem encrypts and upserts the current content of one item. The text
// is re-read at flush time, and re-checked after the (slow) key derivation:
// if an edit raced with encryption, the pending timer owns the newer
// content and this flush abandons its stale ciphertext.
func (s *Session) flushItem(ctx context.Context, title string) error {
	s.mu.Lock()
	if s.closed || !s.dirty[title] {
		s.mu.Unlock()
		return nil
	}
	it, ok := s.items[title]
	if !ok {
		delete(s.dirty, title)
		s.mu.Unlock()
		return nil
	}
	text := it.Text
	s.mu.Unlock()

	row, err := s.rowFor(it)
	if err != nil {
		s.reportSyncError(ctx, title, err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	current, ok := s.items[title]
	if !ok || current.Text != text {
		// Superseded by a newer edit or a delete; its own timer (if any)
		// takes over.
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.remote.Upsert(ctx, s.sc, row); err != nil {
		err = fmt.Errorf("flushing %q: %w", title, err)
		s.reportSyncError(ctx, title, err)
		return err
	}

	s.mu.Lock()
	if cur, ok := s.items[title]; ok && cur.Text == text {
		delete(s.dirty, title)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.Write(ctx, s.sc.CacheNamespace(), snapshot); err != nil {
		s.log.Warn(ctx, "cache write failed on flush", "title", title, "error", err)
	}
	return nil
}

func (s *Session) reportSyncError(ctx context.Context, title string, err error) {
	s.log.Error(ctx, "sync failed", "title", title, "error", err)
	if s.onSyncError != nil {
		s.onSyncError(title, err)
	}
}

// Rename changes an item's title. The collision check against the merged
// collection happens before any I/O; the remote row is renamed first and
// local state only follows a remote success, so a remote failure needs no
// local rollback beyond restoring the pending timer.
func (s *Session) Rename(ctx context.Context, oldTitle, newTitle string) error {
	if newTitle == "" {
		return fmt.Errorf("renaming item: empty title")
	}
	if oldTitle == newTitle {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if _, ok := s.items[oldTitle]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("renaming %q: %w", oldTitle, ErrNoItem)
	}
	if _, exists := s.items[newTitle]; exists {
		s.mu.Unlock()
		return fmt.Errorf("renaming to %q: %w", newTitle, ErrTitleConflict)
	}
	// Park the pending flush so it cannot recreate the old row mid-rename.
	wasDirty := s.dirty[oldTitle]
	if t := s.timers[oldTitle]; t != nil {
		t.Stop()
		delete(s.timers, oldTitle)
	}
	s.mu.Unlock()

	if err := s.remote.Rename(ctx, s.sc, oldTitle, newTitle); err != nil {
		s.mu.Lock()
		if wasDirty && !s.closed {
			s.restartTimerLocked(oldTitle)
		}
		s.mu.Unlock()
		return fmt.Errorf("renaming %q remotely: %w", oldTitle, err)
	}

	s.mu.Lock()
	it := s.items[oldTitle]
	delete(s.items, oldTitle)
	it.Title = newTitle
	s.items[newTitle] = it
	for i, title := range s.order {
		if title == oldTitle {
			s.order[i] = newTitle
			break
		}
	}
	if wasDirty {
		delete(s.dirty, oldTitle)
		s.dirty[newTitle] = true
		if !s.closed {
			s.restartTimerLocked(newTitle)
		}
	}
	if s.active == oldTitle {
		s.active = newTitle
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.Write(ctx, s.sc.CacheNamespace(), snapshot); err != nil {
		s.log.Warn(ctx, "cache write failed on rename", "title", newTitle, "error", err)
	}
	return nil
}

// Delete removes an item everywhere, remote first. A remote failure leaves
// local state untouched. When the deleted item was active, the first
// remaining item (in display order) becomes active, or the selection goes
// empty.
func (s *Session) Delete(ctx context.Context, title string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	if _, ok := s.items[title]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("deleting %q: %w", title, ErrNoItem)
	}
	s.mu.Unlock()

	if err := s.remote.Delete(ctx, s.sc, title); err != nil {
		return fmt.Errorf("deleting %q remotely: %w", title, err)
	}

	s.mu.Lock()
	if t := s.timers[title]; t != nil {
		t.Stop()
		delete(s.timers, title)
	}
	delete(s.dirty, title)
	delete(s.items, title)
	s.order = removeTitle(s.order, title)
	if s.active == title {
		s.active = ""
		if len(s.order) > 0 {
			s.active = s.order[0]
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.Write(ctx, s.sc.CacheNamespace(), snapshot); err != nil {
		s.log.Warn(ctx, "cache write failed on delete", "title", title, "error", err)
	}
	return nil
}

// Close stops all pending timers. Edits still in memory are dropped unless
// Flush ran first.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for title, t := range s.timers {
		t.Stop()
		delete(s.timers, title)
	}
}

func (s *Session) rowFor(it Item) (remote.Row, error) {
	rec, err := cryptox.Encrypt(it.Text, s.passphrase)
	if err != nil {
		return remote.Row{}, fmt.Errorf("encrypting %q: %w", it.Title, err)
	}
	return remote.Row{Title: it.Title, Kind: string(it.Kind), Record: rec}, nil
}

// snapshotLocked copies the merged collection for a cache write. Callers
// must hold mu.
func (s *Session) snapshotLocked() map[string]Item {
	out := make(map[string]Item, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

func (s *Session) restartTimerLocked(title string) {
	s.timers[title] = time.AfterFunc(s.window, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		s.flushItem(ctx, title)
	})
}

func removeTitle(order []string, title string) []string {
	out := order[:0]
	for _, t := range order {
		if t != title {
			out = append(out, t)
		}
	}
	return out
}
