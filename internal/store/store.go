// Package store holds the authoritative in-memory state for all shopping
// lists and their items. Mutations are synchronous and run to completion;
// persistence happens as a fire-and-forget snapshot after each committed
// change. The UI layer is an external collaborator that calls the
// operations here and re-renders from the selectors.
package store

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/listfy/listfy/internal/config"
	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
	"github.com/listfy/listfy/internal/persist"
)

// Store is the list/item store. Construct once at process start with New,
// hydrate with Load, then share the handle with all consumers.
type Store struct {
	mu     sync.Mutex
	gw     *persist.Gateway
	logger *slog.Logger

	tasksAliases    []string
	defaultListName string
	allowDeleteLast bool

	lists    []*list.List
	activeID string
	cache    map[string]list.CacheEntry

	// complete tracks, per list, whether the all-purchased condition has
	// already been observed; the archive prompt fires on the edge into it.
	complete map[string]bool
	// dismissed suppresses re-firing until the condition goes false again.
	dismissed map[string]bool

	// OnArchivePrompt, when set, is invoked after a mutation completes a
	// list (every item purchased, list not archived). Set it before the
	// first mutation; it runs outside the store lock.
	OnArchivePrompt func(listID string)

	saves   sync.WaitGroup
	saveMu  sync.Mutex
	saveSeq uint64
	savedTo uint64
}

// New creates a store over the persistence gateway. Call Load before use.
func New(gw *persist.Gateway, cfg *config.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Store{
		gw:              gw,
		logger:          logger,
		tasksAliases:    cfg.TasksListNames,
		defaultListName: cfg.DefaultListName,
		allowDeleteLast: cfg.AllowDeleteLastList,
		cache:           make(map[string]list.CacheEntry),
		complete:        make(map[string]bool),
		dismissed:       make(map[string]bool),
	}
}

// Load hydrates the store from persisted state. When no lists exist (first
// run, or the run after the last list was deleted) a default list is
// created. A dangling active pointer falls back to the first non-archived
// list.
func (s *Store) Load() error {
	snap, err := s.gw.LoadSnapshot()
	if err != nil {
		return err
	}
	cache, err := s.gw.LoadCache()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lists = snap.Lists
	s.activeID = snap.ActiveListID
	s.cache = cache

	created := false
	if len(s.lists) == 0 {
		id, err := generateULID()
		if err != nil {
			s.mu.Unlock()
			return errors.NewInternal(err)
		}
		s.lists = []*list.List{{ID: id, Name: s.defaultListName, Items: []*list.Item{}}}
		created = true
	}
	s.ensureActiveLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if created {
		s.scheduleSave(snapshot)
	}
	return nil
}

// Flush blocks until all pending snapshot writes have finished. Intended
// for shutdown paths and tests; normal operation never waits on saves.
func (s *Store) Flush() {
	s.saves.Wait()
}

// Lists returns deep copies of all lists, archived included.
func (s *Store) Lists() []*list.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*list.List, len(s.lists))
	for i, l := range s.lists {
		out[i] = l.Clone()
	}
	return out
}

// ActiveList returns a deep copy of the active list. When the pointer is
// dangling or references an archived list, it falls back to the first
// non-archived list; nil when no non-archived list exists.
func (s *Store) ActiveList() *list.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.findLocked(s.activeID); l != nil && !l.Archived {
		return l.Clone()
	}
	if l := s.firstUnarchivedLocked(); l != nil {
		return l.Clone()
	}
	return nil
}

// GetItem returns a deep copy of one item.
func (s *Store) GetItem(listID, itemID string) (*list.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findLocked(listID)
	if l == nil {
		return nil, errors.NewListNotFound(listID)
	}
	it := l.FindItem(itemID)
	if it == nil {
		return nil, errors.NewItemNotFound(listID, itemID)
	}
	return it.Clone(), nil
}

// ListTotal returns the summed total value of a list's items.
func (s *Store) ListTotal(listID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findLocked(listID)
	if l == nil {
		return 0, errors.NewListNotFound(listID)
	}
	return l.Total(), nil
}

// CachedProduct returns the user-confirmed cache entry for a barcode.
// Satisfies the resolver's cache interface.
func (s *Store) CachedProduct(barcode string) (list.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[barcode]
	return entry, ok
}

// findLocked returns the list with the given id, or nil.
func (s *Store) findLocked(listID string) *list.List {
	for _, l := range s.lists {
		if l.ID == listID {
			return l
		}
	}
	return nil
}

// firstUnarchivedLocked returns the first non-archived list, or nil.
func (s *Store) firstUnarchivedLocked() *list.List {
	for _, l := range s.lists {
		if !l.Archived {
			return l
		}
	}
	return nil
}

// ensureActiveLocked repairs the active pointer: keep it when it
// references an existing non-archived list, else fall back to the first
// non-archived list, else clear it.
func (s *Store) ensureActiveLocked() {
	if l := s.findLocked(s.activeID); l != nil && !l.Archived {
		return
	}
	if l := s.firstUnarchivedLocked(); l != nil {
		s.activeID = l.ID
		return
	}
	s.activeID = ""
}

// isTasksLocked reports whether a list suppresses quantity/value semantics.
func (s *Store) isTasksLocked(l *list.List) bool {
	return list.IsTasksList(l.Name, s.tasksAliases)
}

// snapshotLocked builds a deep-copied snapshot for the persistence
// goroutine to write without holding the store lock.
func (s *Store) snapshotLocked() *persist.Snapshot {
	lists := make([]*list.List, len(s.lists))
	for i, l := range s.lists {
		lists[i] = l.Clone()
	}
	return &persist.Snapshot{Lists: lists, ActiveListID: s.activeID}
}

// scheduleSave persists a snapshot asynchronously. Failures are logged
// and effectively retried by the next mutation's snapshot. A sequence
// number keeps an older snapshot from overwriting a newer one.
func (s *Store) scheduleSave(snap *persist.Snapshot) {
	s.saveMu.Lock()
	s.saveSeq++
	seq := s.saveSeq
	s.saveMu.Unlock()

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		if seq <= s.savedTo {
			return // a newer snapshot already landed
		}
		if err := s.gw.SaveSnapshot(snap); err != nil {
			s.logger.Warn("failed to persist snapshot", "error", err)
			return
		}
		s.savedTo = seq
	}()
}

// scheduleCacheSave persists the barcode cache asynchronously.
func (s *Store) scheduleCacheSave(cache map[string]list.CacheEntry) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		if err := s.gw.SaveCache(cache); err != nil {
			s.logger.Warn("failed to persist barcode cache", "error", err)
		}
	}()
}

// cacheCopyLocked clones the cache map for the persistence goroutine.
func (s *Store) cacheCopyLocked() map[string]list.CacheEntry {
	out := make(map[string]list.CacheEntry, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
