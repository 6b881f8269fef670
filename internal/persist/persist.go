// Package persist is the persistence gateway: a typed snapshot layer over
// the key-value storage table. Each piece of app state lives under its own
// storage key and round-trips through JSON.
package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/listfy/listfy/internal/db"
	"github.com/listfy/listfy/internal/list"
)

// Storage keys. One JSON document per key.
const (
	KeyLists        = "lists"
	KeyActiveList   = "active_list"
	KeyBarcodeCache = "barcode_cache"
	KeyTheme        = "theme"
)

// Snapshot is the full list state persisted after every mutation.
type Snapshot struct {
	Lists        []*list.List `json:"lists"`
	ActiveListID string       `json:"active_list_id,omitempty"`
}

// Gateway persists app state to the storage table.
type Gateway struct {
	db *sql.DB
}

// New creates a gateway over an initialized database handle.
func New(database *sql.DB) *Gateway {
	return &Gateway{db: database}
}

// SaveSnapshot writes the full list state and the active-list pointer.
func (g *Gateway) SaveSnapshot(s *Snapshot) error {
	data, err := json.Marshal(s.Lists)
	if err != nil {
		return fmt.Errorf("marshal lists: %w", err)
	}
	if err := db.Put(g.db, KeyLists, string(data)); err != nil {
		return err
	}
	return db.Put(g.db, KeyActiveList, s.ActiveListID)
}

// LoadSnapshot reads the persisted list state. Missing keys load as an
// empty snapshot, not an error.
func (g *Gateway) LoadSnapshot() (*Snapshot, error) {
	s := &Snapshot{}

	data, ok, err := db.Get(g.db, KeyLists)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(data), &s.Lists); err != nil {
			return nil, fmt.Errorf("unmarshal lists: %w", err)
		}
	}

	activeID, ok, err := db.Get(g.db, KeyActiveList)
	if err != nil {
		return nil, err
	}
	if ok {
		s.ActiveListID = activeID
	}

	return s, nil
}

// SaveCache writes the barcode cache map.
func (g *Gateway) SaveCache(cache map[string]list.CacheEntry) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("marshal barcode cache: %w", err)
	}
	return db.Put(g.db, KeyBarcodeCache, string(data))
}

// LoadCache reads the barcode cache map. A missing key loads as an empty map.
func (g *Gateway) LoadCache() (map[string]list.CacheEntry, error) {
	cache := make(map[string]list.CacheEntry)

	data, ok, err := db.Get(g.db, KeyBarcodeCache)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(data), &cache); err != nil {
			return nil, fmt.Errorf("unmarshal barcode cache: %w", err)
		}
	}

	return cache, nil
}

// SaveTheme writes the theme preference.
func (g *Gateway) SaveTheme(theme string) error {
	return db.Put(g.db, KeyTheme, theme)
}

// LoadTheme reads the theme preference. The second return value reports
// whether a preference has ever been saved.
func (g *Gateway) LoadTheme() (string, bool, error) {
	return db.Get(g.db, KeyTheme)
}
