// Package theme holds the persisted light/dark preference. Consumers may
// read it before Load completes; they get the light default plus a
// loading signal so they can render neutrally instead of flashing the
// wrong theme.
package theme

import (
	"log/slog"
	"sync"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/persist"
)

// Valid theme values.
const (
	Light = "light"
	Dark  = "dark"
)

// Manager is the theme preference store.
type Manager struct {
	mu     sync.Mutex
	gw     *persist.Gateway
	logger *slog.Logger
	theme  string
	loaded bool
	// dirty marks an explicit Set that must not be clobbered by a
	// slower Load finishing afterwards.
	dirty bool
}

// New creates a manager defaulting to light until Load completes.
func New(gw *persist.Gateway, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{gw: gw, logger: logger, theme: Light}
}

// Load reads the persisted preference. A Set that happened before Load
// finished wins over the stored value.
func (m *Manager) Load() error {
	stored, ok, err := m.gw.LoadTheme()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true

	if err != nil {
		m.logger.Warn("failed to load theme preference", "error", err)
		return err
	}
	if ok && !m.dirty {
		if stored == Light || stored == Dark {
			m.theme = stored
		} else {
			m.logger.Warn("ignoring unknown stored theme", "value", stored)
		}
	}
	return nil
}

// Current returns the active theme; light before Load completes.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

// Loaded reports whether the persisted preference has been read.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Set switches the theme and persists it. Persistence failure is logged,
// not surfaced; the in-memory value still changes.
func (m *Manager) Set(value string) error {
	if value != Light && value != Dark {
		return errors.NewValidation("theme must be \"light\" or \"dark\"")
	}

	m.mu.Lock()
	m.theme = value
	m.dirty = true
	m.mu.Unlock()

	if err := m.gw.SaveTheme(value); err != nil {
		m.logger.Warn("failed to persist theme preference", "error", err)
	}
	return nil
}

// Toggle flips between light and dark and returns the new value.
func (m *Manager) Toggle() string {
	m.mu.Lock()
	next := Dark
	if m.theme == Dark {
		next = Light
	}
	m.mu.Unlock()

	// Set revalidates and persists; next is always valid here.
	_ = m.Set(next)
	return next
}
