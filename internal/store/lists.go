package store

import (
	"strings"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
)

// CreateList creates an empty, non-archived list and returns its id.
func (s *Store) CreateList(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidation("list name must not be blank")
	}

	id, err := generateULID()
	if err != nil {
		return "", errors.NewInternal(err)
	}

	s.mu.Lock()
	s.lists = append(s.lists, &list.List{ID: id, Name: name, Items: []*list.Item{}})
	if s.activeID == "" {
		s.activeID = id
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return id, nil
}

// RenameList renames a list. Archived lists must be unarchived first.
func (s *Store) RenameList(listID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidation("list name must not be blank")
	}

	s.mu.Lock()
	l := s.findLocked(listID)
	if l == nil {
		s.mu.Unlock()
		return errors.NewListNotFound(listID)
	}
	if l.Archived {
		s.mu.Unlock()
		return errors.NewState("list is archived: unarchive it first")
	}
	l.Name = name
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return nil
}

// DeleteList removes a list and all its items. Deleting the only list in
// the whole collection is rejected unless the allow-delete-last-list
// config flag is set. When the deleted list was active, the pointer moves
// to the first remaining non-archived list, or clears.
func (s *Store) DeleteList(listID string) error {
	s.mu.Lock()
	idx := -1
	for i, l := range s.lists {
		if l.ID == listID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return errors.NewListNotFound(listID)
	}
	if len(s.lists) == 1 && !s.allowDeleteLast {
		s.mu.Unlock()
		return errors.NewState("cannot delete the last remaining list")
	}

	s.lists = append(s.lists[:idx], s.lists[idx+1:]...)
	delete(s.complete, listID)
	delete(s.dismissed, listID)
	if s.activeID == listID {
		s.activeID = ""
		s.ensureActiveLocked()
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return nil
}

// ArchiveList hides a list from the active pool. Item state is untouched.
// The active pointer is deliberately left alone: the collaborator decides
// what becomes active after confirming an archive.
func (s *Store) ArchiveList(listID string) error {
	s.mu.Lock()
	l := s.findLocked(listID)
	if l == nil {
		s.mu.Unlock()
		return errors.NewListNotFound(listID)
	}
	l.Archived = true
	delete(s.complete, listID)
	delete(s.dismissed, listID)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return nil
}

// UnarchiveList returns a list to the active pool. When every item on it
// is still purchased, the completion edge is re-armed, so the archive
// prompt may fire again.
func (s *Store) UnarchiveList(listID string) error {
	s.mu.Lock()
	l := s.findLocked(listID)
	if l == nil {
		s.mu.Unlock()
		return errors.NewListNotFound(listID)
	}
	l.Archived = false
	fire := s.evaluatePromptLocked(l)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.firePrompt(fire, listID)
	s.scheduleSave(snapshot)
	return nil
}

// SetActiveList points the active-list reference at the given list.
// An unknown or archived id fails silently: the pointer falls back to the
// first non-archived list.
func (s *Store) SetActiveList(listID string) {
	s.mu.Lock()
	s.activeID = listID
	s.ensureActiveLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
}
