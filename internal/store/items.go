package store

import (
	"strings"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
)

// AddItemInput contains parameters for the AddItem operation.
type AddItemInput struct {
	ListID string
	Text   string // required

	// Quantity defaults to 1 when <= 0.
	Quantity int

	// UnitValue must be non-negative. Ignored for tasks lists.
	UnitValue float64

	// Details carries barcode-lookup metadata, when the item came from a
	// scan.
	Details *list.ProductDetails
}

// AddItem inserts a new item at the head of the list, or merges it into
// an existing duplicate. Duplicate detection prefers the barcode, then a
// case-insensitive text match. Tasks lists never merge: every add inserts
// a fresh quantity-1, value-0 item. Returns the id of the new or
// merged-into item.
func (s *Store) AddItem(input AddItemInput) (string, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return "", errors.NewValidation("item text must not be blank")
	}
	if input.UnitValue < 0 {
		return "", errors.NewValidation("unit value must not be negative")
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	l := s.findLocked(input.ListID)
	if l == nil {
		s.mu.Unlock()
		return "", errors.NewListNotFound(input.ListID)
	}
	if l.Archived {
		s.mu.Unlock()
		return "", errors.NewState("list is archived: unarchive it first")
	}

	tasks := s.isTasksLocked(l)
	if !tasks {
		var existing *list.Item
		if input.Details != nil && input.Details.Barcode != "" {
			existing = l.FindByBarcode(input.Details.Barcode)
		}
		if existing == nil {
			existing = l.FindByText(text)
		}
		if existing != nil {
			existing.Quantity += quantity
			// One-time upgrade from unknown price: adopt the incoming
			// unit value only when the existing one is still zero.
			if existing.UnitValue == 0 && input.UnitValue > 0 {
				existing.UnitValue = input.UnitValue
			}
			existing.Recompute()
			id := existing.ID
			fire := s.evaluatePromptLocked(l)
			snapshot := s.snapshotLocked()
			s.mu.Unlock()

			s.firePrompt(fire, l.ID)
			s.scheduleSave(snapshot)
			return id, nil
		}
	}

	id, err := generateULID()
	if err != nil {
		s.mu.Unlock()
		return "", errors.NewInternal(err)
	}

	item := &list.Item{
		ID:        id,
		Text:      text,
		Quantity:  quantity,
		UnitValue: input.UnitValue,
		Details:   input.Details,
	}
	if tasks {
		item.Quantity = 1
		item.UnitValue = 0
	}
	item.Recompute()

	// Newest first
	l.Items = append([]*list.Item{item}, l.Items...)
	fire := s.evaluatePromptLocked(l)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.firePrompt(fire, l.ID)
	s.scheduleSave(snapshot)
	return id, nil
}

// ChangeQuantity adjusts an item's quantity by delta, clamped at 1.
// Going below the floor is a no-op, not an error. Quantity on tasks lists
// is pinned to 1.
func (s *Store) ChangeQuantity(listID, itemID string, delta int) error {
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
	it := l.FindItem(itemID)
	if it == nil {
		s.mu.Unlock()
		return errors.NewItemNotFound(listID, itemID)
	}

	if s.isTasksLocked(l) {
		s.mu.Unlock()
		return nil
	}

	it.Quantity += delta
	it.Recompute()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return nil
}

// SetPurchased sets an item's purchased flag.
func (s *Store) SetPurchased(listID, itemID string, purchased bool) error {
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
	it := l.FindItem(itemID)
	if it == nil {
		s.mu.Unlock()
		return errors.NewItemNotFound(listID, itemID)
	}

	it.Purchased = purchased
	fire := s.evaluatePromptLocked(l)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.firePrompt(fire, listID)
	s.scheduleSave(snapshot)
	return nil
}

// RemoveItem deletes an item. Removing a missing item is a no-op.
func (s *Store) RemoveItem(listID, itemID string) error {
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

	removed := false
	for i, it := range l.Items {
		if it.ID == itemID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return nil
	}

	fire := s.evaluatePromptLocked(l)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.firePrompt(fire, listID)
	s.scheduleSave(snapshot)
	return nil
}

// UpdateItemInput contains parameters for the UpdateItem operation.
// Nil fields are left unchanged.
type UpdateItemInput struct {
	ListID string
	ItemID string

	Text      *string
	UnitValue *float64
}

// UpdateItem applies a finalized edit to an item. Value fields on tasks
// lists are left untouched regardless of input. When the item carries a
// barcode, the edit upserts the barcode cache: the cache holds only
// user-confirmed data, never raw remote guesses.
func (s *Store) UpdateItem(input UpdateItemInput) error {
	if input.Text != nil && strings.TrimSpace(*input.Text) == "" {
		return errors.NewValidation("item text must not be blank")
	}
	if input.UnitValue != nil && *input.UnitValue < 0 {
		return errors.NewValidation("unit value must not be negative")
	}

	s.mu.Lock()
	l := s.findLocked(input.ListID)
	if l == nil {
		s.mu.Unlock()
		return errors.NewListNotFound(input.ListID)
	}
	if l.Archived {
		s.mu.Unlock()
		return errors.NewState("list is archived: unarchive it first")
	}
	it := l.FindItem(input.ItemID)
	if it == nil {
		s.mu.Unlock()
		return errors.NewItemNotFound(input.ListID, input.ItemID)
	}

	if input.Text != nil {
		it.Text = strings.TrimSpace(*input.Text)
	}
	if !s.isTasksLocked(l) {
		if input.UnitValue != nil {
			it.UnitValue = *input.UnitValue
		}
		it.Recompute()
	}

	var cacheCopy map[string]list.CacheEntry
	if barcode := it.Barcode(); barcode != "" {
		clone := it.Clone()
		s.cache[barcode] = list.CacheEntry{
			DisplayName: clone.Text,
			UnitValue:   clone.UnitValue,
			Details:     clone.Details,
		}
		cacheCopy = s.cacheCopyLocked()
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if cacheCopy != nil {
		s.scheduleCacheSave(cacheCopy)
	}
	s.scheduleSave(snapshot)
	return nil
}
