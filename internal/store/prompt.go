package store

import "github.com/listfy/listfy/internal/list"

// Archive-prompt state machine. A list moves through:
//
//	active (incomplete) -> complete    on the edge where every item becomes
//	                                   purchased; the prompt fires here
//	                                   unless previously dismissed
//	complete -> dismissed              user declines; no re-fire
//	complete/dismissed -> active       any item unchecked, or the item set
//	                                   changes away from all-purchased;
//	                                   dismissal is forgotten
//
// Confirming the prompt is the collaborator calling ArchiveList and then
// choosing a new active list.

// evaluatePromptLocked updates completion tracking for a list after a
// mutation and reports whether the archive prompt should fire now.
func (s *Store) evaluatePromptLocked(l *list.List) bool {
	if l.Archived || !l.AllPurchased() {
		delete(s.complete, l.ID)
		delete(s.dismissed, l.ID)
		return false
	}
	if s.complete[l.ID] {
		return false // already observed; fire only on the edge
	}
	s.complete[l.ID] = true
	return !s.dismissed[l.ID]
}

// firePrompt invokes the archive-prompt callback outside the store lock.
func (s *Store) firePrompt(fire bool, listID string) {
	if fire && s.OnArchivePrompt != nil {
		s.OnArchivePrompt(listID)
	}
}

// DismissArchivePrompt records that the user declined archiving a
// completed list. The prompt stays quiet until the list leaves and
// re-enters the all-purchased state.
func (s *Store) DismissArchivePrompt(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[listID] = true
}

// ArchivePromptPending reports whether a list currently satisfies the
// prompt condition and has not been dismissed. Collaborators may poll
// this instead of, or in addition to, the OnArchivePrompt callback.
func (s *Store) ArchivePromptPending(listID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.findLocked(listID)
	if l == nil || l.Archived || !l.AllPurchased() {
		return false
	}
	return !s.dismissed[listID]
}
