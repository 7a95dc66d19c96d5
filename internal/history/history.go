// Package history keeps a linear undo/redo list of whole layer-stack
// snapshots.
package history

import "github.com/example/tilesmith/internal/layers"

// Manager stores deep copies of a layers.Stack. Position addresses the entry
// that matches the live stack.
type Manager struct {
	limit   int
	entries []*layers.Stack
	pos     int
}

// New returns an empty manager. A positive limit caps the number of stored
// entries, dropping the oldest first.
func New(limit int) *Manager {
	return &Manager{limit: limit, pos: -1}
}

// Snapshot discards any redo entries and records a copy of s.
func (m *Manager) Snapshot(s *layers.Stack) {
	m.entries = append(m.entries[:m.pos+1], s.Clone())
	if m.limit > 0 && len(m.entries) > m.limit {
		drop := len(m.entries) - m.limit
		m.entries = append(m.entries[:0], m.entries[drop:]...)
	}
	m.pos = len(m.entries) - 1
}

// Undo steps back one entry and restores it into s. It reports false when
// there is nothing to undo.
func (m *Manager) Undo(s *layers.Stack) bool {
	if !m.CanUndo() {
		return false
	}
	m.pos--
	s.ReplaceWith(m.entries[m.pos])
	return true
}

// Redo steps forward one entry and restores it into s.
func (m *Manager) Redo(s *layers.Stack) bool {
	if !m.CanRedo() {
		return false
	}
	m.pos++
	s.ReplaceWith(m.entries[m.pos])
	return true
}

// Revert restores the current entry into s without moving. It is used to
// discard uncommitted changes.
func (m *Manager) Revert(s *layers.Stack) bool {
	if m.pos < 0 {
		return false
	}
	s.ReplaceWith(m.entries[m.pos])
	return true
}

func (m *Manager) CanUndo() bool { return m.pos > 0 }

func (m *Manager) CanRedo() bool { return m.pos >= 0 && m.pos < len(m.entries)-1 }

// Len returns the number of stored entries.
func (m *Manager) Len() int { return len(m.entries) }

// Position returns the index of the current entry, or -1 when empty.
func (m *Manager) Position() int { return m.pos }

// Reset drops every entry and records s as the new baseline.
func (m *Manager) Reset(s *layers.Stack) {
	m.entries = nil
	m.pos = -1
	m.Snapshot(s)
}
