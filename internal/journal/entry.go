// Package journal persists applied rename plans as an append-only log
// of entries, one JSON record per line. Entries are immutable once
// written; undoing an entry appends a new reverse entry instead of
// rewriting history, so the log stays audit-complete and undo is
// itself undoable.
package journal

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"
)

// EntryID uniquely identifies a journal entry (UUID v4 format).
type EntryID string

// Kind distinguishes forward renames from undo entries.
type Kind string

const (
	// KindRename marks an entry recording an applied rename plan.
	KindRename Kind = "RENAME"
	// KindUndo marks an entry recording the reversal of another entry.
	KindUndo Kind = "UNDO"
)

// Move is one applied rename, recorded exactly as performed.
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Entry records the moves of one applied plan. Moves contains only the
// renames that actually succeeded, in the order they were performed.
type Entry struct {
	ID        EntryID   `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	UndoOf    EntryID   `json:"undoOf,omitempty"` // Entry reversed by this one
	Moves     []Move    `json:"moves"`
}

// entryJSON pins the timestamp to RFC 3339 on the wire.
type entryJSON struct {
	ID        EntryID `json:"id"`
	Timestamp string  `json:"timestamp"`
	Kind      Kind    `json:"kind"`
	UndoOf    EntryID `json:"undoOf,omitempty"`
	Moves     []Move  `json:"moves"`
}

// MarshalJSON implements json.Marshaler for Entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Kind:      e.Kind,
		UndoOf:    e.UndoOf,
		Moves:     e.Moves,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var ej entryJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, ej.Timestamp)
	if err != nil {
		return err
	}
	e.ID = ej.ID
	e.Timestamp = t
	e.Kind = ej.Kind
	e.UndoOf = ej.UndoOf
	e.Moves = ej.Moves
	return nil
}

// NewEntryID generates a UUID v4 format entry identifier.
func NewEntryID() (EntryID, error) {
	uuid := make([]byte, 16)
	if _, err := rand.Read(uuid); err != nil {
		return "", fmt.Errorf("failed to generate entry id: %w", err)
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x40 // Version 4
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // Variant RFC 4122

	return EntryID(fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4],
		uuid[4:6],
		uuid[6:8],
		uuid[8:10],
		uuid[10:16],
	)), nil
}
