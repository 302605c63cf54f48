// Package storage persists scheduler cards and related bookkeeping in SQLite.
// Cards are keyed by (user, practice_item_key, type, mode); the two batch
// calls reconciliation makes are each a single transaction.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// SyncRun records one bulk-classification apply, so bulk edits stay auditable.
type SyncRun struct {
	ID        string
	UserID    string
	StartedAt time.Time
	Upserted  int
	Deleted   int
	Status    string // "ok" or "failed"
	Error     string
}

// ImportJob is a queued deck-import request processed by the import worker.
type ImportJob struct {
	ID          string
	UserID      string
	Service     string // "anki", "wanikani", "jpdb"
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}
