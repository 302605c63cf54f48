// Package reconcile diffs a snapshot of item classifications against the
// user's current edits and turns the difference into the minimal set of card
// writes: one upsert per item that gained or changed a classification, one
// delete per item whose classification was cleared.
package reconcile

import (
	"sort"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// Op says how a changed item reaches persistence.
type Op string

const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Change records one item whose classification differs between the snapshot
// and the live map. Changes are transient; they are never persisted.
type Change struct {
	ID      string         `json:"id"`
	Type    srs.CardType   `json:"type"`
	Initial srs.ItemStatus `json:"initialStatus"`
	Current srs.ItemStatus `json:"currentStatus"`
	Op      Op             `json:"changeType"`
}

// TypeResolver maps an item id to its card type.
type TypeResolver func(id string) srs.CardType

// DetectChanges compares the snapshot classification of every id against the
// live map and returns one Change per difference, in sorted id order.
//
// Ids absent from both maps never appear in the result, and items the live
// map added beyond the snapshot's key set are ignored: the snapshot's key set
// is the universe. Comparing a snapshot against itself yields nil, so
// re-running reconciliation after a successful apply is a no-op.
func DetectChanges(ids []string, initial, current map[string]srs.ItemStatus, resolve TypeResolver) []Change {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	var changes []Change
	for _, id := range sorted {
		before := initial[id]
		after := current[id]
		if before == after {
			continue
		}

		op := OpUpsert
		if after == srs.StatusNone {
			op = OpDelete
		}
		changes = append(changes, Change{
			ID:      id,
			Type:    resolve(id),
			Initial: before,
			Current: after,
			Op:      op,
		})
	}
	return changes
}
