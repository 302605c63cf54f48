// Package hierarchy rolls per-item progress up through the content dependency
// graph: vocabulary items reference kanji, kanji reference radicals. Given the
// catalog hierarchy and a card lookup it produces per-node progress states and
// per-level summary counters for dashboard displays.
package hierarchy

import (
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// Radical is a leaf node of the content hierarchy.
type Radical struct {
	ID         int64  `json:"id"`
	Slug       string `json:"slug"`
	Characters string `json:"characters,omitempty"`
}

// Kanji references zero or more radicals by id.
type Kanji struct {
	ID         int64   `json:"id"`
	Slug       string  `json:"slug"`
	Characters string  `json:"characters,omitempty"`
	RadicalIDs []int64 `json:"radical_ids"`
}

// Vocabulary references zero or more kanji by id.
type Vocabulary struct {
	ID         int64   `json:"id"`
	Slug       string  `json:"slug"`
	Characters string  `json:"characters,omitempty"`
	KanjiIDs   []int64 `json:"kanji_ids"`
}

// Hierarchy is the read-only content DAG supplied by the content catalog.
// Kanji and radicals may be shared across many parents.
type Hierarchy struct {
	Vocabulary []Vocabulary `json:"vocabulary"`
	Kanji      []Kanji      `json:"kanji"`
	Radicals   []Radical    `json:"radicals"`
}

// CardKey identifies a card within one user's collection.
type CardKey struct {
	Type srs.CardType
	Key  string
}

// CardIndex maps card keys to cards. Missing entries mean "never reviewed".
type CardIndex map[CardKey]*srs.Card

// IndexCards builds a CardIndex from a flat card list, as returned by the
// persistence layer.
func IndexCards(cards []srs.Card) CardIndex {
	idx := make(CardIndex, len(cards))
	for i := range cards {
		c := &cards[i]
		idx[CardKey{Type: c.Type, Key: c.PracticeItemKey}] = c
	}
	return idx
}
