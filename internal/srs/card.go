// Package srs holds the scheduler-facing card model and the logic that maps
// continuous scheduler state to the coarse classifications the rest of the
// application works with: the three-level import status used by bulk review
// screens and the progress state used by dashboard displays.
//
// The scheduling formula itself lives outside this module; cards are treated
// as a stable record shape produced and consumed by the external scheduler.
package srs

import "time"

// CardType identifies which kind of content item a card tracks.
// Radicals are not reviewed as independent cards; they surface only through
// the hierarchy layer.
type CardType string

const (
	TypeVocabulary CardType = "vocabulary"
	TypeKanji      CardType = "kanji"
)

// PracticeMode distinguishes the practice direction a card belongs to.
// Together with the owner, item key, and type it forms the persistence key.
type PracticeMode string

const (
	ModeMeanings  PracticeMode = "meanings"
	ModeSpellings PracticeMode = "spellings"
)

// Card is one scheduler record for a (practice item, type, mode) triple.
// Due and LastReview may be absent: a zero Due means the scheduler never set
// one, a nil LastReview means the item was never reviewed.
type Card struct {
	PracticeItemKey string       `json:"practice_item_key"`
	Type            CardType     `json:"type"`
	Mode            PracticeMode `json:"mode"`

	State      State      `json:"state"`
	Stability  float64    `json:"stability"`
	Difficulty float64    `json:"difficulty"`
	Due        time.Time  `json:"due"`
	LastReview *time.Time `json:"last_review,omitempty"`

	// Scheduler bookkeeping. Opaque here, except that synthesis fills them
	// with self-consistent preset values.
	Reps          int `json:"reps"`
	Lapses        int `json:"lapses"`
	ScheduledDays int `json:"scheduled_days"`
	ElapsedDays   int `json:"elapsed_days"`
	LearningSteps int `json:"learning_steps"`
}

// Ref is the identity portion of a card, used for deletions.
type Ref struct {
	PracticeItemKey string   `json:"practice_item_key"`
	Type            CardType `json:"type"`
}

// Ref returns the card's deletion key.
func (c Card) Ref() Ref {
	return Ref{PracticeItemKey: c.PracticeItemKey, Type: c.Type}
}
