package srs

import "time"

// preset holds the fabricated scheduler values for one classification.
type preset struct {
	state      State
	stability  float64
	difficulty float64
	offsetDays int
	reps       int
}

// Synthetic card parameters per classification. Chosen so that deriving the
// status back from the synthesized card yields the same classification: a
// "mastered" card gets a 30-day interval and 25-day stability, both past the
// default thresholds, while "decent" sits comfortably below them.
var presets = map[ItemStatus]preset{
	StatusLearning: {state: StateLearning, stability: 2, difficulty: 2, offsetDays: 2, reps: 2},
	StatusDecent:   {state: StateReview, stability: 8, difficulty: 4, offsetDays: 5, reps: 5},
	StatusMastered: {state: StateReview, stability: 25, difficulty: 3, offsetDays: 30, reps: 7},
}

// Synthesize fabricates a card for a user-chosen classification, for items
// the user marked without ever reviewing them. When an existing card is
// given, its identity and lapse count carry over; synthesis must never erase
// forgetting history. Synthesizing from StatusNone returns ErrNoStatus.
func Synthesize(status ItemStatus, existing *Card, now time.Time) (Card, error) {
	p, ok := presets[status]
	if !ok {
		return Card{}, ErrNoStatus
	}

	lastReview := now
	card := Card{
		Mode:          ModeMeanings,
		State:         p.state,
		Stability:     p.stability,
		Difficulty:    p.difficulty,
		Due:           now.AddDate(0, 0, p.offsetDays),
		LastReview:    &lastReview,
		Reps:          p.reps,
		ScheduledDays: p.offsetDays,
		ElapsedDays:   0,
		LearningSteps: 0,
	}

	if existing != nil {
		card.PracticeItemKey = existing.PracticeItemKey
		card.Type = existing.Type
		if existing.Mode != "" {
			card.Mode = existing.Mode
		}
		card.Lapses = existing.Lapses
	}
	return card, nil
}
