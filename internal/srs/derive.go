package srs

import "math"

// Default thresholds for the two classification schemes. Both happen to be 21
// days today, but they bucket different quantities (scheduled interval vs.
// stability) and are configured independently.
const (
	// DefaultMasteredIntervalDays is the minimum scheduled interval, in
	// days, for a Review card to classify as "mastered" in the import flow.
	DefaultMasteredIntervalDays = 21

	// DefaultWellKnownStability is the minimum stability, in days, for a
	// card to classify as "well_known" in the hierarchy flow.
	DefaultWellKnownStability = 21.0
)

// ItemStatusForCard classifies a card for the bulk-import flow.
//
// A nil card (never reviewed) and a New card both classify as StatusNone.
// Learning and Relearning cards classify as "learning". Review cards classify
// by scheduled interval: floor(due - last_review) in days, "mastered" at or
// above masteredIntervalDays, "decent" below it or when either timestamp is
// absent. A card with a state outside the known enum returns ErrUnknownState.
func ItemStatusForCard(card *Card, masteredIntervalDays int) (ItemStatus, error) {
	if card == nil {
		return StatusNone, nil
	}

	switch card.State {
	case StateNew:
		return StatusNone, nil
	case StateLearning, StateRelearning:
		return StatusLearning, nil
	case StateReview:
		if card.LastReview == nil || card.Due.IsZero() {
			return StatusDecent, nil
		}
		interval := card.Due.Sub(*card.LastReview)
		days := int(math.Floor(interval.Hours() / 24))
		if days >= masteredIntervalDays {
			return StatusMastered, nil
		}
		return StatusDecent, nil
	}
	return StatusNone, ErrUnknownState
}

// ProgressStateForCard classifies a card for dashboard progress displays.
// A nil card means the item was never seen; otherwise the card is well known
// once its stability reaches stabilityThreshold and learning below that.
func ProgressStateForCard(card *Card, stabilityThreshold float64) ProgressState {
	if card == nil {
		return ProgressNotSeen
	}
	if card.Stability >= stabilityThreshold {
		return ProgressWellKnown
	}
	return ProgressLearning
}
