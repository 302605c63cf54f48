package srs

// ItemStatus is the coarse classification used by the bulk-import and review
// screens. The empty string means "no classification": the item is untouched
// or the user cleared it.
type ItemStatus string

const (
	StatusNone     ItemStatus = ""
	StatusLearning ItemStatus = "learning"
	StatusDecent   ItemStatus = "decent"
	StatusMastered ItemStatus = "mastered"
)

// IsValid reports whether s is a known classification, including StatusNone.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusNone, StatusLearning, StatusDecent, StatusMastered:
		return true
	}
	return false
}

// ProgressState is the coarse classification used by dashboard progress
// displays. It uses a different bucketing rule than ItemStatus: progress is a
// threshold on the scheduler's stability estimate, while ItemStatus reasons
// about scheduled interval length.
type ProgressState string

const (
	ProgressNotSeen   ProgressState = "not_seen"
	ProgressLearning  ProgressState = "learning"
	ProgressWellKnown ProgressState = "well_known"
)
