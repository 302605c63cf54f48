package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// Anki card types as exported by AnkiConnect's cardsInfo.
const (
	ankiTypeNew        = 0
	ankiTypeLearning   = 1
	ankiTypeReview     = 2
	ankiTypeRelearning = 3
)

// ankiCard mirrors the fields we use from an AnkiConnect cardsInfo dump.
// Interval is in days for review cards (Anki stores sub-day intervals as
// negative seconds; those count as "still learning").
type ankiCard struct {
	Word     string `json:"word"`
	Kind     string `json:"kind"` // "vocabulary" or "kanji"
	Type     int    `json:"type"`
	Interval int    `json:"interval"`
	Lapses   int    `json:"lapses"`
	Reps     int    `json:"reps"`
}

// ParseAnki reads an AnkiConnect cardsInfo JSON array. Review cards classify
// by interval length the same way the import flow classifies scheduled
// intervals: 21 days and up is mastered.
func ParseAnki(r io.Reader) ([]Entry, error) {
	var cards []ankiCard
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("parsing anki export: %w", err)
	}

	entries := make([]Entry, 0, len(cards))
	for i, c := range cards {
		if c.Word == "" {
			return nil, fmt.Errorf("anki export: card %d has no word", i)
		}
		typ := srs.TypeVocabulary
		if c.Kind == "kanji" {
			typ = srs.TypeKanji
		}

		var status srs.ItemStatus
		switch c.Type {
		case ankiTypeNew:
			status = srs.StatusNone
		case ankiTypeLearning, ankiTypeRelearning:
			status = srs.StatusLearning
		case ankiTypeReview:
			if c.Interval >= srs.DefaultMasteredIntervalDays {
				status = srs.StatusMastered
			} else {
				status = srs.StatusDecent
			}
		default:
			return nil, fmt.Errorf("anki export: card %q has unknown type %d", c.Word, c.Type)
		}

		entries = append(entries, Entry{Key: c.Word, Type: typ, Status: status, Lapses: c.Lapses})
	}
	return entries, nil
}
