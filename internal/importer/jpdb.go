package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// jpdbExport mirrors the deck shapes in a jpdb review export.
type jpdbExport struct {
	VocabularyCards []jpdbVocabCard `json:"cards_vocabulary_jp_en"`
	KanjiCards      []jpdbKanjiCard `json:"cards_kanji_keyword_char"`
}

type jpdbVocabCard struct {
	Spelling string   `json:"spelling"`
	State    []string `json:"state"`
}

type jpdbKanjiCard struct {
	Character string   `json:"character"`
	State     []string `json:"state"`
}

// ParseJPDB reads a jpdb review export. jpdb attaches a state list per card;
// the strongest state wins: "never-forget" is mastered, "known" is decent,
// "learning"/"due"/"failing" are learning, and "new"/"locked"/"blacklisted"
// carry no classification.
func ParseJPDB(r io.Reader) ([]Entry, error) {
	var export jpdbExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("parsing jpdb export: %w", err)
	}

	var entries []Entry
	for i, c := range export.VocabularyCards {
		if c.Spelling == "" {
			return nil, fmt.Errorf("jpdb export: vocabulary card %d has no spelling", i)
		}
		status, err := jpdbStatus(c.State)
		if err != nil {
			return nil, fmt.Errorf("jpdb export: vocabulary card %q: %w", c.Spelling, err)
		}
		entries = append(entries, Entry{Key: c.Spelling, Type: srs.TypeVocabulary, Status: status})
	}
	for i, c := range export.KanjiCards {
		if c.Character == "" {
			return nil, fmt.Errorf("jpdb export: kanji card %d has no character", i)
		}
		status, err := jpdbStatus(c.State)
		if err != nil {
			return nil, fmt.Errorf("jpdb export: kanji card %q: %w", c.Character, err)
		}
		entries = append(entries, Entry{Key: c.Character, Type: srs.TypeKanji, Status: status})
	}
	return entries, nil
}

// jpdbStatus picks the strongest classification among a card's states.
func jpdbStatus(states []string) (srs.ItemStatus, error) {
	best := srs.StatusNone
	rank := map[srs.ItemStatus]int{srs.StatusNone: 0, srs.StatusLearning: 1, srs.StatusDecent: 2, srs.StatusMastered: 3}

	for _, s := range states {
		var status srs.ItemStatus
		switch s {
		case "new", "locked", "blacklisted", "redundant":
			status = srs.StatusNone
		case "learning", "due", "failing", "overdue":
			status = srs.StatusLearning
		case "known":
			status = srs.StatusDecent
		case "never-forget":
			status = srs.StatusMastered
		default:
			return srs.StatusNone, fmt.Errorf("unknown state %q", s)
		}
		if rank[status] > rank[best] {
			best = status
		}
	}
	return best, nil
}
