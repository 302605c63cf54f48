// Package importer normalizes third-party review exports (Anki, WaniKani,
// jpdb) into card rows. Each adapter maps the service's own progress
// vocabulary onto the app's classification, then builds cards through
// category synthesis so lapse history survives the import.
package importer

import (
	"fmt"
	"io"
	"time"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// Entry is one normalized item from an export file: the practice key, what
// kind of item it is, the classification the source service's progress maps
// to, and the forgetting count when the service exposes one.
type Entry struct {
	Key    string
	Type   srs.CardType
	Status srs.ItemStatus
	Lapses int
}

// ParseFunc reads one service's export format into normalized entries.
type ParseFunc func(r io.Reader) ([]Entry, error)

// Services lists the supported import sources.
func Services() []string {
	return []string{"anki", "jpdb", "wanikani"}
}

// ForService returns the parser for a service name.
func ForService(name string) (ParseFunc, error) {
	switch name {
	case "anki":
		return ParseAnki, nil
	case "wanikani":
		return ParseWaniKani, nil
	case "jpdb":
		return ParseJPDB, nil
	}
	return nil, fmt.Errorf("importer: unknown service %q", name)
}

// BuildCards synthesizes one card per classified entry. Entries whose
// progress maps to "no classification" (new, locked, blacklisted items) are
// skipped; importing them would fabricate review history that never happened.
func BuildCards(entries []Entry, mode srs.PracticeMode, now time.Time) ([]srs.Card, error) {
	cards := make([]srs.Card, 0, len(entries))
	for _, e := range entries {
		if e.Status == srs.StatusNone {
			continue
		}
		seed := &srs.Card{
			PracticeItemKey: e.Key,
			Type:            e.Type,
			Mode:            mode,
			Lapses:          e.Lapses,
		}
		card, err := srs.Synthesize(e.Status, seed, now)
		if err != nil {
			return nil, fmt.Errorf("building card for %q: %w", e.Key, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
