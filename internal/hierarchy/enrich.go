package hierarchy

import (
	"fmt"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// EnrichedRadical is a radical with its derived progress state.
type EnrichedRadical struct {
	Radical
	Progress srs.ProgressState `json:"progress"`
}

// EnrichedKanji is a kanji with its derived progress state and its radical
// references resolved to enriched radicals.
type EnrichedKanji struct {
	Kanji
	Progress srs.ProgressState  `json:"progress"`
	Radicals []*EnrichedRadical `json:"radicals"`
}

// EnrichedVocabulary is a vocabulary item with its derived progress state and
// its kanji references resolved to enriched kanji.
type EnrichedVocabulary struct {
	Vocabulary
	Progress srs.ProgressState `json:"progress"`
	Kanji    []*EnrichedKanji  `json:"kanji"`
}

// Summary counts one content level's progress buckets. Items neither well
// known nor learning are not seen: Total - WellKnown - Learning.
type Summary struct {
	Total     int `json:"total"`
	WellKnown int `json:"wellKnown"`
	Learning  int `json:"learning"`
}

func (s *Summary) add(p srs.ProgressState) {
	s.Total++
	switch p {
	case srs.ProgressWellKnown:
		s.WellKnown++
	case srs.ProgressLearning:
		s.Learning++
	}
}

// Enriched is the full hierarchy with progress attached, plus the per-level
// summaries.
type Enriched struct {
	Vocabulary []*EnrichedVocabulary `json:"vocabulary"`
	Kanji      []*EnrichedKanji      `json:"kanji"`
	Radicals   []*EnrichedRadical    `json:"radicals"`

	VocabularySummary Summary `json:"vocabularySummary"`
	KanjiSummary      Summary `json:"kanjiSummary"`
	RadicalSummary    Summary `json:"radicalSummary"`
}

// Enrich derives a progress state for every node of the hierarchy and resolves
// child references to the enriched child objects.
//
// Enrichment is a pure function of (hierarchy, cards): the same inputs always
// produce the same result. Each node is enriched exactly once and shared by
// reference from all its parents, so a radical or kanji reused across parents
// can never report two different progress values in one pass. Radicals are not
// independently reviewed cards; their progress resolves through kanji-type
// cards keyed by the radical's character (or slug when it has no character).
//
// A child reference to an id missing from the hierarchy is a catalog defect
// and returns an error.
func Enrich(h Hierarchy, cards CardIndex, stabilityThreshold float64) (*Enriched, error) {
	out := &Enriched{
		Vocabulary: make([]*EnrichedVocabulary, 0, len(h.Vocabulary)),
		Kanji:      make([]*EnrichedKanji, 0, len(h.Kanji)),
		Radicals:   make([]*EnrichedRadical, 0, len(h.Radicals)),
	}

	// Radicals first: they have no further dependencies.
	radicalsByID := make(map[int64]*EnrichedRadical, len(h.Radicals))
	for _, r := range h.Radicals {
		key := r.Characters
		if key == "" {
			key = r.Slug
		}
		er := &EnrichedRadical{
			Radical:  r,
			Progress: srs.ProgressStateForCard(cards[CardKey{Type: srs.TypeKanji, Key: key}], stabilityThreshold),
		}
		radicalsByID[r.ID] = er
		out.Radicals = append(out.Radicals, er)
		out.RadicalSummary.add(er.Progress)
	}

	kanjiByID := make(map[int64]*EnrichedKanji, len(h.Kanji))
	for _, k := range h.Kanji {
		ek := &EnrichedKanji{
			Kanji:    k,
			Progress: srs.ProgressStateForCard(cards[CardKey{Type: srs.TypeKanji, Key: k.Slug}], stabilityThreshold),
			Radicals: make([]*EnrichedRadical, 0, len(k.RadicalIDs)),
		}
		for _, id := range k.RadicalIDs {
			er, ok := radicalsByID[id]
			if !ok {
				return nil, fmt.Errorf("hierarchy: kanji %q references unknown radical %d", k.Slug, id)
			}
			ek.Radicals = append(ek.Radicals, er)
		}
		kanjiByID[k.ID] = ek
		out.Kanji = append(out.Kanji, ek)
		out.KanjiSummary.add(ek.Progress)
	}

	for _, v := range h.Vocabulary {
		ev := &EnrichedVocabulary{
			Vocabulary: v,
			Progress:   srs.ProgressStateForCard(cards[CardKey{Type: srs.TypeVocabulary, Key: v.Slug}], stabilityThreshold),
			Kanji:      make([]*EnrichedKanji, 0, len(v.KanjiIDs)),
		}
		for _, id := range v.KanjiIDs {
			ek, ok := kanjiByID[id]
			if !ok {
				return nil, fmt.Errorf("hierarchy: vocabulary %q references unknown kanji %d", v.Slug, id)
			}
			ev.Kanji = append(ev.Kanji, ek)
		}
		out.Vocabulary = append(out.Vocabulary, ev)
		out.VocabularySummary.add(ev.Progress)
	}

	return out, nil
}
