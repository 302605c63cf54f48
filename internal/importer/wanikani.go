package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// wkAssignment mirrors the fields we use from a WaniKani assignments export:
// one row per subject with its SRS stage (0 = initiate, 1-4 apprentice,
// 5-6 guru, 7 master, 8 enlightened, 9 burned).
type wkAssignment struct {
	SubjectType string `json:"subject_type"` // "radical", "kanji", "vocabulary"
	Slug        string `json:"slug"`
	Characters  string `json:"characters"`
	SRSStage    int    `json:"srs_stage"`
}

// ParseWaniKani reads a WaniKani assignments JSON array. Apprentice stages
// map to learning, guru to decent, master and above to mastered. Radical
// assignments become kanji-type cards keyed by the radical's characters,
// which is how the hierarchy layer resolves radical progress; image-only
// radicals (no characters) are skipped.
func ParseWaniKani(r io.Reader) ([]Entry, error) {
	var assignments []wkAssignment
	if err := json.NewDecoder(r).Decode(&assignments); err != nil {
		return nil, fmt.Errorf("parsing wanikani export: %w", err)
	}

	entries := make([]Entry, 0, len(assignments))
	for i, a := range assignments {
		var key string
		var typ srs.CardType
		switch a.SubjectType {
		case "vocabulary":
			key = a.Slug
			typ = srs.TypeVocabulary
		case "kanji":
			key = a.Characters
			if key == "" {
				key = a.Slug
			}
			typ = srs.TypeKanji
		case "radical":
			if a.Characters == "" {
				continue
			}
			key = a.Characters
			typ = srs.TypeKanji
		default:
			return nil, fmt.Errorf("wanikani export: assignment %d has unknown subject type %q", i, a.SubjectType)
		}
		if key == "" {
			return nil, fmt.Errorf("wanikani export: assignment %d has no slug or characters", i)
		}

		var status srs.ItemStatus
		switch {
		case a.SRSStage <= 0:
			status = srs.StatusNone
		case a.SRSStage <= 4:
			status = srs.StatusLearning
		case a.SRSStage <= 6:
			status = srs.StatusDecent
		case a.SRSStage <= 9:
			status = srs.StatusMastered
		default:
			return nil, fmt.Errorf("wanikani export: assignment %d has srs_stage %d out of range", i, a.SRSStage)
		}

		entries = append(entries, Entry{Key: key, Type: typ, Status: status})
	}
	return entries, nil
}
