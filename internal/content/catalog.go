// Package content loads the read-only content catalog: the vocabulary, kanji,
// and radical lists that form the dependency hierarchy. The catalog is
// supplied as three JSON files in one directory and is validated before use.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/hierarchy"
)

// File names expected inside a catalog directory.
const (
	VocabularyFile = "vocabulary.json"
	KanjiFile      = "kanji.json"
	RadicalsFile   = "radicals.json"
)

// LoadDir reads the three catalog files concurrently, then validates the
// resulting hierarchy.
func LoadDir(ctx context.Context, dir string) (hierarchy.Hierarchy, error) {
	var h hierarchy.Hierarchy

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loadJSON(filepath.Join(dir, VocabularyFile), &h.Vocabulary)
	})
	g.Go(func() error {
		return loadJSON(filepath.Join(dir, KanjiFile), &h.Kanji)
	})
	g.Go(func() error {
		return loadJSON(filepath.Join(dir, RadicalsFile), &h.Radicals)
	})
	if err := g.Wait(); err != nil {
		return hierarchy.Hierarchy{}, err
	}

	if err := Validate(h); err != nil {
		return hierarchy.Hierarchy{}, err
	}
	return h, nil
}

func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Validate checks the catalog invariants: ids unique within each level, slugs
// present, and every child reference resolvable. The three-level shape makes
// cycles impossible once references only point one level down, so dangling
// references are the only graph defect to catch.
func Validate(h hierarchy.Hierarchy) error {
	radicals := make(map[int64]bool, len(h.Radicals))
	for _, r := range h.Radicals {
		if r.Slug == "" {
			return fmt.Errorf("content: radical %d has no slug", r.ID)
		}
		if radicals[r.ID] {
			return fmt.Errorf("content: duplicate radical id %d", r.ID)
		}
		radicals[r.ID] = true
	}

	kanji := make(map[int64]bool, len(h.Kanji))
	for _, k := range h.Kanji {
		if k.Slug == "" {
			return fmt.Errorf("content: kanji %d has no slug", k.ID)
		}
		if kanji[k.ID] {
			return fmt.Errorf("content: duplicate kanji id %d", k.ID)
		}
		kanji[k.ID] = true
		for _, id := range k.RadicalIDs {
			if !radicals[id] {
				return fmt.Errorf("content: kanji %q references unknown radical %d", k.Slug, id)
			}
		}
	}

	vocab := make(map[int64]bool, len(h.Vocabulary))
	for _, v := range h.Vocabulary {
		if v.Slug == "" {
			return fmt.Errorf("content: vocabulary %d has no slug", v.ID)
		}
		if vocab[v.ID] {
			return fmt.Errorf("content: duplicate vocabulary id %d", v.ID)
		}
		vocab[v.ID] = true
		for _, id := range v.KanjiIDs {
			if !kanji[id] {
				return fmt.Errorf("content: vocabulary %q references unknown kanji %d", v.Slug, id)
			}
		}
	}

	return nil
}
