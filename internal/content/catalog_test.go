package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/hierarchy"
)

func writeCatalog(t *testing.T, vocabulary, kanji, radicals string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		VocabularyFile: vocabulary,
		KanjiFile:      kanji,
		RadicalsFile:   radicals,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestLoadDir loads a small valid catalog and checks the hierarchy shape.
func TestLoadDir(t *testing.T) {
	dir := writeCatalog(t,
		`[{"id":100,"slug":"食べる","kanji_ids":[10]}]`,
		`[{"id":10,"slug":"食","characters":"食","radical_ids":[1]}]`,
		`[{"id":1,"slug":"eat","characters":"食"}]`,
	)

	h, err := LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if len(h.Vocabulary) != 1 || len(h.Kanji) != 1 || len(h.Radicals) != 1 {
		t.Fatalf("unexpected counts: %d/%d/%d", len(h.Vocabulary), len(h.Kanji), len(h.Radicals))
	}
	if h.Vocabulary[0].KanjiIDs[0] != 10 {
		t.Errorf("vocabulary kanji_ids = %v", h.Vocabulary[0].KanjiIDs)
	}
}

func TestLoadDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDir(context.Background(), dir); err == nil {
		t.Error("expected error for empty catalog directory")
	}
}

func TestLoadDirInvalidJSON(t *testing.T) {
	dir := writeCatalog(t, `[`, `[]`, `[]`)
	if _, err := LoadDir(context.Background(), dir); err == nil {
		t.Error("expected error for malformed vocabulary.json")
	}
}

func TestValidateDuplicateID(t *testing.T) {
	h := hierarchy.Hierarchy{
		Kanji: []hierarchy.Kanji{
			{ID: 10, Slug: "食"},
			{ID: 10, Slug: "飲"},
		},
	}
	err := Validate(h)
	if err == nil || !strings.Contains(err.Error(), "duplicate kanji id") {
		t.Errorf("error = %v, want duplicate kanji id", err)
	}
}

func TestValidateDanglingReference(t *testing.T) {
	h := hierarchy.Hierarchy{
		Vocabulary: []hierarchy.Vocabulary{{ID: 100, Slug: "食べる", KanjiIDs: []int64{10}}},
	}
	err := Validate(h)
	if err == nil || !strings.Contains(err.Error(), "unknown kanji") {
		t.Errorf("error = %v, want unknown kanji reference", err)
	}

	h = hierarchy.Hierarchy{
		Kanji: []hierarchy.Kanji{{ID: 10, Slug: "食", RadicalIDs: []int64{1}}},
	}
	err = Validate(h)
	if err == nil || !strings.Contains(err.Error(), "unknown radical") {
		t.Errorf("error = %v, want unknown radical reference", err)
	}
}

func TestValidateMissingSlug(t *testing.T) {
	h := hierarchy.Hierarchy{Radicals: []hierarchy.Radical{{ID: 1}}}
	if err := Validate(h); err == nil {
		t.Error("expected error for radical without slug")
	}
}
