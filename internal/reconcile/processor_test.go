package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

var procNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// fakeStore is an in-memory CardStore that can fail individual phases.
type fakeStore struct {
	cards []srs.Card

	fetchErr  error
	upsertErr error
	deleteErr error

	upsertCalls int
	deleteCalls int
	upserted    []srs.Card
	deleted     []srs.Ref
}

func (f *fakeStore) FetchCardsForUser(ctx context.Context, userID string) ([]srs.Card, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.cards, nil
}

func (f *fakeStore) BatchUpsertCards(ctx context.Context, userID string, cards []srs.Card) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, cards...)
	return nil
}

func (f *fakeStore) BatchDeleteCards(ctx context.Context, userID string, refs []srs.Ref) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, refs...)
	return nil
}

func processorInput(initial, current map[string]srs.ItemStatus) Input {
	ids := make([]string, 0, len(initial))
	for id := range initial {
		ids = append(ids, id)
	}
	return Input{
		UserID:  "user-1",
		IDs:     ids,
		Initial: initial,
		Current: current,
		Resolve: vocabResolver,
		Mode:    srs.ModeMeanings,
		Now:     procNow,
	}
}

// TestProcessNoChanges verifies a clean snapshot produces no store calls.
func TestProcessNoChanges(t *testing.T) {
	store := &fakeStore{}
	p := NewProcessor(store, nil)

	snapshot := map[string]srs.ItemStatus{"a": srs.StatusDecent}
	result := p.Process(context.Background(), processorInput(snapshot, snapshot))

	if !result.Success {
		t.Errorf("Success = false, want true: %v", result.Errors)
	}
	if store.upsertCalls != 0 || store.deleteCalls != 0 {
		t.Errorf("store touched on empty change list: upserts=%d deletes=%d", store.upsertCalls, store.deleteCalls)
	}
}

// TestProcessUpserts verifies upserted cards come from synthesis with the
// current status and preserve existing lapse history.
func TestProcessUpserts(t *testing.T) {
	store := &fakeStore{
		cards: []srs.Card{{
			PracticeItemKey: "a",
			Type:            srs.TypeVocabulary,
			Mode:            srs.ModeMeanings,
			State:           srs.StateRelearning,
			Lapses:          4,
		}},
	}
	p := NewProcessor(store, nil)

	result := p.Process(context.Background(), processorInput(
		map[string]srs.ItemStatus{"a": srs.StatusDecent, "b": srs.StatusNone},
		map[string]srs.ItemStatus{"a": srs.StatusMastered, "b": srs.StatusLearning},
	))

	if !result.Success {
		t.Fatalf("Success = false: %v", result.Errors)
	}
	if result.Upserted != 2 || result.Deleted != 0 {
		t.Errorf("counts = %d/%d, want 2/0", result.Upserted, result.Deleted)
	}
	if len(store.upserted) != 2 {
		t.Fatalf("store got %d cards, want 2", len(store.upserted))
	}

	byKey := map[string]srs.Card{}
	for _, c := range store.upserted {
		byKey[c.PracticeItemKey] = c
	}
	a := byKey["a"]
	if a.State != srs.StateReview || a.Stability != 25 {
		t.Errorf("card a = state %v stability %v, want mastered presets", a.State, a.Stability)
	}
	if a.Lapses != 4 {
		t.Errorf("card a lapses = %d, want 4 (history preserved)", a.Lapses)
	}
	b := byKey["b"]
	if b.State != srs.StateLearning || b.Lapses != 0 {
		t.Errorf("card b = state %v lapses %d, want fresh learning card", b.State, b.Lapses)
	}
}

// TestProcessDeleteOnly reproduces the deletion scenario: a cleared status
// must reach BatchDeleteCards and must not trigger an upsert batch.
func TestProcessDeleteOnly(t *testing.T) {
	store := &fakeStore{}
	p := NewProcessor(store, nil)

	result := p.Process(context.Background(), processorInput(
		map[string]srs.ItemStatus{"a": srs.StatusLearning},
		map[string]srs.ItemStatus{"a": srs.StatusNone},
	))

	if !result.Success {
		t.Fatalf("Success = false: %v", result.Errors)
	}
	if store.upsertCalls != 0 {
		t.Error("BatchUpsertCards called for a delete-only change list")
	}
	if len(store.deleted) != 1 {
		t.Fatalf("store got %d deletes, want 1", len(store.deleted))
	}
	want := srs.Ref{PracticeItemKey: "a", Type: srs.TypeVocabulary}
	if store.deleted[0] != want {
		t.Errorf("deleted ref = %+v, want %+v", store.deleted[0], want)
	}
	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", result.Deleted)
	}
}

// TestProcessPartialFailure fails the upsert batch while the delete batch
// succeeds; the result must report the failure yet keep the delete count.
func TestProcessPartialFailure(t *testing.T) {
	store := &fakeStore{upsertErr: errors.New("connection reset")}
	p := NewProcessor(store, nil)

	result := p.Process(context.Background(), processorInput(
		map[string]srs.ItemStatus{"a": srs.StatusNone, "b": srs.StatusDecent},
		map[string]srs.ItemStatus{"a": srs.StatusLearning, "b": srs.StatusNone},
	))

	if result.Success {
		t.Error("Success = true despite failed upsert batch")
	}
	if result.Upserted != 0 {
		t.Errorf("Upserted = %d, want 0", result.Upserted)
	}
	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1 (delete phase succeeded)", result.Deleted)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "upserting") {
		t.Errorf("Errors = %v, want one upsert-phase message", result.Errors)
	}
}

// TestProcessFetchFailure fails the card fetch; upserts cannot proceed but
// deletes still run.
func TestProcessFetchFailure(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("database is locked")}
	p := NewProcessor(store, nil)

	result := p.Process(context.Background(), processorInput(
		map[string]srs.ItemStatus{"a": srs.StatusNone, "b": srs.StatusDecent},
		map[string]srs.ItemStatus{"a": srs.StatusLearning, "b": srs.StatusNone},
	))

	if result.Success {
		t.Error("Success = true despite failed fetch")
	}
	if store.upsertCalls != 0 {
		t.Error("upsert batch ran without existing-card data")
	}
	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", result.Deleted)
	}
}

// TestProcessRetryAfterFailure re-runs the same inputs after a failure and
// expects the identical change list, since writes are determined purely from
// categorical status.
func TestProcessRetryAfterFailure(t *testing.T) {
	store := &fakeStore{upsertErr: errors.New("transient")}
	p := NewProcessor(store, nil)

	in := processorInput(
		map[string]srs.ItemStatus{"a": srs.StatusNone},
		map[string]srs.ItemStatus{"a": srs.StatusMastered},
	)
	first := p.Process(context.Background(), in)
	if first.Success {
		t.Fatal("expected first run to fail")
	}

	store.upsertErr = nil
	second := p.Process(context.Background(), in)
	if !second.Success {
		t.Fatalf("retry failed: %v", second.Errors)
	}
	if len(first.Changes) != len(second.Changes) || first.Changes[0] != second.Changes[0] {
		t.Errorf("change list differs across retry: %+v vs %+v", first.Changes, second.Changes)
	}
	if second.Upserted != 1 {
		t.Errorf("retry Upserted = %d, want 1", second.Upserted)
	}
}

// TestProcessModeFilter verifies an existing card in a different practice
// mode does not leak its lapse history into the synthesized card.
func TestProcessModeFilter(t *testing.T) {
	store := &fakeStore{
		cards: []srs.Card{{
			PracticeItemKey: "a",
			Type:            srs.TypeVocabulary,
			Mode:            srs.ModeSpellings,
			Lapses:          9,
		}},
	}
	p := NewProcessor(store, nil)

	result := p.Process(context.Background(), processorInput(
		map[string]srs.ItemStatus{"a": srs.StatusNone},
		map[string]srs.ItemStatus{"a": srs.StatusDecent},
	))
	if !result.Success {
		t.Fatalf("Success = false: %v", result.Errors)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("store got %d cards, want 1", len(store.upserted))
	}
	if got := store.upserted[0].Lapses; got != 0 {
		t.Errorf("Lapses = %d, want 0 (spellings card must not match meanings run)", got)
	}
}
