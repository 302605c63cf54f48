package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

// CardStore is the slice of the persistence layer reconciliation needs.
// Each batch call is individually atomic; the upsert and delete batches are
// not jointly atomic, and a retry with the same inputs reproduces the same
// change list.
type CardStore interface {
	FetchCardsForUser(ctx context.Context, userID string) ([]srs.Card, error)
	BatchUpsertCards(ctx context.Context, userID string, cards []srs.Card) error
	BatchDeleteCards(ctx context.Context, userID string, refs []srs.Ref) error
}

// Input carries one reconciliation request: the snapshot captured when the
// editing session began, the live map as the user left it, and the id
// universe (the snapshot's key set).
type Input struct {
	UserID  string
	IDs     []string
	Initial map[string]srs.ItemStatus
	Current map[string]srs.ItemStatus
	Resolve TypeResolver
	Mode    srs.PracticeMode
	Now     time.Time
}

// Result reports what one reconciliation run did. On partial failure Success
// is false and Errors names the failed phase(s), while the counters still
// reflect whatever succeeded. The caller leaves the live map untouched on
// failure so the user can retry without re-entering edits.
type Result struct {
	Success  bool     `json:"success"`
	Upserted int      `json:"upserted"`
	Deleted  int      `json:"deleted"`
	Errors   []string `json:"errors,omitempty"`
	Changes  []Change `json:"changes"`
}

// Processor drives reconciliation against a card store.
type Processor struct {
	store  CardStore
	logger *slog.Logger
}

// NewProcessor creates a Processor. A nil logger falls back to slog.Default.
func NewProcessor(store CardStore, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, logger: logger}
}

// Process detects changes and persists them in two batches: upserts first,
// then deletes. Each upsert synthesizes a card from the item's current status,
// reusing the persisted card (when one exists) so lapse history carries over.
// Exactly one synthesis happens per changed id.
//
// The two batches fail independently; see Result. Callers must not run two
// reconciliations concurrently against the same snapshot.
func (p *Processor) Process(ctx context.Context, in Input) Result {
	changes := DetectChanges(in.IDs, in.Initial, in.Current, in.Resolve)
	result := Result{Success: true, Changes: changes}
	if len(changes) == 0 {
		return result
	}

	var upserts []Change
	var deletes []srs.Ref
	for _, ch := range changes {
		switch ch.Op {
		case OpUpsert:
			upserts = append(upserts, ch)
		case OpDelete:
			deletes = append(deletes, srs.Ref{PracticeItemKey: ch.ID, Type: ch.Type})
		}
	}

	var existing map[srs.Ref]*srs.Card
	if len(upserts) > 0 {
		var err error
		existing, err = p.fetchExisting(ctx, in.UserID, in.Mode)
		if err != nil {
			// Without the persisted cards we cannot synthesize safely:
			// lapse history would be lost. Fail the upsert phase, but the
			// delete phase can still run.
			result.Errors = append(result.Errors, fmt.Sprintf("fetching cards: %v", err))
			upserts = nil
		}
	}

	if len(upserts) > 0 {
		cards := make([]srs.Card, 0, len(upserts))
		for _, ch := range upserts {
			card, err := srs.Synthesize(ch.Current, existing[srs.Ref{PracticeItemKey: ch.ID, Type: ch.Type}], in.Now)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("synthesizing card for %q: %v", ch.ID, err))
				continue
			}
			card.PracticeItemKey = ch.ID
			card.Type = ch.Type
			if in.Mode != "" {
				card.Mode = in.Mode
			}
			cards = append(cards, card)
		}

		if err := p.store.BatchUpsertCards(ctx, in.UserID, cards); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("upserting %d cards: %v", len(cards), err))
		} else {
			result.Upserted = len(cards)
		}
	}

	if len(deletes) > 0 {
		if err := p.store.BatchDeleteCards(ctx, in.UserID, deletes); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("deleting %d cards: %v", len(deletes), err))
		} else {
			result.Deleted = len(deletes)
		}
	}

	result.Success = len(result.Errors) == 0
	p.logger.Info("reconciliation finished",
		"user", in.UserID,
		"changes", len(changes),
		"upserted", result.Upserted,
		"deleted", result.Deleted,
		"success", result.Success,
	)
	return result
}

// fetchExisting loads the user's cards once and indexes them by (key, type),
// keeping only cards in the requested practice mode. An empty mode matches
// everything.
func (p *Processor) fetchExisting(ctx context.Context, userID string, mode srs.PracticeMode) (map[srs.Ref]*srs.Card, error) {
	cards, err := p.store.FetchCardsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := make(map[srs.Ref]*srs.Card, len(cards))
	for i := range cards {
		c := &cards[i]
		if mode != "" && c.Mode != mode {
			continue
		}
		idx[c.Ref()] = c
	}
	return idx, nil
}
