package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

const cardColumns = `practice_item_key, type, mode, state, stability, difficulty,
	due, last_review, reps, lapses, scheduled_days, elapsed_days, learning_steps`

// FetchCardsForUser returns every card the user owns, across types and modes.
func (s *Store) FetchCardsForUser(ctx context.Context, userID string) ([]srs.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE user_id = ?
		ORDER BY practice_item_key, type, mode`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []srs.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// GetCard returns one card by its full key.
func (s *Store) GetCard(ctx context.Context, userID, key string, typ srs.CardType, mode srs.PracticeMode) (srs.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE user_id = ? AND practice_item_key = ? AND type = ? AND mode = ?`,
		userID, key, string(typ), string(mode),
	)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return srs.Card{}, ErrNotFound
	}
	return card, err
}

// BatchUpsertCards writes the given cards in a single transaction. An
// existing row with the same key is replaced wholesale; reconciliation
// already folded the old card's history into the new one.
func (s *Store) BatchUpsertCards(ctx context.Context, userID string, cards []srs.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (user_id, `+cardColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, practice_item_key, type, mode) DO UPDATE SET
			state = excluded.state,
			stability = excluded.stability,
			difficulty = excluded.difficulty,
			due = excluded.due,
			last_review = excluded.last_review,
			reps = excluded.reps,
			lapses = excluded.lapses,
			scheduled_days = excluded.scheduled_days,
			elapsed_days = excluded.elapsed_days,
			learning_steps = excluded.learning_steps,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, card := range cards {
		var lastReview any
		if card.LastReview != nil {
			lastReview = card.LastReview.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx,
			userID, card.PracticeItemKey, string(card.Type), string(card.Mode),
			int(card.State), card.Stability, card.Difficulty,
			formatDue(card.Due), lastReview,
			card.Reps, card.Lapses, card.ScheduledDays, card.ElapsedDays, card.LearningSteps,
			now, now,
		); err != nil {
			return fmt.Errorf("upserting card %q: %w", card.PracticeItemKey, err)
		}
	}

	return tx.Commit()
}

// BatchDeleteCards removes cards by (practice_item_key, type) across all
// practice modes, in a single transaction. Missing rows are not an error;
// deletion is idempotent.
func (s *Store) BatchDeleteCards(ctx context.Context, userID string, refs []srs.Ref) error {
	if len(refs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`DELETE FROM cards WHERE user_id = ? AND practice_item_key = ? AND type = ?`)
	if err != nil {
		return fmt.Errorf("preparing delete: %w", err)
	}
	defer stmt.Close()

	for _, ref := range refs {
		if _, err := stmt.ExecContext(ctx, userID, ref.PracticeItemKey, string(ref.Type)); err != nil {
			return fmt.Errorf("deleting card %q: %w", ref.PracticeItemKey, err)
		}
	}

	return tx.Commit()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (srs.Card, error) {
	var c srs.Card
	var typ, mode, due string
	var lastReview sql.NullString
	var state int

	err := row.Scan(
		&c.PracticeItemKey, &typ, &mode, &state, &c.Stability, &c.Difficulty,
		&due, &lastReview, &c.Reps, &c.Lapses, &c.ScheduledDays, &c.ElapsedDays, &c.LearningSteps,
	)
	if err != nil {
		return srs.Card{}, err
	}

	c.Type = srs.CardType(typ)
	c.Mode = srs.PracticeMode(mode)
	c.State = srs.State(state)

	if due != "" {
		t, err := time.Parse(time.RFC3339, due)
		if err != nil {
			return srs.Card{}, fmt.Errorf("parsing due for %q: %w", c.PracticeItemKey, err)
		}
		c.Due = t
	}
	if lastReview.Valid && lastReview.String != "" {
		t, err := time.Parse(time.RFC3339, lastReview.String)
		if err != nil {
			return srs.Card{}, fmt.Errorf("parsing last_review for %q: %w", c.PracticeItemKey, err)
		}
		c.LastReview = &t
	}
	return c, nil
}

// formatDue keeps a zero due date as the empty string so "scheduler never set
// one" survives a round trip.
func formatDue(due time.Time) string {
	if due.IsZero() {
		return ""
	}
	return due.UTC().Format(time.RFC3339)
}
