package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/storage"
)

// JobStore abstracts the import job queue.
type JobStore interface {
	ClaimNextImportJob(ctx context.Context) (*storage.ImportJob, error)
	CompleteImportJob(ctx context.Context, id string) error
	FailImportJob(ctx context.Context, id string, errMsg string) error
}

// CardWriter persists imported card batches.
type CardWriter interface {
	BatchUpsertCards(ctx context.Context, userID string, cards []srs.Card) error
}

// Worker processes queued import jobs: it parses the referenced export file
// and upserts the normalized cards.
type Worker struct {
	jobs   JobStore
	cards  CardWriter
	poll   time.Duration
	logger *slog.Logger
}

// NewWorker creates a Worker. A pollInterval <= 0 defaults to 500ms.
func NewWorker(jobs JobStore, cards CardWriter, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		jobs:   jobs,
		cards:  cards,
		poll:   pollInterval,
		logger: slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single import job. It returns true if a job
// was processed, regardless of success.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.jobs.ClaimNextImportJob(ctx)
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("import job failed", "job_id", job.ID, "service", job.Service, "error", err)
		if failErr := w.jobs.FailImportJob(ctx, job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.jobs.CompleteImportJob(ctx, job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

// JobPayload is the JSON payload of an import job.
type JobPayload struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"` // practice mode, defaults to meanings
}

func (w *Worker) processJob(ctx context.Context, job *storage.ImportJob) error {
	var payload JobPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	parse, err := ForService(job.Service)
	if err != nil {
		return err
	}

	f, err := os.Open(payload.Path)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	entries, err := parse(f)
	if err != nil {
		return err
	}

	mode := srs.ModeMeanings
	if payload.Mode != "" {
		mode = srs.PracticeMode(payload.Mode)
	}
	cards, err := BuildCards(entries, mode, time.Now())
	if err != nil {
		return err
	}

	if err := w.cards.BatchUpsertCards(ctx, job.UserID, cards); err != nil {
		return fmt.Errorf("upserting %d cards: %w", len(cards), err)
	}

	w.logger.Info("import job processed",
		"job_id", job.ID,
		"service", job.Service,
		"entries", len(entries),
		"cards", len(cards),
	)
	return nil
}
