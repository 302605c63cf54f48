package storage

import (
	"context"
	"testing"
	"time"
)

// TestImportJobLifecycle enqueues, claims, and completes a job.
func TestImportJobLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	job := ImportJob{
		ID:          "job-1",
		UserID:      "user-1",
		Service:     "wanikani",
		PayloadJSON: `{"path":"/tmp/export.json"}`,
	}
	if err := s.EnqueueImportJob(ctx, job); err != nil {
		t.Fatalf("EnqueueImportJob: %v", err)
	}

	claimed, err := s.ClaimNextImportJob(ctx)
	if err != nil {
		t.Fatalf("ClaimNextImportJob: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected a claimed job")
	}
	if claimed.ID != "job-1" || claimed.Status != "running" {
		t.Errorf("claimed = %+v", claimed)
	}

	// The running job must not be claimable again.
	again, err := s.ClaimNextImportJob(ctx)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if again != nil {
		t.Errorf("claimed running job again: %+v", again)
	}

	if err := s.CompleteImportJob(ctx, claimed.ID); err != nil {
		t.Fatalf("CompleteImportJob: %v", err)
	}
}

// TestImportJobRetryBackoff fails a job and verifies it goes back to pending
// with a future run_after, then to failed once attempts are exhausted.
func TestImportJobRetryBackoff(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	job := ImportJob{ID: "job-1", UserID: "user-1", Service: "anki", PayloadJSON: "{}", MaxAttempts: 2}
	if err := s.EnqueueImportJob(ctx, job); err != nil {
		t.Fatalf("EnqueueImportJob: %v", err)
	}

	claimed, err := s.ClaimNextImportJob(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("claim: %v %v", claimed, err)
	}

	if err := s.FailImportJob(ctx, claimed.ID, "parse error"); err != nil {
		t.Fatalf("FailImportJob: %v", err)
	}

	// First failure: pending again, but not due yet (backoff).
	if j, err := s.ClaimNextImportJob(ctx); err != nil {
		t.Fatalf("claim after failure: %v", err)
	} else if j != nil {
		t.Errorf("job claimable before backoff elapsed: %+v", j)
	}

	var status, lastError string
	if err := s.db.QueryRow(`SELECT status, last_error FROM import_jobs WHERE id = ?`, claimed.ID).Scan(&status, &lastError); err != nil {
		t.Fatalf("reading job row: %v", err)
	}
	if status != "pending" {
		t.Errorf("status = %q, want pending", status)
	}
	if lastError != "parse error" {
		t.Errorf("last_error = %q", lastError)
	}

	// Second failure exhausts max_attempts.
	if err := s.FailImportJob(ctx, claimed.ID, "parse error"); err != nil {
		t.Fatalf("second FailImportJob: %v", err)
	}
	if err := s.db.QueryRow(`SELECT status FROM import_jobs WHERE id = ?`, claimed.ID).Scan(&status); err != nil {
		t.Fatalf("reading job row: %v", err)
	}
	if status != "failed" {
		t.Errorf("status = %q, want failed", status)
	}
}

// TestImportJobOrdering claims jobs oldest run_after first.
func TestImportJobOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	earlier := time.Now().Add(-2 * time.Hour)
	later := time.Now().Add(-1 * time.Hour)
	if err := s.EnqueueImportJob(ctx, ImportJob{ID: "late", UserID: "u", Service: "jpdb", PayloadJSON: "{}", RunAfter: later}); err != nil {
		t.Fatalf("enqueue late: %v", err)
	}
	if err := s.EnqueueImportJob(ctx, ImportJob{ID: "early", UserID: "u", Service: "jpdb", PayloadJSON: "{}", RunAfter: earlier}); err != nil {
		t.Fatalf("enqueue early: %v", err)
	}

	claimed, err := s.ClaimNextImportJob(ctx)
	if err != nil || claimed == nil {
		t.Fatalf("claim: %v %v", claimed, err)
	}
	if claimed.ID != "early" {
		t.Errorf("claimed %q first, want early", claimed.ID)
	}
}
