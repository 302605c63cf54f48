package importer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/storage"
)

// fakeJobStore holds a single claimable job and records transitions.
type fakeJobStore struct {
	job       *storage.ImportJob
	completed []string
	failed    map[string]string
}

func (f *fakeJobStore) ClaimNextImportJob(ctx context.Context) (*storage.ImportJob, error) {
	j := f.job
	f.job = nil
	return j, nil
}

func (f *fakeJobStore) CompleteImportJob(ctx context.Context, id string) error {
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeJobStore) FailImportJob(ctx context.Context, id string, errMsg string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = errMsg
	return nil
}

type fakeCardWriter struct {
	upserted map[string][]srs.Card
	err      error
}

func (f *fakeCardWriter) BatchUpsertCards(ctx context.Context, userID string, cards []srs.Card) error {
	if f.err != nil {
		return f.err
	}
	if f.upserted == nil {
		f.upserted = map[string][]srs.Card{}
	}
	f.upserted[userID] = append(f.upserted[userID], cards...)
	return nil
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func importJob(t *testing.T, service, path string) *storage.ImportJob {
	t.Helper()
	payload, err := json.Marshal(JobPayload{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	return &storage.ImportJob{ID: "job-1", UserID: "user-1", Service: service, PayloadJSON: string(payload)}
}

// TestWorkerProcessesJob runs one wanikani import end to end through the
// worker and checks the resulting cards.
func TestWorkerProcessesJob(t *testing.T) {
	path := writeExport(t, `[
		{"subject_type":"vocabulary","slug":"食べる","srs_stage":9},
		{"subject_type":"vocabulary","slug":"泳ぐ","srs_stage":0}
	]`)

	jobs := &fakeJobStore{job: importJob(t, "wanikani", path)}
	writer := &fakeCardWriter{}
	w := NewWorker(jobs, writer, 0)

	done, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !done {
		t.Fatal("expected a processed job")
	}

	if len(jobs.completed) != 1 || jobs.completed[0] != "job-1" {
		t.Errorf("completed = %v", jobs.completed)
	}
	cards := writer.upserted["user-1"]
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].PracticeItemKey != "食べる" || cards[0].State != srs.StateReview {
		t.Errorf("card = %+v", cards[0])
	}
}

// TestWorkerFailsJobOnBadFile verifies a missing export file marks the job
// failed instead of completing or crashing the worker loop.
func TestWorkerFailsJobOnBadFile(t *testing.T) {
	jobs := &fakeJobStore{job: importJob(t, "anki", "/nonexistent/export.json")}
	w := NewWorker(jobs, &fakeCardWriter{}, 0)

	done, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !done {
		t.Fatal("expected the job to be consumed")
	}
	if len(jobs.completed) != 0 {
		t.Error("failing job was completed")
	}
	if _, ok := jobs.failed["job-1"]; !ok {
		t.Error("job not marked failed")
	}
}

// TestWorkerFailsJobOnWriteError verifies a store failure surfaces as a job
// failure so the queue's backoff retry applies.
func TestWorkerFailsJobOnWriteError(t *testing.T) {
	path := writeExport(t, `[{"subject_type":"vocabulary","slug":"食べる","srs_stage":5}]`)
	jobs := &fakeJobStore{job: importJob(t, "wanikani", path)}
	w := NewWorker(jobs, &fakeCardWriter{err: errors.New("disk full")}, 0)

	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if msg := jobs.failed["job-1"]; msg == "" {
		t.Error("job not marked failed after write error")
	}
}

// TestWorkerIdlesWithoutJobs verifies RunOnce reports no work when the queue
// is empty.
func TestWorkerIdlesWithoutJobs(t *testing.T) {
	w := NewWorker(&fakeJobStore{}, &fakeCardWriter{}, 0)
	done, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if done {
		t.Error("reported work on an empty queue")
	}
}
