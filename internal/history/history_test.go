package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mirrorhq/gitmirror/internal/job"
	"github.com/mirrorhq/gitmirror/internal/mirror"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndQuery(t *testing.T) {
	s := openTestStore(t)

	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)
	outcomes := []mirror.Outcome{
		{Job: job.Job{Name: "site"}, Status: mirror.StatusSynced},
		{Job: job.Job{Name: "docs"}, Status: mirror.StatusSkipped},
		{Job: job.Job{Name: "wiki"}, Status: mirror.StatusFailed, Err: errors.New("fetch timed out")},
	}

	if err := s.RecordRun(started, finished, outcomes); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns() returned %d runs, want 1", len(runs))
	}
	if !runs[0].Failed {
		t.Error("run not marked failed despite a failed job")
	}
	if !runs[0].Started.Equal(started) || !runs[0].Finished.Equal(finished) {
		t.Errorf("run times = %v..%v, want %v..%v", runs[0].Started, runs[0].Finished, started, finished)
	}

	results, err := s.RunResults(runs[0].ID)
	if err != nil {
		t.Fatalf("RunResults() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("RunResults() returned %d results, want 3", len(results))
	}
	if results[0].JobName != "site" || results[0].Status != "synced" {
		t.Errorf("result 0 = %+v", results[0])
	}
	if results[2].Status != "failed" || results[2].Detail != "fetch timed out" {
		t.Errorf("result 2 = %+v", results[2])
	}
}

func TestStore_CleanRun(t *testing.T) {
	s := openTestStore(t)

	now := time.Now()
	outcomes := []mirror.Outcome{
		{Job: job.Job{Name: "site"}, Status: mirror.StatusSynced},
	}
	if err := s.RecordRun(now, now, outcomes); err != nil {
		t.Fatalf("RecordRun() error: %v", err)
	}

	runs, err := s.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns() error: %v", err)
	}
	if runs[0].Failed {
		t.Error("clean run marked failed")
	}
}

func TestStore_RecentRunsOrder(t *testing.T) {
	s := openTestStore(t)

	now := time.Now()
	for i := 0; i < 3; i++ {
		if err := s.RecordRun(now, now, nil); err != nil {
			t.Fatalf("RecordRun() error: %v", err)
		}
	}

	runs, err := s.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns(2) returned %d runs", len(runs))
	}
	if runs[0].ID <= runs[1].ID {
		t.Errorf("runs not newest-first: %d then %d", runs[0].ID, runs[1].ID)
	}
}
