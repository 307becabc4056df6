package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Player: "ana", Mode: "endless", Score: 100, EndReason: "crash"},
		{Player: "ana", Mode: "endless", Score: 50, EndReason: "fall"},
		{Player: "bo", Mode: "endless", Score: 200, Tricks: 2, EndReason: "crash"},
		{Player: "bo", Mode: "time_trial", Score: 500, EndReason: "timeout", Duration: 300},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	endless, err := store.TopRuns("endless", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(endless) != 3 {
		t.Fatalf("Expected 3 endless runs, got %d", len(endless))
	}
	if endless[0].Score != 200 || endless[1].Score != 100 || endless[2].Score != 50 {
		t.Errorf("Runs not in expected order: %v", endless)
	}
	if endless[0].Tricks != 2 || endless[0].Player != "bo" {
		t.Errorf("Fields not round-tripped: %+v", endless[0])
	}

	all, err := store.TopRuns("", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(all) != 2 || all[0].Mode != "time_trial" {
		t.Errorf("Expected time trial run first across modes, got %v", all)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)
	for i := 1; i <= 3; i++ {
		store.SaveRun(RunRecord{Player: "ana", Mode: "endless", Score: i * 10, EndReason: "crash"})
	}
	store.SaveRun(RunRecord{Player: "bo", Mode: "endless", Score: 5, EndReason: "crash"})

	recent, err := store.RecentRuns("ana", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 30 || recent[1].Score != 20 {
		t.Errorf("Unexpected recent runs: %v", recent)
	}
}

func TestStoreBestScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore("endless")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for empty history, got %d", best)
	}

	store.SaveRun(RunRecord{Player: "a", Mode: "endless", Score: 100, EndReason: "crash"})
	store.SaveRun(RunRecord{Player: "a", Mode: "endless", Score: 300, EndReason: "crash"})
	store.SaveRun(RunRecord{Player: "a", Mode: "time_trial", Score: 900, EndReason: "finish"})

	best, _ = store.BestScore("endless")
	if best != 300 {
		t.Errorf("Expected best of 300, got %d", best)
	}

	if err := store.ClearRuns("endless"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	endless, _ := store.TopRuns("endless", 10)
	if len(endless) != 0 {
		t.Errorf("Expected 0 endless runs after clear, got %d", len(endless))
	}
	trial, _ := store.TopRuns("time_trial", 10)
	if len(trial) != 1 {
		t.Error("Time trial runs should not be affected by clearing endless")
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(RunRecord{Player: "a", Mode: "endless", Score: 100, Tricks: 1, EndReason: "crash"})
	store.SaveRun(RunRecord{Player: "a", Mode: "endless", Score: 300, Tricks: 3, EndReason: "crash"})

	stats, err := store.AllModeStats()
	if err != nil {
		t.Fatalf("AllModeStats() failed: %v", err)
	}
	s, ok := stats["endless"]
	if !ok {
		t.Fatal("No stats for endless")
	}
	if s.RunsCount != 2 || s.BestScore != 300 || s.AvgScore != 200 || s.TotalTricks != 4 {
		t.Errorf("Unexpected stats: %+v", s)
	}
}
