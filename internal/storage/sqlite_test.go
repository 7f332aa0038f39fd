package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/corticalab/neuroplay/internal/brainprint"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
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

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndRetrieveSessions(t *testing.T) {
	store := openTestStore(t)

	records := []SessionRecord{
		{SessionID: "s1", GameID: "wordbridge", UserID: "u1", Mode: "oneshot", Score: 80, DurationMs: 4000},
		{SessionID: "s2", GameID: "wordbridge", UserID: "u1", Mode: "journey", Score: 64, DurationMs: 21000},
		{SessionID: "s3", GameID: "heatseek", UserID: "u1", Mode: "oneshot", Score: 90, DurationMs: 8000},
	}
	for _, rec := range records {
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	got, err := store.RecentSessions("wordbridge", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 wordbridge sessions, got %d", len(got))
	}

	// Most recent first.
	if got[0].SessionID != "s2" || got[1].SessionID != "s1" {
		t.Errorf("Sessions out of order: %s then %s", got[0].SessionID, got[1].SessionID)
	}

	other, err := store.RecentSessions("heatseek", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 heatseek session, got %d", len(other))
	}
}

func TestRecentSessionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveSession(SessionRecord{
			SessionID: "s", GameID: "wordbridge", UserID: "u1",
			Mode: "oneshot", Score: (i + 1) * 10,
		})
	}

	got, err := store.RecentSessions("wordbridge", 3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 sessions with limit, got %d", len(got))
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{60, 100, 80} {
		store.SaveSession(SessionRecord{
			SessionID: "s", GameID: "wordbridge", UserID: "u1",
			Mode: "oneshot", Score: score,
		})
	}

	stats, err := store.GetGameStats("wordbridge")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", stats.Sessions)
	}
	if stats.HighScore != 100 {
		t.Errorf("HighScore = %d, want 100", stats.HighScore)
	}
	if math.Abs(stats.AvgScore-80) > 1e-9 {
		t.Errorf("AvgScore = %v, want 80", stats.AvgScore)
	}
}

func TestGameStatsEmpty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("never-played")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Sessions != 0 || stats.HighScore != 0 {
		t.Errorf("Empty stats = %+v", stats)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	store := openTestStore(t)

	dims := map[string]brainprint.Dimension{
		"semantic-precision": {ID: "semantic-precision", Score: 72.5, SampleCount: 4},
		"working-memory":     {ID: "working-memory", Score: 55, SampleCount: 2},
	}
	if err := store.SaveProfile("u1", dims); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}

	loaded, err := store.LoadProfile("u1")
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Loaded %d dimensions, want 2", len(loaded))
	}
	if d := loaded["semantic-precision"]; d.Score != 72.5 || d.SampleCount != 4 {
		t.Errorf("semantic-precision = %+v", d)
	}
}

func TestProfileUpsert(t *testing.T) {
	store := openTestStore(t)

	first := map[string]brainprint.Dimension{
		"attention": {ID: "attention", Score: 40, SampleCount: 1},
	}
	if err := store.SaveProfile("u1", first); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}

	second := map[string]brainprint.Dimension{
		"attention": {ID: "attention", Score: 60, SampleCount: 3},
		"focus":     {ID: "focus", Score: 90, SampleCount: 1},
	}
	if err := store.SaveProfile("u1", second); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}

	loaded, err := store.LoadProfile("u1")
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Loaded %d dimensions, want 2", len(loaded))
	}
	if d := loaded["attention"]; d.Score != 60 || d.SampleCount != 3 {
		t.Errorf("attention not upserted: %+v", d)
	}
}

func TestProfileIsolatedPerUser(t *testing.T) {
	store := openTestStore(t)

	store.SaveProfile("u1", map[string]brainprint.Dimension{
		"attention": {ID: "attention", Score: 40, SampleCount: 1},
	})

	loaded, err := store.LoadProfile("u2")
	if err != nil {
		t.Fatalf("LoadProfile() failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("u2 sees %d of u1's dimensions", len(loaded))
	}
}
