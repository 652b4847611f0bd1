package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
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

func session(ticks ...int) reaction.SessionResult {
	res := reaction.SessionResult{GamesPlayed: len(ticks)}
	for i, tk := range ticks {
		res.Rounds = append(res.Rounds, reaction.RoundResult{Game: i + 1, ReactionTicks: tk})
		res.CumulativeTicks += tk
	}
	res.AverageSeconds = float64(res.CumulativeTicks) / float64(len(ticks)) / 100
	res.RankSeconds = res.AverageSeconds
	return res
}

// timedOutSession has n rounds that all ran out at 200 ticks without a press.
func timedOutSession(n int) reaction.SessionResult {
	res := reaction.SessionResult{GamesPlayed: n, TimedOut: n, RankSeconds: 2}
	for i := 0; i < n; i++ {
		res.Rounds = append(res.Rounds, reaction.RoundResult{Game: i + 1, ReactionTicks: 200, TimedOut: true})
	}
	return res
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndRankSessions(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []reaction.SessionResult{
		session(30, 30, 30),
		session(10, 15, 20),
		session(50, 60, 70),
	} {
		if _, err := store.SaveSession("reaction", "alice", s); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}
	if _, err := store.SaveSession("other", "bob", session(1, 1, 1)); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	best, err := store.BestSessions("reaction", 10)
	if err != nil {
		t.Fatalf("BestSessions() failed: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(best))
	}

	want := []int{45, 90, 180}
	for i, e := range best {
		if e.CumulativeTicks != want[i] {
			t.Errorf("Rank %d: expected cumulative %d, got %d", i+1, want[i], e.CumulativeTicks)
		}
		if e.Player != "alice" || e.Games != 3 {
			t.Errorf("Rank %d: unexpected entry %+v", i+1, e)
		}
	}

	limited, err := store.BestSessions("reaction", 1)
	if err != nil {
		t.Fatalf("BestSessions() failed: %v", err)
	}
	if len(limited) != 1 || limited[0].AverageSeconds != 0.15 {
		t.Errorf("Expected single best session at 0.15s, got %+v", limited)
	}
}

func TestSessionRounds(t *testing.T) {
	store := openTestStore(t)

	res := session(12, 34, 200)
	res.Rounds[2].TimedOut = true
	id, err := store.SaveSession("reaction", "", res)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a session ID")
	}

	rounds, err := store.SessionRounds(id)
	if err != nil {
		t.Fatalf("SessionRounds() failed: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("Expected 3 rounds, got %d", len(rounds))
	}
	if rounds[0].ReactionTicks != 12 || rounds[1].Game != 2 || !rounds[2].TimedOut || rounds[0].TimedOut {
		t.Errorf("Unexpected rounds %+v", rounds)
	}
}

func TestSummaryAndClear(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Summary("reaction")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if empty.Sessions != 0 || empty.Best != 0 {
		t.Errorf("Expected empty summary, got %+v", empty)
	}

	store.SaveSession("reaction", "", session(10, 10, 10))
	store.SaveSession("reaction", "", session(30, 30, 30))

	sum, err := store.Summary("reaction")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if sum.Sessions != 2 || sum.Best != 0.1 {
		t.Errorf("Unexpected summary %+v", sum)
	}
	if sum.Mean < 0.199 || sum.Mean > 0.201 {
		t.Errorf("Expected mean 0.2, got %f", sum.Mean)
	}

	if err := store.ClearSessions("reaction"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	best, err := store.BestSessions("reaction", 10)
	if err != nil {
		t.Fatalf("BestSessions() failed: %v", err)
	}
	if len(best) != 0 {
		t.Errorf("Expected no sessions after clear, got %d", len(best))
	}
}

func TestTimedOutSessionRanksLast(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveSession("reaction", "afk", timedOutSession(3)); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := store.SaveSession("reaction", "fast", session(20, 20, 20)); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	best, err := store.BestSessions("reaction", 10)
	if err != nil {
		t.Fatalf("BestSessions() failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(best))
	}
	if best[0].Player != "fast" || best[1].Player != "afk" {
		t.Errorf("Expected fast before afk, got %s then %s", best[0].Player, best[1].Player)
	}
	if best[1].AverageSeconds != 0 || best[1].TimedOut != 3 || best[1].RankSeconds != 2 {
		t.Errorf("Unexpected timed-out entry %+v", best[1])
	}

	sum, err := store.Summary("reaction")
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if sum.Best != 0.2 {
		t.Errorf("Expected best 0.2 from the played session, got %v", sum.Best)
	}
}

func TestOpenUpgradesOldSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			games INTEGER NOT NULL,
			cumulative_ticks INTEGER NOT NULL,
			average_seconds REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE rounds (
			session_id TEXT NOT NULL,
			game_no INTEGER NOT NULL,
			reaction_ticks INTEGER NOT NULL,
			timed_out INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, game_no)
		);
		INSERT INTO sessions (id, game_id, games, cumulative_ticks, average_seconds) VALUES
			('afk', 'reaction', 3, 0, 0),
			('mixed', 'reaction', 2, 30, 0.15);
		INSERT INTO rounds VALUES
			('afk', 1, 200, 1), ('afk', 2, 200, 1), ('afk', 3, 200, 1),
			('mixed', 1, 30, 0), ('mixed', 2, 200, 1);
	`)
	db.Close()
	if err != nil {
		t.Fatalf("seeding old schema failed: %v", err)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	best, err := store.BestSessions("reaction", 10)
	if err != nil {
		t.Fatalf("BestSessions() failed: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(best))
	}
	if best[0].ID != "mixed" || best[0].TimedOut != 1 {
		t.Errorf("Expected mixed session first with 1 timeout, got %+v", best[0])
	}
	if r := best[0].RankSeconds; r < 1.149 || r > 1.151 {
		t.Errorf("Expected mixed rank 1.15s, got %v", r)
	}
	if best[1].ID != "afk" || best[1].TimedOut != 3 || best[1].RankSeconds != 2 {
		t.Errorf("Expected afk session last at 2.00s, got %+v", best[1])
	}
}
