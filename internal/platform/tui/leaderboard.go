package tui

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/snowrun/internal/leaderboard"
	"github.com/vovakirdan/snowrun/internal/registry"
	"github.com/vovakirdan/snowrun/internal/storage"
)

// youMarker flags the current rider's row.
const youMarker = "< YOU"

// Ranking is the local leaderboard as the current rider sees it.
type Ranking struct {
	Entries []leaderboard.Entry
	Player  string
}

// LoadRanking reads the leaderboard runs submit to. An unreadable store
// yields an empty ranking.
func LoadRanking(env registry.Env) Ranking {
	var r Ranking
	if env.Prefs == nil {
		return r
	}
	r.Player, _ = env.Prefs.GetString(storage.KeyPlayerName, "Player")

	logger := env.Logger
	if logger != nil {
		logger = logger.WithPrefix("leaderboard")
	}
	board := leaderboard.New(env.Config.Leaderboard, env.Prefs, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	entries, err := board.Load()
	if err != nil {
		if env.Logger != nil {
			env.Logger.Warn("leaderboard unavailable", "error", err)
		}
		return r
	}
	r.Entries = entries
	return r
}

// Rank returns the rider's 1-based position, or 0 when off the board.
func (r Ranking) Rank() int {
	return leaderboard.Rank(r.Entries, r.Player)
}

// Lines formats one row per entry, best first.
func (r Ranking) Lines() []string {
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		line := fmt.Sprintf("%2d. %-16s %6d", i+1, e.Name, e.Score)
		if e.Name == r.Player {
			line += "  " + youMarker
		}
		lines[i] = line
	}
	return lines
}
