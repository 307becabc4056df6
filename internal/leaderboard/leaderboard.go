// Package leaderboard keeps the local top scores: a fixed-capacity list,
// one entry per name, padded with filler rivals and stored as a msgpack
// blob in the preference store.
package leaderboard

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/storage"
)

// Entry is one leaderboard row.
type Entry struct {
	Name  string `msgpack:"name"`
	Score int    `msgpack:"score"`
}

// blob is the persisted form.
type blob struct {
	Entries []Entry `msgpack:"entries"`
}

// KV is the part of the preference store the leaderboard needs.
type KV interface {
	GetBlob(key string) ([]byte, bool, error)
	SetBlob(key string, value []byte) error
}

// mu serializes read-modify-write cycles on the stored list. SSH sessions
// each own a Store but share one preference key.
var mu sync.Mutex

// Store ranks and persists scores.
type Store struct {
	cfg    config.Leaderboard
	kv     KV
	rng    *rand.Rand
	logger *log.Logger
}

// New creates a leaderboard over kv. rng drives filler names and scores.
func New(cfg config.Leaderboard, kv KV, rng *rand.Rand, logger *log.Logger) *Store {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 5
	}
	if cfg.FillerMax <= cfg.FillerMin {
		cfg.FillerMax = cfg.FillerMin + 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "leaderboard"})
	}
	return &Store{cfg: cfg, kv: kv, rng: rng, logger: logger}
}

// Capacity returns the maximum number of entries.
func (s *Store) Capacity() int {
	return s.cfg.Capacity
}

// Load returns the ranked list. When nothing is stored yet, an initial list
// of capacity-1 filler entries is created and persisted.
func (s *Store) Load() ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Entry, error) {
	data, ok, err := s.kv.GetBlob(storage.KeyLeaderboard)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: load: %w", err)
	}
	if ok {
		var b blob
		err := msgpack.Unmarshal(data, &b)
		if err == nil {
			return b.Entries, nil
		}
		s.logger.Warn("stored leaderboard is unreadable, starting over", "error", err)
	}

	entries := s.initial()
	if err := s.save(entries); err != nil {
		return entries, err
	}
	return entries, nil
}

// Submit records score for name: any previous entry for name is replaced,
// the list is ranked, trimmed to capacity and padded with fillers.
func (s *Store) Submit(name string, score int) ([]Entry, error) {
	if score < 0 {
		score = 0
	}

	mu.Lock()
	defer mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	entries = append(kept, Entry{Name: name, Score: score})

	rank(entries)
	if len(entries) > s.cfg.Capacity {
		entries = entries[:s.cfg.Capacity]
	}
	for len(entries) < s.cfg.Capacity {
		entries = append(entries, Entry{Name: s.fillerName(entries), Score: s.fillerScore()})
	}
	rank(entries)

	if err := s.save(entries); err != nil {
		return entries, err
	}
	return entries, nil
}

// Rank returns the 1-based position of name, or 0 if absent.
func Rank(entries []Entry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i + 1
		}
	}
	return 0
}

// rank sorts descending by score. Equal scores keep their relative order.
func rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

func (s *Store) initial() []Entry {
	entries := make([]Entry, 0, s.cfg.Capacity)
	for i := 0; i < s.cfg.Capacity-1; i++ {
		entries = append(entries, Entry{Name: s.fillerName(entries), Score: s.fillerScore()})
	}
	rank(entries)
	return entries
}

// fillerName picks an unused pool name, or a guest name once the pool is exhausted.
func (s *Store) fillerName(existing []Entry) string {
	used := make(map[string]bool, len(existing))
	for _, e := range existing {
		used[e.Name] = true
	}
	var available []string
	for _, n := range s.cfg.FillerNames {
		if !used[n] {
			available = append(available, n)
		}
	}
	if len(available) == 0 {
		return fmt.Sprintf("Guest%d", 1+s.rng.Intn(999))
	}
	return available[s.rng.Intn(len(available))]
}

func (s *Store) fillerScore() int {
	return s.cfg.FillerMin + s.rng.Intn(s.cfg.FillerMax-s.cfg.FillerMin)
}

func (s *Store) save(entries []Entry) error {
	data, err := msgpack.Marshal(blob{Entries: entries})
	if err != nil {
		return fmt.Errorf("leaderboard: encode: %w", err)
	}
	if err := s.kv.SetBlob(storage.KeyLeaderboard, data); err != nil {
		return fmt.Errorf("leaderboard: save: %w", err)
	}
	return nil
}
