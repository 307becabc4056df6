package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Preference keys shared by the menu and the run.
const (
	KeyPlayerName  = "PlayerName"
	KeyHighScore   = "HighScore"
	KeyLeaderboard = "LeaderboardData"
	KeyGameMode    = "GameMode"
)

// Prefs is a string-keyed preference store.
type Prefs interface {
	GetString(key, def string) (string, error)
	SetString(key, value string) error
	GetInt(key string, def int) (int, error)
	SetInt(key string, value int) error
	GetBlob(key string) ([]byte, bool, error)
	SetBlob(key string, value []byte) error
	HasKey(key string) (bool, error)
	DeleteKey(key string) error
}

var (
	_ Prefs = (*Store)(nil)
	_ Prefs = (*MemPrefs)(nil)
)

// GetBlob returns the raw value for key and whether it exists.
func (s *Store) GetBlob(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot read pref %s: %w", key, err)
	}
	return value, true, nil
}

// SetBlob stores value under key, replacing any previous value.
func (s *Store) SetBlob(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write pref %s: %w", key, err)
	}
	return nil
}

// GetString returns the string stored under key, or def if absent.
func (s *Store) GetString(key, def string) (string, error) {
	return getString(s, key, def)
}

// SetString stores a string under key.
func (s *Store) SetString(key, value string) error {
	return s.SetBlob(key, []byte(value))
}

// GetInt returns the integer stored under key, or def if absent.
func (s *Store) GetInt(key string, def int) (int, error) {
	return getInt(s, key, def)
}

// SetInt stores an integer under key.
func (s *Store) SetInt(key string, value int) error {
	return s.SetBlob(key, []byte(strconv.Itoa(value)))
}

// HasKey reports whether key exists.
func (s *Store) HasKey(key string) (bool, error) {
	_, ok, err := s.GetBlob(key)
	return ok, err
}

// DeleteKey removes key. Missing keys are not an error.
func (s *Store) DeleteKey(key string) error {
	if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete pref %s: %w", key, err)
	}
	return nil
}

type blobGetter interface {
	GetBlob(key string) ([]byte, bool, error)
}

func getString(g blobGetter, key, def string) (string, error) {
	b, ok, err := g.GetBlob(key)
	if err != nil || !ok {
		return def, err
	}
	return string(b), nil
}

func getInt(g blobGetter, key string, def int) (int, error) {
	b, ok, err := g.GetBlob(key)
	if err != nil || !ok {
		return def, err
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return def, fmt.Errorf("storage: pref %s is not an integer: %w", key, err)
	}
	return n, nil
}

// MemPrefs is an in-memory Prefs used when no database is available.
type MemPrefs struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemPrefs creates an empty in-memory preference store.
func NewMemPrefs() *MemPrefs {
	return &MemPrefs{values: make(map[string][]byte)}
}

// GetBlob implements Prefs.
func (m *MemPrefs) GetBlob(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// SetBlob implements Prefs.
func (m *MemPrefs) SetBlob(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// GetString implements Prefs.
func (m *MemPrefs) GetString(key, def string) (string, error) {
	return getString(m, key, def)
}

// SetString implements Prefs.
func (m *MemPrefs) SetString(key, value string) error {
	return m.SetBlob(key, []byte(value))
}

// GetInt implements Prefs.
func (m *MemPrefs) GetInt(key string, def int) (int, error) {
	return getInt(m, key, def)
}

// SetInt implements Prefs.
func (m *MemPrefs) SetInt(key string, value int) error {
	return m.SetBlob(key, []byte(strconv.Itoa(value)))
}

// HasKey implements Prefs.
func (m *MemPrefs) HasKey(key string) (bool, error) {
	_, ok, err := m.GetBlob(key)
	return ok, err
}

// DeleteKey implements Prefs.
func (m *MemPrefs) DeleteKey(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// ScopedPrefs prefixes every key with a scope, except the shared keys which
// pass through unchanged. SSH sessions use it to keep one name and high score
// per user over a common leaderboard.
type ScopedPrefs struct {
	inner  Prefs
	prefix string
	shared map[string]bool
}

var _ Prefs = (*ScopedPrefs)(nil)

// Scoped wraps p so that keys live under scope.
func Scoped(p Prefs, scope string, shared ...string) *ScopedPrefs {
	s := &ScopedPrefs{inner: p, prefix: scope + ":", shared: make(map[string]bool, len(shared))}
	for _, k := range shared {
		s.shared[k] = true
	}
	return s
}

func (s *ScopedPrefs) key(k string) string {
	if s.shared[k] {
		return k
	}
	return s.prefix + k
}

// GetBlob implements Prefs.
func (s *ScopedPrefs) GetBlob(key string) ([]byte, bool, error) {
	return s.inner.GetBlob(s.key(key))
}

// SetBlob implements Prefs.
func (s *ScopedPrefs) SetBlob(key string, value []byte) error {
	return s.inner.SetBlob(s.key(key), value)
}

// GetString implements Prefs.
func (s *ScopedPrefs) GetString(key, def string) (string, error) {
	return s.inner.GetString(s.key(key), def)
}

// SetString implements Prefs.
func (s *ScopedPrefs) SetString(key, value string) error {
	return s.inner.SetString(s.key(key), value)
}

// GetInt implements Prefs.
func (s *ScopedPrefs) GetInt(key string, def int) (int, error) {
	return s.inner.GetInt(s.key(key), def)
}

// SetInt implements Prefs.
func (s *ScopedPrefs) SetInt(key string, value int) error {
	return s.inner.SetInt(s.key(key), value)
}

// HasKey implements Prefs.
func (s *ScopedPrefs) HasKey(key string) (bool, error) {
	return s.inner.HasKey(s.key(key))
}

// DeleteKey implements Prefs.
func (s *ScopedPrefs) DeleteKey(key string) error {
	return s.inner.DeleteKey(s.key(key))
}
