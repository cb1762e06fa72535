// Package session holds the current auth state: an opaque bearer token
// and the user it belongs to, persisted across runs. Token and user are
// set and cleared together, never one without the other.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// User is the persisted user profile.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is a token+user pair.
type Session struct {
	Token string
	User  User
}

const (
	keyToken = "token"
	keyUser  = "user"
	keyTheme = "theme"
)

// Store is the SQLite-backed session store. NOT an interface - concrete
// type. Thread-safety: all methods are safe for concurrent use via an
// internal mutex. Dependents register with Subscribe instead of reading
// ambient persisted state themselves.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	cur  *Session
	subs []func(*Session)
}

// Open creates a Store backed by the database at path. Use ":memory:"
// for tests.
func Open(path string) (*Store, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Restore loads the persisted session, if any. Missing or malformed
// entries are treated as logged out - startup never fails on a bad row,
// it scrubs it instead. Subscribers are not notified; Restore describes
// the state the process starts in, not a transition.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, okT := s.get(keyToken)
	rawUser, okU := s.get(keyUser)
	if !okT || !okU || token == "" {
		s.scrub()
		s.cur = nil
		return
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.scrub()
		s.cur = nil
		return
	}

	s.cur = &Session{Token: token, User: user}
}

// Login stores the session and notifies subscribers.
func (s *Store) Login(sess Session) error {
	if sess.Token == "" {
		return fmt.Errorf("login: empty token")
	}
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("login: encode user: %w", err)
	}

	s.mu.Lock()
	if err := s.set(keyToken, sess.Token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("login: %w", err)
	}
	if err := s.set(keyUser, string(rawUser)); err != nil {
		// Keep the invariant: never token without user.
		s.del(keyToken)
		s.mu.Unlock()
		return fmt.Errorf("login: %w", err)
	}
	s.cur = &sess
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(&sess)
	}
	return nil
}

// Logout destroys the session and notifies subscribers. Safe to call
// when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	wasLoggedIn := s.cur != nil
	s.scrub()
	s.cur = nil
	subs := s.subs
	s.mu.Unlock()

	if !wasLoggedIn {
		return
	}
	for _, fn := range subs {
		fn(nil)
	}
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Session{}, false
	}
	return *s.cur, true
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil
}

// Token returns the bearer token, or "" when logged out. Implements the
// API client's TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

// Subscribe registers fn to run on every login (with the new session)
// and logout (with nil). Callbacks run synchronously on the goroutine
// performing the transition.
func (s *Store) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Theme returns the persisted UI theme preference, or "" if unset.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := s.get(keyTheme)
	return v
}

// SetTheme persists the UI theme preference.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(keyTheme, theme)
}

// get reads one kv row. Caller must hold s.mu (read lock suffices).
func (s *Store) get(key string) (string, bool) {
	var v string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

// set upserts one kv row. Caller must hold the write lock.
func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// del removes one kv row. Caller must hold the write lock.
func (s *Store) del(key string) {
	s.db.Exec("DELETE FROM kv WHERE key = ?", key)
}

// scrub removes both session rows. Caller must hold the write lock.
func (s *Store) scrub() {
	s.del(keyToken)
	s.del(keyUser)
}
