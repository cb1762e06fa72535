package session

import (
	"path/filepath"
	"testing"
)

func TestRestoreEmptyStoreIsLoggedOut(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.Restore()
	if s.Authenticated() {
		t.Error("fresh store restored as authenticated")
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	sess := Session{Token: "tok-1", User: User{ID: "u1", Name: "Asha", Email: "asha@example.com"}}
	if err := s.Login(sess); err != nil {
		t.Fatalf("Login: %v", err)
	}

	got, ok := s.Current()
	if !ok || got.Token != "tok-1" || got.User.Name != "Asha" {
		t.Fatalf("Current() = (%+v, %v)", got, ok)
	}

	s.Logout()
	if s.Authenticated() {
		t.Error("still authenticated after Logout")
	}
	if _, ok := s.Current(); ok {
		t.Error("Current returned a session after Logout")
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shorts.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Login(Session{Token: "tok-2", User: User{ID: "u2", Name: "Ravi"}}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	s2.Restore()
	got, ok := s2.Current()
	if !ok {
		t.Fatal("session not restored after reopen")
	}
	if got.Token != "tok-2" || got.User.Name != "Ravi" {
		t.Errorf("restored session = %+v", got)
	}
}

func TestRestoreMalformedUserScrubs(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	// Simulate a corrupted user row from an older build.
	s.mu.Lock()
	s.set(keyToken, "tok-3")
	s.set(keyUser, "{not json")
	s.mu.Unlock()

	s.Restore()
	if s.Authenticated() {
		t.Fatal("malformed user row restored as authenticated")
	}

	// The bad rows are gone; a second restore stays logged out.
	s.Restore()
	if s.Authenticated() {
		t.Error("scrubbed rows reappeared")
	}
}

func TestRestoreTokenWithoutUserScrubs(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.mu.Lock()
	s.set(keyToken, "orphan")
	s.mu.Unlock()

	s.Restore()
	if s.Authenticated() {
		t.Error("token-without-user restored as authenticated")
	}
	s.mu.RLock()
	_, tokenLeft := s.get(keyToken)
	s.mu.RUnlock()
	if tokenLeft {
		t.Error("orphan token row not scrubbed")
	}
}

func TestSubscribeNotifications(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var events []string
	s.Subscribe(func(sess *Session) {
		if sess == nil {
			events = append(events, "logout")
		} else {
			events = append(events, "login:"+sess.User.ID)
		}
	})

	s.Login(Session{Token: "t", User: User{ID: "u9"}})
	s.Logout()
	s.Logout() // already logged out: no event

	want := []string{"login:u9", "logout"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestThemePreference(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.Theme() != "" {
		t.Errorf("Theme() = %q on fresh store, want empty", s.Theme())
	}
	if err := s.SetTheme("light"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if s.Theme() != "light" {
		t.Errorf("Theme() = %q, want light", s.Theme())
	}

	// Theme survives logout; it is a device preference, not session data.
	s.Login(Session{Token: "t", User: User{ID: "u"}})
	s.Logout()
	if s.Theme() != "light" {
		t.Error("theme lost on logout")
	}
}
