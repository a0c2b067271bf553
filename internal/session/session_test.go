// internal/session/session_test.go
package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsAnonymousSession(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if s.User() != nil {
		t.Fatal("expected nil user")
	}
}

func TestSetCredentialsPersistsAndReloads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	user := &User{ID: 7, Username: "drkeita", Role: "doctor"}
	if err := s.SetCredentials("tok-123", user); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if got := reloaded.Token(); got != "tok-123" {
		t.Fatalf("reloaded token %q want tok-123", got)
	}
	got := reloaded.User()
	if got == nil || got.Username != "drkeita" || got.Role != "doctor" {
		t.Fatalf("reloaded user mismatch: %+v", got)
	}
}

func TestInvalidateClearsStateAndFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := s.SetCredentials("tok", &User{ID: 1}); err != nil {
		t.Fatalf("SetCredentials returned error: %v", err)
	}

	if err := s.Invalidate(); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("session still authenticated after Invalidate")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file should be removed, stat err=%v", err)
	}

	// Invalidating an already-empty session is a no-op.
	if err := s.Invalidate(); err != nil {
		t.Fatalf("second Invalidate returned error: %v", err)
	}
}

func TestUserReturnsCopy(t *testing.T) {
	t.Parallel()

	s := &Session{token: "t", user: &User{Username: "original"}}
	u := s.User()
	u.Username = "mutated"
	if got := s.User().Username; got != "original" {
		t.Fatalf("session user mutated through copy: %q", got)
	}
}
