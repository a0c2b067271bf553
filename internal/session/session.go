// internal/session/session.go
// Package session holds the authenticated API session: the bearer token and
// the signed-in user. The session is an explicit object handed to the HTTP
// client at construction, with Invalidate as the single teardown entry point.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// User mirrors the backend's user record.
type User struct {
	ID               int        `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name,omitempty"`
	Role             string     `json:"role"`
	HospitalName     string     `json:"hospital_name,omitempty"`
	Department       string     `json:"department,omitempty"`
	IsActive         bool       `json:"is_active"`
	IsVerified       bool       `json:"is_verified"`
	TotalPredictions int        `json:"total_predictions"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

// state is the on-disk representation of a session.
type state struct {
	Token string `json:"access_token"`
	User  *User  `json:"user,omitempty"`
}

// Session carries the token and user for the lifetime of the process and
// persists them across invocations. All methods are safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	path  string
	token string
	user  *User
}

// Load opens the session persisted at path. A missing file yields an empty
// (anonymous) session, not an error.
func Load(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	s.token = st.Token
	s.user = st.User
	return s, nil
}

// Token returns the current bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil when signed out.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetCredentials stores the token and user returned by a login and persists
// them to the session file.
func (s *Session) SetCredentials(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return s.persistLocked()
}

// Invalidate clears the in-memory credentials and removes the session file.
// It is the only teardown path; the HTTP client calls it on 401 and the
// logout command calls it explicitly.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Session) persistLocked() error {
	if s.path == "" {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(state{Token: s.token, User: s.user}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
