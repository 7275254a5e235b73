// Package session is the backend for the dashboard: credential checking
// behind an AuthProvider and per-session prediction history with an explicit
// lifecycle (created at login, cleared on demand, destroyed at logout).
// History is never process-wide shared state.
package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agroyield/crop-yield-service/internal/yield"
)

var (
	// ErrInvalidCredentials is returned when authentication fails or logins
	// are disabled.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession is returned for unknown or expired session tokens.
	ErrNoSession = errors.New("no session for token")
)

// AuthProvider validates dashboard credentials. Injected so the credential
// source can be swapped without touching session bookkeeping.
type AuthProvider interface {
	Authenticate(username, password string) error
}

// EnvCredentials authenticates against a single configured account. An empty
// username disables login entirely. Comparison is constant-time.
type EnvCredentials struct {
	Username string
	Password string
}

func (c EnvCredentials) Authenticate(username, password string) error {
	if c.Username == "" {
		return ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

type state struct {
	createdAt time.Time
	history   []yield.Estimate
}

// Manager owns active sessions and their prediction histories.
type Manager struct {
	mu       sync.RWMutex
	auth     AuthProvider
	sessions map[string]*state
}

// NewManager creates a Manager using the given AuthProvider.
func NewManager(auth AuthProvider) *Manager {
	return &Manager{
		auth:     auth,
		sessions: make(map[string]*state),
	}
}

// Login authenticates and creates a fresh session, returning its token.
func (m *Manager) Login(username, password string) (string, error) {
	if err := m.auth.Authenticate(username, password); err != nil {
		return "", err
	}

	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = &state{createdAt: time.Now().UTC()}
	return token, nil
}

// Record appends an estimate to the session's history.
func (m *Manager) Record(token string, est yield.Estimate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return ErrNoSession
	}
	s.history = append(s.history, est)
	return nil
}

// History returns a copy of the session's prediction history.
func (m *Manager) History(token string) ([]yield.Estimate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	out := make([]yield.Estimate, len(s.history))
	copy(out, s.history)
	return out, nil
}

// Clear empties the session's history without ending the session.
func (m *Manager) Clear(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return ErrNoSession
	}
	s.history = nil
	return nil
}

// Logout destroys the session and its history.
func (m *Manager) Logout(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return ErrNoSession
	}
	delete(m.sessions, token)
	return nil
}
