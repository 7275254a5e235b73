package session

import (
	"errors"
	"testing"

	"github.com/agroyield/crop-yield-service/internal/yield"
)

func newTestManager() *Manager {
	return NewManager(EnvCredentials{Username: "agronomist", Password: "terraces"})
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := newTestManager()

	if _, err := m.Login("agronomist", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := m.Login("stranger", "terraces"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEmptyUsernameDisablesLogin(t *testing.T) {
	m := NewManager(EnvCredentials{})

	if _, err := m.Login("", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials when login is disabled, got %v", err)
	}
}

func TestSessionHistoryLifecycle(t *testing.T) {
	m := newTestManager()

	token, err := m.Login("agronomist", "terraces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New sessions start empty.
	history, err := m.History(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}

	est := yield.Estimate{District: "Gasabo", Crop: "maize", YieldTPerHa: 3.5}
	if err := m.Record(token, est); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err = m.History(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].District != "Gasabo" {
		t.Fatalf("unexpected history: %+v", history)
	}

	// Clear empties the history but keeps the session alive.
	if err := m.Clear(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	history, err = m.History(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected cleared history, got %d entries", len(history))
	}

	// Logout destroys the session entirely.
	if err := m.Logout(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.History(token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
	if err := m.Record(token, est); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newTestManager()

	a, err := m.Login("agronomist", "terraces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.Login("agronomist", "terraces")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct tokens per login")
	}

	if err := m.Record(a, yield.Estimate{District: "Gasabo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := m.History(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history leaked across sessions: %+v", history)
	}
}

func TestUnknownTokenOperations(t *testing.T) {
	m := newTestManager()

	if err := m.Clear("nope"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := m.Logout("nope"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
