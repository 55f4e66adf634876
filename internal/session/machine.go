package session

import (
	"errors"
	"sync"

	"github.com/bhvr/bhvr-api-go/internal/model"
)

// Status is the authentication status of a client.
type Status int

const (
	StatusAnonymous Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

var (
	// ErrOperationInFlight is returned when an auth operation starts while another is pending.
	ErrOperationInFlight = errors.New("an authentication request is already in progress")
	// ErrNoOperation is returned when a result arrives with no operation pending.
	ErrNoOperation = errors.New("no authentication request in progress")
)

// State is a snapshot of the session.
// User may be nil while authenticated if the session was restored from a
// stored token and the profile has not been fetched yet.
type State struct {
	Status  Status
	User    *model.UserResponse
	Token   string
	Error   string
	Loading bool
}

// Authenticated reports whether the session holds a token.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Machine serializes session transitions:
//
//	anonymous      -> authenticating  (Begin)
//	authenticated  -> authenticating  (Begin)
//	authenticating -> authenticated   (Succeed)
//	authenticating -> anonymous       (Fail, error set)
//	any            -> anonymous       (Logout)
type Machine struct {
	mu    sync.Mutex
	state State
}

// NewMachine returns a machine in the anonymous state.
func NewMachine() *Machine {
	return &Machine{}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Begin marks the start of a login or register request.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusAuthenticating {
		return ErrOperationInFlight
	}
	m.state.Status = StatusAuthenticating
	m.state.Loading = true
	m.state.Error = ""
	return nil
}

// Succeed completes the pending request with the signed-in user and token.
func (m *Machine) Succeed(user model.UserResponse, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != StatusAuthenticating {
		return ErrNoOperation
	}
	m.state = State{Status: StatusAuthenticated, User: &user, Token: token}
	return nil
}

// Fail completes the pending request with an error message. Any previous
// session is dropped.
func (m *Machine) Fail(msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != StatusAuthenticating {
		return ErrNoOperation
	}
	m.state = State{Status: StatusAnonymous, Error: msg}
	return nil
}

// Restore sets an authenticated session from a persisted token. It is a
// no-op while a request is pending.
func (m *Machine) Restore(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusAuthenticating || token == "" {
		return
	}
	m.state = State{Status: StatusAuthenticated, Token: token}
}

// SetUser records the profile of the signed-in user.
func (m *Machine) SetUser(user model.UserResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == StatusAuthenticated {
		m.state.User = &user
	}
}

// Logout clears the session.
func (m *Machine) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
}

// ClearError drops the last error message.
func (m *Machine) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Error = ""
}
