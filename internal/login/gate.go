package login

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/logger"
)

// State is a position in the login state machine
type State int

const (
	AwaitingPassword State = iota
	Granted
	Locked
)

func (s State) String() string {
	switch s {
	case AwaitingPassword:
		return "awaiting-password"
	case Granted:
		return "granted"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further submissions can change the state
func (s State) Terminal() bool { return s == Granted || s == Locked }

// Outcome is the result of one credential submission
type Outcome struct {
	State State
	// Remaining is the number of attempts left before lockout
	Remaining int
}

// Gate counts failed attempts against a single shared secret
type Gate struct {
	mu          sync.Mutex
	secret      []byte
	maxAttempts int
	attempts    int
	state       State
}

func NewGate(secret string, maxAttempts int) *Gate {
	if maxAttempts <= 0 {
		maxAttempts = constants.DefaultMaxAttempts
	}
	return &Gate{secret: []byte(secret), maxAttempts: maxAttempts}
}

// Submit checks credential. Once the gate is Granted or Locked every later submission
// returns the same outcome and is not counted.
func (g *Gate) Submit(credential string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return g.outcome()
	}

	if subtle.ConstantTimeCompare([]byte(credential), g.secret) == 1 {
		g.state = Granted
		logger.Info("Login granted", "attempts", g.attempts)
		return g.outcome()
	}

	g.attempts++
	if g.attempts >= g.maxAttempts {
		g.state = Locked
		logger.Warn("Login locked", "attempts", g.attempts)
	} else {
		logger.Warn("Incorrect login attempt", "remaining", g.maxAttempts-g.attempts)
	}
	return g.outcome()
}

func (g *Gate) outcome() Outcome {
	return Outcome{State: g.state, Remaining: g.maxAttempts - g.attempts}
}

// Remaining returns the number of attempts left before lockout
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxAttempts - g.attempts
}

// State returns the current state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Welcome is the greeting shown once access is granted
func Welcome() string {
	return "Welcome to MeetMate. Your meeting assistant is ready."
}
