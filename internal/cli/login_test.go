package cli

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/login"
)

type recorder struct {
	messages []string
	spoken   []string
}

func (r *recorder) NotifyUser(_, message string) { r.messages = append(r.messages, message) }
func (r *recorder) Speak(text string)            { r.spoken = append(r.spoken, text) }

func scripted(inputs ...string) PromptFunc {
	return func(int) (string, error) {
		if len(inputs) == 0 {
			return "", errors.New("no more input")
		}
		next := inputs[0]
		inputs = inputs[1:]
		return next, nil
	}
}

func TestLoginGrantedAfterRetry(t *testing.T) {
	rec := &recorder{}
	err := Login(login.NewGate("secret", 3), "", scripted("nope", "secret"), rec, rec)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if len(rec.messages) != 1 || rec.messages[0] != "Incorrect password. 2 attempts left." {
		t.Errorf("messages = %v", rec.messages)
	}
	if len(rec.spoken) != 1 || rec.spoken[0] != login.Welcome() {
		t.Errorf("spoken = %v", rec.spoken)
	}
}

func TestLoginLocksOut(t *testing.T) {
	rec := &recorder{}
	err := Login(login.NewGate("secret", 3), "a", scripted("b", "c", "secret"), rec, rec)
	if !errors.Is(err, apperrors.ErrLoginLockout) {
		t.Fatalf("Login() error = %v, want lockout", err)
	}
	if len(rec.spoken) != 0 {
		t.Errorf("welcome spoken after lockout: %v", rec.spoken)
	}
}

func TestLoginPresetSkipsPrompt(t *testing.T) {
	prompted := false
	prompt := func(int) (string, error) {
		prompted = true
		return "", nil
	}
	if err := Login(login.NewGate("secret", 3), "secret", prompt, nil, nil); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if prompted {
		t.Error("prompt used despite a correct preset password")
	}
}

func TestLoginWithoutPrompt(t *testing.T) {
	err := Login(login.NewGate("secret", 3), "wrong", nil, nil, nil)
	if err == nil || errors.Is(err, apperrors.ErrLoginLockout) {
		t.Fatalf("Login() error = %v, want missing prompt error", err)
	}
}
