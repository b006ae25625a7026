package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/meetmate/internal/errors"
	"github.com/julianstephens/meetmate/internal/login"
	"github.com/julianstephens/meetmate/internal/notifier"
)

// PromptFunc reads one credential from the user. remaining is the number of attempts
// left including this one.
type PromptFunc func(remaining int) (string, error)

// HuhPrompt asks for the password with a masked input field
func HuhPrompt(remaining int) (string, error) {
	var password string
	title := "Password"
	if remaining > 0 {
		title = fmt.Sprintf("Password (%d attempts left)", remaining)
	}
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	return password, err
}

// Login drives gate until it is Granted or Locked. A preset credential is submitted
// first without prompting, so scripts can log in through a flag or the environment.
// The welcome text is announced only after access is granted.
func Login(gate *login.Gate, preset string, prompt PromptFunc, user notifier.UserNotifier, speaker notifier.Speaker) error {
	remaining := gate.Remaining()
	for {
		var credential string
		if preset != "" {
			credential, preset = preset, ""
		} else {
			if prompt == nil {
				return errors.New("no password supplied and no terminal to prompt on")
			}
			var err error
			credential, err = prompt(remaining)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		outcome := gate.Submit(credential)
		switch outcome.State {
		case login.Granted:
			if speaker != nil {
				speaker.Speak(login.Welcome())
			}
			return nil
		case login.Locked:
			if user != nil {
				user.NotifyUser("Login", "Maximum attempts reached. Exiting.")
			}
			return apperrors.ErrLoginLockout
		}

		remaining = outcome.Remaining
		if user != nil {
			user.NotifyUser("Login", fmt.Sprintf("Incorrect password. %d attempts left.", remaining))
		}
	}
}
