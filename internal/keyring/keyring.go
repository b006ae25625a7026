package keyring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/meetmate/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownSecret is returned for names outside Secrets
	ErrUnknownSecret = errors.New("unknown secret name")
)

// Secret names a value meetmate keeps in the OS keyring
type Secret string

const (
	LoginSecret      Secret = constants.KeyringLoginUser
	SMTPPassword     Secret = constants.KeyringSMTPUser
	ConnectionString Secret = constants.KeyringConnStrUser
)

// Secrets lists every name accepted by Get, Set and Delete
var Secrets = []Secret{LoginSecret, SMTPPassword, ConnectionString}

// ParseSecret validates a user-supplied secret name
func ParseSecret(name string) (Secret, error) {
	s := Secret(name)
	if !slices.Contains(Secrets, s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSecret, name)
	}
	return s, nil
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(name Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(name))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret, replacing any previous value
func Set(name Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if err := keyring.Set(constants.AppName, string(name), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a secret
func Delete(name Secret) error {
	err := keyring.Delete(constants.AppName, string(name))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}
	return nil
}

// Resolve returns explicit when it is set, else the stored secret, else fallback.
// A keyring that is unavailable is treated like an empty one.
func Resolve(name Secret, explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if value, err := Get(name); err == nil {
		return value
	}
	return fallback
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
