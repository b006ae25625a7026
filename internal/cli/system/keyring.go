package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/meetmate/internal/cli"
	"github.com/julianstephens/meetmate/internal/keyring"
	"github.com/julianstephens/meetmate/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Name  string `arg:"" help:"Secret name: login-secret, smtp-password or database-connection."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	name, err := keyring.ParseSecret(cmd.Name)
	if err != nil {
		return err
	}

	if name == keyring.ConnectionString {
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// the keyring is encrypted, so a password inside the string is acceptable here
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		}
	}

	if err := keyring.Set(name, cmd.Value); err != nil {
		return err
	}
	fmt.Printf("✓ %s stored in OS keyring\n", name)
	return nil
}

// KeyringGetCmd reports whether a secret is stored, without printing it
type KeyringGetCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	name, err := keyring.ParseSecret(cmd.Name)
	if err != nil {
		return err
	}

	value, err := keyring.Get(name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'meetmate keyring set %s' to store one", name, name)
		}
		return err
	}
	fmt.Printf("%s: %s\n", name, Mask(value))
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	name, err := keyring.ParseSecret(cmd.Name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", name)
		}
		return err
	}
	fmt.Printf("✓ %s deleted from OS keyring\n", name)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}

	fmt.Println("✓ OS keyring is available")
	for _, name := range keyring.Secrets {
		if _, err := keyring.Get(name); err == nil {
			fmt.Printf("✓ %s is stored\n", name)
		} else {
			fmt.Printf("ℹ %s is not stored\n", name)
		}
	}
	return nil
}

// Mask hides all but the first and last character of a secret
func Mask(value string) string {
	r := []rune(value)
	if len(r) <= 4 {
		return "****"
	}
	return string(r[0]) + "****" + string(r[len(r)-1])
}
