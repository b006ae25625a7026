package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	for _, name := range Secrets {
		if err := Set(name, "value-"+string(name)); err != nil {
			t.Fatalf("Set(%s) failed: %v", name, err)
		}
	}
	for _, name := range Secrets {
		got, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", name, err)
		}
		if got != "value-"+string(name) {
			t.Errorf("Get(%s) = %q", name, got)
		}
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(LoginSecret, ""); err == nil {
		t.Error("Set with an empty value should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = Delete(SMTPPassword)

	if _, err := Get(SMTPPassword); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(ConnectionString, "postgres://u@localhost/db"); err != nil {
		t.Fatal(err)
	}
	if err := Delete(ConnectionString); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(ConnectionString); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete(), Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(ConnectionString); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolve(t *testing.T) {
	gokeyring.MockInit()
	_ = Delete(LoginSecret)

	if got := Resolve(LoginSecret, "", "default"); got != "default" {
		t.Errorf("Resolve() with empty keyring = %q, want default", got)
	}
	if err := Set(LoginSecret, "stored"); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(LoginSecret, "", "default"); got != "stored" {
		t.Errorf("Resolve() = %q, want stored", got)
	}
	if got := Resolve(LoginSecret, "flag", "default"); got != "flag" {
		t.Errorf("Resolve() = %q, want flag", got)
	}
}

func TestParseSecret(t *testing.T) {
	if s, err := ParseSecret("smtp-password"); err != nil || s != SMTPPassword {
		t.Errorf("ParseSecret() = %v, %v", s, err)
	}
	if _, err := ParseSecret("bogus"); !errors.Is(err, ErrUnknownSecret) {
		t.Errorf("expected ErrUnknownSecret, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}
