package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/testdb?sslmode=disable"
	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(TelegramToken, ""); err == nil {
		t.Error("Set with an empty value should return an error")
	}
}

func TestSecretsAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(VAPIDPrivateKey, "vapid"); err != nil {
		t.Fatal(err)
	}
	if err := Set(TelegramToken, "token"); err != nil {
		t.Fatal(err)
	}

	if v, _ := Get(VAPIDPrivateKey); v != "vapid" {
		t.Errorf("Get(VAPIDPrivateKey) = %q", v)
	}
	if v, _ := Get(TelegramToken); v != "token" {
		t.Errorf("Get(TelegramToken) = %q", v)
	}
	if _, err := Get(ConnectionString); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(ConnectionString) error = %v, want %v", err, ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(TelegramToken, "token"); err != nil {
		t.Fatal(err)
	}
	if err := Delete(TelegramToken); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(TelegramToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete, Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(TelegramToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
