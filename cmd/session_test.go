package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/keyring"
	gokeyring "github.com/zalando/go-keyring"
)

func setupEnv(t *testing.T, password string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TEXTVAULT_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("TEXTVAULT_DIR", filepath.Join(dir, "data"))
	t.Setenv("TEXTVAULT_DB", "vault.db")
	t.Setenv("TEXTVAULT_PASSWORD", password)
	t.Setenv("TEXTVAULT_NO_KEYRING", "false")
	gokeyring.MockInit()
	return filepath.Join(dir, "data", "vault.db")
}

func TestOpenSession_DoesNotCreate(t *testing.T) {
	dbPath := setupEnv(t, "")

	if _, err := OpenSession(false); !errors.Is(err, core.ErrNotInitialized) {
		t.Fatalf("Expected ErrNotInitialized, got %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Error("Opening without create should not create the database")
	}

	s, err := OpenSession(true)
	if err != nil {
		t.Fatalf("OpenSession(create) failed: %v", err)
	}
	defer s.Close()
	if s.Store.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, s.Store.Path())
	}
}

func TestGetPasswordWithRetry_Env(t *testing.T) {
	setupEnv(t, "env-password")

	s, err := OpenSession(true)
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	defer s.Close()

	if err := s.Vault.Init(context.Background(), []byte("env-password")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	password, source, err := GetPasswordWithRetry(s, "")
	if err != nil {
		t.Fatalf("GetPasswordWithRetry failed: %v", err)
	}
	if source != SourceEnv || string(password) != "env-password" {
		t.Errorf("Unexpected result: %q from %v", password, source)
	}

	s.Config.Password = "wrong"
	if _, _, err := GetPasswordWithRetry(s, ""); !errors.Is(err, core.ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword for wrong env password, got %v", err)
	}
}

func TestGetPasswordWithRetry_Keyring(t *testing.T) {
	setupEnv(t, "")

	s, err := OpenSession(true)
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	defer s.Close()

	if err := s.Vault.Init(context.Background(), []byte("vault-password")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	vaultID, err := s.Vault.GetVaultID()
	if err != nil {
		t.Fatalf("GetVaultID failed: %v", err)
	}

	if err := keyring.SavePassword(vaultID, []byte("vault-password")); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}

	password, source, err := GetPasswordWithRetry(s, "")
	if err != nil {
		t.Fatalf("GetPasswordWithRetry failed: %v", err)
	}
	if source != SourceKeyring || string(password) != "vault-password" {
		t.Errorf("Unexpected result: %q from %v", password, source)
	}
}

func TestGetPasswordWithRetry_StaleKeyringEntryRemoved(t *testing.T) {
	setupEnv(t, "")

	s, err := OpenSession(true)
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	defer s.Close()

	if err := s.Vault.Init(context.Background(), []byte("vault-password")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	vaultID, _ := s.Vault.GetVaultID()
	if err := keyring.SavePassword(vaultID, []byte("old-password")); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}

	// Falls through to the prompt, which fails without a terminal
	if _, _, err := GetPasswordWithRetry(s, ""); err == nil {
		t.Skip("stdin is a terminal")
	}
	if keyring.HasPassword(vaultID) {
		t.Error("Stale keyring entry should have been removed")
	}
}
