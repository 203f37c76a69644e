package core

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/storage"
)

func newTestVault(t *testing.T, password []byte) (*Vault, *storage.Store) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), DBFile))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	vault := New(db)
	if password != nil {
		if err := vault.Init(context.Background(), password); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
	}
	return vault, db
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	vault, _ := newTestVault(t, nil)
	password := []byte("test123")

	if err := vault.VerifyPassword(password); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}

	if err := vault.Init(ctx, password); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := vault.Init(ctx, password); err != ErrAlreadyExists {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	if err := vault.VerifyPassword(password); err != nil {
		t.Errorf("VerifyPassword failed: %v", err)
	}

	id, err := vault.GetVaultID()
	if err != nil || id == "" {
		t.Errorf("Expected vault ID after init, got %q (%v)", id, err)
	}
}

func TestAddGetItem(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, db := newTestVault(t, password)

	if err := vault.AddItem(ctx, "greeting", []byte("hello world"), password); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	got, err := vault.GetItem(ctx, "greeting", password)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("Content mismatch: got %q", got)
	}

	// The stored value is a standalone envelope
	raw, err := db.Get("greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if strings.Contains(string(raw), "hello world") {
		t.Error("Plaintext leaked into the store")
	}
	plain, err := crypto.Decrypt(string(raw), string(password))
	if err != nil || plain != "hello world" {
		t.Errorf("Stored envelope did not decrypt directly: %q (%v)", plain, err)
	}

	// Overwrite
	if err := vault.AddItem(ctx, "greeting", []byte(""), password); err != nil {
		t.Fatalf("AddItem overwrite failed: %v", err)
	}
	got, err = vault.GetItem(ctx, "greeting", password)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty content, got %q", got)
	}
}

func TestWrongPassword(t *testing.T) {
	ctx := context.Background()
	password := []byte("correct-password")
	vault, db := newTestVault(t, password)

	if err := vault.AddItem(ctx, "secret", []byte("value"), password); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	wrong := []byte("wrong-password")
	if err := vault.VerifyPassword(wrong); err != ErrWrongPassword {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}
	if err := vault.AddItem(ctx, "other", []byte("value"), wrong); err != ErrWrongPassword {
		t.Errorf("Expected ErrWrongPassword from AddItem, got %v", err)
	}

	_, err := vault.GetItem(ctx, "secret", wrong)
	if !errors.Is(err, ErrWrongPassword) || !errors.Is(err, crypto.ErrAuthenticationFailed) {
		t.Errorf("Expected wrong password authentication error, got %v", err)
	}

	names, err := db.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("Rejected AddItem should not store anything, got %v", names)
	}
}

func TestGetItemErrors(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, db := newTestVault(t, password)

	if _, err := vault.GetItem(ctx, "missing", password); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}

	if err := db.Put("garbage", []byte("not-base64!!")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := vault.GetItem(ctx, "garbage", password); !errors.Is(err, crypto.ErrInvalidEncoding) {
		t.Errorf("Expected ErrInvalidEncoding, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := vault.GetItem(cancelled, "garbage", password); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestInvalidNames(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, _ := newTestVault(t, password)

	for _, name := range []string{"", " padded", "tab\tname", strings.Repeat("n", MaxNameLength+1), "bad\xffutf8"} {
		if err := vault.AddItem(ctx, name, []byte("x"), password); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName for %q, got %v", name, err)
		}
	}

	for _, name := range []string{"simple", "with space", "path/like.name", "ключ"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("Name %q should be valid: %v", name, err)
		}
	}

	if err := vault.AddItem(ctx, "binary", []byte{0xff, 0xfe}, password); err == nil {
		t.Error("Expected error for non UTF-8 content")
	}
}

func TestRemoveItems(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, _ := newTestVault(t, password)

	for _, name := range []string{"db/user", "db/pass", "api-key"} {
		if err := vault.AddItem(ctx, name, []byte(name), password); err != nil {
			t.Fatalf("AddItem %s failed: %v", name, err)
		}
	}

	if _, err := vault.RemoveItems(ctx, []string{"db/*"}, []byte("wrong")); err != ErrWrongPassword {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}

	removed, err := vault.RemoveItems(ctx, []string{"db/*"}, password)
	if err != nil {
		t.Fatalf("RemoveItems failed: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("Expected 2 removed, got %v", removed)
	}

	items, err := vault.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "api-key" {
		t.Errorf("Unexpected remaining items: %+v", items)
	}

	if _, err := vault.RemoveItems(ctx, []string{"nothing*"}, password); !errors.Is(err, ErrNoMatches) {
		t.Errorf("Expected ErrNoMatches, got %v", err)
	}
	if _, err := vault.RemoveItems(ctx, []string{"[invalid"}, password); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, db := newTestVault(t, password)

	if err := vault.AddItem(ctx, "a", []byte("alpha"), password); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	status, err := vault.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(status.Items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(status.Items))
	}
	raw, _ := db.Get("a")
	if status.TotalSize != int64(len(raw)) {
		t.Errorf("Total size mismatch: got %d, want %d", status.TotalSize, len(raw))
	}
	if status.Path != db.Path() || status.VaultID == "" {
		t.Errorf("Unexpected status: %+v", status)
	}
	if status.Modified.Before(status.Created) {
		t.Error("Modified should not precede created")
	}

	uninit, _ := newTestVault(t, nil)
	if _, err := uninit.Status(ctx); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	oldPassword := []byte("old-password")
	newPassword := []byte("new-password")
	vault, _ := newTestVault(t, oldPassword)

	contents := map[string]string{"one": "first", "two": "second | with separator", "empty": ""}
	for name, content := range contents {
		if err := vault.AddItem(ctx, name, []byte(content), oldPassword); err != nil {
			t.Fatalf("AddItem %s failed: %v", name, err)
		}
	}

	if err := vault.ChangePassword(ctx, []byte("wrong"), newPassword); err != ErrWrongPassword {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}

	if err := vault.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if err := vault.VerifyPassword(oldPassword); err != ErrWrongPassword {
		t.Errorf("Old password should be rejected, got %v", err)
	}
	if err := vault.VerifyPassword(newPassword); err != nil {
		t.Errorf("New password should verify: %v", err)
	}

	for name, content := range contents {
		got, err := vault.GetItem(ctx, name, newPassword)
		if err != nil {
			t.Fatalf("GetItem %s failed: %v", name, err)
		}
		if string(got) != content {
			t.Errorf("%s: got %q, want %q", name, got, content)
		}
	}
}

func TestDiff(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, _ := newTestVault(t, password)

	stored := "KEY=value\nOTHER=1\n"
	if err := vault.AddItem(ctx, "env", []byte(stored), password); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	diff, err := vault.Diff(ctx, "env", []byte(stored), password)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != "" {
		t.Errorf("Expected empty diff, got %q", diff)
	}

	diff, err = vault.Diff(ctx, "env", []byte("KEY=changed\nOTHER=1\n"), password)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	for _, want := range []string{"--- vault/env", "+++ local/env", "-KEY=value", "+KEY=changed"} {
		if !strings.Contains(diff, want) {
			t.Errorf("Diff missing %q:\n%s", want, diff)
		}
	}

	if _, err := vault.Diff(ctx, "env", []byte(stored), []byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}
}

func TestCompactKeepsItems(t *testing.T) {
	ctx := context.Background()
	password := []byte("test123")
	vault, _ := newTestVault(t, password)

	if err := vault.AddItem(ctx, "keep", []byte("kept"), password); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if err := vault.AddItem(ctx, "drop", []byte("dropped"), password); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := vault.RemoveItems(ctx, []string{"drop"}, password); err != nil {
		t.Fatalf("RemoveItems failed: %v", err)
	}

	if err := vault.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	got, err := vault.GetItem(ctx, "keep", password)
	if err != nil {
		t.Fatalf("GetItem after compact failed: %v", err)
	}
	if string(got) != "kept" {
		t.Errorf("Content mismatch after compact: %q", got)
	}
}
