package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init failed: %v: %s", err, out)
	}
	return dir
}

func TestCheckVault_OutsideRepo(t *testing.T) {
	dir := t.TempDir()
	status := CheckVault(filepath.Join(dir, "vault.db"))
	if status.IsRepo {
		// The temp dir may itself live inside a work tree
		t.Skip("temp dir is inside a git repository")
	}
	if FormatVaultStatus(status, filepath.Join(dir, "vault.db")) != "" {
		t.Error("Expected no output outside a repository")
	}
}

func TestCheckVault_Unignored(t *testing.T) {
	dir := initRepo(t)
	dbPath := filepath.Join(dir, "vault.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	status := CheckVault(dbPath)
	if !status.IsRepo || status.Tracked || status.Ignored {
		t.Fatalf("Unexpected status: %+v", status)
	}
	if out := FormatVaultStatus(status, dbPath); !strings.Contains(out, "not ignored") {
		t.Errorf("Expected not ignored warning, got %q", out)
	}
}

func TestCheckVault_Ignored(t *testing.T) {
	dir := initRepo(t)
	dbPath := filepath.Join(dir, "vault.db")
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dbPath, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	status := CheckVault(dbPath)
	if !status.Ignored || status.Tracked {
		t.Fatalf("Unexpected status: %+v", status)
	}
	if out := FormatVaultStatus(status, dbPath); !strings.Contains(out, "ok:") {
		t.Errorf("Expected ok line, got %q", out)
	}
}

func TestCheckVault_Tracked(t *testing.T) {
	dir := initRepo(t)
	dbPath := filepath.Join(dir, "vault.db")
	if err := os.WriteFile(dbPath, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command("git", "add", "vault.db")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git add failed: %v: %s", err, out)
	}

	status := CheckVault(dbPath)
	if !status.Tracked {
		t.Fatalf("Expected tracked, got %+v", status)
	}
	if out := FormatVaultStatus(status, dbPath); !strings.Contains(out, "git rm --cached") {
		t.Errorf("Expected tracked warning, got %q", out)
	}
}
