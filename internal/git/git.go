package git

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// VaultStatus describes how git sees the vault database file
type VaultStatus struct {
	IsRepo  bool
	Tracked bool // committed or staged
	Ignored bool // matched by a .gitignore rule
}

// IsGitRepo checks if dir is inside a git work tree
func IsGitRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(dir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(dir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = dir
	// exit code 0 means ignored
	return cmd.Run() == nil
}

// CheckVault reports the git status of the vault file at dbPath. A missing
// git binary looks the same as a path outside any repository.
func CheckVault(dbPath string) *VaultStatus {
	dir, file := filepath.Split(dbPath)
	if dir == "" {
		dir = "."
	}

	status := &VaultStatus{}
	if !IsGitRepo(dir) {
		return status
	}
	status.IsRepo = true
	status.Tracked = IsTracked(dir, file)
	status.Ignored = IsIgnored(dir, file)
	return status
}

// FormatVaultStatus formats the status for display. It returns "" when
// the vault is not inside a repository.
func FormatVaultStatus(status *VaultStatus, dbPath string) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit:\n")

	switch {
	case status.Tracked:
		result.WriteString("   warning: vault file is tracked by git\n")
		result.WriteString("      run: git rm --cached " + dbPath + "\n")
	case status.Ignored:
		result.WriteString("   ok: vault file is ignored by git\n")
	default:
		result.WriteString("   warning: vault file is inside a git work tree and not ignored\n")
		result.WriteString("      add " + filepath.Base(dbPath) + " to .gitignore\n")
	}
	return result.String()
}
