package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/keyring"
)

// Passwd changes the vault password
func Passwd(ctx context.Context) {
	s := OpenSessionOrExit(false)
	defer s.Close()

	// Get vault ID for keyring lookup
	vaultID, _ := s.Vault.GetVaultID()

	currentPassword, source, err := GetPasswordWithRetry(s, "Enter current password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(currentPassword)

	// The new password is always typed, never taken from the environment
	newPassword, err := core.ReadPasswordConfirm("Enter new password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(newPassword)

	if err := s.Vault.ChangePassword(ctx, currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Keep an existing keyring entry in sync
	if vaultID != "" && !s.Config.NoKeyring && (source == SourceKeyring || keyring.HasPassword(vaultID)) {
		if err := keyring.SavePassword(vaultID, newPassword); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to update keyring: %s\n", err)
		} else {
			fmt.Println("Keyring updated with new password")
		}
	}

	// Compact database after rewriting all data
	if err := s.Vault.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("password changed successfully")
	if s.Config.Password != "" {
		fmt.Fprintln(os.Stderr, "warning: TEXTVAULT_PASSWORD still holds the old password")
	}
}
