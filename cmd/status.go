package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/illarion/textvault/internal/git"
	"github.com/illarion/textvault/internal/keyring"
)

// Status shows the vault location, timestamps and stored items
func Status(ctx context.Context) {
	s := OpenSessionOrExit(false)
	defer s.Close()

	// No password required
	status, err := s.Vault.Status(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Vault: %s\n", status.Path)
	if status.VaultID != "" {
		fmt.Printf("ID: %s\n", status.VaultID)
	}
	fmt.Printf("Created: %s\n", status.Created.Format(time.RFC3339))
	fmt.Printf("Modified: %s\n", status.Modified.Format(time.RFC3339))

	switch {
	case s.Config.Password != "":
		fmt.Println("Password: from TEXTVAULT_PASSWORD")
	case s.Config.NoKeyring:
		fmt.Println("Password: keyring disabled")
	case status.VaultID != "" && keyring.HasPassword(status.VaultID):
		fmt.Println("Password: stored in keyring")
	default:
		fmt.Println("Password: not stored")
	}

	fmt.Printf("\nItems: %d (%s encrypted)\n", len(status.Items), formatSize(status.TotalSize))
	for _, item := range status.Items {
		fmt.Printf("  %s (%s, modified %s)\n", item.Name, formatSize(item.Size), item.Modified.Format(time.RFC3339))
	}

	fmt.Print(git.FormatVaultStatus(git.CheckVault(status.Path), status.Path))
}
