package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/crypto"
)

// Remove removes items matching patterns from the vault
func Remove(ctx context.Context, patterns []string) {
	if len(patterns) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one item name\n")
		fmt.Fprintf(os.Stderr, "Usage: textvault rm <name> [name...]\n")
		os.Exit(1)
	}

	s := OpenSessionOrExit(false)
	defer s.Close()

	password := GetPasswordOrExit(s, "Enter password: ")
	defer crypto.ClearBytes(password)

	removed, err := s.Vault.RemoveItems(ctx, patterns, password)
	for _, name := range removed {
		fmt.Printf("removed: %s\n", name)
	}
	if err != nil {
		HandleError(err)
	}

	// Compact database to reclaim space
	if err := s.Vault.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}
}
