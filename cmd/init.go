package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/git"
)

// Init creates a new vault
func Init(ctx context.Context) {
	s := OpenSessionOrExit(true)
	defer s.Close()

	// Fail before prompting if the vault already exists
	if initialized, err := s.Store.IsInitialized(); err == nil && initialized {
		HandleError(core.ErrAlreadyExists)
	}

	// Read password (env var or prompt with confirmation)
	password, err := GetNewPassword(s.Config.Password, "Enter new password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := s.Vault.Init(ctx, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("Initialized vault at %s\n", s.Store.Path())
	fmt.Println("The password is not stored anywhere - you must remember it.")
	fmt.Print(git.FormatVaultStatus(git.CheckVault(s.Store.Path()), s.Store.Path()))
}
