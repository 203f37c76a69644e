package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/keyring"
)

var errKeyringDisabled = errors.New("keyring disabled by TEXTVAULT_NO_KEYRING")

// KeyringSave saves the password to the OS keyring
func KeyringSave() {
	s := OpenSessionOrExit(false)
	defer s.Close()

	if s.Config.NoKeyring {
		HandleError(errKeyringDisabled)
	}

	// Prompt for password
	password, err := core.ReadPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	if err := s.Vault.VerifyPassword(password); err != nil {
		HandleError(err)
	}

	// Get vault ID (create if not exists)
	vaultID, err := s.Vault.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password from the OS keyring
func KeyringDelete() {
	s := OpenSessionOrExit(false)
	defer s.Close()

	vaultID, err := s.Vault.GetVaultID()
	if err != nil || vaultID == "" || !keyring.HasPassword(vaultID) {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to remove from keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus() {
	s := OpenSessionOrExit(false)
	defer s.Close()

	if s.Config.NoKeyring {
		fmt.Println("Password: keyring disabled")
		return
	}

	vaultID, err := s.Vault.GetVaultID()
	if err == nil && vaultID != "" && keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
