package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/keyring"
)

const maxPasswordAttempts = 3

// PasswordSource tells where a vault password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

// GetPasswordWithRetry returns a verified vault password, trying the
// environment, then the OS keyring, then the terminal. A keyring entry
// that no longer verifies is removed. The caller is responsible for
// calling crypto.ClearBytes on the returned password.
func GetPasswordWithRetry(s *Session, prompt string) ([]byte, PasswordSource, error) {
	if s.Config.Password != "" {
		password := []byte(s.Config.Password)
		if err := s.Vault.VerifyPassword(password); err != nil {
			return nil, SourceEnv, err
		}
		return password, SourceEnv, nil
	}

	if !s.Config.NoKeyring {
		vaultID, _ := s.Vault.GetVaultID()
		if vaultID != "" {
			if password, err := keyring.GetPassword(vaultID); err == nil {
				err := s.Vault.VerifyPassword(password)
				if err == nil {
					return password, SourceKeyring, nil
				}
				crypto.ClearBytes(password)
				if !errors.Is(err, core.ErrWrongPassword) {
					return nil, SourceKeyring, err
				}
				fmt.Fprintln(os.Stderr, "warning: password in keyring is out of date, removing it")
				if err := keyring.DeletePassword(vaultID); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to remove keyring entry: %s\n", err)
				}
			}
		}
	}

	for attempt := 1; ; attempt++ {
		password, err := core.ReadPassword(prompt)
		if err != nil {
			return nil, SourcePrompt, err
		}

		err = s.Vault.VerifyPassword(password)
		if err == nil {
			return password, SourcePrompt, nil
		}
		crypto.ClearBytes(password)

		if !errors.Is(err, core.ErrWrongPassword) || attempt == maxPasswordAttempts {
			return nil, SourcePrompt, err
		}
		fmt.Fprintln(os.Stderr, "wrong password, try again")
	}
}

// GetPasswordOrExit is like GetPasswordWithRetry but exits on error
func GetPasswordOrExit(s *Session, prompt string) []byte {
	password, _, err := GetPasswordWithRetry(s, prompt)
	if err != nil {
		HandleError(err)
	}
	return password
}

// GetNewPassword returns a password for a new vault or envelope: the
// environment value if set, otherwise a confirmed terminal prompt.
func GetNewPassword(envPassword string, prompt string) ([]byte, error) {
	if envPassword != "" {
		return []byte(envPassword), nil
	}
	return core.ReadPasswordConfirm(prompt)
}
