package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/textvault/internal/crypto"
)

// Diff compares a stored item with a local file
func Diff(ctx context.Context, name, file string) {
	local, err := readWorkspaceFile(file)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(local)

	s := OpenSessionOrExit(false)
	defer s.Close()

	password := GetPasswordOrExit(s, "Enter password: ")
	defer crypto.ClearBytes(password)

	diff, err := s.Vault.Diff(ctx, name, local, password)
	if err != nil {
		HandleError(err)
	}

	if diff == "" {
		fmt.Printf("%s: no differences\n", name)
		return
	}
	fmt.Print(diff)
}
