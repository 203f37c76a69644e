package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/textvault/internal/crypto"
)

// Get decrypts the item name to stdout, or to out (relative to the
// working directory) when set.
func Get(ctx context.Context, name, out string, force bool) {
	s := OpenSessionOrExit(false)
	defer s.Close()

	password := GetPasswordOrExit(s, "Enter password: ")
	defer crypto.ClearBytes(password)

	content, err := s.Vault.GetItem(ctx, name, password)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(content)

	if out == "" {
		writeOutput(content)
		return
	}

	ws, err := openWorkspace()
	if err != nil {
		HandleError(err)
	}
	defer ws.Close()

	if err := ws.WriteFile(out, content, force); err != nil {
		HandleError(fmt.Errorf("%w (use --force to overwrite)", err))
	}
	fmt.Printf("wrote: %s -> %s\n", name, out)
}
