package cmd

import (
	"context"
	"fmt"
)

// Ls prints one item name per line, for scripts and shell completion
func Ls(ctx context.Context) {
	s := OpenSessionOrExit(false)
	defer s.Close()

	// No password required
	items, err := s.Vault.List(ctx)
	if err != nil {
		HandleError(err)
	}

	for _, item := range items {
		fmt.Println(item.Name)
	}
}
