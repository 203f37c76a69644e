package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/security"
)

// Add encrypts text and stores it under name. The text comes from args,
// from file (relative to the working directory) or from stdin.
func Add(ctx context.Context, name string, args []string, file string) {
	var (
		content []byte
		err     error
	)
	if file != "" {
		if len(args) > 0 {
			fmt.Fprintf(os.Stderr, "Error: pass either text or --file, not both\n")
			os.Exit(1)
		}
		content, err = readWorkspaceFile(file)
	} else {
		content, err = readInput(args)
	}
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(content)

	s := OpenSessionOrExit(false)
	defer s.Close()

	password := GetPasswordOrExit(s, "Enter password: ")
	defer crypto.ClearBytes(password)

	if err := s.Vault.AddItem(ctx, name, content, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("added: %s\n", name)
}

func openWorkspace() (*security.Workspace, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return security.Open(wd)
}

func readWorkspaceFile(file string) ([]byte, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	data, err := ws.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}
