package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/textvault/internal/config"
	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/crypto"
)

// passwordFor returns the password for a standalone envelope, honouring
// TEXTVAULT_PASSWORD unless prompt is set.
func passwordFor(prompt bool, confirm bool) ([]byte, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	envPassword := cfg.Password
	if prompt {
		envPassword = ""
	}
	if confirm {
		return GetNewPassword(envPassword, "Enter password: ")
	}
	if envPassword != "" {
		return []byte(envPassword), nil
	}
	return core.ReadPassword("Enter password: ")
}

// Encrypt prints the envelope of text read from args or stdin. It does
// not touch the vault database.
func Encrypt(args []string, prompt bool) {
	plaintext, err := readInput(args)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(plaintext)

	password, err := passwordFor(prompt, true)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	envelope, err := crypto.EncryptBytes(plaintext, password)
	if err != nil {
		HandleError(err)
	}

	fmt.Println(envelope)
}

// Decrypt prints the plaintext of an envelope given as an argument or
// on stdin.
func Decrypt(args []string, prompt bool) {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Error: decrypt takes a single envelope\n")
		fmt.Fprintf(os.Stderr, "Usage: textvault decrypt [-p] [<envelope>]\n")
		os.Exit(1)
	}

	input, err := readInput(args)
	if err != nil {
		HandleError(err)
	}

	password, err := passwordFor(prompt, false)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	plaintext, err := crypto.DecryptBytes(string(input), password)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(plaintext)

	writeOutput(plaintext)
}
