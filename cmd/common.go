package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/illarion/textvault/internal/config"
	"github.com/illarion/textvault/internal/core"
	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/storage"
	"golang.org/x/term"
)

// Session is one open vault for the duration of a command
type Session struct {
	Config *config.Config
	Store  *storage.Store
	Vault  *core.Vault
}

// OpenSession loads the config and opens the vault database. Only init
// passes create; other commands fail with ErrNotInitialized rather than
// leave an empty database behind.
func OpenSession(create bool) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath()
	if create {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotInitialized
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &Session{
		Config: cfg,
		Store:  db,
		Vault:  core.New(db),
	}, nil
}

func (s *Session) Close() error {
	return s.Store.Close()
}

// OpenSessionOrExit is like OpenSession but exits on error
func OpenSessionOrExit(create bool) *Session {
	s, err := OpenSession(create)
	if err != nil {
		HandleError(err)
	}
	return s
}

// HandleError prints err and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'textvault init' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: vault already exists\n")
		fmt.Fprintf(os.Stderr, "Use 'textvault status' to see current state\n")
	case errors.Is(err, core.ErrItemNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'textvault ls' to list items\n")
	case errors.Is(err, core.ErrWrongPassword) && crypto.Kind(err) == nil:
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// readInput returns args joined by spaces, or stdin when there are none.
// A single trailing newline from stdin is dropped, so that
// `echo text | textvault encrypt` encrypts "text".
func readInput(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("no input: pass text as arguments or pipe it to stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return trimTrailingNewline(data), nil
}

func trimTrailingNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
		if n := len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
	}
	return b
}

// writeOutput writes data to stdout, adding a newline on terminals so the
// shell prompt does not run into the text.
func writeOutput(data []byte) {
	os.Stdout.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println()
	}
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
