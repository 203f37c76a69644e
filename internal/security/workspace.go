package security

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes  = errors.New("path escapes working directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
	ErrFileExists   = errors.New("file already exists")
)

// Workspace confines the files read by add and written by get to a
// directory tree, using os.Root so that symlinks cannot escape it either.
type Workspace struct {
	root *os.Root
	dir  string
}

// Open creates a Workspace rooted at dir.
func Open(dir string) (*Workspace, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	return &Workspace{root: root, dir: absPath}, nil
}

func (w *Workspace) Close() error {
	return w.root.Close()
}

// Dir returns the absolute workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// Clean validates a user-provided path and returns it cleaned and
// relative to the workspace.
func (w *Workspace) Clean(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(userPath) {
		return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
	}

	clean := filepath.Clean(userPath)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}
	return clean, nil
}

// ReadFile reads a file inside the workspace.
func (w *Workspace) ReadFile(userPath string) ([]byte, error) {
	p, err := w.Clean(userPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	f, err := w.root.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteFile writes a file inside the workspace with owner-only
// permissions, creating parent directories. An existing file is only
// replaced when overwrite is set.
func (w *Workspace) WriteFile(userPath string, data []byte, overwrite bool) error {
	p, err := w.Clean(userPath)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if err := w.mkdirAll(filepath.Dir(p)); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := w.root.OpenFile(p, flags, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, userPath)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *Workspace) mkdirAll(dir string) error {
	if dir == "." {
		return nil
	}
	current := ""
	for _, part := range strings.Split(dir, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		if err := w.root.Mkdir(current, 0700); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("failed to create directory %s: %w", current, err)
		}
	}
	return nil
}
