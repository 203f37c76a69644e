package core

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/illarion/textvault/internal/crypto"
	"github.com/illarion/textvault/internal/storage"
)

const (
	DBFile              = "vault.db"
	MaxNameLength       = 255
	passwordCheckString = "textvault-password-check"
)

var (
	ErrNotInitialized = errors.New("vault not initialized")
	ErrAlreadyExists  = errors.New("vault already exists")
	ErrWrongPassword  = errors.New("wrong password")
	ErrItemNotFound   = errors.New("item not found")
	ErrInvalidName    = errors.New("invalid item name")
	ErrNoMatches      = errors.New("no items match")
)

// Vault stores text items encrypted under a single vault password.
type Vault struct {
	db *storage.Store
}

// New creates a Vault over an open store. The caller keeps ownership of
// the store and closes it.
func New(db *storage.Store) *Vault {
	return &Vault{db: db}
}

// StatusInfo summarizes a vault without requiring the password
type StatusInfo struct {
	Path      string
	VaultID   string
	Created   time.Time
	Modified  time.Time
	Items     []storage.IndexEntry
	TotalSize int64
}

// ValidateName checks that name can be used as an item key
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxNameLength)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidName)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: leading or trailing whitespace", ErrInvalidName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: contains control characters", ErrInvalidName)
		}
	}
	return nil
}

func (v *Vault) ensureInitialized() error {
	initialized, err := v.db.IsInitialized()
	if err != nil {
		return fmt.Errorf("failed to read vault: %w", err)
	}
	if !initialized {
		return ErrNotInitialized
	}
	return nil
}

// Init initializes a new vault protected by password
func (v *Vault) Init(ctx context.Context, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	initialized, err := v.db.IsInitialized()
	if err != nil {
		return fmt.Errorf("failed to read vault: %w", err)
	}
	if initialized {
		return ErrAlreadyExists
	}

	check, err := crypto.EncryptBytes([]byte(passwordCheckString), password)
	if err != nil {
		return fmt.Errorf("failed to encrypt password check: %w", err)
	}

	if err := v.db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := v.db.SetPasswordCheck([]byte(check)); err != nil {
		return fmt.Errorf("failed to store password check: %w", err)
	}
	if _, err := v.db.GetOrCreateVaultID(); err != nil {
		return err
	}
	return nil
}

// VerifyPassword checks if the password is correct for this vault
func (v *Vault) VerifyPassword(password []byte) error {
	if err := v.ensureInitialized(); err != nil {
		return err
	}

	check, err := v.db.GetPasswordCheck()
	if err != nil {
		return fmt.Errorf("failed to read password check: %w", err)
	}

	plain, err := crypto.DecryptBytes(string(check), password)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return ErrWrongPassword
		}
		return fmt.Errorf("corrupt password check: %w", err)
	}
	defer crypto.ClearBytes(plain)

	if !crypto.ConstantTimeCompare(plain, []byte(passwordCheckString)) {
		return ErrWrongPassword
	}
	return nil
}

// AddItem encrypts content with the vault password and stores it under
// name, replacing any previous value.
func (v *Vault) AddItem(ctx context.Context, name string, content, password []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if !utf8.Valid(content) {
		return fmt.Errorf("content of %s is not valid UTF-8 text", name)
	}

	if err := v.VerifyPassword(password); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	envelope, err := crypto.EncryptBytes(content, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", name, err)
	}

	if err := v.db.Put(name, []byte(envelope)); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// GetItem returns the decrypted content of name. The caller should
// ClearBytes the result when done.
func (v *Vault) GetItem(ctx context.Context, name string, password []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := v.ensureInitialized(); err != nil {
		return nil, err
	}

	envelope, err := v.db.Get(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	plain, err := crypto.DecryptBytes(string(envelope), password)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			return nil, fmt.Errorf("%s: %w: %w", name, ErrWrongPassword, err)
		}
		return nil, fmt.Errorf("failed to decrypt %s: %w", name, err)
	}
	return plain, nil
}

// RemoveItems removes every item whose name matches one of patterns
// (path.Match syntax). It returns the removed names.
func (v *Vault) RemoveItems(ctx context.Context, patterns []string, password []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := v.VerifyPassword(password); err != nil {
		return nil, err
	}

	names, err := v.db.Names()
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	matched, err := matchNames(names, patterns)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, strings.Join(patterns, " "))
	}

	var removed []string
	for _, name := range matched {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := v.db.Delete(name); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func matchNames(names, patterns []string) ([]string, error) {
	var matched []string
	for _, name := range names {
		for _, pattern := range patterns {
			ok, err := path.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
			}
			if ok {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched, nil
}

// List returns the index of stored items. No password is required.
func (v *Vault) List(ctx context.Context) ([]storage.IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := v.ensureInitialized(); err != nil {
		return nil, err
	}
	return v.db.Index()
}

// Status returns vault information. No password is required.
func (v *Vault) Status(ctx context.Context) (*StatusInfo, error) {
	items, err := v.List(ctx)
	if err != nil {
		return nil, err
	}

	info := &StatusInfo{
		Path:      v.db.Path(),
		Items:     items,
		TotalSize: storage.TotalSize(items),
	}
	if info.Created, err = v.db.GetCreated(); err != nil {
		return nil, fmt.Errorf("failed to read creation time: %w", err)
	}
	if info.Modified, err = v.db.GetModified(); err != nil {
		return nil, fmt.Errorf("failed to read modification time: %w", err)
	}
	// Vaults created by older builds may lack an ID; it is created lazily.
	info.VaultID, _ = v.db.GetVaultID()
	return info, nil
}

// ChangePassword re-encrypts every item and the password check under
// newPassword. Nothing is written unless all items decrypt.
func (v *Vault) ChangePassword(ctx context.Context, currentPassword, newPassword []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.VerifyPassword(currentPassword); err != nil {
		return err
	}

	names, err := v.db.Names()
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	rewritten := make(map[string][]byte, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		plain, err := v.GetItem(ctx, name, currentPassword)
		if err != nil {
			return err
		}
		envelope, err := crypto.EncryptBytes(plain, newPassword)
		crypto.ClearBytes(plain)
		if err != nil {
			return fmt.Errorf("failed to re-encrypt %s: %w", name, err)
		}
		rewritten[name] = []byte(envelope)
	}

	check, err := crypto.EncryptBytes([]byte(passwordCheckString), newPassword)
	if err != nil {
		return fmt.Errorf("failed to encrypt password check: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.db.Rewrite(rewritten, []byte(check)); err != nil {
		return fmt.Errorf("failed to store re-encrypted items: %w", err)
	}
	return nil
}

// Diff returns a unified diff from the stored value of name to local, or
// an empty string if they are identical.
func (v *Vault) Diff(ctx context.Context, name string, local, password []byte) (string, error) {
	stored, err := v.GetItem(ctx, name, password)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(stored)

	return GenerateUnifiedDiff(name, stored, local)
}

// Compact compacts the database to reclaim unused space.
func (v *Vault) Compact() error {
	if err := v.ensureInitialized(); err != nil {
		return err
	}
	return v.db.Compact()
}

// GetVaultID retrieves the vault ID from storage
func (v *Vault) GetVaultID() (string, error) {
	if err := v.ensureInitialized(); err != nil {
		return "", err
	}
	return v.db.GetVaultID()
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (v *Vault) GetOrCreateVaultID() (string, error) {
	if err := v.ensureInitialized(); err != nil {
		return "", err
	}
	return v.db.GetOrCreateVaultID()
}
