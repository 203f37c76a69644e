package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. These match the Argon2 reference defaults and are
// not stored in the envelope, so changing them breaks every existing
// envelope.
const (
	ArgonTime    = 2
	ArgonMemory  = 19 * 1024 // KiB
	ArgonThreads = 1

	SaltSize   = 16 // Raw salt bytes before encoding
	SaltMinLen = 4
	SaltMaxLen = 64
)

// Salt is the textual salt carried in an envelope: unpadded standard
// base64 of SaltSize random bytes. The text itself, not the decoded bytes,
// is fed to Argon2.
type Salt string

// NewSalt generates a fresh random salt
func NewSalt() (Salt, error) {
	raw := make([]byte, SaltSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%w: failed to generate salt: %v", ErrKeyDerivationFailed, err)
	}
	return Salt(base64.RawStdEncoding.EncodeToString(raw)), nil
}

// Validate checks the salt's length and alphabet.
func (s Salt) Validate() error {
	if len(s) < SaltMinLen {
		return fmt.Errorf("%w: salt too short (%d chars)", ErrKeyDerivationFailed, len(s))
	}
	if len(s) > SaltMaxLen {
		return fmt.Errorf("%w: salt too long (%d chars)", ErrKeyDerivationFailed, len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isSaltChar(s[i]) {
			return fmt.Errorf("%w: invalid salt character at offset %d", ErrKeyDerivationFailed, i)
		}
	}
	return nil
}

func isSaltChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '/', c == '.', c == '-':
		return true
	}
	return false
}

// DeriveKey derives a KeySize-byte key from password and salt with Argon2id.
// The caller owns the returned key and should ClearBytes it when done.
func DeriveKey(password []byte, salt Salt) ([]byte, error) {
	if err := salt.Validate(); err != nil {
		return nil, err
	}
	return argon2.IDKey(password, []byte(salt), ArgonTime, ArgonMemory, ArgonThreads, KeySize), nil
}
