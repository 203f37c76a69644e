package crypto

import "errors"

// Failure kinds. Every error returned by this package wraps exactly one of
// these, so callers can use errors.Is to tell them apart.
var (
	ErrKeyDerivationFailed      = errors.New("key derivation failed")
	ErrAuthenticationFailed     = errors.New("authentication failed")
	ErrInvalidEncoding          = errors.New("invalid envelope encoding")
	ErrMalformedEnvelope        = errors.New("malformed envelope")
	ErrInvalidPlaintextEncoding = errors.New("plaintext is not valid UTF-8")
)

var kinds = []error{
	ErrKeyDerivationFailed,
	ErrAuthenticationFailed,
	ErrInvalidEncoding,
	ErrMalformedEnvelope,
	ErrInvalidPlaintextEncoding,
}

// Kind returns the failure kind wrapped by err, or nil if err did not
// originate in this package.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
