package crypto

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Separator delimits the envelope fields before base64 encoding.
const Separator byte = '|'

var b64enc = base64.StdEncoding.Strict()

// Envelope is the serialized form of one encryption:
//
//	base64( <salt> | <nonce> | <ciphertext+tag> )
//
// Where:
//
//	<salt> is the Salt text (never contains the separator)
//	<nonce> is exactly NonceSize raw bytes
//	<ciphertext+tag> is the AES-GCM output, arbitrary binary
//
// The nonce is read as a fixed-width field, so separator bytes inside the
// nonce or the ciphertext never split a field.
type Envelope struct {
	Salt       Salt
	Nonce      []byte
	Ciphertext []byte
}

// Bytes returns the raw field concatenation before base64 encoding
func (e *Envelope) Bytes() []byte {
	buf := make([]byte, 0, len(e.Salt)+len(e.Nonce)+len(e.Ciphertext)+2)
	buf = append(buf, e.Salt...)
	buf = append(buf, Separator)
	buf = append(buf, e.Nonce...)
	buf = append(buf, Separator)
	buf = append(buf, e.Ciphertext...)
	return buf
}

// String returns the base64 encoded envelope
func (e *Envelope) String() string {
	return b64enc.EncodeToString(e.Bytes())
}

// MarshalText - convert an Envelope to its textual form
func (e *Envelope) MarshalText() ([]byte, error) {
	if len(e.Nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrMalformedEnvelope, len(e.Nonce), NonceSize)
	}
	if bytes.IndexByte([]byte(e.Salt), Separator) >= 0 {
		return nil, fmt.Errorf("%w: salt contains separator", ErrMalformedEnvelope)
	}
	return []byte(e.String()), nil
}

// UnmarshalText - parse a base64 envelope into its fields
func (e *Envelope) UnmarshalText(data []byte) error {
	raw := make([]byte, b64enc.DecodedLen(len(data)))
	n, err := b64enc.Decode(raw, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	raw = raw[:n]

	i := bytes.IndexByte(raw, Separator)
	if i < 0 {
		return fmt.Errorf("%w: missing field separator", ErrMalformedEnvelope)
	}
	salt := raw[:i]
	if !utf8.Valid(salt) {
		return fmt.Errorf("%w: salt is not valid UTF-8", ErrMalformedEnvelope)
	}

	rest := raw[i+1:]
	if len(rest) < NonceSize+1 || rest[NonceSize] != Separator {
		return fmt.Errorf("%w: nonce field must be %d bytes", ErrMalformedEnvelope, NonceSize)
	}

	e.Salt = Salt(salt)
	e.Nonce = append([]byte(nil), rest[:NonceSize]...)
	e.Ciphertext = append([]byte(nil), rest[NonceSize+1:]...)
	return nil
}

// ParseEnvelope decodes an envelope string. It checks structure only; the
// salt alphabet is validated during key derivation.
func ParseEnvelope(s string) (*Envelope, error) {
	e := &Envelope{}
	if err := e.UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	return e, nil
}
