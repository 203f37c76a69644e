package crypto

import (
	"fmt"
	"unicode/utf8"
)

// Encrypt seals plaintext under a key derived from password and a fresh
// salt, and returns the envelope string.
func Encrypt(plaintext, password string) (string, error) {
	return EncryptBytes([]byte(plaintext), []byte(password))
}

// Decrypt opens an envelope produced by Encrypt.
func Decrypt(envelope, password string) (string, error) {
	plaintext, err := DecryptBytes(envelope, []byte(password))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptBytes is Encrypt for callers that keep the password in a byte
// slice they clear themselves.
func EncryptBytes(plaintext, password []byte) (string, error) {
	salt, err := NewSalt()
	if err != nil {
		return "", err
	}

	key, err := DeriveKey(password, salt)
	if err != nil {
		return "", err
	}
	defer ClearBytes(key)

	nonce, err := NewNonce()
	if err != nil {
		return "", err
	}

	ciphertext, err := Seal(key, nonce, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}

	env := &Envelope{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}
	return env.String(), nil
}

// DecryptBytes opens an envelope and returns the plaintext bytes, which are
// guaranteed to be valid UTF-8.
func DecryptBytes(envelope string, password []byte) ([]byte, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	key, err := DeriveKey(password, env.Salt)
	if err != nil {
		return nil, err
	}
	defer ClearBytes(key)

	plaintext, err := Open(key, env.Nonce, env.Ciphertext)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(plaintext) {
		ClearBytes(plaintext)
		return nil, ErrInvalidPlaintextEncoding
	}
	return plaintext, nil
}
