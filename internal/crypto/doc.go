// Package crypto provides password-based authenticated encryption for textvault.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from password via Argon2id
//   - 12-byte random nonce per encryption operation
//   - 16-byte authentication tag appended to the ciphertext
//
// Key derivation uses Argon2id (m=19 MiB, t=2, p=1) with:
//   - A fresh random salt per encryption, carried as text in the envelope
//   - No key caching: every Encrypt/Decrypt call derives its own key
//
// Envelope format (base64, standard alphabet, padded):
//
//	salt | nonce | ciphertext+tag
//
// Wrong passwords and tampered envelopes both fail with
// ErrAuthenticationFailed and are deliberately indistinguishable.
//
// Memory safety:
//   - Derived keys are zeroed with ClearBytes before Encrypt/Decrypt return
//   - Use ClearBytes() to zero passwords and plaintext after use
package crypto
