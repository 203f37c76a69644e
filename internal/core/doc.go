// Package core provides the main textvault operations.
//
// A Vault wraps an open storage.Store and encrypts every item with the
// vault password before it reaches the store:
//   - Init: Create a vault and store a password check envelope
//   - AddItem/GetItem: Encrypt-then-store and fetch-then-decrypt by name
//   - RemoveItems: Remove items matching glob patterns
//   - ChangePassword: Re-encrypt all items under a new password
//   - Diff: Compare a stored item with local text
//
// Every item is a self-contained envelope with its own salt and nonce, so
// items can also be decrypted directly with crypto.Decrypt.
package core
