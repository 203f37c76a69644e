// Package storage provides the BBolt database interface for textvault.
//
// Database structure uses three buckets:
//   - config: format version, timestamps, vault ID, password check envelope
//   - index: item names, envelope sizes, timestamps (unencrypted, for ls/status)
//   - items: envelope strings keyed by item name
//
// The store never sees plaintext; callers encrypt before Put and decrypt
// after Get. The unencrypted index lets textvault ls work without a password.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
