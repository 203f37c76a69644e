// Package git checks whether the vault database sits inside a git work tree.
//
// The vault holds only ciphertext, but committing it publishes every
// envelope for offline password guessing. status warns when the file is
// tracked or not covered by .gitignore.
package git
