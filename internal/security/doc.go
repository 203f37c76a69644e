// Package security confines item import and export to the working
// directory.
//
// Paths given to add --file and get --out must be relative and local.
// All file access goes through os.Root, so a symlink pointing outside
// the directory is rejected as well.
package security
