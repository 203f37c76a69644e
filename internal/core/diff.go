package core

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	TextSampleSize   = 8192 // Bytes to sample for text/binary detection
	TextThresholdPct = 10   // Max % non-printable chars for text content
)

// IsText reports whether data looks like text.
//
// Detection heuristic (in order):
//  1. Null bytes present → binary
//  2. Invalid UTF-8 → binary
//  3. >10% non-printable control chars → binary
func IsText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if bytes.IndexByte(data, 0) != -1 {
		return false
	}

	sample := data
	if len(sample) > TextSampleSize {
		sample = sample[:TextSampleSize]
	}
	// A multi-byte rune may be cut at the sample boundary
	if !utf8.Valid(sample) && (len(sample) == len(data) || !utf8.Valid(trimPartialRune(sample))) {
		return false
	}

	nonPrintable := 0
	for _, b := range sample {
		if (b < 32 && b != '\t' && b != '\n' && b != '\r') || b == 127 {
			nonPrintable++
		}
	}
	return nonPrintable <= len(sample)*TextThresholdPct/100
}

func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// SameContent checks if two contents are identical by SHA-256
func SameContent(a, b []byte) bool {
	ha := sha256.Sum256(a)
	hb := sha256.Sum256(b)
	return bytes.Equal(ha[:], hb[:])
}

// GenerateUnifiedDiff generates a full-context unified diff from the stored
// value to the local one. Returns an empty string if they are identical.
func GenerateUnifiedDiff(name string, stored, local []byte) (string, error) {
	if SameContent(stored, local) {
		return "", nil
	}

	if !IsText(stored) || !IsText(local) {
		return fmt.Sprintf("Binary content of %s differs\n", name), nil
	}

	dmp := diffmatchpatch.New()

	a, b, lineArray := dmp.DiffLinesToChars(string(stored), string(local))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var result strings.Builder
	fmt.Fprintf(&result, "--- vault/%s\n", name)
	fmt.Fprintf(&result, "+++ local/%s\n", name)
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.WriteString(prefix)
			result.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				result.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}

	return result.String(), nil
}
