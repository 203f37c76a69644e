package cmd

import "testing"

func TestTrimTrailingNewline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"text\n", "text"},
		{"text\r\n", "text"},
		{"text\n\n", "text\n"},
		{"text", "text"},
		{"", ""},
		{"\n", ""},
	}

	for _, tt := range tests {
		if got := string(trimTrailingNewline([]byte(tt.in))); got != tt.want {
			t.Errorf("trimTrailingNewline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 bytes"},
		{1023, "1023 bytes"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.size); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
