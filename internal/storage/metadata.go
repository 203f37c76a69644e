package storage

import (
	"encoding/json"
	"time"
)

// IndexEntry is the unencrypted record kept for each stored item so that
// listing works without a password. Size is the stored envelope length.
type IndexEntry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// MarshalBinary encodes the entry for the index bucket
func (e IndexEntry) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalBinary decodes an index bucket value
func (e *IndexEntry) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// TotalSize sums the stored sizes of entries
func TotalSize(entries []IndexEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total
}
