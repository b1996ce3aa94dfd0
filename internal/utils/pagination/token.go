package pagination

import (
	"encoding/base64"
	"fmt"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeCursor builds an opaque cursor from the created_at of the last entry
// on a page. Clients pass it back verbatim to fetch the next page.
func EncodeCursor(createdAt time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(createdAt.Format(timeFormat)))
}

// DecodeCursor parses a cursor back into the timestamp it encodes.
func DecodeCursor(cursor string) (time.Time, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination cursor (base64 decode): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, string(decodedBytes))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination cursor (timestamp parse): %w", err)
	}
	return createdAt, nil
}
