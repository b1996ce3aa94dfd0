package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	cursor := EncodeCursor(createdAt)
	assert.NotEmpty(t, cursor, "Cursor should not be empty")

	decoded, err := DecodeCursor(cursor)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decoded, "Timestamp should survive the round trip")

	now := time.Now().UTC()
	decodedNow, err := DecodeCursor(EncodeCursor(now))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should survive the round trip")
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 of "notadate"
	_, err = DecodeCursor("bm90YWRhdGU=")
	assert.Error(t, err, "Should return an error for a non-timestamp payload")
	assert.Contains(t, err.Error(), "timestamp parse")
}
