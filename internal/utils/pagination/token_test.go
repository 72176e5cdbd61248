package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard values
	date := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(date, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedSeq, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, date, decodedDate, "Transaction date should match after decode")
	assert.Equal(t, int64(42), decodedSeq, "Sequence should match after decode")

	// Test case 2: time of day is dropped
	withTime := time.Date(2023, 5, 15, 14, 30, 45, 0, time.UTC)
	decodedDate, _, err = DecodeToken(EncodeToken(withTime, 1))
	assert.NoError(t, err)
	assert.Equal(t, date, decodedDate, "Only the calendar day is kept")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15")))
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid date format
	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|5")))
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "transaction date parse")

	// Test invalid sequence
	_, _, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence parse")
}

func TestIsAfterCursor(t *testing.T) {
	day := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	earlier := day.AddDate(0, 0, -1)

	assert.True(t, IsAfterCursor(earlier, 100, day, 5), "older day is on the next page")
	assert.True(t, IsAfterCursor(day, 4, day, 5), "same day, lower sequence is on the next page")
	assert.False(t, IsAfterCursor(day, 5, day, 5), "the cursor entry itself is excluded")
	assert.False(t, IsAfterCursor(day.AddDate(0, 0, 1), 1, day, 5))
}
