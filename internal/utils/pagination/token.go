package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = time.DateOnly

// EncodeToken creates a base64 encoded cursor from the ledger ordering key of the last entry
// of a page: its transaction date and insertion sequence.
func EncodeToken(transactionDate time.Time, sequence int64) string {
	tokenStr := fmt.Sprintf("%s|%d", transactionDate.UTC().Format(dateFormat), sequence)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the cursor back into transaction date and sequence.
func DecodeToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	transactionDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}

	sequence, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	return transactionDate, sequence, nil
}

// IsAfterCursor reports whether an entry keyed (date, sequence) sorts after the cursor in
// newest-first order, i.e. belongs to the next page.
func IsAfterCursor(date time.Time, sequence int64, cursorDate time.Time, cursorSequence int64) bool {
	if !date.Equal(cursorDate) {
		return date.Before(cursorDate)
	}
	return sequence < cursorSequence
}
