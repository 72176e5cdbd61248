package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const receiptSuffixBytes = 4

// GenerateReceiptNumber returns a receipt number of the form RCPT-YYYYMMDD-XXXXXXXX. The date is
// the calendar day of at in its own location.
func GenerateReceiptNumber(at time.Time) (string, error) {
	b := make([]byte, receiptSuffixBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate receipt suffix: %w", err)
	}
	return fmt.Sprintf("RCPT-%s-%s", at.Format("20060102"), strings.ToUpper(hex.EncodeToString(b))), nil
}
