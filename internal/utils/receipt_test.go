package utils_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptNumber(t *testing.T) {
	at := time.Date(2024, 7, 9, 15, 4, 5, 0, time.UTC)

	first, err := utils.GenerateReceiptNumber(at)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^RCPT-20240709-[0-9A-F]{8}$`), first)

	second, err := utils.GenerateReceiptNumber(at)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerateReceiptNumber_UsesLocalDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	early := time.Date(2024, 7, 10, 2, 0, 0, 0, ist)

	receipt, err := utils.GenerateReceiptNumber(early)
	require.NoError(t, err)
	assert.Contains(t, receipt, "RCPT-20240710-")

	receipt, err = utils.GenerateReceiptNumber(early.UTC())
	require.NoError(t, err)
	assert.Contains(t, receipt, "RCPT-20240709-")
}
