package domain

import (
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// CurrencyEpsilon is the tolerance used when comparing monetary amounts.
var CurrencyEpsilon = decimal.New(1, -2)

// AmountsEqual reports whether a and b differ by no more than CurrencyEpsilon.
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(CurrencyEpsilon)
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalendarDay is the calendar day of instant t as observed in loc, returned as midnight UTC.
// A nil loc means UTC.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(t.In(loc))
}

// ValidateAmount rejects amounts that are not positive or that carry fractions of a cent.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError(field, "must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperrors.NewValidationError(field, "must not have more than two decimal places")
	}
	return nil
}
