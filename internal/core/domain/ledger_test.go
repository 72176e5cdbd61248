package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func validEntry() domain.LedgerTransaction {
	return domain.LedgerTransaction{
		Domain:          domain.Pharmacy,
		Type:            domain.Income,
		Amount:          dec("10"),
		CategoryID:      "cat-1",
		TransactionDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Source:          domain.PaymentSource("pay-1"),
	}
}

func TestLedgerTransaction_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.LedgerTransaction)
		wantField string
	}{
		{name: "valid", mutate: func(*domain.LedgerTransaction) {}},
		{name: "zero amount", mutate: func(e *domain.LedgerTransaction) { e.Amount = dec("0") }, wantField: "amount"},
		{name: "negative amount", mutate: func(e *domain.LedgerTransaction) { e.Amount = dec("-5") }, wantField: "amount"},
		{name: "sub-cent amount", mutate: func(e *domain.LedgerTransaction) { e.Amount = dec("10.005") }, wantField: "amount"},
		{name: "trailing zeros", mutate: func(e *domain.LedgerTransaction) { e.Amount = dec("10.500") }},
		{name: "unknown domain", mutate: func(e *domain.LedgerTransaction) { e.Domain = "canteen" }, wantField: "domain"},
		{name: "unknown type", mutate: func(e *domain.LedgerTransaction) { e.Type = "transfer" }, wantField: "type"},
		{name: "missing category", mutate: func(e *domain.LedgerTransaction) { e.CategoryID = "" }, wantField: "categoryID"},
		{name: "untyped source", mutate: func(e *domain.LedgerTransaction) { e.Source = domain.SourceRef{ID: "x"} }, wantField: "source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *apperrors.ValidationError
			if assert.ErrorAs(t, err, &vErr) {
				assert.Equal(t, tt.wantField, vErr.Field)
			}
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestParseDomain(t *testing.T) {
	for _, d := range domain.AllDomains() {
		got, err := domain.ParseDomain(string(d))
		assert.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := domain.ParseDomain("canteen")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFeeSchedule_Percentage(t *testing.T) {
	assert.True(t, dec("40").Equal(domain.FeeSchedule{BasePrice: dec("500"), PractitionerFee: dec("200")}.Percentage()))
	assert.True(t, domain.FeeSchedule{BasePrice: dec("0"), PractitionerFee: dec("200")}.Percentage().IsZero())
}

func TestCalendarDay(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	instant := time.Date(2024, 5, 31, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), domain.CalendarDay(instant, dhaka))
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), domain.CalendarDay(instant, nil))
}
