package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, d domain.Domain, t domain.EntryType, amount string, day time.Time, source domain.SourceRef) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID:   id,
		Domain:          d,
		Type:            t,
		Amount:          decimal.RequireFromString(amount),
		CategoryID:      "cat-" + string(t),
		TransactionDate: day,
		Source:          source,
	}
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	store := New()
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	boom := errors.New("boom")
	err := store.RunInTx(ctx, func(ctx context.Context) error {
		_, err := store.AppendTransaction(ctx, entry("t1", domain.Facility, domain.Income, "100", day, domain.ManualSource("m1")))
		require.NoError(t, err)
		require.NoError(t, store.SavePayment(ctx, domain.Payment{PaymentID: "p1", Amount: decimal.NewFromInt(100)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindPaymentByID(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	totals, err := store.GetPeriodTotals(ctx, domain.Facility, nil, nil)
	require.NoError(t, err)
	assert.True(t, totals.Net().IsZero())
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	store := New()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.RunInTx(ctx, func(ctx context.Context) error {
			_ = store.SavePayment(ctx, domain.Payment{PaymentID: "p1"})
			panic("storage exploded")
		})
	})

	_, err := store.FindPaymentByID(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(ctx context.Context) error {
		return store.RunInTx(ctx, func(ctx context.Context) error {
			return store.SavePayment(ctx, domain.Payment{PaymentID: "p1"})
		})
	})
	require.NoError(t, err)

	_, err = store.FindPaymentByID(ctx, "p1")
	assert.NoError(t, err)
}

func TestListTransactions_NewestFirstWithCursor(t *testing.T) {
	store := New()
	ctx := context.Background()
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	for _, e := range []domain.LedgerTransaction{
		entry("a", domain.Pharmacy, domain.Income, "1", d1, domain.ManualSource("a")),
		entry("b", domain.Pharmacy, domain.Income, "2", d2, domain.ManualSource("b")),
		entry("c", domain.Pharmacy, domain.Expense, "3", d1, domain.ManualSource("c")),
		entry("x", domain.Eyewear, domain.Income, "9", d2, domain.ManualSource("x")),
	} {
		_, err := store.AppendTransaction(ctx, e)
		require.NoError(t, err)
	}

	page, next, err := store.ListTransactions(ctx, domain.Pharmacy, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].TransactionID)
	assert.Equal(t, "c", page[1].TransactionID)
	require.NotNil(t, next)

	page, next, err = store.ListTransactions(ctx, domain.Pharmacy, 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].TransactionID)
	assert.Nil(t, next)
}

func TestReportingTotals_SeparateFundMovements(t *testing.T) {
	store := New()
	ctx := context.Background()
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	for _, e := range []domain.LedgerTransaction{
		entry("f", domain.Facility, domain.Income, "500", d1, domain.FundMovementSource("f")),
		entry("i", domain.Facility, domain.Income, "200", d1, domain.PaymentSource("p")),
		entry("e", domain.Facility, domain.Expense, "50", d2, domain.ManualSource("e")),
	} {
		_, err := store.AppendTransaction(ctx, e)
		require.NoError(t, err)
	}

	totals, err := store.GetPeriodTotals(ctx, domain.Facility, nil, nil)
	require.NoError(t, err)
	assert.True(t, totals.FundIn.Equal(decimal.NewFromInt(500)))
	assert.True(t, totals.Income.Equal(decimal.NewFromInt(200)))
	assert.True(t, totals.Net().Equal(decimal.NewFromInt(650)))

	monthly, err := store.GetMonthlyTotals(ctx, domain.Facility, d1, d2)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.True(t, monthly[0].Income.Equal(decimal.NewFromInt(200)))
	assert.True(t, monthly[1].Expense.Equal(decimal.NewFromInt(50)))

	categories, err := store.GetCategoryTotals(ctx, domain.Facility, nil, &d1)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.True(t, categories[0].Amount.Equal(decimal.NewFromInt(200)))
}

func TestUpsertCategory_ReturnsExisting(t *testing.T) {
	store := New()
	ctx := context.Background()

	first, err := store.UpsertCategory(ctx, domain.AccountCategory{CategoryID: "c1", Domain: domain.Facility, Name: "Rent", Type: domain.Expense, IsActive: true})
	require.NoError(t, err)
	second, err := store.UpsertCategory(ctx, domain.AccountCategory{CategoryID: "c2", Domain: domain.Facility, Name: "rent", Type: domain.Expense, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, first.CategoryID, second.CategoryID)

	err = store.SaveCategory(ctx, domain.AccountCategory{CategoryID: "c3", Domain: domain.Facility, Name: "Rent", Type: domain.Expense})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
