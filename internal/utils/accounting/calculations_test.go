package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestAccumulateTotals_RoutesFundMovements(t *testing.T) {
	var totals domain.PeriodTotals
	totals = accounting.AccumulateTotals(totals, domain.LedgerTransaction{Type: domain.Income, Amount: d("100"), Source: domain.PaymentSource("p1")})
	totals = accounting.AccumulateTotals(totals, domain.LedgerTransaction{Type: domain.Income, Amount: d("500"), Source: domain.FundMovementSource("f1")})
	totals = accounting.AccumulateTotals(totals, domain.LedgerTransaction{Type: domain.Expense, Amount: d("30"), Source: domain.RefundSource("r1")})
	totals = accounting.AccumulateTotals(totals, domain.LedgerTransaction{Type: domain.Expense, Amount: d("70"), Source: domain.FundMovementSource("f2")})

	assert.True(t, d("100").Equal(totals.Income))
	assert.True(t, d("500").Equal(totals.FundIn))
	assert.True(t, d("30").Equal(totals.Expense))
	assert.True(t, d("70").Equal(totals.FundOut))
	assert.True(t, d("500").Equal(totals.Net()))
}

func TestBuildDailyStatementRows_FillsEmptyDays(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	daily := []domain.DailyTotals{
		{Date: from, PeriodTotals: domain.PeriodTotals{Income: d("200"), FundIn: d("50")}},
		{Date: to, PeriodTotals: domain.PeriodTotals{Expense: d("80"), FundOut: d("20")}},
	}

	rows, totals, closing := accounting.BuildDailyStatementRows(d("1000"), from, to, daily)

	require.Len(t, rows, 3)
	assert.True(t, d("1250").Equal(rows[0].Balance))
	assert.True(t, d("250").Equal(rows[0].TotalCredit))
	assert.True(t, d("1250").Equal(rows[1].Balance), "empty day carries the balance forward")
	assert.True(t, rows[1].TotalCredit.IsZero())
	assert.True(t, d("1150").Equal(rows[2].Balance))
	assert.True(t, d("100").Equal(rows[2].TotalDebit))
	assert.True(t, d("1150").Equal(closing))
	assert.True(t, d("150").Equal(totals.Net()))
}

func TestProductLineProfits(t *testing.T) {
	amounts := []domain.CategoryAmount{
		{Name: "Medicine Sales", Type: domain.Income, Amount: d("900")},
		{Name: "Medicine Purchases", Type: domain.Expense, Amount: d("400")},
		{Name: "Eyewear Sales", Type: domain.Income, Amount: d("300")},
		{Name: "Consultation", Type: domain.Income, Amount: d("1000")},
		{Name: "Salaries", Type: domain.Expense, Amount: d("500")},
	}

	lines := accounting.ProductLineProfits(amounts)

	require.Len(t, lines, 2)
	assert.Equal(t, "Eyewear", lines[0].Line)
	assert.True(t, d("300").Equal(lines[0].Profit))
	assert.Equal(t, "Medicine", lines[1].Line)
	assert.True(t, d("500").Equal(lines[1].Profit))
}

func TestMarginPercent(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(accounting.MarginPercent(decimal.Zero, d("100"))), "no sales means zero margin")
	assert.True(t, d("25").Equal(accounting.MarginPercent(d("400"), d("300"))))
	assert.True(t, d("-50").Equal(accounting.MarginPercent(d("200"), d("300"))))
}

func TestSplitByType_SortsDescending(t *testing.T) {
	income, expense := accounting.SplitByType([]domain.CategoryAmount{
		{Name: "A", Type: domain.Income, Amount: d("10")},
		{Name: "B", Type: domain.Income, Amount: d("30")},
		{Name: "C", Type: domain.Expense, Amount: d("5")},
	})
	require.Len(t, income, 2)
	assert.Equal(t, "B", income[0].Name)
	require.Len(t, expense, 1)
}

func TestSplitEvenly(t *testing.T) {
	parts, err := accounting.SplitEvenly(d("1000"), 3)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.True(t, d("333.33").Equal(parts[0]))
	assert.True(t, d("333.34").Equal(parts[2]))
	sum := parts[0].Add(parts[1]).Add(parts[2])
	assert.True(t, d("1000").Equal(sum))

	_, err = accounting.SplitEvenly(d("10"), 0)
	assert.Error(t, err)
}
