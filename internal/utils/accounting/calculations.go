package accounting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AccumulateTotals adds txn to totals, routing fund movements to the fund columns.
func AccumulateTotals(totals domain.PeriodTotals, txn domain.LedgerTransaction) domain.PeriodTotals {
	fund := txn.Source.IsFundMovement()
	switch {
	case txn.Type == domain.Income && fund:
		totals.FundIn = totals.FundIn.Add(txn.Amount)
	case txn.Type == domain.Income:
		totals.Income = totals.Income.Add(txn.Amount)
	case txn.Type == domain.Expense && fund:
		totals.FundOut = totals.FundOut.Add(txn.Amount)
	case txn.Type == domain.Expense:
		totals.Expense = totals.Expense.Add(txn.Amount)
	}
	return totals
}

// BuildDailyStatementRows emits one row per calendar day in [from, to] (inclusive), carrying
// the running balance forward from opening. Days missing from daily contribute zero.
func BuildDailyStatementRows(opening decimal.Decimal, from, to time.Time, daily []domain.DailyTotals) ([]domain.DailyStatementRow, domain.PeriodTotals, decimal.Decimal) {
	byDay := make(map[time.Time]domain.PeriodTotals, len(daily))
	for _, d := range daily {
		day := domain.DateOnly(d.Date)
		byDay[day] = byDay[day].Add(d.PeriodTotals)
	}

	rows := []domain.DailyStatementRow{}
	var totals domain.PeriodTotals
	balance := opening
	for day := domain.DateOnly(from); !day.After(domain.DateOnly(to)); day = day.AddDate(0, 0, 1) {
		t := byDay[day]
		balance = balance.Add(t.Credit()).Sub(t.Debit())
		rows = append(rows, domain.DailyStatementRow{
			Date:        day,
			FundIn:      t.FundIn,
			Income:      t.Income,
			FundOut:     t.FundOut,
			Expense:     t.Expense,
			TotalCredit: t.Credit(),
			TotalDebit:  t.Debit(),
			Balance:     balance,
		})
		totals = totals.Add(t)
	}
	return rows, totals, balance
}

// ProductLineProfits pairs "<Line> Sales" income categories with "<Line> Purchases" expense
// categories. Lines are returned sorted by name.
func ProductLineProfits(amounts []domain.CategoryAmount) []domain.ProductLineProfit {
	lines := map[string]*domain.ProductLineProfit{}
	get := func(name string) *domain.ProductLineProfit {
		if l, ok := lines[name]; ok {
			return l
		}
		l := &domain.ProductLineProfit{Line: name}
		lines[name] = l
		return l
	}
	for _, a := range amounts {
		switch {
		case a.Type == domain.Income && strings.HasSuffix(a.Name, domain.SalesSuffix):
			l := get(strings.TrimSuffix(a.Name, domain.SalesSuffix))
			l.Sales = l.Sales.Add(a.Amount)
		case a.Type == domain.Expense && strings.HasSuffix(a.Name, domain.PurchaseSuffix):
			l := get(strings.TrimSuffix(a.Name, domain.PurchaseSuffix))
			l.Purchases = l.Purchases.Add(a.Amount)
		}
	}

	result := make([]domain.ProductLineProfit, 0, len(lines))
	for _, l := range lines {
		l.Profit = l.Sales.Sub(l.Purchases)
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Line < result[j].Line })
	return result
}

// MarginPercent returns (sales - purchases) / sales * 100, or zero when there are no sales.
func MarginPercent(sales, purchases decimal.Decimal) decimal.Decimal {
	if sales.IsZero() {
		return decimal.Zero
	}
	return sales.Sub(purchases).Div(sales).Mul(hundred).Round(2)
}

// SplitByType separates category totals into income and expense lists, each sorted by amount
// descending (name breaks ties).
func SplitByType(amounts []domain.CategoryAmount) (income, expense []domain.CategoryAmount) {
	income, expense = []domain.CategoryAmount{}, []domain.CategoryAmount{}
	for _, a := range amounts {
		if a.Type == domain.Income {
			income = append(income, a)
		} else {
			expense = append(expense, a)
		}
	}
	byAmountDesc := func(s []domain.CategoryAmount) {
		sort.SliceStable(s, func(i, j int) bool {
			if c := s[i].Amount.Cmp(s[j].Amount); c != 0 {
				return c > 0
			}
			return s[i].Name < s[j].Name
		})
	}
	byAmountDesc(income)
	byAmountDesc(expense)
	return income, expense
}

// SplitEvenly divides total into count parts rounded to cents; the last part absorbs the
// rounding remainder so the parts always sum to total.
func SplitEvenly(total decimal.Decimal, count int) ([]decimal.Decimal, error) {
	if count <= 0 {
		return nil, fmt.Errorf("installment count must be positive")
	}
	part := total.Div(decimal.NewFromInt(int64(count))).RoundDown(2)
	parts := make([]decimal.Decimal, count)
	allocated := decimal.Zero
	for i := 0; i < count-1; i++ {
		parts[i] = part
		allocated = allocated.Add(part)
	}
	parts[count-1] = total.Sub(allocated)
	return parts, nil
}
