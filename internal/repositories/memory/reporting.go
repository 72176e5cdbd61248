package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

func zeroTotals() domain.PeriodTotals {
	return domain.PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero, FundIn: decimal.Zero, FundOut: decimal.Zero}
}

func inRange(day time.Time, from, to *time.Time) bool {
	if from != nil && day.Before(domain.DateOnly(*from)) {
		return false
	}
	if to != nil && day.After(domain.DateOnly(*to)) {
		return false
	}
	return true
}

// each calls fn for every entry of ledgerDomain dated within [from, to].
func (s *Store) each(ledgerDomain domain.Domain, from, to *time.Time, fn func(domain.LedgerTransaction)) {
	for _, txn := range s.st.ledger {
		if txn.Domain == ledgerDomain && inRange(txn.TransactionDate, from, to) {
			fn(txn)
		}
	}
}

func (s *Store) GetPeriodTotals(ctx context.Context, ledgerDomain domain.Domain, from, to *time.Time) (domain.PeriodTotals, error) {
	defer s.rlock(ctx)()

	totals := zeroTotals()
	s.each(ledgerDomain, from, to, func(txn domain.LedgerTransaction) {
		totals = accounting.AccumulateTotals(totals, txn)
	})
	return totals, nil
}

func (s *Store) GetDailyTotals(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) ([]domain.DailyTotals, error) {
	defer s.rlock(ctx)()

	byDay := map[time.Time]domain.PeriodTotals{}
	s.each(ledgerDomain, &from, &to, func(txn domain.LedgerTransaction) {
		day := domain.DateOnly(txn.TransactionDate)
		t, ok := byDay[day]
		if !ok {
			t = zeroTotals()
		}
		byDay[day] = accounting.AccumulateTotals(t, txn)
	})

	result := make([]domain.DailyTotals, 0, len(byDay))
	for day, t := range byDay {
		result = append(result, domain.DailyTotals{Date: day, PeriodTotals: t})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// GetMonthlyTotals groups operating entries by calendar month, excluding fund movements.
func (s *Store) GetMonthlyTotals(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) ([]domain.MonthlyTrendPoint, error) {
	defer s.rlock(ctx)()

	byMonth := map[time.Time]domain.PeriodTotals{}
	s.each(ledgerDomain, &from, &to, func(txn domain.LedgerTransaction) {
		if txn.Source.IsFundMovement() {
			return
		}
		month := time.Date(txn.TransactionDate.Year(), txn.TransactionDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		t, ok := byMonth[month]
		if !ok {
			t = zeroTotals()
		}
		byMonth[month] = accounting.AccumulateTotals(t, txn)
	})

	result := make([]domain.MonthlyTrendPoint, 0, len(byMonth))
	for month, t := range byMonth {
		result = append(result, domain.MonthlyTrendPoint{Year: month.Year(), Month: month.Month(), Income: t.Income, Expense: t.Expense})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// GetCategoryTotals sums operating entries per category, excluding fund movements.
func (s *Store) GetCategoryTotals(ctx context.Context, ledgerDomain domain.Domain, from, to *time.Time) ([]domain.CategoryAmount, error) {
	defer s.rlock(ctx)()

	byCategory := map[string]domain.CategoryAmount{}
	s.each(ledgerDomain, from, to, func(txn domain.LedgerTransaction) {
		if txn.Source.IsFundMovement() {
			return
		}
		c, ok := byCategory[txn.CategoryID]
		if !ok {
			name := txn.CategoryName
			if stored, found := s.st.categories[txn.CategoryID]; found {
				name = stored.Name
			}
			c = domain.CategoryAmount{CategoryID: txn.CategoryID, Name: name, Type: txn.Type, Amount: decimal.Zero}
		}
		c.Amount = c.Amount.Add(txn.Amount)
		byCategory[txn.CategoryID] = c
	})

	result := make([]domain.CategoryAmount, 0, len(byCategory))
	for _, c := range byCategory {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CategoryID < result[j].CategoryID })
	return result, nil
}
