package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// ReportingRepository defines aggregate reads over the ledger. All date bounds are inclusive
// calendar days; a nil bound is open.
type ReportingRepository interface {
	// GetPeriodTotals sums a domain's entries between from and to.
	GetPeriodTotals(ctx context.Context, ledgerDomain domain.Domain, from, to *time.Time) (domain.PeriodTotals, error)

	// GetDailyTotals returns one row per day that has entries between from and to.
	GetDailyTotals(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) ([]domain.DailyTotals, error)

	// GetMonthlyTotals returns operating income and expense per month with entries between from and to.
	GetMonthlyTotals(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) ([]domain.MonthlyTrendPoint, error)

	// GetCategoryTotals sums operating entries per category between from and to.
	GetCategoryTotals(ctx context.Context, ledgerDomain domain.Domain, from, to *time.Time) ([]domain.CategoryAmount, error)
}
