package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	maxStatementDays = 366
	trendMonths      = 12
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock pins the clock that defines "today" and "current month".
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// WithReportingLocation sets the timezone in which calendar days and months are cut.
func WithReportingLocation(loc *time.Location) ReportingServiceOption {
	return func(s *reportingService) {
		s.Location = loc
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// DailyStatement lists every day in [from, to], seeded with the balance at the end of the
// day before from.
func (s *reportingService) DailyStatement(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) (*domain.DailyStatement, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to", "must not be before from")
	}
	if days := int(to.Sub(from)/(24*time.Hour)) + 1; days > maxStatementDays {
		return nil, apperrors.NewValidationError("to", fmt.Sprintf("statement range is limited to %d days", maxStatementDays))
	}

	dayBefore := from.AddDate(0, 0, -1)
	var opening domain.PeriodTotals
	var daily []domain.DailyTotals

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opening, err = s.reportingRepo.GetPeriodTotals(gctx, ledgerDomain, nil, &dayBefore)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.reportingRepo.GetDailyTotals(gctx, ledgerDomain, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to retrieve daily statement data",
			slog.String("domain", string(ledgerDomain)),
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve daily statement data: %w", err)
	}

	rows, totals, closing := accounting.BuildDailyStatementRows(opening.Net(), from, to, daily)

	s.LogInfo(ctx, "Daily statement generated",
		slog.String("domain", string(ledgerDomain)),
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("row_count", len(rows)))
	return &domain.DailyStatement{
		Domain:         ledgerDomain,
		From:           from,
		To:             to,
		OpeningBalance: opening.Net(),
		Rows:           rows,
		Totals:         totals,
		ClosingBalance: closing,
	}, nil
}

// MonthlyReport reports operating income and expense of the month and the balance at its end.
func (s *reportingService) MonthlyReport(ctx context.Context, ledgerDomain domain.Domain, year int, month time.Month) (*domain.MonthlyReport, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	if month < time.January || month > time.December {
		return nil, apperrors.NewValidationError("month", "must be between 1 and 12")
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	var period, cumulative domain.PeriodTotals
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		period, err = s.reportingRepo.GetPeriodTotals(gctx, ledgerDomain, &start, &end)
		return err
	})
	g.Go(func() error {
		var err error
		cumulative, err = s.reportingRepo.GetPeriodTotals(gctx, ledgerDomain, nil, &end)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to retrieve monthly report data",
			slog.String("domain", string(ledgerDomain)),
			slog.Int("year", year),
			slog.Int("month", int(month)))
		return nil, fmt.Errorf("failed to retrieve monthly report data: %w", err)
	}

	return &domain.MonthlyReport{
		Domain:  ledgerDomain,
		Year:    year,
		Month:   month,
		Income:  period.Income,
		Expense: period.Expense,
		Profit:  period.Income.Sub(period.Expense),
		Balance: cumulative.Net(),
	}, nil
}

// BalanceSheet reports figures up to today and for the current month.
func (s *reportingService) BalanceSheet(ctx context.Context, ledgerDomain domain.Domain) (*domain.BalanceSheet, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	today := s.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var allTotals, monthTotals domain.PeriodTotals
	var allCategories, monthCategories []domain.CategoryAmount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		allTotals, err = s.reportingRepo.GetPeriodTotals(gctx, ledgerDomain, nil, &today)
		return err
	})
	g.Go(func() error {
		var err error
		monthTotals, err = s.reportingRepo.GetPeriodTotals(gctx, ledgerDomain, &monthStart, &today)
		return err
	})
	g.Go(func() error {
		var err error
		allCategories, err = s.reportingRepo.GetCategoryTotals(gctx, ledgerDomain, nil, &today)
		return err
	})
	g.Go(func() error {
		var err error
		monthCategories, err = s.reportingRepo.GetCategoryTotals(gctx, ledgerDomain, &monthStart, &today)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("domain", string(ledgerDomain)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	s.LogInfo(ctx, "Balance sheet generated",
		slog.String("domain", string(ledgerDomain)),
		slog.String("asOf", today.Format(time.DateOnly)))
	return &domain.BalanceSheet{
		Domain: ledgerDomain,
		AsOf:   today,
		AllTime: domain.BalanceSheetFigures{
			PeriodTotals: allTotals,
			Balance:      allTotals.Net(),
			ProductLines: accounting.ProductLineProfits(allCategories),
		},
		CurrentMonth: domain.BalanceSheetFigures{
			PeriodTotals: monthTotals,
			Balance:      monthTotals.Net(),
			ProductLines: accounting.ProductLineProfits(monthCategories),
		},
	}, nil
}

// Analytics covers the current month and the eleven before it, oldest first.
func (s *reportingService) Analytics(ctx context.Context, ledgerDomain domain.Domain) (*domain.Analytics, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	today := s.Today()
	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := currentMonth.AddDate(0, -(trendMonths - 1), 0)
	end := currentMonth.AddDate(0, 1, -1)

	var monthly []domain.MonthlyTrendPoint
	var categories []domain.CategoryAmount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthly, err = s.reportingRepo.GetMonthlyTotals(gctx, ledgerDomain, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.reportingRepo.GetCategoryTotals(gctx, ledgerDomain, &start, &end)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to retrieve analytics data", slog.String("domain", string(ledgerDomain)))
		return nil, fmt.Errorf("failed to retrieve analytics data: %w", err)
	}

	byMonth := make(map[time.Time]domain.MonthlyTrendPoint, len(monthly))
	for _, p := range monthly {
		byMonth[time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)] = p
	}
	trend := make([]domain.MonthlyTrendPoint, 0, trendMonths)
	for m := start; !m.After(currentMonth); m = m.AddDate(0, 1, 0) {
		p, ok := byMonth[m]
		if !ok {
			p = domain.MonthlyTrendPoint{Year: m.Year(), Month: m.Month(), Income: decimal.Zero, Expense: decimal.Zero}
		}
		trend = append(trend, p)
	}

	income, expense := accounting.SplitByType(categories)
	sales, purchases := decimal.Zero, decimal.Zero
	for _, line := range accounting.ProductLineProfits(categories) {
		sales = sales.Add(line.Sales)
		purchases = purchases.Add(line.Purchases)
	}

	return &domain.Analytics{
		Domain:            ledgerDomain,
		Trend:             trend,
		IncomeByCategory:  income,
		ExpenseByCategory: expense,
		Sales:             sales,
		Purchases:         purchases,
		MarginPercent:     accounting.MarginPercent(sales, purchases),
	}, nil
}
