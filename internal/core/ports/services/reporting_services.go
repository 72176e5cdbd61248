package services

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// DailyStatement lists every day in [from, to] with a running balance
	DailyStatement(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) (*domain.DailyStatement, error)

	// MonthlyReport summarises a calendar month
	MonthlyReport(ctx context.Context, ledgerDomain domain.Domain, year int, month time.Month) (*domain.MonthlyReport, error)

	// BalanceSheet reports all-time and current-month figures
	BalanceSheet(ctx context.Context, ledgerDomain domain.Domain) (*domain.BalanceSheet, error)

	// Analytics reports the trailing twelve month trend, category breakdown and margin
	Analytics(ctx context.Context, ledgerDomain domain.Domain) (*domain.Analytics, error)
}
