package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// totalsColumns splits amounts into the four statement columns.
const totalsColumns = `
	COALESCE(SUM(CASE WHEN entry_type = 'income' AND source_kind <> 'fund_movement' THEN amount END), 0),
	COALESCE(SUM(CASE WHEN entry_type = 'expense' AND source_kind <> 'fund_movement' THEN amount END), 0),
	COALESCE(SUM(CASE WHEN entry_type = 'income' AND source_kind = 'fund_movement' THEN amount END), 0),
	COALESCE(SUM(CASE WHEN entry_type = 'expense' AND source_kind = 'fund_movement' THEN amount END), 0)
`

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetPeriodTotals sums a domain's entries with from <= date <= to; a nil bound is open.
func (r *reportingRepository) GetPeriodTotals(ctx context.Context, ledgerDomain domain.Domain, from, to *time.Time) (domain.PeriodTotals, error) {
	query := `
		SELECT ` + totalsColumns + `
		FROM ledger_transactions
		WHERE domain = $1
			AND ($2::date IS NULL OR transaction_date >= $2::date)
			AND ($3::date IS NULL OR transaction_date <= $3::date)
	`
	var t domain.PeriodTotals
	err := r.db(ctx).QueryRow(ctx, query, string(ledgerDomain), from, to).Scan(&t.Income, &t.Expense, &t.FundIn, &t.FundOut)
	if err != nil {
		return domain.PeriodTotals{}, fmt.Errorf("error querying period totals: %w", err)
	}
	return t, nil
}

// GetDailyTotals returns one row per day that has entries, oldest first.
func (r *reportingRepository) GetDailyTotals(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) ([]domain.DailyTotals, error) {
	query := `
		SELECT transaction_date, ` + totalsColumns + `
		FROM ledger_transactions
		WHERE domain = $1 AND transaction_date BETWEEN $2::date AND $3::date
		GROUP BY transaction_date
		ORDER BY transaction_date
	`
	rows, err := r.db(ctx).Query(ctx, query, string(ledgerDomain), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying daily totals: %w", err)
	}
	defer rows.Close()

	result := []domain.DailyTotals{}
	for rows.Next() {
		var d domain.DailyTotals
		if err := rows.Scan(&d.Date, &d.Income, &d.Expense, &d.FundIn, &d.FundOut); err != nil {
			return nil, fmt.Errorf("error scanning daily totals row: %w", err)
		}
		d.Date = domain.DateOnly(d.Date)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily totals rows: %w", err)
	}
	return result, nil
}

// GetMonthlyTotals groups operating entries by calendar month; fund movements are excluded.
func (r *reportingRepository) GetMonthlyTotals(ctx context.Context, ledgerDomain domain.Domain, from, to time.Time) ([]domain.MonthlyTrendPoint, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM transaction_date)::int AS year,
			EXTRACT(MONTH FROM transaction_date)::int AS month,
			COALESCE(SUM(CASE WHEN entry_type = 'income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN entry_type = 'expense' THEN amount END), 0)
		FROM ledger_transactions
		WHERE domain = $1
			AND source_kind <> 'fund_movement'
			AND transaction_date BETWEEN $2::date AND $3::date
		GROUP BY 1, 2
		ORDER BY 1, 2
	`
	rows, err := r.db(ctx).Query(ctx, query, string(ledgerDomain), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly totals: %w", err)
	}
	defer rows.Close()

	result := []domain.MonthlyTrendPoint{}
	for rows.Next() {
		var p domain.MonthlyTrendPoint
		var month int
		if err := rows.Scan(&p.Year, &month, &p.Income, &p.Expense); err != nil {
			return nil, fmt.Errorf("error scanning monthly totals row: %w", err)
		}
		p.Month = time.Month(month)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals rows: %w", err)
	}
	return result, nil
}

// GetCategoryTotals sums operating entries per category; fund movements are excluded.
func (r *reportingRepository) GetCategoryTotals(ctx context.Context, ledgerDomain domain.Domain, from, to *time.Time) ([]domain.CategoryAmount, error) {
	query := `
		SELECT lt.category_id, COALESCE(c.name, ''), lt.entry_type, SUM(lt.amount)
		FROM ledger_transactions lt
		LEFT JOIN account_categories c ON c.category_id = lt.category_id
		WHERE lt.domain = $1
			AND lt.source_kind <> 'fund_movement'
			AND ($2::date IS NULL OR lt.transaction_date >= $2::date)
			AND ($3::date IS NULL OR lt.transaction_date <= $3::date)
		GROUP BY lt.category_id, c.name, lt.entry_type
		ORDER BY lt.category_id
	`
	rows, err := r.db(ctx).Query(ctx, query, string(ledgerDomain), from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying category totals: %w", err)
	}
	defer rows.Close()

	result := []domain.CategoryAmount{}
	for rows.Next() {
		var c domain.CategoryAmount
		var entryType string
		var amount decimal.Decimal
		if err := rows.Scan(&c.CategoryID, &c.Name, &entryType, &amount); err != nil {
			return nil, fmt.Errorf("error scanning category totals row: %w", err)
		}
		c.Type = domain.EntryType(entryType)
		c.Amount = amount
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals rows: %w", err)
	}
	return result, nil
}
