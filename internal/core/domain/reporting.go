package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals splits a range of ledger entries into operating and fund-movement figures.
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	FundIn  decimal.Decimal `json:"fundIn"`
	FundOut decimal.Decimal `json:"fundOut"`
}

// Credit is all money in.
func (t PeriodTotals) Credit() decimal.Decimal { return t.Income.Add(t.FundIn) }

// Debit is all money out.
func (t PeriodTotals) Debit() decimal.Decimal { return t.Expense.Add(t.FundOut) }

// Net is the change in domain balance over the period.
func (t PeriodTotals) Net() decimal.Decimal { return t.Credit().Sub(t.Debit()) }

// Add sums two periods.
func (t PeriodTotals) Add(o PeriodTotals) PeriodTotals {
	return PeriodTotals{
		Income:  t.Income.Add(o.Income),
		Expense: t.Expense.Add(o.Expense),
		FundIn:  t.FundIn.Add(o.FundIn),
		FundOut: t.FundOut.Add(o.FundOut),
	}
}

// DailyTotals are the totals of a single calendar day.
type DailyTotals struct {
	Date time.Time `json:"date"`
	PeriodTotals
}

// DailyStatementRow is one day of a statement with its running balance.
type DailyStatementRow struct {
	Date        time.Time       `json:"date"`
	FundIn      decimal.Decimal `json:"fundIn"`
	Income      decimal.Decimal `json:"income"`
	FundOut     decimal.Decimal `json:"fundOut"`
	Expense     decimal.Decimal `json:"expense"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	Balance     decimal.Decimal `json:"balance"`
}

// DailyStatement covers every day in [From, To], including days without entries.
type DailyStatement struct {
	Domain         Domain              `json:"domain"`
	From           time.Time           `json:"from"`
	To             time.Time           `json:"to"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	Rows           []DailyStatementRow `json:"rows"`
	Totals         PeriodTotals        `json:"totals"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
}

// MonthlyReport summarises one calendar month of a domain.
type MonthlyReport struct {
	Domain  Domain          `json:"domain"`
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryAmount is the total of one category over a period.
type CategoryAmount struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	Type       EntryType       `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
}

// ProductLineProfit compares "<Line> Sales" with "<Line> Purchases".
type ProductLineProfit struct {
	Line      string          `json:"line"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
	Profit    decimal.Decimal `json:"profit"`
}

// BalanceSheetFigures are the headline figures of a balance sheet section.
type BalanceSheetFigures struct {
	PeriodTotals
	Balance      decimal.Decimal     `json:"balance"`
	ProductLines []ProductLineProfit `json:"productLines"`
}

// BalanceSheet reports all-time and current-month figures of a domain.
type BalanceSheet struct {
	Domain       Domain              `json:"domain"`
	AsOf         time.Time           `json:"asOf"`
	AllTime      BalanceSheetFigures `json:"allTime"`
	CurrentMonth BalanceSheetFigures `json:"currentMonth"`
}

// MonthlyTrendPoint is one month of the analytics trend.
type MonthlyTrendPoint struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Analytics is the trailing twelve month view of a domain.
type Analytics struct {
	Domain            Domain              `json:"domain"`
	Trend             []MonthlyTrendPoint `json:"trend"`
	IncomeByCategory  []CategoryAmount    `json:"incomeByCategory"`
	ExpenseByCategory []CategoryAmount    `json:"expenseByCategory"`
	Sales             decimal.Decimal     `json:"sales"`
	Purchases         decimal.Decimal     `json:"purchases"`
	MarginPercent     decimal.Decimal     `json:"marginPercent"`
}
