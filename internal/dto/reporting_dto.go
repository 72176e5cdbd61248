package dto

import (
	"time"
)

// DateLayout is the format of date-only query parameters and report dates.
const DateLayout = "2006-01-02"

// DailyStatementParams defines query parameters for a daily statement.
type DailyStatementParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// MonthlyReportParams defines query parameters for a monthly report.
type MonthlyReportParams struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// BalanceParams defines query parameters for the balance endpoint. AsOf defaults to today.
type BalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}
