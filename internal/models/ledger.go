package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction is a row of ledger_transactions. The source reference is split into
// two columns and metadata is stored as JSONB.
type LedgerTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	Sequence        int64           `db:"sequence"`
	Domain          string          `db:"domain"`
	EntryType       string          `db:"entry_type"`
	Amount          decimal.Decimal `db:"amount"`
	CategoryID      string          `db:"category_id"`
	CategoryName    string          `db:"category_name"` // joined from account_categories
	PaymentMethodID *string         `db:"payment_method_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	SourceKind      string          `db:"source_kind"`
	SourceID        string          `db:"source_id"`
	Description     *string         `db:"description"`
	Metadata        []byte          `db:"metadata"`
	CreatedBy       string          `db:"created_by"`
	CreatedAt       time.Time       `db:"created_at"`
}

// AccountCategory is a row of account_categories.
type AccountCategory struct {
	CategoryID  string  `db:"category_id"`
	Domain      string  `db:"domain"`
	Name        string  `db:"name"`
	EntryType   string  `db:"entry_type"`
	IsActive    bool    `db:"is_active"`
	Description *string `db:"description"`
	AuditFields
}
