package services

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/shopspring/decimal"
)

// CategorySvc defines operations on the account category registry.
type CategorySvc interface {
	// ResolveCategory finds a category by id, or by name creating it on first use.
	ResolveCategory(ctx context.Context, ledgerDomain domain.Domain, idOrName string, entryType domain.EntryType, userID string) (*domain.AccountCategory, error)

	// CreateCategory creates a category, failing if the name is taken for the type.
	CreateCategory(ctx context.Context, ledgerDomain domain.Domain, req dto.CreateCategoryRequest, userID string) (*domain.AccountCategory, error)

	// ListCategories lists a domain's categories, optionally of a single type.
	ListCategories(ctx context.Context, ledgerDomain domain.Domain, entryType *domain.EntryType) ([]domain.AccountCategory, error)

	// SetCategoryActive activates or deactivates a category.
	SetCategoryActive(ctx context.Context, categoryID string, active bool, userID string) (*domain.AccountCategory, error)
}

// LedgerReaderSvc defines read operations over the ledger.
type LedgerReaderSvc interface {
	// ListTransactions lists a domain's entries newest first.
	ListTransactions(ctx context.Context, ledgerDomain domain.Domain, params dto.ListLedgerTransactionsParams) (*dto.ListLedgerTransactionsResponse, error)

	// BalanceAsOf returns income minus expense up to and including cutoff. A zero cutoff means today.
	BalanceAsOf(ctx context.Context, ledgerDomain domain.Domain, cutoff time.Time) (decimal.Decimal, error)
}

// LedgerWriterSvc defines append operations on the ledger.
type LedgerWriterSvc interface {
	// Append validates and appends an entry.
	Append(ctx context.Context, txn domain.LedgerTransaction) (*domain.LedgerTransaction, error)

	// RecordFundMovement books cash injected into or withdrawn from a domain.
	RecordFundMovement(ctx context.Context, ledgerDomain domain.Domain, req dto.FundMovementRequest, userID string) (*domain.LedgerTransaction, error)

	// RecordEntry books a manual income or expense.
	RecordEntry(ctx context.Context, ledgerDomain domain.Domain, req dto.LedgerEntryRequest, userID string) (*domain.LedgerTransaction, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	CategorySvc
	LedgerReaderSvc
	LedgerWriterSvc
}
