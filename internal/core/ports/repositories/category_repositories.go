package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// CategoryReader defines read operations for account categories.
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.AccountCategory, error)
	FindCategoryByName(ctx context.Context, ledgerDomain domain.Domain, name string, entryType domain.EntryType) (*domain.AccountCategory, error)
	// FirstActiveCategory returns the active category of the type ordered first by name, then id.
	FirstActiveCategory(ctx context.Context, ledgerDomain domain.Domain, entryType domain.EntryType) (*domain.AccountCategory, error)
	// ListCategories lists categories of a domain; entryType nil means both types.
	ListCategories(ctx context.Context, ledgerDomain domain.Domain, entryType *domain.EntryType) ([]domain.AccountCategory, error)
}

// CategoryWriter defines write operations for account categories.
type CategoryWriter interface {
	// SaveCategory inserts a new category, failing with ErrDuplicate on (domain, name, type).
	SaveCategory(ctx context.Context, category domain.AccountCategory) error
	// UpsertCategory returns the existing category for (domain, name, type) or creates it.
	UpsertCategory(ctx context.Context, category domain.AccountCategory) (*domain.AccountCategory, error)
	SetCategoryActive(ctx context.Context, categoryID string, active bool, userID string, updatedAt time.Time) error
}

// CategoryRepositoryFacade combines category reads and writes.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
