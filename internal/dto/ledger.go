package dto

import (
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FundMovementDirection is "in" for cash injected into a domain, "out" for cash withdrawn.
type FundMovementDirection string

const (
	FundIn  FundMovementDirection = "in"
	FundOut FundMovementDirection = "out"
)

// FundMovementRequest records a non-invoice cash movement.
type FundMovementRequest struct {
	Direction       FundMovementDirection `json:"direction" binding:"required,oneof=in out"`
	Amount          decimal.Decimal       `json:"amount" binding:"positive_amount" swaggertype:"string"`
	PaymentMethodID string                `json:"paymentMethodID,omitempty"`
	Date            *time.Time            `json:"date,omitempty"`
	Description     string                `json:"description,omitempty" binding:"max=500"`
}

// LedgerEntryRequest records a manual income or expense, e.g. a stock purchase. Exactly one of
// CategoryID and CategoryName is used; CategoryName is created on first use.
type LedgerEntryRequest struct {
	Type            domain.EntryType  `json:"type" binding:"required,entry_type"`
	Amount          decimal.Decimal   `json:"amount" binding:"positive_amount" swaggertype:"string"`
	CategoryID      string            `json:"categoryID,omitempty"`
	CategoryName    string            `json:"categoryName,omitempty" binding:"max=100"`
	PaymentMethodID string            `json:"paymentMethodID,omitempty"`
	Date            *time.Time        `json:"date,omitempty"`
	Description     string            `json:"description,omitempty" binding:"max=500"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// CreateCategoryRequest creates an account category in a domain.
type CreateCategoryRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Type        domain.EntryType `json:"type" binding:"required,entry_type"`
	Description string           `json:"description,omitempty" binding:"max=500"`
}

// UpdateCategoryRequest toggles a category.
type UpdateCategoryRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListCategoriesParams defines query parameters for listing categories.
type ListCategoriesParams struct {
	Type string `form:"type" binding:"omitempty,entry_type"`
}

// ListLedgerTransactionsParams defines query parameters for listing ledger entries.
type ListLedgerTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LedgerTransactionResponse defines the data returned for a ledger entry.
type LedgerTransactionResponse struct {
	TransactionID   string            `json:"transactionID"`
	Domain          string            `json:"domain"`
	Type            string            `json:"type"`
	Amount          decimal.Decimal   `json:"amount" swaggertype:"string"`
	CategoryID      string            `json:"categoryID"`
	CategoryName    string            `json:"categoryName,omitempty"`
	PaymentMethodID string            `json:"paymentMethodID,omitempty"`
	TransactionDate time.Time         `json:"transactionDate"`
	SourceKind      string            `json:"sourceKind"`
	SourceID        string            `json:"sourceID"`
	Description     string            `json:"description,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedBy       string            `json:"createdBy"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// ListLedgerTransactionsResponse is a page of ledger entries.
type ListLedgerTransactionsResponse struct {
	Transactions []LedgerTransactionResponse `json:"transactions"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}

// ToLedgerTransactionResponse converts a domain.LedgerTransaction to its DTO.
func ToLedgerTransactionResponse(t *domain.LedgerTransaction) LedgerTransactionResponse {
	return LedgerTransactionResponse{
		TransactionID:   t.TransactionID,
		Domain:          string(t.Domain),
		Type:            string(t.Type),
		Amount:          t.Amount,
		CategoryID:      t.CategoryID,
		CategoryName:    t.CategoryName,
		PaymentMethodID: t.PaymentMethodID,
		TransactionDate: t.TransactionDate,
		SourceKind:      string(t.Source.Kind),
		SourceID:        t.Source.ID,
		Description:     t.Description,
		Metadata:        t.Metadata,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// ToLedgerTransactionResponses converts a slice of ledger entries.
func ToLedgerTransactionResponses(txns []domain.LedgerTransaction) []LedgerTransactionResponse {
	responses := make([]LedgerTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToLedgerTransactionResponse(&txns[i])
	}
	return responses
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID  string    `json:"categoryID"`
	Domain      string    `json:"domain"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	IsActive    bool      `json:"isActive"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToCategoryResponse converts a domain.AccountCategory to its DTO.
func ToCategoryResponse(c *domain.AccountCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.CategoryID,
		Domain:      string(c.Domain),
		Name:        c.Name,
		Type:        string(c.Type),
		IsActive:    c.IsActive,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCategoryResponses converts a slice of categories.
func ToCategoryResponses(categories []domain.AccountCategory) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// BalanceResponse is the balance of a domain at a cutoff date.
type BalanceResponse struct {
	Domain  string          `json:"domain"`
	AsOf    string          `json:"asOf,omitempty"`
	Balance decimal.Decimal `json:"balance" swaggertype:"string"`
}
