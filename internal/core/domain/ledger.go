package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Domain is one of the independent books of account.
type Domain string

const (
	Facility   Domain = "facility"
	Pharmacy   Domain = "pharmacy"
	Eyewear    Domain = "eyewear"
	Operations Domain = "operations"
)

// AllDomains lists every ledger domain.
func AllDomains() []Domain {
	return []Domain{Facility, Pharmacy, Eyewear, Operations}
}

// IsValid reports whether d is a known ledger domain.
func (d Domain) IsValid() bool {
	switch d {
	case Facility, Pharmacy, Eyewear, Operations:
		return true
	}
	return false
}

// ParseDomain converts s to a Domain, returning a validation error for unknown values.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.IsValid() {
		return "", apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", s))
	}
	return d, nil
}

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// IsValid reports whether t is income or expense.
func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// SourceKind discriminates what produced a ledger entry.
type SourceKind string

const (
	SourcePayment      SourceKind = "payment"
	SourceRefund       SourceKind = "refund"
	SourceFundMovement SourceKind = "fund_movement"
	SourceManual       SourceKind = "manual"
)

// SourceRef points at the entity that originated a ledger entry. Construct it with one of the
// typed constructors so the kind and id always agree.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	ID   string     `json:"id"`
}

func PaymentSource(paymentID string) SourceRef {
	return SourceRef{Kind: SourcePayment, ID: paymentID}
}

func RefundSource(refundPaymentID string) SourceRef {
	return SourceRef{Kind: SourceRefund, ID: refundPaymentID}
}

func FundMovementSource(movementID string) SourceRef {
	return SourceRef{Kind: SourceFundMovement, ID: movementID}
}

func ManualSource(entryID string) SourceRef {
	return SourceRef{Kind: SourceManual, ID: entryID}
}

// IsFundMovement reports whether the entry is a cash injection or withdrawal rather than
// operating income or expense.
func (r SourceRef) IsFundMovement() bool {
	return r.Kind == SourceFundMovement
}

// IsValid reports whether the reference has a known kind and an id.
func (r SourceRef) IsValid() bool {
	switch r.Kind {
	case SourcePayment, SourceRefund, SourceFundMovement, SourceManual:
		return r.ID != ""
	}
	return false
}

// LedgerTransaction is an immutable entry in one ledger domain. Amount is always a positive
// magnitude; direction is carried by Type.
type LedgerTransaction struct {
	TransactionID   string            `json:"transactionID"`
	Domain          Domain            `json:"domain"`
	Type            EntryType         `json:"type"`
	Amount          decimal.Decimal   `json:"amount"`
	CategoryID      string            `json:"categoryID"`
	CategoryName    string            `json:"categoryName,omitempty"`
	PaymentMethodID string            `json:"paymentMethodID,omitempty"`
	TransactionDate time.Time         `json:"transactionDate"`
	Source          SourceRef         `json:"source"`
	Description     string            `json:"description,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Sequence        int64             `json:"sequence"`
	CreatedBy       string            `json:"createdBy"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// Validate checks the shape of an entry before it is appended.
func (t LedgerTransaction) Validate() error {
	if !t.Domain.IsValid() {
		return apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", t.Domain))
	}
	if !t.Type.IsValid() {
		return apperrors.NewValidationError("type", fmt.Sprintf("unknown entry type %q", t.Type))
	}
	if err := ValidateAmount("amount", t.Amount); err != nil {
		return err
	}
	if t.CategoryID == "" {
		return apperrors.NewValidationError("categoryID", "is required")
	}
	if !t.Source.IsValid() {
		return apperrors.NewValidationError("source", "a typed source reference is required")
	}
	if t.TransactionDate.IsZero() {
		return apperrors.NewValidationError("transactionDate", "is required")
	}
	return nil
}
