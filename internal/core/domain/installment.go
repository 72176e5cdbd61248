package domain

import (
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

// Installment is one scheduled slice of an invoice. The remaining balance is always
// derived from InstallmentAmount and PaidAmount.
type Installment struct {
	InstallmentID     string            `json:"installmentID"`
	InvoiceID         string            `json:"invoiceID"`
	Sequence          int               `json:"sequence"`
	InstallmentAmount decimal.Decimal   `json:"installmentAmount"`
	PaidAmount        decimal.Decimal   `json:"paidAmount"`
	Status            InstallmentStatus `json:"status"`
	DueDate           time.Time         `json:"dueDate"`
	PaidDate          *time.Time        `json:"paidDate,omitempty"`
	AuditFields
}

// Remaining returns the unpaid part of the installment.
func (i Installment) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, i.InstallmentAmount.Sub(i.PaidAmount))
}

// CanAccept returns a StateConflictError when amount cannot be applied.
func (i Installment) CanAccept(amount decimal.Decimal) error {
	if i.Status == InstallmentPaid {
		return apperrors.NewStateConflictError("installment", i.InstallmentID, "installment is already paid")
	}
	if amount.GreaterThan(i.Remaining()) {
		return apperrors.NewStateConflictError("installment", i.InstallmentID,
			"amount "+amount.StringFixed(2)+" exceeds installment balance "+i.Remaining().StringFixed(2))
	}
	return nil
}

// Apply records amount against the installment, marking it paid once fully covered.
func (i *Installment) Apply(amount decimal.Decimal, paidAt time.Time) error {
	if err := i.CanAccept(amount); err != nil {
		return err
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.PaidAmount.GreaterThanOrEqual(i.InstallmentAmount) {
		i.Status = InstallmentPaid
		i.PaidDate = &paidAt
	}
	return nil
}
