package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received from (positive) or returned to (negative) a patient.
// A refund is always a new record pointing at OriginalPaymentID.
type Payment struct {
	PaymentID         string          `json:"paymentID"`
	PatientID         string          `json:"patientID"`
	InvoiceID         *string         `json:"invoiceID,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethodID   string          `json:"paymentMethodID"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Notes             string          `json:"notes,omitempty"`
	ReceiptNumber     string          `json:"receiptNumber"`
	OriginalPaymentID *string         `json:"originalPaymentID,omitempty"`
	ReceivedBy        string          `json:"receivedBy"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// IsRefund reports whether the record returns money to the patient.
func (p Payment) IsRefund() bool {
	return p.Amount.IsNegative()
}

// PaymentMethod is a collaborator-owned reference (cash, card, ...).
type PaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodID"`
	Name            string `json:"name"`
	IsActive        bool   `json:"isActive"`
}
