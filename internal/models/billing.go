package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of invoices.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	PatientID      string          `db:"patient_id"`
	Kind           string          `db:"kind"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	DueAmount      decimal.Decimal `db:"due_amount"`
	Status         string          `db:"status"`
	IssueDate      time.Time       `db:"issue_date"`
	DueDate        *time.Time      `db:"due_date"`
	AuditFields
}

// InvoiceItem is a row of invoice_items.
type InvoiceItem struct {
	ItemID        string          `db:"item_id"`
	InvoiceID     string          `db:"invoice_id"`
	ItemType      string          `db:"item_type"`
	Description   *string         `db:"description"`
	Quantity      int             `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Amount        decimal.Decimal `db:"amount"`
	AppointmentID *string         `db:"appointment_id"`
}

// Payment is a row of payments. Refunds are rows with a negative amount.
type Payment struct {
	PaymentID         string          `db:"payment_id"`
	PatientID         string          `db:"patient_id"`
	InvoiceID         *string         `db:"invoice_id"`
	Amount            decimal.Decimal `db:"amount"`
	PaymentMethodID   string          `db:"payment_method_id"`
	PaymentDate       time.Time       `db:"payment_date"`
	Notes             *string         `db:"notes"`
	ReceiptNumber     string          `db:"receipt_number"`
	OriginalPaymentID *string         `db:"original_payment_id"`
	ReceivedBy        string          `db:"received_by"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Installment is a row of installments.
type Installment struct {
	InstallmentID     string          `db:"installment_id"`
	InvoiceID         string          `db:"invoice_id"`
	Sequence          int             `db:"sequence"`
	InstallmentAmount decimal.Decimal `db:"installment_amount"`
	PaidAmount        decimal.Decimal `db:"paid_amount"`
	Status            string          `db:"status"`
	DueDate           time.Time       `db:"due_date"`
	PaidDate          *time.Time      `db:"paid_date"`
	AuditFields
}

// Commission is a row of commissions.
type Commission struct {
	CommissionID   string          `db:"commission_id"`
	PractitionerID string          `db:"practitioner_id"`
	PaymentID      string          `db:"payment_id"`
	AppointmentID  string          `db:"appointment_id"`
	Amount         decimal.Decimal `db:"amount"`
	Percentage     decimal.Decimal `db:"percentage"`
	EarnedDate     time.Time       `db:"earned_date"`
	Status         string          `db:"status"`
	CreatedBy      string          `db:"created_by"`
	CreatedAt      time.Time       `db:"created_at"`
}
