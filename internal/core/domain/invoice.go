package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind describes what an invoice bills for; it selects the ledger domain and income
// category of payments against it.
type InvoiceKind string

const (
	KindRegistration InvoiceKind = "registration"
	KindConsultation InvoiceKind = "consultation"
	KindVisionTest   InvoiceKind = "vision_test"
	KindMedicine     InvoiceKind = "medicine"
	KindEyewear      InvoiceKind = "eyewear"
	KindOperation    InvoiceKind = "operation"
	KindOther        InvoiceKind = "other"
)

// LedgerDomain returns the book of account payments of this kind are recorded in.
func (k InvoiceKind) LedgerDomain() Domain {
	switch k {
	case KindMedicine:
		return Pharmacy
	case KindEyewear:
		return Eyewear
	case KindOperation:
		return Operations
	default:
		return Facility
	}
}

// IncomeCategoryName returns the preferred income category for payments of this kind.
func (k InvoiceKind) IncomeCategoryName() string {
	switch k {
	case KindRegistration:
		return CategoryRegistration
	case KindVisionTest:
		return CategoryVisionTest
	case KindMedicine:
		return CategoryMedicineSales
	case KindEyewear:
		return CategoryEyewearSales
	case KindOperation:
		return CategoryOperationFees
	default:
		return CategoryConsultation
	}
}

// InvoiceStatus tracks settlement of an invoice.
type InvoiceStatus string

const (
	InvoicePending       InvoiceStatus = "pending"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
)

// ItemConsultation marks an invoice line that bills a practitioner consultation.
const ItemConsultation = "consultation"

// InvoiceItem is a single billed line.
type InvoiceItem struct {
	ItemID        string          `json:"itemID"`
	ItemType      string          `json:"itemType"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Amount        decimal.Decimal `json:"amount"`
	AppointmentID *string         `json:"appointmentID,omitempty"`
}

// Invoice is a bill for a patient. Invoices are created by the invoicing collaborator; this
// engine only maintains the settlement fields.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	PatientID      string          `json:"patientID"`
	Kind           InvoiceKind     `json:"kind"`
	Items          []InvoiceItem   `json:"items,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	DueAmount      decimal.Decimal `json:"dueAmount"`
	Status         InvoiceStatus   `json:"status"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	AuditFields
}

// Reconcile recomputes PaidAmount from the full payment history linked to the invoice,
// including refunds, then derives DueAmount and Status.
func (inv *Invoice) Reconcile(payments []Payment) {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	inv.PaidAmount = paid
	inv.DueAmount = decimal.Max(decimal.Zero, inv.TotalAmount.Sub(paid))
	inv.Status = DeriveInvoiceStatus(inv.PaidAmount, inv.DueAmount)
}

// DeriveInvoiceStatus maps settlement amounts to a status. Refunds may move an invoice
// back to an earlier status.
func DeriveInvoiceStatus(paid, due decimal.Decimal) InvoiceStatus {
	switch {
	case due.LessThanOrEqual(decimal.Zero):
		return InvoicePaid
	case paid.LessThanOrEqual(decimal.Zero):
		return InvoicePending
	default:
		return InvoicePartiallyPaid
	}
}

// IsBalanced reports whether paid + due equals total within CurrencyEpsilon.
func (inv Invoice) IsBalanced() bool {
	return AmountsEqual(inv.PaidAmount.Add(inv.DueAmount), inv.TotalAmount)
}

// ConsultationAppointmentID returns the appointment of the first consultation line that
// references one.
func (inv Invoice) ConsultationAppointmentID() (string, bool) {
	for _, item := range inv.Items {
		if item.ItemType == ItemConsultation && item.AppointmentID != nil && *item.AppointmentID != "" {
			return *item.AppointmentID, true
		}
	}
	return "", false
}
