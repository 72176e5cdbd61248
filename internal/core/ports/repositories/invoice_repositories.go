package repositories

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	// FindInvoiceByIDForUpdate reads the invoice and locks it until the surrounding
	// transaction ends.
	FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	// SumPatientInvoices returns the total due and total paid over all invoices of a patient.
	SumPatientInvoices(ctx context.Context, patientID string) (due decimal.Decimal, paid decimal.Decimal, err error)
}

// InvoiceWriter updates the settlement fields of invoices.
type InvoiceWriter interface {
	UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice) error
}

// InvoiceRepositoryFacade combines invoice reads and writes.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
