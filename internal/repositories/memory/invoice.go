package memory

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddInvoice stores an invoice as the invoicing collaborator would.
func (s *Store) AddInvoice(invoice domain.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice.Items = append([]domain.InvoiceItem(nil), invoice.Items...)
	s.st.invoices[invoice.InvoiceID] = invoice
}

func (s *Store) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	defer s.rlock(ctx)()
	return s.findInvoice(invoiceID)
}

// FindInvoiceByIDForUpdate behaves like FindInvoiceByID; the unit of work already holds the
// store lock.
func (s *Store) FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	defer s.rlock(ctx)()
	return s.findInvoice(invoiceID)
}

func (s *Store) findInvoice(invoiceID string) (*domain.Invoice, error) {
	inv, ok := s.st.invoices[invoiceID]
	if !ok {
		return nil, apperrors.NewNotFoundError("invoice", invoiceID)
	}
	inv.Items = append([]domain.InvoiceItem(nil), inv.Items...)
	return &inv, nil
}

func (s *Store) SumPatientInvoices(ctx context.Context, patientID string) (decimal.Decimal, decimal.Decimal, error) {
	defer s.rlock(ctx)()

	due, paid := decimal.Zero, decimal.Zero
	for _, inv := range s.st.invoices {
		if inv.PatientID != patientID {
			continue
		}
		due = due.Add(inv.DueAmount)
		paid = paid.Add(inv.PaidAmount)
	}
	return due, paid, nil
}

func (s *Store) UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice) error {
	defer s.lock(ctx)()

	stored, ok := s.st.invoices[invoice.InvoiceID]
	if !ok {
		return apperrors.NewNotFoundError("invoice", invoice.InvoiceID)
	}
	stored.PaidAmount = invoice.PaidAmount
	stored.DueAmount = invoice.DueAmount
	stored.Status = invoice.Status
	stored.LastUpdatedAt = invoice.LastUpdatedAt
	stored.LastUpdatedBy = invoice.LastUpdatedBy
	s.st.invoices[invoice.InvoiceID] = stored
	return nil
}
