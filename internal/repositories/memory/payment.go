package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	defer s.rlock(ctx)()
	return s.findPayment(paymentID)
}

func (s *Store) FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	defer s.rlock(ctx)()
	return s.findPayment(paymentID)
}

func (s *Store) findPayment(paymentID string) (*domain.Payment, error) {
	p, ok := s.st.payments[paymentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("payment", paymentID)
	}
	return &p, nil
}

// ListPaymentsByInvoice returns payments and refunds linked to the invoice, oldest first.
func (s *Store) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	defer s.rlock(ctx)()

	result := []domain.Payment{}
	for _, id := range s.st.paymentOrder {
		p := s.st.payments[id]
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			result = append(result, p)
		}
	}
	return result, nil
}

// SumRefundsForPayment returns the refunded magnitude, as a positive amount.
func (s *Store) SumRefundsForPayment(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	defer s.rlock(ctx)()

	total := decimal.Zero
	for _, p := range s.st.payments {
		if p.OriginalPaymentID != nil && *p.OriginalPaymentID == paymentID {
			total = total.Add(p.Amount.Abs())
		}
	}
	return total, nil
}

func (s *Store) SavePayment(ctx context.Context, payment domain.Payment) error {
	defer s.lock(ctx)()

	if _, ok := s.st.payments[payment.PaymentID]; ok {
		return fmt.Errorf("payment %s: %w", payment.PaymentID, apperrors.ErrDuplicate)
	}
	s.st.payments[payment.PaymentID] = payment
	s.st.paymentOrder = append(s.st.paymentOrder, payment.PaymentID)
	return nil
}
