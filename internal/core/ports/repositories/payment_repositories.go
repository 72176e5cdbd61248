package repositories

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	// FindPaymentByIDForUpdate reads and locks the payment row so refunds against it serialize.
	FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error)
	// ListPaymentsByInvoice returns payments and refunds linked to the invoice, oldest first.
	ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error)
	// SumRefundsForPayment returns the magnitude already refunded against a payment.
	SumRefundsForPayment(ctx context.Context, paymentID string) (decimal.Decimal, error)
}

// PaymentWriter persists payments. Payments are immutable once saved.
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines payment reads and writes.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
