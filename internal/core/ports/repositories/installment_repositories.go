package repositories

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// InstallmentReader defines read operations for installments.
type InstallmentReader interface {
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)
	// FindInstallmentByIDForUpdate reads and locks the installment row.
	FindInstallmentByIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error)
	ListInstallmentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Installment, error)
}

// InstallmentWriter defines write operations for installments.
type InstallmentWriter interface {
	SaveInstallments(ctx context.Context, installments []domain.Installment) error
	UpdateInstallment(ctx context.Context, installment domain.Installment) error
}

// InstallmentRepositoryFacade combines installment reads and writes.
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
}
