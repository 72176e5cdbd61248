package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

func (s *Store) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	defer s.rlock(ctx)()
	return s.findInstallment(installmentID)
}

func (s *Store) FindInstallmentByIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error) {
	defer s.rlock(ctx)()
	return s.findInstallment(installmentID)
}

func (s *Store) findInstallment(installmentID string) (*domain.Installment, error) {
	inst, ok := s.st.installments[installmentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("installment", installmentID)
	}
	return &inst, nil
}

// ListInstallmentsByInvoice returns the plan in sequence order.
func (s *Store) ListInstallmentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Installment, error) {
	defer s.rlock(ctx)()

	result := []domain.Installment{}
	for _, inst := range s.st.installments {
		if inst.InvoiceID == invoiceID {
			result = append(result, inst)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sequence < result[j].Sequence })
	return result, nil
}

func (s *Store) SaveInstallments(ctx context.Context, installments []domain.Installment) error {
	defer s.lock(ctx)()

	for _, inst := range installments {
		if _, ok := s.st.installments[inst.InstallmentID]; ok {
			return fmt.Errorf("installment %s: %w", inst.InstallmentID, apperrors.ErrDuplicate)
		}
	}
	for _, inst := range installments {
		s.st.installments[inst.InstallmentID] = inst
	}
	return nil
}

func (s *Store) UpdateInstallment(ctx context.Context, installment domain.Installment) error {
	defer s.lock(ctx)()

	if _, ok := s.st.installments[installment.InstallmentID]; !ok {
		return apperrors.NewNotFoundError("installment", installment.InstallmentID)
	}
	s.st.installments[installment.InstallmentID] = installment
	return nil
}
