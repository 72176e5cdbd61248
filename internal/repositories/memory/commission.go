package memory

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

func (s *Store) FindCommissionByPaymentID(ctx context.Context, paymentID string) (*domain.Commission, error) {
	defer s.rlock(ctx)()

	c, ok := s.st.commissions[paymentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("commission", paymentID)
	}
	return &c, nil
}

// UpsertCommission keeps the first commission stored for a payment.
func (s *Store) UpsertCommission(ctx context.Context, commission domain.Commission) (*domain.Commission, bool, error) {
	defer s.lock(ctx)()

	if existing, ok := s.st.commissions[commission.PaymentID]; ok {
		return &existing, false, nil
	}
	s.st.commissions[commission.PaymentID] = commission
	return &commission, true, nil
}

// Commissions returns every stored commission.
func (s *Store) Commissions() []domain.Commission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Commission, 0, len(s.st.commissions))
	for _, c := range s.st.commissions {
		result = append(result, c)
	}
	return result
}
