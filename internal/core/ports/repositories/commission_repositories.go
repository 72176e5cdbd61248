package repositories

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// CommissionRepositoryFacade persists practitioner commissions.
type CommissionRepositoryFacade interface {
	FindCommissionByPaymentID(ctx context.Context, paymentID string) (*domain.Commission, error)
	// UpsertCommission inserts the commission unless one already exists for its payment, and
	// returns the stored row. created is false when an existing row was returned.
	UpsertCommission(ctx context.Context, commission domain.Commission) (stored *domain.Commission, created bool, err error)
}
