package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	"github.com/SscSPs/clinic_billing/internal/models"
	"github.com/SscSPs/clinic_billing/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCommissionRepository struct {
	BaseRepository
}

func newPgxCommissionRepository(pool *pgxpool.Pool) portsrepo.CommissionRepositoryFacade {
	return &PgxCommissionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CommissionRepositoryFacade = (*PgxCommissionRepository)(nil)

func (r *PgxCommissionRepository) FindCommissionByPaymentID(ctx context.Context, paymentID string) (*domain.Commission, error) {
	query := `
		SELECT commission_id, practitioner_id, payment_id, appointment_id, amount, percentage, earned_date, status, created_by, created_at
		FROM commissions
		WHERE payment_id = $1
	`
	var m models.Commission
	err := r.db(ctx).QueryRow(ctx, query, paymentID).Scan(
		&m.CommissionID,
		&m.PractitionerID,
		&m.PaymentID,
		&m.AppointmentID,
		&m.Amount,
		&m.Percentage,
		&m.EarnedDate,
		&m.Status,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("commission", paymentID)
		}
		return nil, fmt.Errorf("failed to find commission for payment %s: %w", paymentID, err)
	}
	c := mapping.ToDomainCommission(m)
	return &c, nil
}

// UpsertCommission relies on the unique payment_id constraint; when a row already exists it
// is returned unchanged with created=false.
func (r *PgxCommissionRepository) UpsertCommission(ctx context.Context, commission domain.Commission) (*domain.Commission, bool, error) {
	m := mapping.ToModelCommission(commission)
	query := `
		INSERT INTO commissions (commission_id, practitioner_id, payment_id, appointment_id, amount, percentage, earned_date, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (payment_id) DO NOTHING;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.CommissionID,
		m.PractitionerID,
		m.PaymentID,
		m.AppointmentID,
		m.Amount,
		m.Percentage,
		m.EarnedDate,
		m.Status,
		m.CreatedBy,
		m.CreatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save commission for payment %s: %w", m.PaymentID, err)
	}
	if tag.RowsAffected() == 1 {
		return &commission, true, nil
	}

	existing, err := r.FindCommissionByPaymentID(ctx, m.PaymentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
