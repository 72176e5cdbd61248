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

const installmentSelect = `
	SELECT installment_id, invoice_id, sequence, installment_amount, paid_amount, status, due_date,
		paid_date, created_at, created_by, last_updated_at, last_updated_by
	FROM installments
`

type PgxInstallmentRepository struct {
	BaseRepository
}

func newPgxInstallmentRepository(pool *pgxpool.Pool) portsrepo.InstallmentRepositoryFacade {
	return &PgxInstallmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InstallmentRepositoryFacade = (*PgxInstallmentRepository)(nil)

func scanInstallment(row pgx.Row) (domain.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.InvoiceID,
		&m.Sequence,
		&m.InstallmentAmount,
		&m.PaidAmount,
		&m.Status,
		&m.DueDate,
		&m.PaidDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Installment{}, err
	}
	return mapping.ToDomainInstallment(m), nil
}

func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	return r.findInstallment(ctx, installmentSelect+` WHERE installment_id = $1`, installmentID)
}

func (r *PgxInstallmentRepository) FindInstallmentByIDForUpdate(ctx context.Context, installmentID string) (*domain.Installment, error) {
	return r.findInstallment(ctx, installmentSelect+` WHERE installment_id = $1 FOR UPDATE`, installmentID)
}

func (r *PgxInstallmentRepository) findInstallment(ctx context.Context, query, installmentID string) (*domain.Installment, error) {
	inst, err := scanInstallment(r.db(ctx).QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("installment", installmentID)
		}
		return nil, fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}
	return &inst, nil
}

func (r *PgxInstallmentRepository) ListInstallmentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Installment, error) {
	rows, err := r.db(ctx).Query(ctx, installmentSelect+` WHERE invoice_id = $1 ORDER BY sequence`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments of invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	result := []domain.Installment{}
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		result = append(result, inst)
	}
	return result, rows.Err()
}

// SaveInstallments inserts a whole plan in one batch.
func (r *PgxInstallmentRepository) SaveInstallments(ctx context.Context, installments []domain.Installment) error {
	query := `
		INSERT INTO installments (installment_id, invoice_id, sequence, installment_amount, paid_amount, status, due_date, paid_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, inst := range installments {
		m := mapping.ToModelInstallment(inst)
		batch.Queue(query,
			m.InstallmentID, m.InvoiceID, m.Sequence, m.InstallmentAmount, m.PaidAmount, m.Status,
			m.DueDate, m.PaidDate, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	br := r.db(ctx).SendBatch(ctx, batch)
	defer br.Close()

	for _, inst := range installments {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: installment %d of invoice %s already exists", apperrors.ErrDuplicate, inst.Sequence, inst.InvoiceID)
			}
			return fmt.Errorf("failed to save installment %s: %w", inst.InstallmentID, err)
		}
	}
	return nil
}

func (r *PgxInstallmentRepository) UpdateInstallment(ctx context.Context, installment domain.Installment) error {
	m := mapping.ToModelInstallment(installment)
	query := `
		UPDATE installments
		SET paid_amount = $2, status = $3, paid_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE installment_id = $1
	`
	tag, err := r.db(ctx).Exec(ctx, query, m.InstallmentID, m.PaidAmount, m.Status, m.PaidDate, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update installment %s: %w", m.InstallmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("installment", m.InstallmentID)
	}
	return nil
}
