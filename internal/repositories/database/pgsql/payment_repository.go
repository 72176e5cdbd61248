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
	"github.com/shopspring/decimal"
)

const paymentSelect = `
	SELECT payment_id, patient_id, invoice_id, amount, payment_method_id, payment_date, notes,
		receipt_number, original_payment_id, received_by, created_at
	FROM payments
`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.PatientID,
		&m.InvoiceID,
		&m.Amount,
		&m.PaymentMethodID,
		&m.PaymentDate,
		&m.Notes,
		&m.ReceiptNumber,
		&m.OriginalPaymentID,
		&m.ReceivedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	return mapping.ToDomainPayment(m), nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.findPayment(ctx, paymentSelect+` WHERE payment_id = $1`, paymentID)
}

// FindPaymentByIDForUpdate locks the payment row so concurrent refunds of it serialize.
func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.findPayment(ctx, paymentSelect+` WHERE payment_id = $1 FOR UPDATE`, paymentID)
}

func (r *PgxPaymentRepository) findPayment(ctx context.Context, query, paymentID string) (*domain.Payment, error) {
	p, err := scanPayment(r.db(ctx).QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment", paymentID)
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return &p, nil
}

func (r *PgxPaymentRepository) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	rows, err := r.db(ctx).Query(ctx, paymentSelect+` WHERE invoice_id = $1 ORDER BY created_at, payment_id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	result := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *PgxPaymentRepository) SumRefundsForPayment(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(ABS(amount)), 0) FROM payments WHERE original_payment_id = $1`
	if err := r.db(ctx).QueryRow(ctx, query, paymentID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum refunds of payment %s: %w", paymentID, err)
	}
	return total, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, patient_id, invoice_id, amount, payment_method_id, payment_date, notes, receipt_number, original_payment_id, received_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.PaymentID,
		m.PatientID,
		m.InvoiceID,
		m.Amount,
		m.PaymentMethodID,
		m.PaymentDate,
		m.Notes,
		m.ReceiptNumber,
		m.OriginalPaymentID,
		m.ReceivedBy,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}
