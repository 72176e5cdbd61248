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

const invoiceSelect = `
	SELECT invoice_id, patient_id, kind, subtotal, discount_amount, total_amount, paid_amount,
		due_amount, status, issue_date, due_date, created_at, created_by, last_updated_at, last_updated_by
	FROM invoices
	WHERE invoice_id = $1
`

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, invoiceSelect, invoiceID)
}

// FindInvoiceByIDForUpdate locks the invoice row until the surrounding transaction ends.
func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, invoiceSelect+` FOR UPDATE`, invoiceID)
}

func (r *PgxInvoiceRepository) findInvoice(ctx context.Context, query, invoiceID string) (*domain.Invoice, error) {
	var m models.Invoice
	err := r.db(ctx).QueryRow(ctx, query, invoiceID).Scan(
		&m.InvoiceID,
		&m.PatientID,
		&m.Kind,
		&m.Subtotal,
		&m.DiscountAmount,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.DueAmount,
		&m.Status,
		&m.IssueDate,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice", invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	items, err := r.listItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv := mapping.ToDomainInvoice(m, items)
	return &inv, nil
}

func (r *PgxInvoiceRepository) listItems(ctx context.Context, invoiceID string) ([]models.InvoiceItem, error) {
	query := `
		SELECT item_id, invoice_id, item_type, description, quantity, unit_price, amount, appointment_id
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position, item_id
	`
	rows, err := r.db(ctx).Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.ItemID, &it.InvoiceID, &it.ItemType, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount, &it.AppointmentID); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PgxInvoiceRepository) SumPatientInvoices(ctx context.Context, patientID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(due_amount), 0), COALESCE(SUM(paid_amount), 0) FROM invoices WHERE patient_id = $1`
	var due, paid decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, patientID).Scan(&due, &paid); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum invoices of patient %s: %w", patientID, err)
	}
	return due, paid, nil
}

// UpdateInvoiceSettlement writes the settlement fields only.
func (r *PgxInvoiceRepository) UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice) error {
	query := `
		UPDATE invoices
		SET paid_amount = $2, due_amount = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		invoice.InvoiceID,
		invoice.PaidAmount,
		invoice.DueAmount,
		string(invoice.Status),
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement of invoice %s: %w", invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice", invoice.InvoiceID)
	}
	return nil
}
