package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	"github.com/SscSPs/clinic_billing/internal/models"
	"github.com/SscSPs/clinic_billing/internal/utils/mapping"
	"github.com/SscSPs/clinic_billing/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerSelect = `
	SELECT lt.transaction_id, lt.sequence, lt.domain, lt.entry_type, lt.amount, lt.category_id,
		COALESCE(c.name, ''), lt.payment_method_id, lt.transaction_date, lt.source_kind, lt.source_id,
		lt.description, lt.metadata, lt.created_by, lt.created_at
	FROM ledger_transactions lt
	LEFT JOIN account_categories c ON c.category_id = lt.category_id
`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendTransaction inserts an entry; the database assigns its sequence.
func (r *PgxLedgerRepository) AppendTransaction(ctx context.Context, txn domain.LedgerTransaction) (domain.LedgerTransaction, error) {
	m, err := mapping.ToModelLedgerTransaction(txn)
	if err != nil {
		return domain.LedgerTransaction{}, err
	}

	query := `
		INSERT INTO ledger_transactions (
			transaction_id, domain, entry_type, amount, category_id, payment_method_id,
			transaction_date, source_kind, source_id, description, metadata, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING sequence;
	`
	err = r.db(ctx).QueryRow(ctx, query,
		m.TransactionID,
		m.Domain,
		m.EntryType,
		m.Amount,
		m.CategoryID,
		m.PaymentMethodID,
		m.TransactionDate,
		m.SourceKind,
		m.SourceID,
		m.Description,
		m.Metadata,
		m.CreatedBy,
		m.CreatedAt,
	).Scan(&txn.Sequence)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.LedgerTransaction{}, fmt.Errorf("%w: ledger transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return domain.LedgerTransaction{}, fmt.Errorf("failed to append ledger transaction %s: %w", m.TransactionID, err)
	}
	return txn, nil
}

// ListTransactions returns a page of a domain's entries, newest first.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, ledgerDomain domain.Domain, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	args := []any{string(ledgerDomain)}
	query := ledgerSelect + ` WHERE lt.domain = $1`
	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		query += ` AND (lt.transaction_date, lt.sequence) < ($2, $3)`
		args = append(args, cursorDate, cursorSeq)
	}
	query += fmt.Sprintf(` ORDER BY lt.transaction_date DESC, lt.sequence DESC LIMIT $%d`, len(args)+1)
	// Fetch one extra row to learn whether another page exists.
	args = append(args, limit+1)

	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.Sequence)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxLedgerRepository) FindTransactionsBySource(ctx context.Context, source domain.SourceRef) ([]domain.LedgerTransaction, error) {
	query := ledgerSelect + ` WHERE lt.source_kind = $1 AND lt.source_id = $2 ORDER BY lt.sequence`
	return r.queryTransactions(ctx, query, string(source.Kind), source.ID)
}

func (r *PgxLedgerRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.LedgerTransaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger transactions: %w", err)
	}
	defer rows.Close()

	result := []domain.LedgerTransaction{}
	for rows.Next() {
		txn, err := scanLedgerTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger transactions: %w", err)
	}
	return result, nil
}

func scanLedgerTransaction(row pgx.Row) (domain.LedgerTransaction, error) {
	var m models.LedgerTransaction
	if err := row.Scan(
		&m.TransactionID,
		&m.Sequence,
		&m.Domain,
		&m.EntryType,
		&m.Amount,
		&m.CategoryID,
		&m.CategoryName,
		&m.PaymentMethodID,
		&m.TransactionDate,
		&m.SourceKind,
		&m.SourceID,
		&m.Description,
		&m.Metadata,
		&m.CreatedBy,
		&m.CreatedAt,
	); err != nil {
		return domain.LedgerTransaction{}, fmt.Errorf("failed to scan ledger transaction: %w", err)
	}
	return mapping.ToDomainLedgerTransaction(m)
}
