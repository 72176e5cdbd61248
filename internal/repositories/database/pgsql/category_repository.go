package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	"github.com/SscSPs/clinic_billing/internal/models"
	"github.com/SscSPs/clinic_billing/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categorySelect = `
	SELECT category_id, domain, name, entry_type, is_active, description,
		created_at, created_by, last_updated_at, last_updated_by
	FROM account_categories
`

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (*domain.AccountCategory, error) {
	var m models.AccountCategory
	err := row.Scan(
		&m.CategoryID,
		&m.Domain,
		&m.Name,
		&m.EntryType,
		&m.IsActive,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	c := mapping.ToDomainCategory(m)
	return &c, nil
}

func (r *PgxCategoryRepository) findOne(ctx context.Context, notFoundID, query string, args ...any) (*domain.AccountCategory, error) {
	c, err := scanCategory(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category", notFoundID)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", notFoundID, err)
	}
	return c, nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.AccountCategory, error) {
	return r.findOne(ctx, categoryID, categorySelect+` WHERE category_id = $1`, categoryID)
}

func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, ledgerDomain domain.Domain, name string, entryType domain.EntryType) (*domain.AccountCategory, error) {
	return r.findOne(ctx, name,
		categorySelect+` WHERE domain = $1 AND LOWER(name) = LOWER($2) AND entry_type = $3`,
		string(ledgerDomain), name, string(entryType))
}

func (r *PgxCategoryRepository) FirstActiveCategory(ctx context.Context, ledgerDomain domain.Domain, entryType domain.EntryType) (*domain.AccountCategory, error) {
	return r.findOne(ctx, fmt.Sprintf("active %s in %s", entryType, ledgerDomain),
		categorySelect+` WHERE domain = $1 AND entry_type = $2 AND is_active ORDER BY name, category_id LIMIT 1`,
		string(ledgerDomain), string(entryType))
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, ledgerDomain domain.Domain, entryType *domain.EntryType) ([]domain.AccountCategory, error) {
	query := categorySelect + ` WHERE domain = $1`
	args := []any{string(ledgerDomain)}
	if entryType != nil {
		query += ` AND entry_type = $2`
		args = append(args, string(*entryType))
	}
	query += ` ORDER BY name, category_id`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.AccountCategory) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO account_categories (category_id, domain, name, entry_type, is_active, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.CategoryID, m.Domain, m.Name, m.EntryType, m.IsActive, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %q already exists in %s", apperrors.ErrDuplicate, m.Name, m.Domain)
		}
		return fmt.Errorf("failed to save category %s: %w", m.CategoryID, err)
	}
	return nil
}

// UpsertCategory inserts the category unless one with the same (domain, name, type) exists,
// and returns whichever row is stored.
func (r *PgxCategoryRepository) UpsertCategory(ctx context.Context, category domain.AccountCategory) (*domain.AccountCategory, error) {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO account_categories (category_id, domain, name, entry_type, is_active, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (domain, LOWER(name), entry_type) DO UPDATE SET name = account_categories.name
		RETURNING category_id, domain, name, entry_type, is_active, description,
			created_at, created_by, last_updated_at, last_updated_by;
	`
	c, err := scanCategory(r.db(ctx).QueryRow(ctx, query,
		m.CategoryID, m.Domain, m.Name, m.EntryType, m.IsActive, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category %q: %w", m.Name, err)
	}
	return c, nil
}

func (r *PgxCategoryRepository) SetCategoryActive(ctx context.Context, categoryID string, active bool, userID string, updatedAt time.Time) error {
	query := `UPDATE account_categories SET is_active = $2, last_updated_by = $3, last_updated_at = $4 WHERE category_id = $1`
	tag, err := r.db(ctx).Exec(ctx, query, categoryID, active, userID, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category", categoryID)
	}
	return nil
}
