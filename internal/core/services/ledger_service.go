package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	categoryRepo  portsrepo.CategoryRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock pins the clock used for audit timestamps and default dates.
func WithLedgerClock(clock func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = clock
	}
}

// WithLedgerLocation sets the timezone that decides which day an undated entry belongs to.
func WithLedgerLocation(loc *time.Location) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Location = loc
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		txManager:     txManager,
		ledgerRepo:    ledgerRepo,
		categoryRepo:  categoryRepo,
		reportingRepo: reportingRepo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ResolveCategory treats a UUID as a category id and anything else as a category name.
// Names are find-or-create, so concurrent callers converge on one row.
func (s *ledgerService) ResolveCategory(ctx context.Context, ledgerDomain domain.Domain, idOrName string, entryType domain.EntryType, userID string) (*domain.AccountCategory, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	if !entryType.IsValid() {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown entry type %q", entryType))
	}
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, apperrors.NewValidationError("category", "category id or name is required")
	}

	if _, err := uuid.Parse(idOrName); err == nil {
		category, err := s.categoryRepo.FindCategoryByID(ctx, idOrName)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("category", idOrName)
			}
			return nil, fmt.Errorf("failed to find category %s: %w", idOrName, err)
		}
		if category.Domain != ledgerDomain || category.Type != entryType {
			return nil, apperrors.NewValidationError("category",
				fmt.Sprintf("category %s is a %s category of %s, expected %s in %s", category.CategoryID, category.Type, category.Domain, entryType, ledgerDomain))
		}
		return category, nil
	}

	now := s.Now()
	category, err := s.categoryRepo.UpsertCategory(ctx, domain.AccountCategory{
		CategoryID: uuid.NewString(),
		Domain:     ledgerDomain,
		Name:       idOrName,
		Type:       entryType,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to find or create category",
			slog.String("domain", string(ledgerDomain)),
			slog.String("name", idOrName))
		return nil, fmt.Errorf("failed to resolve category %q: %w", idOrName, err)
	}
	return category, nil
}

func (s *ledgerService) CreateCategory(ctx context.Context, ledgerDomain domain.Domain, req dto.CreateCategoryRequest, userID string) (*domain.AccountCategory, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown entry type %q", req.Type))
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}

	now := s.Now()
	category := domain.AccountCategory{
		CategoryID:  uuid.NewString(),
		Domain:      ledgerDomain,
		Name:        name,
		Type:        req.Type,
		IsActive:    true,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to create category",
			slog.String("domain", string(ledgerDomain)),
			slog.String("name", name))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.LogInfo(ctx, "Category created",
		slog.String("category_id", category.CategoryID),
		slog.String("domain", string(ledgerDomain)),
		slog.String("name", name))
	return &category, nil
}

func (s *ledgerService) ListCategories(ctx context.Context, ledgerDomain domain.Domain, entryType *domain.EntryType) ([]domain.AccountCategory, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	if entryType != nil && !entryType.IsValid() {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown entry type %q", *entryType))
	}
	categories, err := s.categoryRepo.ListCategories(ctx, ledgerDomain, entryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *ledgerService) SetCategoryActive(ctx context.Context, categoryID string, active bool, userID string) (*domain.AccountCategory, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("category", categoryID)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	now := s.Now()
	if err := s.categoryRepo.SetCategoryActive(ctx, categoryID, active, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update category",
			slog.String("category_id", categoryID),
			slog.Bool("active", active))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	category.IsActive = active
	category.LastUpdatedAt = now
	category.LastUpdatedBy = userID
	s.LogInfo(ctx, "Category updated",
		slog.String("category_id", categoryID),
		slog.Bool("active", active),
		slog.String("user_id", userID))
	return category, nil
}

// Append validates an entry against its category and appends it. TransactionDate is taken as a
// calendar day; callers holding an instant convert it with CalendarDay first.
func (s *ledgerService) Append(ctx context.Context, txn domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("category", txn.CategoryID)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", txn.CategoryID, err)
	}
	if category.Domain != txn.Domain {
		return nil, apperrors.NewValidationError("categoryID", fmt.Sprintf("category belongs to domain %s, entry is for %s", category.Domain, txn.Domain))
	}
	if category.Type != txn.Type {
		return nil, apperrors.NewValidationError("categoryID", fmt.Sprintf("category is %s, entry is %s", category.Type, txn.Type))
	}

	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	txn.TransactionDate = domain.DateOnly(txn.TransactionDate)
	txn.CategoryName = category.Name
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = s.Now()
	}

	stored, err := s.ledgerRepo.AppendTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to append ledger transaction",
			slog.String("domain", string(txn.Domain)),
			slog.String("source_kind", string(txn.Source.Kind)),
			slog.String("source_id", txn.Source.ID))
		return nil, fmt.Errorf("failed to append ledger transaction: %w", err)
	}

	s.LogDebug(ctx, "Ledger transaction appended",
		slog.String("transaction_id", stored.TransactionID),
		slog.String("domain", string(stored.Domain)),
		slog.String("type", string(stored.Type)),
		slog.String("amount", stored.Amount.String()))
	return &stored, nil
}

func (s *ledgerService) RecordFundMovement(ctx context.Context, ledgerDomain domain.Domain, req dto.FundMovementRequest, userID string) (*domain.LedgerTransaction, error) {
	var entryType domain.EntryType
	var categoryName string
	switch req.Direction {
	case dto.FundIn:
		entryType, categoryName = domain.Income, domain.CategoryFundIn
	case dto.FundOut:
		entryType, categoryName = domain.Expense, domain.CategoryFundOut
	default:
		return nil, apperrors.NewValidationError("direction", "must be 'in' or 'out'")
	}
	if err := domain.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}

	var created *domain.LedgerTransaction
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.ResolveCategory(txCtx, ledgerDomain, categoryName, entryType, userID)
		if err != nil {
			return err
		}
		created, err = s.Append(txCtx, domain.LedgerTransaction{
			Domain:          ledgerDomain,
			Type:            entryType,
			Amount:          req.Amount,
			CategoryID:      category.CategoryID,
			PaymentMethodID: req.PaymentMethodID,
			TransactionDate: s.dateOrToday(req.Date),
			Source:          domain.FundMovementSource(uuid.NewString()),
			Description:     req.Description,
			CreatedBy:       userID,
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record fund movement",
			slog.String("domain", string(ledgerDomain)),
			slog.String("direction", string(req.Direction)))
		return nil, err
	}

	s.LogInfo(ctx, "Fund movement recorded",
		slog.String("transaction_id", created.TransactionID),
		slog.String("domain", string(ledgerDomain)),
		slog.String("direction", string(req.Direction)),
		slog.String("amount", req.Amount.String()),
		slog.String("user_id", userID))
	return created, nil
}

func (s *ledgerService) RecordEntry(ctx context.Context, ledgerDomain domain.Domain, req dto.LedgerEntryRequest, userID string) (*domain.LedgerTransaction, error) {
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown entry type %q", req.Type))
	}
	if err := domain.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	categoryRef := req.CategoryID
	if categoryRef == "" {
		categoryRef = req.CategoryName
	}
	if strings.TrimSpace(categoryRef) == "" {
		return nil, apperrors.NewValidationError("category", "categoryID or categoryName is required")
	}

	var created *domain.LedgerTransaction
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.ResolveCategory(txCtx, ledgerDomain, categoryRef, req.Type, userID)
		if err != nil {
			return err
		}
		created, err = s.Append(txCtx, domain.LedgerTransaction{
			Domain:          ledgerDomain,
			Type:            req.Type,
			Amount:          req.Amount,
			CategoryID:      category.CategoryID,
			PaymentMethodID: req.PaymentMethodID,
			TransactionDate: s.dateOrToday(req.Date),
			Source:          domain.ManualSource(uuid.NewString()),
			Description:     req.Description,
			Metadata:        req.Metadata,
			CreatedBy:       userID,
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record ledger entry",
			slog.String("domain", string(ledgerDomain)),
			slog.String("type", string(req.Type)))
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry recorded",
		slog.String("transaction_id", created.TransactionID),
		slog.String("domain", string(ledgerDomain)),
		slog.String("category", created.CategoryName),
		slog.String("user_id", userID))
	return created, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, ledgerDomain domain.Domain, params dto.ListLedgerTransactionsParams) (*dto.ListLedgerTransactionsResponse, error) {
	if !ledgerDomain.IsValid() {
		return nil, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactions(ctx, ledgerDomain, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger transactions", slog.String("domain", string(ledgerDomain)))
		return nil, fmt.Errorf("failed to list ledger transactions: %w", err)
	}

	return &dto.ListLedgerTransactionsResponse{
		Transactions: dto.ToLedgerTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *ledgerService) BalanceAsOf(ctx context.Context, ledgerDomain domain.Domain, cutoff time.Time) (decimal.Decimal, error) {
	if !ledgerDomain.IsValid() {
		return decimal.Zero, apperrors.NewValidationError("domain", fmt.Sprintf("unknown ledger domain %q", ledgerDomain))
	}
	day := domain.DateOnly(cutoff)
	if cutoff.IsZero() {
		day = s.Today()
	}
	totals, err := s.reportingRepo.GetPeriodTotals(ctx, ledgerDomain, nil, &day)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance",
			slog.String("domain", string(ledgerDomain)),
			slog.String("cutoff", day.Format(time.DateOnly)))
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}
	return totals.Net(), nil
}

func (s *ledgerService) dateOrToday(date *time.Time) time.Time {
	if date != nil && !date.IsZero() {
		return domain.DateOnly(*date)
	}
	return s.Today()
}
