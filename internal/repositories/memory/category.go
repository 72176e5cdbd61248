package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

func sameCategoryKey(a domain.AccountCategory, d domain.Domain, name string, t domain.EntryType) bool {
	return a.Domain == d && a.Type == t && strings.EqualFold(a.Name, name)
}

func (s *Store) FindCategoryByID(ctx context.Context, categoryID string) (*domain.AccountCategory, error) {
	defer s.rlock(ctx)()

	c, ok := s.st.categories[categoryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("category", categoryID)
	}
	return &c, nil
}

func (s *Store) FindCategoryByName(ctx context.Context, ledgerDomain domain.Domain, name string, entryType domain.EntryType) (*domain.AccountCategory, error) {
	defer s.rlock(ctx)()
	return s.findCategoryByName(ledgerDomain, name, entryType)
}

func (s *Store) findCategoryByName(ledgerDomain domain.Domain, name string, entryType domain.EntryType) (*domain.AccountCategory, error) {
	for _, c := range s.st.categories {
		if sameCategoryKey(c, ledgerDomain, name, entryType) {
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("category", name)
}

func (s *Store) FirstActiveCategory(ctx context.Context, ledgerDomain domain.Domain, entryType domain.EntryType) (*domain.AccountCategory, error) {
	defer s.rlock(ctx)()

	active := s.sortedCategories(ledgerDomain, &entryType, true)
	if len(active) == 0 {
		return nil, apperrors.NewNotFoundError("category", fmt.Sprintf("active %s in %s", entryType, ledgerDomain))
	}
	return &active[0], nil
}

func (s *Store) ListCategories(ctx context.Context, ledgerDomain domain.Domain, entryType *domain.EntryType) ([]domain.AccountCategory, error) {
	defer s.rlock(ctx)()
	return s.sortedCategories(ledgerDomain, entryType, false), nil
}

func (s *Store) sortedCategories(ledgerDomain domain.Domain, entryType *domain.EntryType, activeOnly bool) []domain.AccountCategory {
	result := []domain.AccountCategory{}
	for _, c := range s.st.categories {
		if c.Domain != ledgerDomain || (entryType != nil && c.Type != *entryType) || (activeOnly && !c.IsActive) {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].CategoryID < result[j].CategoryID
	})
	return result
}

func (s *Store) SaveCategory(ctx context.Context, category domain.AccountCategory) error {
	defer s.lock(ctx)()

	if _, ok := s.st.categories[category.CategoryID]; ok {
		return fmt.Errorf("category %s: %w", category.CategoryID, apperrors.ErrDuplicate)
	}
	if _, err := s.findCategoryByName(category.Domain, category.Name, category.Type); err == nil {
		return fmt.Errorf("category %q in %s: %w", category.Name, category.Domain, apperrors.ErrDuplicate)
	}
	s.st.categories[category.CategoryID] = category
	return nil
}

// UpsertCategory returns the existing category with the same (domain, name, type) or stores
// the given one.
func (s *Store) UpsertCategory(ctx context.Context, category domain.AccountCategory) (*domain.AccountCategory, error) {
	defer s.lock(ctx)()

	if existing, err := s.findCategoryByName(category.Domain, category.Name, category.Type); err == nil {
		return existing, nil
	}
	s.st.categories[category.CategoryID] = category
	return &category, nil
}

func (s *Store) SetCategoryActive(ctx context.Context, categoryID string, active bool, userID string, updatedAt time.Time) error {
	defer s.lock(ctx)()

	c, ok := s.st.categories[categoryID]
	if !ok {
		return apperrors.NewNotFoundError("category", categoryID)
	}
	c.IsActive = active
	c.LastUpdatedBy = userID
	c.LastUpdatedAt = updatedAt
	s.st.categories[categoryID] = c
	return nil
}
