package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	clinic *clinic
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clinic = newClinic()
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestResolveCategory_FindOrCreateByName() {
	first, err := suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Eyewear, "Frame Purchases", domain.Expense, testUserID)
	suite.Require().NoError(err)
	suite.True(first.IsActive)

	again, err := suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Eyewear, "frame purchases", domain.Expense, testUserID)
	suite.Require().NoError(err)
	suite.Equal(first.CategoryID, again.CategoryID)

	byID, err := suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Eyewear, first.CategoryID, domain.Expense, testUserID)
	suite.Require().NoError(err)
	suite.Equal(first.CategoryID, byID.CategoryID)

	// Same name in another domain is a different category.
	other, err := suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Pharmacy, "Frame Purchases", domain.Expense, testUserID)
	suite.Require().NoError(err)
	suite.NotEqual(first.CategoryID, other.CategoryID)

	_, err = suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Pharmacy, first.CategoryID, domain.Expense, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation, "id from another domain")

	_, err = suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Eyewear, "7b0f3c2e-4a51-4b0e-9d43-0f3f3c1f0a11", domain.Expense, testUserID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Eyewear, "  ", domain.Expense, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestResolveCategory_ConcurrentCallersConverge() {
	const callers = 8
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			category, err := suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Facility, "Utilities", domain.Expense, testUserID)
			if err == nil {
				ids[i] = category.CategoryID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		suite.Equal(ids[0], id)
	}
	categories, err := suite.clinic.ledger.ListCategories(suite.ctx, domain.Facility, nil)
	suite.Require().NoError(err)
	suite.Len(categories, 1)
}

func (suite *LedgerServiceTestSuite) TestCreateCategory_DuplicateAndToggle() {
	req := dto.CreateCategoryRequest{Name: "Rent", Type: domain.Expense}
	category, err := suite.clinic.ledger.CreateCategory(suite.ctx, domain.Operations, req, testUserID)
	suite.Require().NoError(err)

	_, err = suite.clinic.ledger.CreateCategory(suite.ctx, domain.Operations, dto.CreateCategoryRequest{Name: "RENT", Type: domain.Expense}, testUserID)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = suite.clinic.ledger.CreateCategory(suite.ctx, domain.Operations, dto.CreateCategoryRequest{Name: "Rent", Type: domain.Income}, testUserID)
	suite.NoError(err, "same name with another type is allowed")

	updated, err := suite.clinic.ledger.SetCategoryActive(suite.ctx, category.CategoryID, false, "user-admin")
	suite.Require().NoError(err)
	suite.False(updated.IsActive)
	suite.Equal("user-admin", updated.LastUpdatedBy)

	expense := domain.Expense
	categories, err := suite.clinic.ledger.ListCategories(suite.ctx, domain.Operations, &expense)
	suite.Require().NoError(err)
	suite.Require().Len(categories, 1)
	suite.False(categories[0].IsActive)

	_, err = suite.clinic.ledger.SetCategoryActive(suite.ctx, "missing", true, testUserID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestAppend_ValidatesAgainstCategory() {
	income, err := suite.clinic.ledger.ResolveCategory(suite.ctx, domain.Facility, "Registration", domain.Income, testUserID)
	suite.Require().NoError(err)

	base := domain.LedgerTransaction{
		Domain:          domain.Facility,
		Type:            domain.Income,
		Amount:          dec("50"),
		CategoryID:      income.CategoryID,
		TransactionDate: fixedNow,
		Source:          domain.ManualSource("m-1"),
		CreatedBy:       testUserID,
	}

	stored, err := suite.clinic.ledger.Append(suite.ctx, base)
	suite.Require().NoError(err)
	suite.NotEmpty(stored.TransactionID)
	suite.Equal(domain.DateOnly(fixedNow), stored.TransactionDate)
	suite.Equal("Registration", stored.CategoryName)

	wrongType := base
	wrongType.Type = domain.Expense
	_, err = suite.clinic.ledger.Append(suite.ctx, wrongType)
	suite.ErrorIs(err, apperrors.ErrValidation)

	wrongDomain := base
	wrongDomain.Domain = domain.Pharmacy
	_, err = suite.clinic.ledger.Append(suite.ctx, wrongDomain)
	suite.ErrorIs(err, apperrors.ErrValidation)

	negative := base
	negative.Amount = dec("-5")
	_, err = suite.clinic.ledger.Append(suite.ctx, negative)
	suite.ErrorIs(err, apperrors.ErrValidation)

	untyped := base
	untyped.Source = domain.SourceRef{}
	_, err = suite.clinic.ledger.Append(suite.ctx, untyped)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordFundMovement_AffectsBalanceOnly() {
	in, err := suite.clinic.ledger.RecordFundMovement(suite.ctx, domain.Pharmacy, dto.FundMovementRequest{
		Direction: dto.FundIn,
		Amount:    dec("5000"),
	}, testUserID)
	suite.Require().NoError(err)
	suite.Equal(domain.CategoryFundIn, in.CategoryName)
	suite.Equal(domain.SourceFundMovement, in.Source.Kind)

	_, err = suite.clinic.ledger.RecordFundMovement(suite.ctx, domain.Pharmacy, dto.FundMovementRequest{
		Direction: dto.FundOut,
		Amount:    dec("1200"),
		Date:      ptr(fixedNow.AddDate(0, 0, -1)),
	}, testUserID)
	suite.Require().NoError(err)

	balance, err := suite.clinic.ledger.BalanceAsOf(suite.ctx, domain.Pharmacy, fixedNow)
	suite.Require().NoError(err)
	suite.Equal("3800", balance.String())

	dayBefore, err := suite.clinic.ledger.BalanceAsOf(suite.ctx, domain.Pharmacy, fixedNow.AddDate(0, 0, -1))
	suite.Require().NoError(err)
	suite.Equal("-1200", dayBefore.String())

	today, err := suite.clinic.ledger.BalanceAsOf(suite.ctx, domain.Pharmacy, time.Time{})
	suite.Require().NoError(err)
	suite.Equal(balance.String(), today.String(), "zero cutoff is today")

	_, err = suite.clinic.ledger.RecordFundMovement(suite.ctx, domain.Pharmacy, dto.FundMovementRequest{
		Direction: "sideways",
		Amount:    dec("1"),
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordEntry_AndListNewestFirst() {
	days := []time.Time{fixedNow.AddDate(0, 0, -2), fixedNow, fixedNow.AddDate(0, 0, -1)}
	for _, day := range days {
		_, err := suite.clinic.ledger.RecordEntry(suite.ctx, domain.Eyewear, dto.LedgerEntryRequest{
			Type:         domain.Expense,
			Amount:       dec("75.50"),
			CategoryName: "Lens Purchases",
			Date:         ptr(day),
			Metadata:     map[string]string{"supplier": "Opti Co"},
		}, testUserID)
		suite.Require().NoError(err)
	}

	page, err := suite.clinic.ledger.ListTransactions(suite.ctx, domain.Eyewear, dto.ListLedgerTransactionsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page.Transactions, 2)
	suite.Require().NotNil(page.NextToken)
	suite.Equal(domain.DateOnly(fixedNow), page.Transactions[0].TransactionDate)
	suite.Equal("Opti Co", page.Transactions[0].Metadata["supplier"])

	rest, err := suite.clinic.ledger.ListTransactions(suite.ctx, domain.Eyewear, dto.ListLedgerTransactionsParams{Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(rest.Transactions, 1)
	suite.Nil(rest.NextToken)
	suite.Equal(domain.DateOnly(fixedNow.AddDate(0, 0, -2)), rest.Transactions[0].TransactionDate)

	_, err = suite.clinic.ledger.RecordEntry(suite.ctx, domain.Eyewear, dto.LedgerEntryRequest{
		Type:   domain.Income,
		Amount: dec("10"),
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation, "category is required")
}

func (suite *LedgerServiceTestSuite) TestUnknownDomainIsRejected() {
	_, err := suite.clinic.ledger.BalanceAsOf(suite.ctx, domain.Domain("canteen"), fixedNow)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.clinic.ledger.ListTransactions(suite.ctx, domain.Domain("canteen"), dto.ListLedgerTransactionsParams{})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---
func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
