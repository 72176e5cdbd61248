package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/SscSPs/clinic_billing/internal/handlers"
	"github.com/SscSPs/clinic_billing/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testIssuer = "clinic-billing-test"

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ProcessRefund(ctx context.Context, originalPaymentID string, req dto.ProcessRefundRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, originalPaymentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ProcessInstallmentPayment(ctx context.Context, installmentID string, req dto.InstallmentPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, installmentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ProcessPartialPayment(ctx context.Context, invoiceID string, req dto.PartialPaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) CreateInstallmentPlan(ctx context.Context, invoiceID string, req dto.CreateInstallmentPlanRequest, userID string) ([]domain.Installment, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListInvoicePayments(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// generateTestToken creates a signed JWT for the given user.
func generateTestToken(secret, userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
	userID             string
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret, testIssuer))

	suite.mockPaymentService = new(MockPaymentService)
	v1 := suite.router.Group("/api/v1")
	handlers.RegisterPaymentRoutes(v1, suite.mockPaymentService)
}

func (suite *PaymentHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &payload)
	token, err := generateTestToken(suite.jwtSecret, suite.userID)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestProcessPayment_Success() {
	invoiceID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:       uuid.NewString(),
		PatientID:       "patient-1",
		InvoiceID:       &invoiceID,
		Amount:          decimal.NewFromInt(400),
		PaymentMethodID: "cash",
		PaymentDate:     time.Now().UTC(),
		ReceiptNumber:   "RCP-20240515-ABC123",
		ReceivedBy:      suite.userID,
	}

	suite.mockPaymentService.On("ProcessPayment",
		mock.Anything,
		mock.MatchedBy(func(r dto.ProcessPaymentRequest) bool {
			return r.PatientID == "patient-1" && r.Amount.Equal(decimal.NewFromInt(400)) && r.InvoiceID != nil && *r.InvoiceID == invoiceID
		}),
		suite.userID,
	).Return(payment, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments", map[string]any{
		"patientID":       "patient-1",
		"invoiceID":       invoiceID,
		"amount":          "400",
		"paymentMethodID": "cash",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(payment.PaymentID, resp.PaymentID)
	suite.Equal(payment.ReceiptNumber, resp.ReceiptNumber)
	suite.False(resp.IsRefund)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestProcessPayment_RejectsInvalidAmount() {
	for _, amount := range []string{"0", "-10", "0.001"} {
		w := suite.do(http.MethodPost, "/api/v1/payments", map[string]any{
			"patientID":       "patient-1",
			"amount":          amount,
			"paymentMethodID": "cash",
		})
		suite.Equal(http.StatusBadRequest, w.Code, "amount %s", amount)
	}
	suite.mockPaymentService.AssertNotCalled(suite.T(), "ProcessPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestProcessPayment_ServiceErrors() {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.NewStateConflictError("invoice", "inv-1", "amount exceeds due amount"), http.StatusConflict},
		{apperrors.NewNotFoundError("patient", "patient-1"), http.StatusNotFound},
		{apperrors.NewValidationError("paymentMethodID", "payment method is inactive"), http.StatusBadRequest},
		{&apperrors.ConfigurationError{Domain: "pharmacy", Reason: "no active income category"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.mockPaymentService.On("ProcessPayment", mock.Anything, mock.Anything, suite.userID).Return(nil, tc.err).Once()

		w := suite.do(http.MethodPost, "/api/v1/payments", map[string]any{
			"patientID":       "patient-1",
			"amount":          "10",
			"paymentMethodID": "cash",
		})
		suite.Equal(tc.status, w.Code, tc.err.Error())
	}
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestProcessRefund_Success() {
	originalID := uuid.NewString()
	refund := &domain.Payment{
		PaymentID:         uuid.NewString(),
		PatientID:         "patient-1",
		Amount:            decimal.NewFromInt(-150),
		PaymentMethodID:   "cash",
		OriginalPaymentID: &originalID,
		ReceivedBy:        suite.userID,
	}
	suite.mockPaymentService.On("ProcessRefund",
		mock.Anything,
		originalID,
		mock.MatchedBy(func(r dto.ProcessRefundRequest) bool {
			return r.Amount.Equal(decimal.NewFromInt(150)) && r.Reason == "Overcharged"
		}),
		suite.userID,
	).Return(refund, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/payments/"+originalID+"/refunds", map[string]any{
		"amount":          "150",
		"paymentMethodID": "cash",
		"reason":          "Overcharged",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsRefund)
	suite.Require().NotNil(resp.OriginalPaymentID)
	suite.Equal(originalID, *resp.OriginalPaymentID)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestCreateInstallmentPlan_Success() {
	invoiceID := uuid.NewString()
	plan := []domain.Installment{
		{InstallmentID: uuid.NewString(), InvoiceID: invoiceID, Sequence: 1, InstallmentAmount: decimal.NewFromInt(500), Status: domain.InstallmentPending},
		{InstallmentID: uuid.NewString(), InvoiceID: invoiceID, Sequence: 2, InstallmentAmount: decimal.NewFromInt(500), Status: domain.InstallmentPending},
	}
	suite.mockPaymentService.On("CreateInstallmentPlan",
		mock.Anything,
		invoiceID,
		mock.MatchedBy(func(r dto.CreateInstallmentPlanRequest) bool { return r.Count == 2 }),
		suite.userID,
	).Return(plan, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/installments", map[string]any{
		"count":        2,
		"firstDueDate": "2024-06-01T00:00:00Z",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp []dto.InstallmentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.Equal("500", resp[0].Balance.String())
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFound() {
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("GetPayment", mock.Anything, paymentID).
		Return(nil, apperrors.NewNotFoundError("payment", paymentID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/payments/"+paymentID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "ProcessPayment", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
