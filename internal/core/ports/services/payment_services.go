package services

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/dto"
)

// PaymentWriterSvc defines the money-moving operations. Each call is a single atomic unit.
type PaymentWriterSvc interface {
	ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest, userID string) (*domain.Payment, error)
	ProcessRefund(ctx context.Context, originalPaymentID string, req dto.ProcessRefundRequest, userID string) (*domain.Payment, error)
	ProcessInstallmentPayment(ctx context.Context, installmentID string, req dto.InstallmentPaymentRequest, userID string) (*domain.Payment, error)
	ProcessPartialPayment(ctx context.Context, invoiceID string, req dto.PartialPaymentRequest, userID string) (*domain.Payment, error)
	CreateInstallmentPlan(ctx context.Context, invoiceID string, req dto.CreateInstallmentPlanRequest, userID string) ([]domain.Installment, error)
}

// PaymentReaderSvc defines read operations for payments.
type PaymentReaderSvc interface {
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListInvoicePayments(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentWriterSvc
	PaymentReaderSvc
}

// CommissionSvc derives practitioner commissions from payments.
type CommissionSvc interface {
	// ComputeCommission returns the commission for payment, creating it if needed. It returns
	// nil without error when the payment does not trace to a practitioner.
	ComputeCommission(ctx context.Context, payment domain.Payment, userID string) (*domain.Commission, error)
}
