package dto

import (
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProcessPaymentRequest records money received from a patient, optionally against an invoice.
type ProcessPaymentRequest struct {
	PatientID       string          `json:"patientID" binding:"required"`
	InvoiceID       *string         `json:"invoiceID,omitempty"`
	Amount          decimal.Decimal `json:"amount" binding:"positive_amount" swaggertype:"string"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"`
	Notes           string          `json:"notes,omitempty" binding:"max=500"`
	ReceiptNumber   string          `json:"receiptNumber,omitempty" binding:"max=64"`
}

// ProcessRefundRequest returns money from an earlier payment. The original payment is taken
// from the path.
type ProcessRefundRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"positive_amount" swaggertype:"string"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	Reason          string          `json:"reason,omitempty" binding:"max=500"`
	RefundDate      *time.Time      `json:"refundDate,omitempty"`
}

// InstallmentPaymentRequest pays towards one installment.
type InstallmentPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"positive_amount" swaggertype:"string"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"`
	Notes           string          `json:"notes,omitempty" binding:"max=500"`
}

// PartialPaymentRequest pays part of an invoice's due amount.
type PartialPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"positive_amount" swaggertype:"string"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	Notes           string          `json:"notes,omitempty" binding:"max=500"`
}

// CreateInstallmentPlanRequest splits an invoice's due amount into installments. Either
// Amounts or Count must be given.
type CreateInstallmentPlanRequest struct {
	Amounts      []decimal.Decimal `json:"amounts,omitempty" swaggertype:"array,string"`
	Count        int               `json:"count,omitempty" binding:"omitempty,min=1,max=60"`
	FirstDueDate time.Time         `json:"firstDueDate" binding:"required"`
	IntervalDays int               `json:"intervalDays" binding:"omitempty,min=1,max=365"`
}

// PaymentResponse defines the data returned for a payment or refund.
type PaymentResponse struct {
	PaymentID         string          `json:"paymentID"`
	PatientID         string          `json:"patientID"`
	InvoiceID         *string         `json:"invoiceID,omitempty"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentMethodID   string          `json:"paymentMethodID"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Notes             string          `json:"notes,omitempty"`
	ReceiptNumber     string          `json:"receiptNumber"`
	OriginalPaymentID *string         `json:"originalPaymentID,omitempty"`
	IsRefund          bool            `json:"isRefund"`
	ReceivedBy        string          `json:"receivedBy"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:         p.PaymentID,
		PatientID:         p.PatientID,
		InvoiceID:         p.InvoiceID,
		Amount:            p.Amount,
		PaymentMethodID:   p.PaymentMethodID,
		PaymentDate:       p.PaymentDate,
		Notes:             p.Notes,
		ReceiptNumber:     p.ReceiptNumber,
		OriginalPaymentID: p.OriginalPaymentID,
		IsRefund:          p.IsRefund(),
		ReceivedBy:        p.ReceivedBy,
		CreatedAt:         p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to []PaymentResponse.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
	InstallmentID     string          `json:"installmentID"`
	InvoiceID         string          `json:"invoiceID"`
	Sequence          int             `json:"sequence"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount" swaggertype:"string"`
	PaidAmount        decimal.Decimal `json:"paidAmount" swaggertype:"string"`
	Balance           decimal.Decimal `json:"balance" swaggertype:"string"`
	Status            string          `json:"status"`
	DueDate           time.Time       `json:"dueDate"`
	PaidDate          *time.Time      `json:"paidDate,omitempty"`
}

// ToInstallmentResponses converts installments to their DTOs.
func ToInstallmentResponses(installments []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		responses[i] = InstallmentResponse{
			InstallmentID:     inst.InstallmentID,
			InvoiceID:         inst.InvoiceID,
			Sequence:          inst.Sequence,
			InstallmentAmount: inst.InstallmentAmount,
			PaidAmount:        inst.PaidAmount,
			Balance:           inst.Remaining(),
			Status:            string(inst.Status),
			DueDate:           inst.DueDate,
			PaidDate:          inst.PaidDate,
		}
	}
	return responses
}
