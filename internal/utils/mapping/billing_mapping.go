package mapping

import (
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/models"
)

// ToDomainInvoice converts a model Invoice and its item rows to a domain Invoice
func ToDomainInvoice(m models.Invoice, items []models.InvoiceItem) domain.Invoice {
	inv := domain.Invoice{
		InvoiceID:      m.InvoiceID,
		PatientID:      m.PatientID,
		Kind:           domain.InvoiceKind(m.Kind),
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountAmount,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		DueAmount:      m.DueAmount,
		Status:         domain.InvoiceStatus(m.Status),
		IssueDate:      m.IssueDate,
		DueDate:        m.DueDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for _, it := range items {
		inv.Items = append(inv.Items, domain.InvoiceItem{
			ItemID:        it.ItemID,
			ItemType:      it.ItemType,
			Description:   deref(it.Description),
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Amount:        it.Amount,
			AppointmentID: it.AppointmentID,
		})
	}
	return inv
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:         d.PaymentID,
		PatientID:         d.PatientID,
		InvoiceID:         d.InvoiceID,
		Amount:            d.Amount,
		PaymentMethodID:   d.PaymentMethodID,
		PaymentDate:       d.PaymentDate,
		Notes:             nullable(d.Notes),
		ReceiptNumber:     d.ReceiptNumber,
		OriginalPaymentID: d.OriginalPaymentID,
		ReceivedBy:        d.ReceivedBy,
		CreatedAt:         d.CreatedAt,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:         m.PaymentID,
		PatientID:         m.PatientID,
		InvoiceID:         m.InvoiceID,
		Amount:            m.Amount,
		PaymentMethodID:   m.PaymentMethodID,
		PaymentDate:       m.PaymentDate,
		Notes:             deref(m.Notes),
		ReceiptNumber:     m.ReceiptNumber,
		OriginalPaymentID: m.OriginalPaymentID,
		ReceivedBy:        m.ReceivedBy,
		CreatedAt:         m.CreatedAt,
	}
}

// ToModelInstallment converts a domain Installment to a model Installment
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:     d.InstallmentID,
		InvoiceID:         d.InvoiceID,
		Sequence:          d.Sequence,
		InstallmentAmount: d.InstallmentAmount,
		PaidAmount:        d.PaidAmount,
		Status:            string(d.Status),
		DueDate:           d.DueDate,
		PaidDate:          d.PaidDate,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID:     m.InstallmentID,
		InvoiceID:         m.InvoiceID,
		Sequence:          m.Sequence,
		InstallmentAmount: m.InstallmentAmount,
		PaidAmount:        m.PaidAmount,
		Status:            domain.InstallmentStatus(m.Status),
		DueDate:           domain.DateOnly(m.DueDate),
		PaidDate:          m.PaidDate,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCommission converts a domain Commission to a model Commission
func ToModelCommission(d domain.Commission) models.Commission {
	return models.Commission{
		CommissionID:   d.CommissionID,
		PractitionerID: d.PractitionerID,
		PaymentID:      d.PaymentID,
		AppointmentID:  d.AppointmentID,
		Amount:         d.Amount,
		Percentage:     d.Percentage,
		EarnedDate:     d.EarnedDate,
		Status:         string(d.Status),
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainCommission converts a model Commission to a domain Commission
func ToDomainCommission(m models.Commission) domain.Commission {
	return domain.Commission{
		CommissionID:   m.CommissionID,
		PractitionerID: m.PractitionerID,
		PaymentID:      m.PaymentID,
		AppointmentID:  m.AppointmentID,
		Amount:         m.Amount,
		Percentage:     m.Percentage,
		EarnedDate:     domain.DateOnly(m.EarnedDate),
		Status:         domain.CommissionStatus(m.Status),
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
