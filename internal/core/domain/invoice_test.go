package domain_test

import (
	"testing"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func stringPtr(s string) *string {
	return &s
}

func payments(amounts ...string) []domain.Payment {
	out := make([]domain.Payment, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, domain.Payment{Amount: dec(a)})
	}
	return out
}

func TestInvoice_Reconcile(t *testing.T) {
	tests := []struct {
		name       string
		payments   []domain.Payment
		wantPaid   string
		wantDue    string
		wantStatus domain.InvoiceStatus
	}{
		{name: "no payments", payments: nil, wantPaid: "0", wantDue: "1000", wantStatus: domain.InvoicePending},
		{name: "partial", payments: payments("400"), wantPaid: "400", wantDue: "600", wantStatus: domain.InvoicePartiallyPaid},
		{name: "fully paid", payments: payments("400", "600"), wantPaid: "1000", wantDue: "0", wantStatus: domain.InvoicePaid},
		{name: "refund moves status back", payments: payments("400", "600", "-200"), wantPaid: "800", wantDue: "200", wantStatus: domain.InvoicePartiallyPaid},
		{name: "fully refunded", payments: payments("300", "-300"), wantPaid: "0", wantDue: "1000", wantStatus: domain.InvoicePending},
		{name: "many small payments do not drift", payments: payments("0.10", "0.20", "999.70"), wantPaid: "1000", wantDue: "0", wantStatus: domain.InvoicePaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.Invoice{TotalAmount: dec("1000")}
			inv.Reconcile(tt.payments)

			assert.True(t, dec(tt.wantPaid).Equal(inv.PaidAmount), "paid: got %s", inv.PaidAmount)
			assert.True(t, dec(tt.wantDue).Equal(inv.DueAmount), "due: got %s", inv.DueAmount)
			assert.Equal(t, tt.wantStatus, inv.Status)
			assert.True(t, inv.IsBalanced())
		})
	}
}

func TestInvoiceKind_Mapping(t *testing.T) {
	tests := []struct {
		kind         domain.InvoiceKind
		wantDomain   domain.Domain
		wantCategory string
	}{
		{domain.KindRegistration, domain.Facility, "Registration"},
		{domain.KindConsultation, domain.Facility, "Consultation"},
		{domain.KindVisionTest, domain.Facility, "Vision Test"},
		{domain.KindMedicine, domain.Pharmacy, "Medicine Sales"},
		{domain.KindEyewear, domain.Eyewear, "Eyewear Sales"},
		{domain.KindOperation, domain.Operations, "Operation Fees"},
		{domain.KindOther, domain.Facility, "Consultation"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.wantDomain, tt.kind.LedgerDomain())
			assert.Equal(t, tt.wantCategory, tt.kind.IncomeCategoryName())
		})
	}
}

func TestInvoice_ConsultationAppointmentID(t *testing.T) {
	inv := domain.Invoice{Items: []domain.InvoiceItem{
		{ItemType: "medicine", AppointmentID: stringPtr("ignored")},
		{ItemType: domain.ItemConsultation},
		{ItemType: domain.ItemConsultation, AppointmentID: stringPtr("appt-1")},
	}}
	id, ok := inv.ConsultationAppointmentID()
	assert.True(t, ok)
	assert.Equal(t, "appt-1", id)

	_, ok = domain.Invoice{}.ConsultationAppointmentID()
	assert.False(t, ok)
}

func TestDerivePatientPaymentStatus(t *testing.T) {
	assert.Equal(t, domain.PatientPaid, domain.DerivePatientPaymentStatus(dec("0"), dec("500")))
	assert.Equal(t, domain.PatientPartial, domain.DerivePatientPaymentStatus(dec("100"), dec("500")))
	assert.Equal(t, domain.PatientPending, domain.DerivePatientPaymentStatus(dec("100"), dec("0")))
}
