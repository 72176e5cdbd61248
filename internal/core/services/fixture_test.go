package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/core/services"
	"github.com/SscSPs/clinic_billing/internal/repositories/memory"
	"github.com/shopspring/decimal"
)

const (
	testUserID        = "user-cashier"
	patientID         = "patient-1"
	otherPatientID    = "patient-2"
	cashMethodID      = "cash"
	retiredMethodID   = "cheque"
	practitionerID    = "dr-rao"
	appointmentID     = "appt-1"
	consultInvoiceID  = "inv-consult"
	medicineInvoiceID = "inv-medicine"
)

var fixedNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func ptr[T any](v T) *T {
	return &v
}

// clinic bundles a memory store with services wired the way the server wires them.
type clinic struct {
	store      *memory.Store
	repos      portsrepo.RepositoryProvider
	ledger     portssvc.LedgerSvcFacade
	commission portssvc.CommissionSvc
	payments   portssvc.PaymentSvcFacade
}

func clock() time.Time { return fixedNow }

func newClinic() *clinic {
	store := memory.New()
	repos := memory.NewRepositoryProvider(store)
	return newClinicWith(store, repos)
}

func newClinicWith(store *memory.Store, repos portsrepo.RepositoryProvider) *clinic {
	ledger := services.NewLedgerService(repos.TxManager, repos.LedgerRepo, repos.CategoryRepo, repos.ReportingRepo,
		services.WithLedgerClock(clock))
	commission := services.NewCommissionService(repos.CommissionRepo, repos.InvoiceRepo, repos.AppointmentRepo, repos.FeeScheduleRepo,
		services.WithCommissionClock(clock))
	payments := services.NewPaymentService(repos, ledger, commission, services.WithPaymentClock(clock))

	c := &clinic{store: store, repos: repos, ledger: ledger, commission: commission, payments: payments}
	c.seed()
	return c
}

func (c *clinic) seed() {
	c.store.AddPatient(domain.Patient{PatientID: patientID, Name: "Asha"})
	c.store.AddPatient(domain.Patient{PatientID: otherPatientID, Name: "Vikram"})
	c.store.AddPaymentMethod(domain.PaymentMethod{PaymentMethodID: cashMethodID, Name: "Cash", IsActive: true})
	c.store.AddPaymentMethod(domain.PaymentMethod{PaymentMethodID: retiredMethodID, Name: "Cheque", IsActive: false})
	c.store.AddAppointment(domain.Appointment{
		AppointmentID:  appointmentID,
		PatientID:      patientID,
		PractitionerID: practitionerID,
		ScheduledAt:    fixedNow.Add(-time.Hour),
	})
	c.store.AddInvoice(domain.Invoice{
		InvoiceID: consultInvoiceID,
		PatientID: patientID,
		Kind:      domain.KindConsultation,
		Items: []domain.InvoiceItem{{
			ItemID:        "item-1",
			ItemType:      domain.ItemConsultation,
			Description:   "General consultation",
			Quantity:      1,
			UnitPrice:     dec("1000"),
			Amount:        dec("1000"),
			AppointmentID: ptr(appointmentID),
		}},
		Subtotal:       dec("1000"),
		DiscountAmount: decimal.Zero,
		TotalAmount:    dec("1000"),
		PaidAmount:     decimal.Zero,
		DueAmount:      dec("1000"),
		Status:         domain.InvoicePending,
		IssueDate:      domain.DateOnly(fixedNow),
	})
	c.store.AddInvoice(domain.Invoice{
		InvoiceID:   medicineInvoiceID,
		PatientID:   otherPatientID,
		Kind:        domain.KindMedicine,
		Subtotal:    dec("500"),
		TotalAmount: dec("500"),
		PaidAmount:  decimal.Zero,
		DueAmount:   dec("500"),
		Status:      domain.InvoicePending,
		IssueDate:   domain.DateOnly(fixedNow),
	})
}

func (c *clinic) invoice(id string) *domain.Invoice {
	inv, err := c.repos.InvoiceRepo.FindInvoiceByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return inv
}

func (c *clinic) patientStatus(id string) domain.PatientPaymentStatus {
	p, err := c.repos.PatientRepo.FindPatientByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return p.PaymentStatus
}
