package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/core/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/SscSPs/clinic_billing/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payCash(t *testing.T, c *clinic, invoiceID, amount string) *domain.Payment {
	t.Helper()
	payment, err := c.payments.ProcessPayment(context.Background(), dto.ProcessPaymentRequest{
		PatientID:       patientID,
		InvoiceID:       ptr(invoiceID),
		Amount:          dec(amount),
		PaymentMethodID: cashMethodID,
	}, testUserID)
	require.NoError(t, err)
	return payment
}

func facilityBalance(t *testing.T, c *clinic) decimal.Decimal {
	t.Helper()
	balance, err := c.ledger.BalanceAsOf(context.Background(), domain.Facility, fixedNow)
	require.NoError(t, err)
	return balance
}

func TestBillingLifecycle_PayPayRefund(t *testing.T) {
	c := newClinic()
	ctx := context.Background()
	_, err := c.ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: domain.CategoryConsultation, Type: domain.Income}, testUserID)
	require.NoError(t, err)

	// Pay 400 of 1000.
	payCash(t, c, consultInvoiceID, "400")
	inv := c.invoice(consultInvoiceID)
	assert.Equal(t, domain.InvoicePartiallyPaid, inv.Status)
	assert.Equal(t, "600.00", inv.DueAmount.StringFixed(2))
	assert.Equal(t, "400.00", facilityBalance(t, c).StringFixed(2))

	// Pay the remaining 600.
	second := payCash(t, c, consultInvoiceID, "600")
	inv = c.invoice(consultInvoiceID)
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.True(t, inv.DueAmount.IsZero())
	assert.Equal(t, "1000.00", inv.PaidAmount.StringFixed(2))

	// Refund 200 on the fully paid invoice.
	dueBefore := inv.DueAmount
	refund, err := c.payments.ProcessRefund(ctx, second.PaymentID, dto.ProcessRefundRequest{
		Amount:          dec("200"),
		PaymentMethodID: cashMethodID,
	}, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "-200.00", refund.Amount.StringFixed(2))

	entries, err := c.repos.LedgerRepo.FindTransactionsBySource(ctx, domain.RefundSource(refund.PaymentID))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.Expense, entries[0].Type)
	assert.Equal(t, "200.00", entries[0].Amount.StringFixed(2))

	inv = c.invoice(consultInvoiceID)
	assert.Equal(t, "800.00", inv.PaidAmount.StringFixed(2))
	assert.Equal(t, "200.00", inv.DueAmount.StringFixed(2))
	assert.Equal(t, domain.InvoicePartiallyPaid, inv.Status)
	assert.True(t, inv.DueAmount.Sub(dueBefore).Equal(dec("200")), "refund grows due by exactly its amount")
	assert.True(t, inv.IsBalanced())
	assert.Equal(t, domain.DeriveInvoiceStatus(inv.PaidAmount, inv.DueAmount), inv.Status)
	assert.Equal(t, "800.00", facilityBalance(t, c).StringFixed(2))
}

func TestBillingLifecycle_Installments(t *testing.T) {
	c := newClinic()
	ctx := context.Background()
	_, err := c.ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: domain.CategoryConsultation, Type: domain.Income}, testUserID)
	require.NoError(t, err)

	plan, err := c.payments.CreateInstallmentPlan(ctx, consultInvoiceID, dto.CreateInstallmentPlanRequest{
		Amounts:      []decimal.Decimal{dec("300"), dec("300"), dec("400")},
		FirstDueDate: fixedNow,
	}, testUserID)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	_, err = c.payments.ProcessInstallmentPayment(ctx, plan[0].InstallmentID, dto.InstallmentPaymentRequest{
		Amount: dec("300"), PaymentMethodID: cashMethodID,
	}, testUserID)
	require.NoError(t, err)

	first, err := c.repos.InstallmentRepo.FindInstallmentByID(ctx, plan[0].InstallmentID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentPaid, first.Status)

	_, err = c.payments.ProcessInstallmentPayment(ctx, plan[1].InstallmentID, dto.InstallmentPaymentRequest{
		Amount: dec("500"), PaymentMethodID: cashMethodID,
	}, testUserID)
	var conflict *apperrors.StateConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, plan[1].InstallmentID, conflict.ID)

	second, err := c.repos.InstallmentRepo.FindInstallmentByID(ctx, plan[1].InstallmentID)
	require.NoError(t, err)
	assert.True(t, second.PaidAmount.IsZero())
	assert.Equal(t, "700.00", c.invoice(consultInvoiceID).DueAmount.StringFixed(2))
}

func TestBillingLifecycle_InactiveCategoryFallsBack(t *testing.T) {
	c := newClinic()
	ctx := context.Background()
	c.store.AddInvoice(domain.Invoice{
		InvoiceID:   "inv-vision",
		PatientID:   patientID,
		Kind:        domain.KindVisionTest,
		TotalAmount: dec("250"),
		PaidAmount:  decimal.Zero,
		DueAmount:   dec("250"),
		Status:      domain.InvoicePending,
		IssueDate:   domain.DateOnly(fixedNow),
	})

	vision, err := c.ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: domain.CategoryVisionTest, Type: domain.Income}, testUserID)
	require.NoError(t, err)
	_, err = c.ledger.SetCategoryActive(ctx, vision.CategoryID, false, testUserID)
	require.NoError(t, err)
	for _, name := range []string{"Registration", "Consultation"} {
		_, err = c.ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: name, Type: domain.Income}, testUserID)
		require.NoError(t, err)
	}

	payment := payCash(t, c, "inv-vision", "250")

	entries, err := c.repos.LedgerRepo.FindTransactionsBySource(ctx, domain.PaymentSource(payment.PaymentID))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Consultation", entries[0].CategoryName, "first active income category by name")
	assert.Equal(t, domain.InvoicePaid, c.invoice("inv-vision").Status)
}

func TestCommission_AtMostOnePerPayment(t *testing.T) {
	c := newClinic()
	ctx := context.Background()
	c.store.AddFeeSchedule(domain.FeeSchedule{
		FeeScheduleID:   "fee-1",
		PractitionerID:  practitionerID,
		ServiceType:     domain.ServiceConsultation,
		BasePrice:       dec("1000"),
		PractitionerFee: dec("700"),
	})
	_, err := c.ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: domain.CategoryConsultation, Type: domain.Income}, testUserID)
	require.NoError(t, err)

	payment := payCash(t, c, consultInvoiceID, "1000")

	again, err := c.commission.ComputeCommission(ctx, *payment, testUserID)
	require.NoError(t, err)
	again2, err := c.commission.ComputeCommission(ctx, *payment, "someone-else")
	require.NoError(t, err)

	commissions := c.store.Commissions()
	require.Len(t, commissions, 1)
	assert.Equal(t, commissions[0].CommissionID, again.CommissionID)
	assert.Equal(t, commissions[0].CommissionID, again2.CommissionID)
	assert.Equal(t, "700.00", commissions[0].Amount.StringFixed(2))
	assert.Equal(t, "70", commissions[0].Percentage.String())
	assert.Equal(t, testUserID, commissions[0].CreatedBy)
}

func TestBalanceAsOf_SumsEntriesUpToCutoff(t *testing.T) {
	c := newClinic()
	ctx := context.Background()

	amounts := []struct {
		entryType domain.EntryType
		amount    string
		daysAgo   int
	}{
		{domain.Income, "120.50", 10},
		{domain.Expense, "20.25", 9},
		{domain.Income, "300", 5},
		{domain.Expense, "99.99", 0},
		{domain.Income, "1000", -3},
	}
	for _, a := range amounts {
		category := "Misc Income"
		if a.entryType == domain.Expense {
			category = "Misc Expense"
		}
		_, err := c.ledger.RecordEntry(ctx, domain.Operations, dto.LedgerEntryRequest{
			Type:         a.entryType,
			Amount:       dec(a.amount),
			CategoryName: category,
			Date:         ptr(fixedNow.AddDate(0, 0, -a.daysAgo)),
		}, testUserID)
		require.NoError(t, err)
	}

	for _, cutoff := range []int{10, 9, 5, 0, -3} {
		expected := decimal.Zero
		for _, a := range amounts {
			if a.daysAgo < cutoff {
				continue
			}
			if a.entryType == domain.Income {
				expected = expected.Add(dec(a.amount))
			} else {
				expected = expected.Sub(dec(a.amount))
			}
		}
		balance, err := c.ledger.BalanceAsOf(ctx, domain.Operations, fixedNow.AddDate(0, 0, -cutoff))
		require.NoError(t, err)
		assert.True(t, expected.Equal(balance), "cutoff %d days ago: want %s got %s", cutoff, expected, balance)
	}
}

func TestPatientStatus_SpansAllInvoices(t *testing.T) {
	c := newClinic()
	ctx := context.Background()
	_, err := c.ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: domain.CategoryConsultation, Type: domain.Income}, testUserID)
	require.NoError(t, err)
	c.store.AddInvoice(domain.Invoice{
		InvoiceID:   "inv-followup",
		PatientID:   patientID,
		Kind:        domain.KindConsultation,
		Subtotal:    dec("500"),
		TotalAmount: dec("500"),
		PaidAmount:  decimal.Zero,
		DueAmount:   dec("500"),
		Status:      domain.InvoicePending,
		IssueDate:   domain.DateOnly(fixedNow),
	})

	payCash(t, c, consultInvoiceID, "1000")
	assert.Equal(t, domain.InvoicePaid, c.invoice(consultInvoiceID).Status)
	assert.Equal(t, domain.PatientPartial, c.patientStatus(patientID), "another invoice is still due")

	payCash(t, c, "inv-followup", "200")
	assert.Equal(t, domain.PatientPartial, c.patientStatus(patientID))

	payCash(t, c, "inv-followup", "300")
	assert.Equal(t, domain.InvoicePaid, c.invoice("inv-followup").Status)
	assert.Equal(t, domain.PatientPaid, c.patientStatus(patientID))
	assert.Equal(t, domain.PatientPending, c.patientStatus(otherPatientID))
}

func TestBusinessDay_FollowsReportLocation(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	justAfterMidnight := func() time.Time { return time.Date(2024, 6, 1, 0, 30, 0, 0, dhaka) }

	store := memory.New()
	repos := memory.NewRepositoryProvider(store)
	ledger := services.NewLedgerService(repos.TxManager, repos.LedgerRepo, repos.CategoryRepo, repos.ReportingRepo,
		services.WithLedgerClock(justAfterMidnight), services.WithLedgerLocation(dhaka))
	commission := services.NewCommissionService(repos.CommissionRepo, repos.InvoiceRepo, repos.AppointmentRepo, repos.FeeScheduleRepo,
		services.WithCommissionClock(justAfterMidnight), services.WithCommissionLocation(dhaka))
	payments := services.NewPaymentService(repos, ledger, commission,
		services.WithPaymentClock(justAfterMidnight), services.WithPaymentLocation(dhaka))
	reporting := services.NewReportingService(repos.ReportingRepo,
		services.WithReportingClock(justAfterMidnight), services.WithReportingLocation(dhaka))

	store.AddPatient(domain.Patient{PatientID: patientID, Name: "Asha"})
	store.AddPaymentMethod(domain.PaymentMethod{PaymentMethodID: cashMethodID, Name: "Cash", IsActive: true})
	ctx := context.Background()
	_, err := ledger.CreateCategory(ctx, domain.Facility, dto.CreateCategoryRequest{Name: domain.CategoryConsultation, Type: domain.Income}, testUserID)
	require.NoError(t, err)

	payment, err := payments.ProcessPayment(ctx, dto.ProcessPaymentRequest{
		PatientID:       patientID,
		Amount:          dec("100"),
		PaymentMethodID: cashMethodID,
	}, testUserID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payment.ReceiptNumber, "RCPT-20240601-"), payment.ReceiptNumber)

	june1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries, err := repos.LedgerRepo.FindTransactionsBySource(ctx, domain.PaymentSource(payment.PaymentID))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, june1, entries[0].TransactionDate)

	sheet, err := reporting.BalanceSheet(ctx, domain.Facility)
	require.NoError(t, err)
	assert.Equal(t, june1, sheet.AsOf)
	assert.Equal(t, "100.00", sheet.CurrentMonth.Income.StringFixed(2))
	assert.Equal(t, "100.00", sheet.AllTime.Income.StringFixed(2))

	statement, err := reporting.DailyStatement(ctx, domain.Facility, june1, june1)
	require.NoError(t, err)
	require.Len(t, statement.Rows, 1)
	assert.Equal(t, "100.00", statement.Rows[0].Income.StringFixed(2))
	assert.True(t, statement.OpeningBalance.IsZero())
}
