package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/dto"
	"github.com/SscSPs/clinic_billing/internal/utils"
	"github.com/SscSPs/clinic_billing/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultInstallmentIntervalDays = 30

// paymentService implements the PaymentSvcFacade interface. Every write operation runs as a
// single unit of work: payment record, ledger entry, invoice settlement, patient status and
// commission either all commit or none do.
type paymentService struct {
	BaseService
	txManager         portsrepo.TransactionManager
	paymentRepo       portsrepo.PaymentRepositoryFacade
	invoiceRepo       portsrepo.InvoiceRepositoryFacade
	installmentRepo   portsrepo.InstallmentRepositoryFacade
	categoryRepo      portsrepo.CategoryReader
	patientRepo       portsrepo.PatientRepository
	paymentMethodRepo portsrepo.PaymentMethodRepository
	ledgerSvc         portssvc.LedgerSvcFacade
	commissionSvc     portssvc.CommissionSvc
}

// PaymentServiceOption is a functional option for configuring the payment service
type PaymentServiceOption func(*paymentService)

// WithPaymentClock pins the clock used for payment dates and audit timestamps.
func WithPaymentClock(clock func() time.Time) PaymentServiceOption {
	return func(s *paymentService) {
		s.Clock = clock
	}
}

// WithPaymentLocation sets the timezone in which payments are assigned to a business day.
func WithPaymentLocation(loc *time.Location) PaymentServiceOption {
	return func(s *paymentService) {
		s.Location = loc
	}
}

// NewPaymentService creates a new payment service with the provided options
func NewPaymentService(
	repos portsrepo.RepositoryProvider,
	ledgerSvc portssvc.LedgerSvcFacade,
	commissionSvc portssvc.CommissionSvc,
	options ...PaymentServiceOption,
) portssvc.PaymentSvcFacade {
	svc := &paymentService{
		txManager:         repos.TxManager,
		paymentRepo:       repos.PaymentRepo,
		invoiceRepo:       repos.InvoiceRepo,
		installmentRepo:   repos.InstallmentRepo,
		categoryRepo:      repos.CategoryRepo,
		patientRepo:       repos.PatientRepo,
		paymentMethodRepo: repos.PaymentMethodRepo,
		ledgerSvc:         ledgerSvc,
		commissionSvc:     commissionSvc,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

type paymentInput struct {
	patientID       string
	invoiceID       *string
	amount          decimal.Decimal
	paymentMethodID string
	paymentDate     *time.Time
	notes           string
	receiptNumber   string
}

func (s *paymentService) ProcessPayment(ctx context.Context, req dto.ProcessPaymentRequest, userID string) (*domain.Payment, error) {
	if req.PatientID == "" {
		return nil, apperrors.NewValidationError("patientID", "is required")
	}
	if err := domain.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	if req.InvoiceID != nil && *req.InvoiceID == "" {
		req.InvoiceID = nil
	}

	var payment *domain.Payment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.processPaymentInTx(txCtx, paymentInput{
			patientID:       req.PatientID,
			invoiceID:       req.InvoiceID,
			amount:          req.Amount,
			paymentMethodID: req.PaymentMethodID,
			paymentDate:     req.PaymentDate,
			notes:           req.Notes,
			receiptNumber:   req.ReceiptNumber,
		}, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to process payment",
			slog.String("patient_id", req.PatientID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Payment processed",
		slog.String("payment_id", payment.PaymentID),
		slog.String("patient_id", payment.PatientID),
		slog.String("amount", payment.Amount.String()),
		slog.String("receipt_number", payment.ReceiptNumber),
		slog.String("user_id", userID))
	return payment, nil
}

// processPaymentInTx must run inside RunInTx.
func (s *paymentService) processPaymentInTx(ctx context.Context, in paymentInput, userID string) (*domain.Payment, error) {
	patient, err := s.patientRepo.FindPatientByID(ctx, in.patientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("patient", in.patientID)
		}
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}
	if err := s.checkPaymentMethod(ctx, in.paymentMethodID); err != nil {
		return nil, err
	}

	kind := domain.KindConsultation
	var invoice *domain.Invoice
	if in.invoiceID != nil {
		invoice, err = s.lockInvoice(ctx, *in.invoiceID)
		if err != nil {
			return nil, err
		}
		if invoice.PatientID != patient.PatientID {
			return nil, apperrors.NewValidationError("invoiceID", "invoice does not belong to the patient")
		}
		if in.amount.GreaterThan(invoice.DueAmount) {
			return nil, apperrors.NewStateConflictError("invoice", invoice.InvoiceID,
				fmt.Sprintf("amount %s exceeds due amount %s", in.amount.StringFixed(2), invoice.DueAmount.StringFixed(2)))
		}
		kind = invoice.Kind
	}
	ledgerDomain := kind.LedgerDomain()

	now := s.Now()
	paymentDate := now
	if in.paymentDate != nil && !in.paymentDate.IsZero() {
		paymentDate = in.paymentDate.UTC()
	}
	receiptNumber := in.receiptNumber
	if receiptNumber == "" {
		if receiptNumber, err = utils.GenerateReceiptNumber(s.InLocation(paymentDate)); err != nil {
			return nil, err
		}
	}

	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		PatientID:       patient.PatientID,
		InvoiceID:       in.invoiceID,
		Amount:          in.amount,
		PaymentMethodID: in.paymentMethodID,
		PaymentDate:     paymentDate,
		Notes:           in.notes,
		ReceiptNumber:   receiptNumber,
		ReceivedBy:      userID,
		CreatedAt:       now,
	}
	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	category, err := s.incomeCategory(ctx, ledgerDomain, kind)
	if err != nil {
		return nil, err
	}
	metadata := map[string]string{
		"patient_id":     patient.PatientID,
		"receipt_number": receiptNumber,
	}
	if invoice != nil {
		metadata["invoice_id"] = invoice.InvoiceID
	}
	if _, err := s.ledgerSvc.Append(ctx, domain.LedgerTransaction{
		Domain:          ledgerDomain,
		Type:            domain.Income,
		Amount:          payment.Amount,
		CategoryID:      category.CategoryID,
		PaymentMethodID: payment.PaymentMethodID,
		TransactionDate: s.CalendarDay(paymentDate),
		Source:          domain.PaymentSource(payment.PaymentID),
		Description:     fmt.Sprintf("Payment %s", receiptNumber),
		Metadata:        metadata,
		CreatedBy:       userID,
	}); err != nil {
		return nil, err
	}

	if invoice != nil {
		if err := s.reconcileInvoice(ctx, invoice, userID, now); err != nil {
			return nil, err
		}
	}
	if err := s.refreshPatientStatus(ctx, patient.PatientID, userID, now); err != nil {
		return nil, err
	}
	if invoice != nil {
		if _, err := s.commissionSvc.ComputeCommission(ctx, payment, userID); err != nil {
			return nil, err
		}
	}

	return &payment, nil
}

func (s *paymentService) ProcessRefund(ctx context.Context, originalPaymentID string, req dto.ProcessRefundRequest, userID string) (*domain.Payment, error) {
	if originalPaymentID == "" {
		return nil, apperrors.NewValidationError("originalPaymentID", "is required")
	}
	if err := domain.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}

	var refund *domain.Payment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		original, err := s.paymentRepo.FindPaymentByIDForUpdate(txCtx, originalPaymentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("payment", originalPaymentID)
			}
			return fmt.Errorf("failed to find original payment: %w", err)
		}
		if original.IsRefund() {
			return apperrors.NewValidationError("originalPaymentID", "a refund cannot be refunded")
		}
		if err := s.checkPaymentMethod(txCtx, req.PaymentMethodID); err != nil {
			return err
		}

		ledgerDomain := domain.Facility
		var invoice *domain.Invoice
		if original.InvoiceID != nil {
			invoice, err = s.lockInvoice(txCtx, *original.InvoiceID)
			if err != nil {
				return err
			}
			ledgerDomain = invoice.Kind.LedgerDomain()
		}

		refunded, err := s.paymentRepo.SumRefundsForPayment(txCtx, original.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to sum previous refunds: %w", err)
		}
		refundable := original.Amount.Sub(refunded)
		if req.Amount.GreaterThan(refundable) {
			return apperrors.NewStateConflictError("payment", original.PaymentID,
				fmt.Sprintf("refund %s exceeds refundable amount %s", req.Amount.StringFixed(2), refundable.StringFixed(2)))
		}

		now := s.Now()
		refundDate := now
		if req.RefundDate != nil && !req.RefundDate.IsZero() {
			refundDate = req.RefundDate.UTC()
		}
		receiptNumber, err := utils.GenerateReceiptNumber(s.InLocation(refundDate))
		if err != nil {
			return err
		}

		refund = &domain.Payment{
			PaymentID:         uuid.NewString(),
			PatientID:         original.PatientID,
			InvoiceID:         original.InvoiceID,
			Amount:            req.Amount.Neg(),
			PaymentMethodID:   req.PaymentMethodID,
			PaymentDate:       refundDate,
			Notes:             req.Reason,
			ReceiptNumber:     receiptNumber,
			OriginalPaymentID: &original.PaymentID,
			ReceivedBy:        userID,
			CreatedAt:         now,
		}
		if err := s.paymentRepo.SavePayment(txCtx, *refund); err != nil {
			return fmt.Errorf("failed to save refund: %w", err)
		}

		category, err := s.ledgerSvc.ResolveCategory(txCtx, ledgerDomain, domain.CategoryRefunds, domain.Expense, userID)
		if err != nil {
			return err
		}
		if _, err := s.ledgerSvc.Append(txCtx, domain.LedgerTransaction{
			Domain:          ledgerDomain,
			Type:            domain.Expense,
			Amount:          req.Amount,
			CategoryID:      category.CategoryID,
			PaymentMethodID: req.PaymentMethodID,
			TransactionDate: s.CalendarDay(refundDate),
			Source:          domain.RefundSource(refund.PaymentID),
			Description:     fmt.Sprintf("Refund of %s", original.ReceiptNumber),
			Metadata: map[string]string{
				"original_payment_id": original.PaymentID,
				"patient_id":          original.PatientID,
				"reason":              req.Reason,
			},
			CreatedBy: userID,
		}); err != nil {
			return err
		}

		if invoice != nil {
			if err := s.reconcileInvoice(txCtx, invoice, userID, now); err != nil {
				return err
			}
		}
		return s.refreshPatientStatus(txCtx, original.PatientID, userID, now)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to process refund",
			slog.String("original_payment_id", originalPaymentID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Refund processed",
		slog.String("payment_id", refund.PaymentID),
		slog.String("original_payment_id", originalPaymentID),
		slog.String("amount", refund.Amount.String()),
		slog.String("user_id", userID))
	return refund, nil
}

func (s *paymentService) ProcessInstallmentPayment(ctx context.Context, installmentID string, req dto.InstallmentPaymentRequest, userID string) (*domain.Payment, error) {
	if err := domain.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		installment, err := s.installmentRepo.FindInstallmentByIDForUpdate(txCtx, installmentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("installment", installmentID)
			}
			return fmt.Errorf("failed to find installment: %w", err)
		}
		if err := installment.CanAccept(req.Amount); err != nil {
			return err
		}

		invoice, err := s.invoiceRepo.FindInvoiceByID(txCtx, installment.InvoiceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("invoice", installment.InvoiceID)
			}
			return fmt.Errorf("failed to find invoice: %w", err)
		}

		notes := req.Notes
		if notes == "" {
			notes = fmt.Sprintf("Installment #%d", installment.Sequence)
		}
		payment, err = s.processPaymentInTx(txCtx, paymentInput{
			patientID:       invoice.PatientID,
			invoiceID:       &installment.InvoiceID,
			amount:          req.Amount,
			paymentMethodID: req.PaymentMethodID,
			paymentDate:     req.PaymentDate,
			notes:           notes,
		}, userID)
		if err != nil {
			return err
		}

		if err := installment.Apply(req.Amount, payment.PaymentDate); err != nil {
			return err
		}
		installment.LastUpdatedAt = s.Now()
		installment.LastUpdatedBy = userID
		if err := s.installmentRepo.UpdateInstallment(txCtx, *installment); err != nil {
			return fmt.Errorf("failed to update installment: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to process installment payment",
			slog.String("installment_id", installmentID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Installment payment processed",
		slog.String("payment_id", payment.PaymentID),
		slog.String("installment_id", installmentID),
		slog.String("amount", payment.Amount.String()),
		slog.String("user_id", userID))
	return payment, nil
}

func (s *paymentService) ProcessPartialPayment(ctx context.Context, invoiceID string, req dto.PartialPaymentRequest, userID string) (*domain.Payment, error) {
	if err := domain.ValidateAmount("amount", req.Amount); err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.lockInvoice(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == domain.InvoicePaid || !invoice.DueAmount.IsPositive() {
			return apperrors.NewStateConflictError("invoice", invoiceID, "invoice is already paid")
		}
		if req.Amount.GreaterThan(invoice.DueAmount) {
			return apperrors.NewStateConflictError("invoice", invoiceID,
				fmt.Sprintf("amount %s exceeds due amount %s", req.Amount.StringFixed(2), invoice.DueAmount.StringFixed(2)))
		}

		payment, err = s.processPaymentInTx(txCtx, paymentInput{
			patientID:       invoice.PatientID,
			invoiceID:       &invoice.InvoiceID,
			amount:          req.Amount,
			paymentMethodID: req.PaymentMethodID,
			notes:           req.Notes,
		}, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to process partial payment",
			slog.String("invoice_id", invoiceID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Partial payment processed",
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_id", invoiceID),
		slog.String("amount", payment.Amount.String()),
		slog.String("user_id", userID))
	return payment, nil
}

func (s *paymentService) CreateInstallmentPlan(ctx context.Context, invoiceID string, req dto.CreateInstallmentPlanRequest, userID string) ([]domain.Installment, error) {
	if len(req.Amounts) == 0 && req.Count <= 0 {
		return nil, apperrors.NewValidationError("amounts", "either amounts or count is required")
	}
	if req.FirstDueDate.IsZero() {
		return nil, apperrors.NewValidationError("firstDueDate", "is required")
	}
	for i, amount := range req.Amounts {
		if err := domain.ValidateAmount(fmt.Sprintf("amounts[%d]", i), amount); err != nil {
			return nil, err
		}
	}
	interval := req.IntervalDays
	if interval <= 0 {
		interval = defaultInstallmentIntervalDays
	}

	var installments []domain.Installment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.lockInvoice(txCtx, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.DueAmount.IsPositive() {
			return apperrors.NewStateConflictError("invoice", invoiceID, "invoice has nothing due")
		}
		existing, err := s.installmentRepo.ListInstallmentsByInvoice(txCtx, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to list installments: %w", err)
		}
		if len(existing) > 0 {
			return apperrors.NewStateConflictError("invoice", invoiceID, "invoice already has an installment plan")
		}

		amounts := req.Amounts
		if len(amounts) == 0 {
			if amounts, err = accounting.SplitEvenly(invoice.DueAmount, req.Count); err != nil {
				return apperrors.NewValidationError("count", err.Error())
			}
			for _, amount := range amounts {
				if !amount.IsPositive() {
					return apperrors.NewValidationError("count",
						fmt.Sprintf("%s due cannot be split into %d installments of at least 0.01", invoice.DueAmount.StringFixed(2), req.Count))
				}
			}
		}
		total := decimal.Zero
		for _, amount := range amounts {
			total = total.Add(amount)
		}
		if !domain.AmountsEqual(total, invoice.DueAmount) {
			return apperrors.NewValidationError("amounts",
				fmt.Sprintf("installments sum to %s but %s is due", total.StringFixed(2), invoice.DueAmount.StringFixed(2)))
		}

		now := s.Now()
		firstDue := domain.DateOnly(req.FirstDueDate)
		installments = make([]domain.Installment, len(amounts))
		for i, amount := range amounts {
			installments[i] = domain.Installment{
				InstallmentID:     uuid.NewString(),
				InvoiceID:         invoiceID,
				Sequence:          i + 1,
				InstallmentAmount: amount,
				PaidAmount:        decimal.Zero,
				Status:            domain.InstallmentPending,
				DueDate:           firstDue.AddDate(0, 0, i*interval),
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			}
		}
		if err := s.installmentRepo.SaveInstallments(txCtx, installments); err != nil {
			return fmt.Errorf("failed to save installments: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create installment plan", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "Installment plan created",
		slog.String("invoice_id", invoiceID),
		slog.Int("installments", len(installments)),
		slog.String("user_id", userID))
	return installments, nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("payment", paymentID)
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) ListInvoicePayments(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("invoice", invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	payments, err := s.paymentRepo.ListPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) lockInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("invoice", invoiceID)
		}
		return nil, fmt.Errorf("failed to lock invoice: %w", err)
	}
	return invoice, nil
}

func (s *paymentService) checkPaymentMethod(ctx context.Context, paymentMethodID string) error {
	if paymentMethodID == "" {
		return apperrors.NewValidationError("paymentMethodID", "is required")
	}
	method, err := s.paymentMethodRepo.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("payment method", paymentMethodID)
		}
		return fmt.Errorf("failed to find payment method: %w", err)
	}
	if !method.IsActive {
		return apperrors.NewValidationError("paymentMethodID", "payment method is inactive")
	}
	return nil
}

// incomeCategory picks the category mapped from the invoice kind, falling back to the first
// active income category of the domain when the mapped one is missing or inactive.
func (s *paymentService) incomeCategory(ctx context.Context, ledgerDomain domain.Domain, kind domain.InvoiceKind) (*domain.AccountCategory, error) {
	name := kind.IncomeCategoryName()
	category, err := s.categoryRepo.FindCategoryByName(ctx, ledgerDomain, name, domain.Income)
	switch {
	case err == nil && category.IsActive:
		return category, nil
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to find category %q: %w", name, err)
	}

	fallback, err := s.categoryRepo.FirstActiveCategory(ctx, ledgerDomain, domain.Income)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, &apperrors.ConfigurationError{Domain: string(ledgerDomain), Reason: "no active income category"}
		}
		return nil, fmt.Errorf("failed to find fallback category: %w", err)
	}
	s.LogDebug(ctx, "Income category unavailable, using fallback",
		slog.String("domain", string(ledgerDomain)),
		slog.String("wanted", name),
		slog.String("fallback", fallback.Name))
	return fallback, nil
}

func (s *paymentService) reconcileInvoice(ctx context.Context, invoice *domain.Invoice, userID string, now time.Time) error {
	payments, err := s.paymentRepo.ListPaymentsByInvoice(ctx, invoice.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to list invoice payments: %w", err)
	}
	invoice.Reconcile(payments)
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID
	if err := s.invoiceRepo.UpdateInvoiceSettlement(ctx, *invoice); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

func (s *paymentService) refreshPatientStatus(ctx context.Context, patientID, userID string, now time.Time) error {
	due, paid, err := s.invoiceRepo.SumPatientInvoices(ctx, patientID)
	if err != nil {
		return fmt.Errorf("failed to sum patient invoices: %w", err)
	}
	status := domain.DerivePatientPaymentStatus(due, paid)
	if err := s.patientRepo.UpdatePatientPaymentStatus(ctx, patientID, status, userID, now); err != nil {
		return fmt.Errorf("failed to update patient payment status: %w", err)
	}
	return nil
}
