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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var defaultCommissionPercentage = decimal.NewFromInt(60)

// commissionService implements the CommissionSvc interface
type commissionService struct {
	BaseService
	commissionRepo  portsrepo.CommissionRepositoryFacade
	invoiceRepo     portsrepo.InvoiceReader
	appointmentRepo portsrepo.AppointmentRepository
	feeScheduleRepo portsrepo.FeeScheduleRepository
}

// CommissionServiceOption is a functional option for configuring the commission service
type CommissionServiceOption func(*commissionService)

// WithCommissionClock pins the clock used for audit timestamps.
func WithCommissionClock(clock func() time.Time) CommissionServiceOption {
	return func(s *commissionService) {
		s.Clock = clock
	}
}

// WithCommissionLocation sets the timezone that decides the day a commission is earned.
func WithCommissionLocation(loc *time.Location) CommissionServiceOption {
	return func(s *commissionService) {
		s.Location = loc
	}
}

// NewCommissionService creates a new commission service with the provided options
func NewCommissionService(
	commissionRepo portsrepo.CommissionRepositoryFacade,
	invoiceRepo portsrepo.InvoiceReader,
	appointmentRepo portsrepo.AppointmentRepository,
	feeScheduleRepo portsrepo.FeeScheduleRepository,
	options ...CommissionServiceOption,
) portssvc.CommissionSvc {
	svc := &commissionService{
		commissionRepo:  commissionRepo,
		invoiceRepo:     invoiceRepo,
		appointmentRepo: appointmentRepo,
		feeScheduleRepo: feeScheduleRepo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.CommissionSvc = (*commissionService)(nil)

// ComputeCommission follows payment -> invoice -> consultation item -> appointment ->
// practitioner. A missing link means the payment earns no commission.
func (s *commissionService) ComputeCommission(ctx context.Context, payment domain.Payment, userID string) (*domain.Commission, error) {
	if payment.InvoiceID == nil || payment.IsRefund() {
		return nil, nil
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, *payment.InvoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load invoice for commission: %w", err)
	}
	appointmentID, ok := invoice.ConsultationAppointmentID()
	if !ok {
		return nil, nil
	}
	appointment, err := s.appointmentRepo.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load appointment for commission: %w", err)
	}
	if appointment.PractitionerID == "" {
		return nil, nil
	}

	existing, err := s.commissionRepo.FindCommissionByPaymentID(ctx, payment.PaymentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing commission: %w", err)
	}

	amount := payment.Amount.Mul(domain.DefaultCommissionRate).Round(2)
	percentage := defaultCommissionPercentage
	schedule, err := s.feeScheduleRepo.FindFeeSchedule(ctx, appointment.PractitionerID, domain.ServiceConsultation)
	switch {
	case err == nil:
		amount = schedule.PractitionerFee
		percentage = schedule.Percentage()
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to load fee schedule: %w", err)
	}

	now := s.Now()
	stored, created, err := s.commissionRepo.UpsertCommission(ctx, domain.Commission{
		CommissionID:   uuid.NewString(),
		PractitionerID: appointment.PractitionerID,
		PaymentID:      payment.PaymentID,
		AppointmentID:  appointment.AppointmentID,
		Amount:         amount,
		Percentage:     percentage,
		EarnedDate:     s.CalendarDay(payment.PaymentDate),
		Status:         domain.CommissionPending,
		CreatedBy:      userID,
		CreatedAt:      now,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save commission",
			slog.String("payment_id", payment.PaymentID),
			slog.String("practitioner_id", appointment.PractitionerID))
		return nil, fmt.Errorf("failed to save commission: %w", err)
	}

	if created {
		s.LogInfo(ctx, "Commission recorded",
			slog.String("commission_id", stored.CommissionID),
			slog.String("payment_id", payment.PaymentID),
			slog.String("practitioner_id", stored.PractitionerID),
			slog.String("amount", stored.Amount.String()))
	}
	return stored, nil
}
