package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// The following ports read data owned by other parts of the clinic system.

// PatientRepository reads patients and writes their aggregate payment status.
type PatientRepository interface {
	FindPatientByID(ctx context.Context, patientID string) (*domain.Patient, error)
	UpdatePatientPaymentStatus(ctx context.Context, patientID string, status domain.PatientPaymentStatus, userID string, updatedAt time.Time) error
}

type PaymentMethodRepository interface {
	FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error)
}

type AppointmentRepository interface {
	FindAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error)
}

type FeeScheduleRepository interface {
	// FindFeeSchedule returns ErrNotFound when the practitioner has no schedule for the service.
	FindFeeSchedule(ctx context.Context, practitionerID, serviceType string) (*domain.FeeSchedule, error)
}
