package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The tables behind these repositories are owned by the registration, scheduling and
// settings services; billing reads them and only writes patients.payment_status.

type PgxPatientRepository struct {
	BaseRepository
}

func newPgxPatientRepository(pool *pgxpool.Pool) portsrepo.PatientRepository {
	return &PgxPatientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PatientRepository = (*PgxPatientRepository)(nil)

func (r *PgxPatientRepository) FindPatientByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	var p domain.Patient
	var status string
	err := r.db(ctx).QueryRow(ctx, `SELECT patient_id, name, payment_status FROM patients WHERE patient_id = $1`, patientID).
		Scan(&p.PatientID, &p.Name, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("patient", patientID)
		}
		return nil, fmt.Errorf("failed to find patient %s: %w", patientID, err)
	}
	p.PaymentStatus = domain.PatientPaymentStatus(status)
	return &p, nil
}

func (r *PgxPatientRepository) UpdatePatientPaymentStatus(ctx context.Context, patientID string, status domain.PatientPaymentStatus, userID string, updatedAt time.Time) error {
	query := `UPDATE patients SET payment_status = $2, last_updated_by = $3, last_updated_at = $4 WHERE patient_id = $1`
	tag, err := r.db(ctx).Exec(ctx, query, patientID, string(status), userID, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update payment status of patient %s: %w", patientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("patient", patientID)
	}
	return nil
}

type PgxPaymentMethodRepository struct {
	BaseRepository
}

func newPgxPaymentMethodRepository(pool *pgxpool.Pool) portsrepo.PaymentMethodRepository {
	return &PgxPaymentMethodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentMethodRepository = (*PgxPaymentMethodRepository)(nil)

func (r *PgxPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := r.db(ctx).QueryRow(ctx, `SELECT payment_method_id, name, is_active FROM payment_methods WHERE payment_method_id = $1`, paymentMethodID).
		Scan(&m.PaymentMethodID, &m.Name, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment method", paymentMethodID)
		}
		return nil, fmt.Errorf("failed to find payment method %s: %w", paymentMethodID, err)
	}
	return &m, nil
}

type PgxAppointmentRepository struct {
	BaseRepository
}

func newPgxAppointmentRepository(pool *pgxpool.Pool) portsrepo.AppointmentRepository {
	return &PgxAppointmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AppointmentRepository = (*PgxAppointmentRepository)(nil)

func (r *PgxAppointmentRepository) FindAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	var a domain.Appointment
	var practitionerID *string
	err := r.db(ctx).QueryRow(ctx, `SELECT appointment_id, patient_id, practitioner_id, scheduled_at FROM appointments WHERE appointment_id = $1`, appointmentID).
		Scan(&a.AppointmentID, &a.PatientID, &practitionerID, &a.ScheduledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("appointment", appointmentID)
		}
		return nil, fmt.Errorf("failed to find appointment %s: %w", appointmentID, err)
	}
	if practitionerID != nil {
		a.PractitionerID = *practitionerID
	}
	return &a, nil
}

type PgxFeeScheduleRepository struct {
	BaseRepository
}

func newPgxFeeScheduleRepository(pool *pgxpool.Pool) portsrepo.FeeScheduleRepository {
	return &PgxFeeScheduleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeScheduleRepository = (*PgxFeeScheduleRepository)(nil)

func (r *PgxFeeScheduleRepository) FindFeeSchedule(ctx context.Context, practitionerID, serviceType string) (*domain.FeeSchedule, error) {
	query := `
		SELECT fee_schedule_id, practitioner_id, service_type, base_price, practitioner_fee
		FROM fee_schedules
		WHERE practitioner_id = $1 AND service_type = $2
	`
	var f domain.FeeSchedule
	err := r.db(ctx).QueryRow(ctx, query, practitionerID, serviceType).
		Scan(&f.FeeScheduleID, &f.PractitionerID, &f.ServiceType, &f.BasePrice, &f.PractitionerFee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("fee schedule", practitionerID+"/"+serviceType)
		}
		return nil, fmt.Errorf("failed to find fee schedule for %s: %w", practitionerID, err)
	}
	return &f, nil
}
