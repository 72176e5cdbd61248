package memory

import (
	"context"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

func feeScheduleKey(practitionerID, serviceType string) string {
	return practitionerID + "|" + serviceType
}

// AddPatient registers a patient.
func (s *Store) AddPatient(p domain.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.PaymentStatus == "" {
		p.PaymentStatus = domain.PatientPending
	}
	s.st.patients[p.PatientID] = p
}

// AddPaymentMethod registers a payment method.
func (s *Store) AddPaymentMethod(m domain.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.paymentMethods[m.PaymentMethodID] = m
}

// AddAppointment registers an appointment.
func (s *Store) AddAppointment(a domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.appointments[a.AppointmentID] = a
}

// AddFeeSchedule registers a fee schedule.
func (s *Store) AddFeeSchedule(f domain.FeeSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.feeSchedules[feeScheduleKey(f.PractitionerID, f.ServiceType)] = f
}

func (s *Store) FindPatientByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	defer s.rlock(ctx)()

	p, ok := s.st.patients[patientID]
	if !ok {
		return nil, apperrors.NewNotFoundError("patient", patientID)
	}
	return &p, nil
}

func (s *Store) UpdatePatientPaymentStatus(ctx context.Context, patientID string, status domain.PatientPaymentStatus, _ string, _ time.Time) error {
	defer s.lock(ctx)()

	p, ok := s.st.patients[patientID]
	if !ok {
		return apperrors.NewNotFoundError("patient", patientID)
	}
	p.PaymentStatus = status
	s.st.patients[patientID] = p
	return nil
}

func (s *Store) FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	defer s.rlock(ctx)()

	m, ok := s.st.paymentMethods[paymentMethodID]
	if !ok {
		return nil, apperrors.NewNotFoundError("payment method", paymentMethodID)
	}
	return &m, nil
}

func (s *Store) FindAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	defer s.rlock(ctx)()

	a, ok := s.st.appointments[appointmentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("appointment", appointmentID)
	}
	return &a, nil
}

func (s *Store) FindFeeSchedule(ctx context.Context, practitionerID, serviceType string) (*domain.FeeSchedule, error) {
	defer s.rlock(ctx)()

	f, ok := s.st.feeSchedules[feeScheduleKey(practitionerID, serviceType)]
	if !ok {
		return nil, apperrors.NewNotFoundError("fee schedule", feeScheduleKey(practitionerID, serviceType))
	}
	return &f, nil
}
