package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionStatus string

const (
	CommissionPending CommissionStatus = "pending"
	CommissionPaid    CommissionStatus = "paid"
)

// ServiceConsultation is the fee schedule service type used for commissions.
const ServiceConsultation = "consultation"

// DefaultCommissionRate applies when a practitioner has no fee schedule.
var DefaultCommissionRate = decimal.NewFromFloat(0.6)

// Commission is a practitioner's earning on a single payment. At most one exists per payment.
type Commission struct {
	CommissionID   string           `json:"commissionID"`
	PractitionerID string           `json:"practitionerID"`
	PaymentID      string           `json:"paymentID"`
	AppointmentID  string           `json:"appointmentID"`
	Amount         decimal.Decimal  `json:"amount"`
	Percentage     decimal.Decimal  `json:"percentage"`
	EarnedDate     time.Time        `json:"earnedDate"`
	Status         CommissionStatus `json:"status"`
	CreatedBy      string           `json:"createdBy"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// FeeSchedule is the agreed split between clinic and practitioner for a service.
type FeeSchedule struct {
	FeeScheduleID   string          `json:"feeScheduleID"`
	PractitionerID  string          `json:"practitionerID"`
	ServiceType     string          `json:"serviceType"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	PractitionerFee decimal.Decimal `json:"practitionerFee"`
}

// Percentage returns the practitioner share of the base price, or zero without a base price.
func (f FeeSchedule) Percentage() decimal.Decimal {
	if f.BasePrice.IsZero() {
		return decimal.Zero
	}
	return f.PractitionerFee.Div(f.BasePrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// Appointment is a collaborator-owned booking used to find the practitioner of a payment.
type Appointment struct {
	AppointmentID  string    `json:"appointmentID"`
	PatientID      string    `json:"patientID"`
	PractitionerID string    `json:"practitionerID"`
	ScheduledAt    time.Time `json:"scheduledAt"`
}
