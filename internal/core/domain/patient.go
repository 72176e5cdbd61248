package domain

import "github.com/shopspring/decimal"

// PatientPaymentStatus aggregates settlement across all of a patient's invoices.
type PatientPaymentStatus string

const (
	PatientPending PatientPaymentStatus = "pending"
	PatientPartial PatientPaymentStatus = "partial"
	PatientPaid    PatientPaymentStatus = "paid"
)

// Patient is owned by the registration collaborator; this engine only writes PaymentStatus.
type Patient struct {
	PatientID     string               `json:"patientID"`
	Name          string               `json:"name"`
	PaymentStatus PatientPaymentStatus `json:"paymentStatus"`
}

// DerivePatientPaymentStatus maps the patient's invoice totals to an aggregate status.
func DerivePatientPaymentStatus(dueTotal, paidTotal decimal.Decimal) PatientPaymentStatus {
	switch {
	case dueTotal.LessThanOrEqual(decimal.Zero):
		return PatientPaid
	case paidTotal.IsPositive():
		return PatientPartial
	default:
		return PatientPending
	}
}
