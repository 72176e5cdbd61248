package pgsql

import (
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         newTxManager(dbPool),
		LedgerRepo:        newPgxLedgerRepository(dbPool),
		CategoryRepo:      newPgxCategoryRepository(dbPool),
		InvoiceRepo:       newPgxInvoiceRepository(dbPool),
		PaymentRepo:       newPgxPaymentRepository(dbPool),
		InstallmentRepo:   newPgxInstallmentRepository(dbPool),
		CommissionRepo:    newPgxCommissionRepository(dbPool),
		ReportingRepo:     newReportingRepository(dbPool),
		PatientRepo:       newPgxPatientRepository(dbPool),
		PaymentMethodRepo: newPgxPaymentMethodRepository(dbPool),
		AppointmentRepo:   newPgxAppointmentRepository(dbPool),
		FeeScheduleRepo:   newPgxFeeScheduleRepository(dbPool),
	}
}
