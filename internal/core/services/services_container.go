package services

import (
	"time"

	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/clinic_billing/internal/core/ports/services"
	"github.com/SscSPs/clinic_billing/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// One business calendar for booking and reporting.
	var loc *time.Location
	if cfg != nil {
		loc = cfg.ReportLocation
	}

	container.Ledger = NewLedgerService(repos.TxManager, repos.LedgerRepo, repos.CategoryRepo, repos.ReportingRepo,
		WithLedgerLocation(loc))

	// Commission calculation runs inside payment units, so it shares the payment repositories.
	container.Commission = NewCommissionService(repos.CommissionRepo, repos.InvoiceRepo, repos.AppointmentRepo, repos.FeeScheduleRepo,
		WithCommissionLocation(loc))
	container.Payment = NewPaymentService(repos, container.Ledger, container.Commission, WithPaymentLocation(loc))
	container.Reporting = NewReportingService(repos.ReportingRepo, WithReportingLocation(loc))

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.PaymentSvcFacade = (*paymentService)(nil)
	_ portssvc.CommissionSvc    = (*commissionService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
