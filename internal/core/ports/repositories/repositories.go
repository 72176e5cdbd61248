package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager       TransactionManager
	LedgerRepo      LedgerRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	InvoiceRepo     InvoiceRepositoryFacade
	PaymentRepo     PaymentRepositoryFacade
	InstallmentRepo InstallmentRepositoryFacade
	CommissionRepo  CommissionRepositoryFacade
	ReportingRepo   ReportingRepository

	PatientRepo       PatientRepository
	PaymentMethodRepo PaymentMethodRepository
	AppointmentRepo   AppointmentRepository
	FeeScheduleRepo   FeeScheduleRepository
}
