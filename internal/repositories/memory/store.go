// Package memory is an in-process implementation of every repository port. It backs the
// "memory" storage driver and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	portsrepo "github.com/SscSPs/clinic_billing/internal/core/ports/repositories"
)

type state struct {
	ledger         []domain.LedgerTransaction
	sequence       int64
	categories     map[string]domain.AccountCategory
	invoices       map[string]domain.Invoice
	payments       map[string]domain.Payment
	paymentOrder   []string
	installments   map[string]domain.Installment
	commissions    map[string]domain.Commission // keyed by payment id
	patients       map[string]domain.Patient
	paymentMethods map[string]domain.PaymentMethod
	appointments   map[string]domain.Appointment
	feeSchedules   map[string]domain.FeeSchedule // keyed by practitioner|service
}

func newState() *state {
	return &state{
		ledger:         make([]domain.LedgerTransaction, 0),
		categories:     make(map[string]domain.AccountCategory),
		invoices:       make(map[string]domain.Invoice),
		payments:       make(map[string]domain.Payment),
		installments:   make(map[string]domain.Installment),
		commissions:    make(map[string]domain.Commission),
		patients:       make(map[string]domain.Patient),
		paymentMethods: make(map[string]domain.PaymentMethod),
		appointments:   make(map[string]domain.Appointment),
		feeSchedules:   make(map[string]domain.FeeSchedule),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every collection. Values are stored by value and treated as immutable, so a
// shallow copy of each map is a full snapshot.
func (st *state) clone() *state {
	return &state{
		ledger:         append([]domain.LedgerTransaction(nil), st.ledger...),
		sequence:       st.sequence,
		categories:     cloneMap(st.categories),
		invoices:       cloneMap(st.invoices),
		payments:       cloneMap(st.payments),
		paymentOrder:   append([]string(nil), st.paymentOrder...),
		installments:   cloneMap(st.installments),
		commissions:    cloneMap(st.commissions),
		patients:       cloneMap(st.patients),
		paymentMethods: cloneMap(st.paymentMethods),
		appointments:   cloneMap(st.appointments),
		feeSchedules:   cloneMap(st.feeSchedules),
	}
}

// Store keeps all data in memory. A unit of work holds the write lock for its whole
// duration and restores a snapshot if it fails, so units are serializable.
type Store struct {
	mu sync.RWMutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// RunInTx implements portsrepo.TransactionManager. Nested calls join the outer unit.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.st = snapshot
	}
	return err
}

// NewRepositoryProvider wires store into every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         store,
		LedgerRepo:        store,
		CategoryRepo:      store,
		InvoiceRepo:       store,
		PaymentRepo:       store,
		InstallmentRepo:   store,
		CommissionRepo:    store,
		ReportingRepo:     store,
		PatientRepo:       store,
		PaymentMethodRepo: store,
		AppointmentRepo:   store,
		FeeScheduleRepo:   store,
	}
}

var (
	_ portsrepo.TransactionManager          = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade      = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade    = (*Store)(nil)
	_ portsrepo.InvoiceRepositoryFacade     = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade     = (*Store)(nil)
	_ portsrepo.InstallmentRepositoryFacade = (*Store)(nil)
	_ portsrepo.CommissionRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ReportingRepository         = (*Store)(nil)
	_ portsrepo.PatientRepository           = (*Store)(nil)
	_ portsrepo.PaymentMethodRepository     = (*Store)(nil)
	_ portsrepo.AppointmentRepository       = (*Store)(nil)
	_ portsrepo.FeeScheduleRepository       = (*Store)(nil)
)
