package repositories

import (
	"context"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
)

// LedgerReader reads the append-only ledger.
type LedgerReader interface {
	// ListTransactions lists entries of a domain newest first. nextToken is an opaque cursor.
	ListTransactions(ctx context.Context, ledgerDomain domain.Domain, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error)
	// FindTransactionsBySource returns the entries produced by a source entity.
	FindTransactionsBySource(ctx context.Context, source domain.SourceRef) ([]domain.LedgerTransaction, error)
}

// LedgerWriter appends entries. No update or delete exists.
type LedgerWriter interface {
	// AppendTransaction persists txn and returns it with its assigned Sequence.
	AppendTransaction(ctx context.Context, txn domain.LedgerTransaction) (domain.LedgerTransaction, error)
}

// LedgerRepositoryFacade combines ledger reads and writes.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
