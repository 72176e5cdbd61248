package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/utils/pagination"
)

func (s *Store) AppendTransaction(ctx context.Context, txn domain.LedgerTransaction) (domain.LedgerTransaction, error) {
	defer s.lock(ctx)()

	for _, existing := range s.st.ledger {
		if existing.TransactionID == txn.TransactionID {
			return domain.LedgerTransaction{}, fmt.Errorf("ledger transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
	}
	s.st.sequence++
	txn.Sequence = s.st.sequence
	s.st.ledger = append(s.st.ledger, txn)
	return txn, nil
}

func (s *Store) ListTransactions(ctx context.Context, ledgerDomain domain.Domain, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	defer s.rlock(ctx)()

	hasCursor := nextToken != nil && *nextToken != ""
	var cursorDate time.Time
	var cursorSeq int64
	if hasCursor {
		d, seq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		cursorDate, cursorSeq = d, seq
	}

	matched := make([]domain.LedgerTransaction, 0)
	for _, txn := range s.st.ledger {
		if txn.Domain != ledgerDomain {
			continue
		}
		if hasCursor && !pagination.IsAfterCursor(txn.TransactionDate, txn.Sequence, cursorDate, cursorSeq) {
			continue
		}
		matched = append(matched, txn)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].TransactionDate.Equal(matched[j].TransactionDate) {
			return matched[i].TransactionDate.After(matched[j].TransactionDate)
		}
		return matched[i].Sequence > matched[j].Sequence
	})

	var next *string
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[len(matched)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.Sequence)
		next = &token
	}
	return matched, next, nil
}

func (s *Store) FindTransactionsBySource(ctx context.Context, source domain.SourceRef) ([]domain.LedgerTransaction, error) {
	defer s.rlock(ctx)()

	result := []domain.LedgerTransaction{}
	for _, txn := range s.st.ledger {
		if txn.Source == source {
			result = append(result, txn)
		}
	}
	return result, nil
}
