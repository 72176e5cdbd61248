package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/SscSPs/clinic_billing/internal/models"
)

// ToModelLedgerTransaction converts a domain LedgerTransaction to a model LedgerTransaction
func ToModelLedgerTransaction(d domain.LedgerTransaction) (models.LedgerTransaction, error) {
	metadata := []byte("{}")
	if len(d.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(d.Metadata); err != nil {
			return models.LedgerTransaction{}, fmt.Errorf("failed to encode ledger metadata: %w", err)
		}
	}
	return models.LedgerTransaction{
		TransactionID:   d.TransactionID,
		Sequence:        d.Sequence,
		Domain:          string(d.Domain),
		EntryType:       string(d.Type),
		Amount:          d.Amount,
		CategoryID:      d.CategoryID,
		CategoryName:    d.CategoryName,
		PaymentMethodID: nullable(d.PaymentMethodID),
		TransactionDate: d.TransactionDate,
		SourceKind:      string(d.Source.Kind),
		SourceID:        d.Source.ID,
		Description:     nullable(d.Description),
		Metadata:        metadata,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
	}, nil
}

// ToDomainLedgerTransaction converts a model LedgerTransaction to a domain LedgerTransaction
func ToDomainLedgerTransaction(m models.LedgerTransaction) (domain.LedgerTransaction, error) {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return domain.LedgerTransaction{}, fmt.Errorf("failed to decode metadata of ledger transaction %s: %w", m.TransactionID, err)
		}
	}
	if len(metadata) == 0 {
		metadata = nil
	}
	return domain.LedgerTransaction{
		TransactionID:   m.TransactionID,
		Domain:          domain.Domain(m.Domain),
		Type:            domain.EntryType(m.EntryType),
		Amount:          m.Amount,
		CategoryID:      m.CategoryID,
		CategoryName:    m.CategoryName,
		PaymentMethodID: deref(m.PaymentMethodID),
		TransactionDate: domain.DateOnly(m.TransactionDate),
		Source:          domain.SourceRef{Kind: domain.SourceKind(m.SourceKind), ID: m.SourceID},
		Description:     deref(m.Description),
		Metadata:        metadata,
		Sequence:        m.Sequence,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}, nil
}

// ToModelCategory converts a domain AccountCategory to a model AccountCategory
func ToModelCategory(d domain.AccountCategory) models.AccountCategory {
	return models.AccountCategory{
		CategoryID:  d.CategoryID,
		Domain:      string(d.Domain),
		Name:        d.Name,
		EntryType:   string(d.Type),
		IsActive:    d.IsActive,
		Description: nullable(d.Description),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model AccountCategory to a domain AccountCategory
func ToDomainCategory(m models.AccountCategory) domain.AccountCategory {
	return domain.AccountCategory{
		CategoryID:  m.CategoryID,
		Domain:      domain.Domain(m.Domain),
		Name:        m.Name,
		Type:        domain.EntryType(m.EntryType),
		IsActive:    m.IsActive,
		Description: deref(m.Description),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
