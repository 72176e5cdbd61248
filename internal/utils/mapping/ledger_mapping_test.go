package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerTransactionMapping_MetadataAndNullables(t *testing.T) {
	txn := domain.LedgerTransaction{
		TransactionID:   "t1",
		Domain:          domain.Pharmacy,
		Type:            domain.Income,
		Amount:          decimal.NewFromInt(40),
		CategoryID:      "c1",
		TransactionDate: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		Source:          domain.PaymentSource("p1"),
		Metadata:        map[string]string{"invoice_id": "inv-1"},
	}

	m, err := ToModelLedgerTransaction(txn)
	require.NoError(t, err)
	assert.Nil(t, m.PaymentMethodID)
	assert.Nil(t, m.Description)
	assert.Equal(t, "payment", m.SourceKind)
	assert.JSONEq(t, `{"invoice_id":"inv-1"}`, string(m.Metadata))

	back, err := ToDomainLedgerTransaction(m)
	require.NoError(t, err)
	assert.Equal(t, txn.Source, back.Source)
	assert.Equal(t, "inv-1", back.Metadata["invoice_id"])
}

func TestLedgerTransactionMapping_EmptyMetadata(t *testing.T) {
	m, err := ToModelLedgerTransaction(domain.LedgerTransaction{TransactionID: "t2"})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(m.Metadata))

	back, err := ToDomainLedgerTransaction(m)
	require.NoError(t, err)
	assert.Nil(t, back.Metadata)
}
