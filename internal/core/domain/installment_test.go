package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/clinic_billing/internal/apperrors"
	"github.com/SscSPs/clinic_billing/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallment_Apply(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("partial then full", func(t *testing.T) {
		inst := domain.Installment{InstallmentID: "i1", InstallmentAmount: dec("300"), PaidAmount: dec("0"), Status: domain.InstallmentPending}

		require.NoError(t, inst.Apply(dec("100"), paidAt))
		assert.Equal(t, domain.InstallmentPending, inst.Status)
		assert.True(t, dec("200").Equal(inst.Remaining()))
		assert.Nil(t, inst.PaidDate)

		require.NoError(t, inst.Apply(dec("200"), paidAt))
		assert.Equal(t, domain.InstallmentPaid, inst.Status)
		assert.True(t, inst.Remaining().IsZero())
		require.NotNil(t, inst.PaidDate)
		assert.Equal(t, paidAt, *inst.PaidDate)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		inst := domain.Installment{InstallmentID: "i2", InstallmentAmount: dec("300"), PaidAmount: dec("0"), Status: domain.InstallmentPending}
		err := inst.Apply(dec("500"), paidAt)
		assert.ErrorIs(t, err, apperrors.ErrStateConflict)
		assert.True(t, inst.PaidAmount.IsZero(), "rejected amount must not be applied")
	})

	t.Run("paid installment rejected", func(t *testing.T) {
		inst := domain.Installment{InstallmentID: "i3", InstallmentAmount: dec("300"), PaidAmount: dec("300"), Status: domain.InstallmentPaid}
		err := inst.Apply(dec("1"), paidAt)
		var conflict *apperrors.StateConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "i3", conflict.ID)
	})
}
