package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashSessionCloseWith(t *testing.T) {
	at := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	s := &CashSession{ID: 1, Status: SessionOpen, OpeningAmount: 10000, Notes: "morning shift"}

	require.NoError(t, s.CloseWith(35500, 35000, at, "surplus in drawer"))

	assert.Equal(t, SessionClosed, s.Status)
	require.NotNil(t, s.ClosingAmount)
	assert.Equal(t, 35500.0, *s.ClosingAmount)
	require.NotNil(t, s.ExpectedAmount)
	assert.Equal(t, 35000.0, *s.ExpectedAmount)
	require.NotNil(t, s.Difference)
	assert.Equal(t, 500.0, *s.Difference)
	require.NotNil(t, s.ClosingTime)
	assert.Equal(t, at, *s.ClosingTime)
	assert.Equal(t, "morning shift\nsurplus in drawer", s.Notes)

	// Closing twice is a conflict.
	assert.Error(t, s.CloseWith(35500, 35000, at, ""))
}

func TestCashSessionCloseShortage(t *testing.T) {
	s := &CashSession{ID: 2, Status: SessionOpen, OpeningAmount: 5000}
	require.NoError(t, s.CloseWith(19000, 20000, time.Now(), ""))
	require.NotNil(t, s.Difference)
	assert.Equal(t, -1000.0, *s.Difference)
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{MethodCash, MethodMobileMoney, MethodCard, MethodBank} {
		assert.True(t, ValidPaymentMethod(m))
	}
	assert.False(t, ValidPaymentMethod("CHEQUE"))
	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("cash"))
}

func TestParseInsuranceInvoiceStatus(t *testing.T) {
	for _, s := range []string{"DRAFT", "SENT", "PAID", "PARTIAL"} {
		got, err := ParseInsuranceInvoiceStatus(s)
		require.NoError(t, err)
		assert.Equal(t, InsuranceInvoiceStatus(s), got)
	}
	_, err := ParseInsuranceInvoiceStatus("ARCHIVED")
	assert.Error(t, err)
}
