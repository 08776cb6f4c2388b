package services

import (
	"context"
	"testing"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordExpense(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.ledger.RecordExpense(context.Background(), "admin-1", RecordExpenseRequest{
		Category:      "SUPPLIES",
		Amount:        12500,
		PaymentMethod: models.MethodCash,
		Description:   "gloves and syringes",
	})
	require.NoError(t, err)

	assert.Equal(t, "TRX-20250310-000001", entry.TransactionNumber)
	assert.Equal(t, models.TransactionExpense, entry.Type)
	assert.Equal(t, 12500.0, entry.Amount)
	assert.Equal(t, "admin-1", entry.CreatedBy)
}

func TestRecordExpenseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []RecordExpenseRequest{
		{Category: "SUPPLIES", Amount: 0, PaymentMethod: models.MethodCash},
		{Category: "", Amount: 100, PaymentMethod: models.MethodCash},
		{Category: "SUPPLIES", Amount: 100, PaymentMethod: "IOU"},
	}
	for _, req := range cases {
		_, err := env.ledger.RecordExpense(ctx, "admin-1", req)
		require.Error(t, err)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	}
}

func TestDailySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cash.Open(ctx, "cashier-1", 0, "")
	require.NoError(t, err)
	inv := env.seedInvoice(t, &models.Invoice{
		InvoiceNumber:         "F202503100001",
		PatientID:             "PAT-1",
		AdmissionID:           1,
		TotalAmount:           20000,
		PatientResponsibility: 20000,
	})
	_, err = env.payment.Record(ctx, "cashier-1", RecordPaymentRequest{
		InvoiceID: inv.ID, Amount: 15000, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)
	_, err = env.payment.Record(ctx, "cashier-1", RecordPaymentRequest{
		InvoiceID: inv.ID, Amount: 5000, PaymentMethod: models.MethodMobileMoney,
	})
	require.NoError(t, err)
	_, err = env.ledger.RecordExpense(ctx, "admin-1", RecordExpenseRequest{
		Category: "SUPPLIES", Amount: 3000, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)

	summary, err := env.ledger.SummarizeDay(ctx, testClock)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", summary.Date)
	assert.Equal(t, 20000.0, summary.TotalIncome)
	assert.Equal(t, 3000.0, summary.TotalExpense)
	assert.Equal(t, 17000.0, summary.Net)
	assert.Len(t, summary.ByMethod, 3)
}

func TestListByTypeRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.ListByType(context.Background(), "TRANSFER")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}
