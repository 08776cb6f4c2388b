package services

import (
	"context"
	"testing"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSession(t *testing.T) {
	env := newTestEnv(t)

	session, err := env.cash.Open(context.Background(), "cashier-1", 10000, "morning shift")
	require.NoError(t, err)
	assert.Equal(t, models.SessionOpen, session.Status)
	assert.Equal(t, 10000.0, session.OpeningAmount)
	assert.Equal(t, testClock, session.OpeningTime)

	current, err := env.cash.Current(context.Background(), "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
}

func TestOpenSecondSessionConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cash.Open(ctx, "cashier-1", 10000, "")
	require.NoError(t, err)

	_, err = env.cash.Open(ctx, "cashier-1", 5000, "")
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	// A different cashier is unaffected.
	_, err = env.cash.Open(ctx, "cashier-2", 5000, "")
	require.NoError(t, err)
}

func TestCloseSessionReconciliation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.cash.Open(ctx, "cashier-1", 10000, "")
	require.NoError(t, err)

	inv := env.seedInvoice(t, &models.Invoice{
		InvoiceNumber:         "F202503100001",
		PatientID:             "PAT-1",
		AdmissionID:           1,
		TotalAmount:           25000,
		PatientResponsibility: 25000,
	})
	_, err = env.payment.Record(ctx, "cashier-1", RecordPaymentRequest{
		InvoiceID: inv.ID, Amount: 15000, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)
	_, err = env.payment.Record(ctx, "cashier-1", RecordPaymentRequest{
		InvoiceID: inv.ID, Amount: 10000, PaymentMethod: models.MethodCash,
	})
	require.NoError(t, err)

	closed, err := env.cash.Close(ctx, session.ID, "cashier-1", 35500, "surplus in drawer")
	require.NoError(t, err)
	assert.Equal(t, models.SessionClosed, closed.Status)
	require.NotNil(t, closed.ExpectedAmount)
	assert.Equal(t, 35000.0, *closed.ExpectedAmount)
	require.NotNil(t, closed.Difference)
	assert.Equal(t, 500.0, *closed.Difference)
	require.NotNil(t, closed.ClosingTime)
	assert.Contains(t, closed.Notes, "surplus in drawer")
}

func TestCloseSessionTwiceConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.cash.Open(ctx, "cashier-1", 10000, "")
	require.NoError(t, err)

	_, err = env.cash.Close(ctx, session.ID, "cashier-1", 10000, "")
	require.NoError(t, err)

	_, err = env.cash.Close(ctx, session.ID, "cashier-1", 10000, "")
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestCloseSessionWrongCashier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session, err := env.cash.Open(ctx, "cashier-1", 10000, "")
	require.NoError(t, err)

	_, err = env.cash.Close(ctx, session.ID, "cashier-2", 10000, "")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestCurrentSessionNone(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.cash.Current(context.Background(), "cashier-1")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestReopenAfterClose(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.cash.Open(ctx, "cashier-1", 10000, "")
	require.NoError(t, err)
	_, err = env.cash.Close(ctx, first.ID, "cashier-1", 10000, "")
	require.NoError(t, err)

	second, err := env.cash.Open(ctx, "cashier-1", 2000, "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	history, err := env.cash.History(ctx, "cashier-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
