package services

import (
	"context"
	"testing"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedPaidInsuredInvoice(t *testing.T, number string, admissionID uint, companyID string, covered float64) *models.Invoice {
	t.Helper()
	return e.seedInvoice(t, &models.Invoice{
		InvoiceNumber:         number,
		PatientID:             "PAT-1",
		AdmissionID:           admissionID,
		InsuranceCompanyID:    &companyID,
		TotalAmount:           covered + 2000,
		InsuranceCovered:      covered,
		PatientResponsibility: 2000,
		Status:                models.InvoicePaid,
	})
}

func batchPeriod() (time.Time, time.Time) {
	return testClock.AddDate(0, -1, 0), testClock
}

func TestGenerateBatch(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "CIE-1", "Assurance Sante Plus", 80)
	ctx := context.Background()

	a := env.seedPaidInsuredInvoice(t, "F202503100001", 1, "CIE-1", 8000)
	b := env.seedPaidInsuredInvoice(t, "F202503100002", 2, "CIE-1", 12000)

	start, end := batchPeriod()
	batch, err := env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", start, end, []uint{a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, "INS-202503-0001", batch.InvoiceNumber)
	assert.Equal(t, models.InsuranceInvoiceDraft, batch.Status)
	assert.Equal(t, 20000.0, batch.TotalAmount)
	assert.Equal(t, 2, batch.TotalInvoices)
	require.Len(t, batch.Items, 2)
}

func TestGenerateBatchSkipsIneligible(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "CIE-1", "Assurance Sante Plus", 80)
	env.seedCompany(t, "CIE-2", "Mutuelle Espoir", 50)
	ctx := context.Background()

	eligible := env.seedPaidInsuredInvoice(t, "F202503100001", 1, "CIE-1", 8000)

	// Unpaid, zero-coverage and foreign-payer invoices are dropped silently.
	unpaid := env.seedPaidInsuredInvoice(t, "F202503100002", 2, "CIE-1", 5000)
	require.NoError(t, env.db.Model(unpaid).Update("status", models.InvoicePending).Error)
	zero := env.seedPaidInsuredInvoice(t, "F202503100003", 3, "CIE-1", 0)
	foreign := env.seedPaidInsuredInvoice(t, "F202503100004", 4, "CIE-2", 4000)

	start, end := batchPeriod()
	batch, err := env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", start, end,
		[]uint{eligible.ID, unpaid.ID, zero.ID, foreign.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, batch.TotalInvoices)
	assert.Equal(t, 8000.0, batch.TotalAmount)
}

func TestGenerateBatchTwiceConflict(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "CIE-1", "Assurance Sante Plus", 80)
	ctx := context.Background()

	inv := env.seedPaidInsuredInvoice(t, "F202503100001", 1, "CIE-1", 8000)

	start, end := batchPeriod()
	_, err := env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", start, end, []uint{inv.ID})
	require.NoError(t, err)

	// The invoice is already referenced by a payer invoice item.
	_, err = env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", start, end, []uint{inv.ID})
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestGenerateBatchValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "CIE-1", "Assurance Sante Plus", 80)
	ctx := context.Background()
	start, end := batchPeriod()

	_, err := env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", start, end, nil)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", end, start, []uint{1})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = env.batch.GenerateBatch(ctx, "admin-1", "CIE-404", start, end, []uint{1})
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestListEligible(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "CIE-1", "Assurance Sante Plus", 80)
	ctx := context.Background()

	env.seedPaidInsuredInvoice(t, "F202503100001", 1, "CIE-1", 8000)
	old := env.seedPaidInsuredInvoice(t, "F202503100002", 2, "CIE-1", 5000)
	require.NoError(t, env.db.Model(old).
		Update("invoice_date", testClock.AddDate(0, -3, 0)).Error)

	start, end := batchPeriod()
	eligible, err := env.batch.ListEligible(ctx, "CIE-1", &start, &end)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, "F202503100001", eligible[0].InvoiceNumber)

	// Without bounds both show up.
	eligible, err = env.batch.ListEligible(ctx, "CIE-1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, eligible, 2)
}

func TestUpdateBatchStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedCompany(t, "CIE-1", "Assurance Sante Plus", 80)
	ctx := context.Background()

	inv := env.seedPaidInsuredInvoice(t, "F202503100001", 1, "CIE-1", 8000)
	start, end := batchPeriod()
	batch, err := env.batch.GenerateBatch(ctx, "admin-1", "CIE-1", start, end, []uint{inv.ID})
	require.NoError(t, err)

	require.NoError(t, env.batch.UpdateStatus(ctx, batch.ID, "SENT"))
	stored, err := env.batch.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InsuranceInvoiceSent, stored.Status)

	err = env.batch.UpdateStatus(ctx, batch.ID, "ARCHIVED")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	err = env.batch.UpdateStatus(ctx, 999, "PAID")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}
