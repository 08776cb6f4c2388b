package services

import (
	"context"
	"testing"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdmissionLegacy(t *testing.T) {
	env := newTestEnv(t)
	env.seedPatient(t, "PAT-1")

	adm, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID:        "PAT-1",
		ConsultationType: "GENERALE",
		Pricing:          PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
		VitalSigns: &VitalSignsInput{
			Temperature:   37.2,
			BloodPressure: "12/8",
			Pulse:         72,
			Weight:        68,
		},
		CreatedBy: "reception-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "A20250310001", adm.AdmissionNumber)
	assert.Equal(t, models.AdmissionWaitingBilling, adm.Status)
	assert.Equal(t, 10000.0, adm.BasePrice)
	assert.Equal(t, 10000.0, adm.PatientAmount)

	stored, err := env.admission.GetByID(context.Background(), adm.ID)
	require.NoError(t, err)
	require.Len(t, stored.ServiceLines, 1)
	require.NotNil(t, stored.VitalSigns)
	assert.Equal(t, 37.2, stored.VitalSigns.Temperature)
}

func TestCreateAdmissionNumbersAreSequentialPerDay(t *testing.T) {
	env := newTestEnv(t)
	env.seedPatient(t, "PAT-1")

	for i, want := range []string{"A20250310001", "A20250310002", "A20250310003"} {
		adm, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
			PatientID: "PAT-1",
			Pricing:   PricingRequest{Legacy: &LegacySingleService{ServiceCode: "SOIN-PANST"}},
			CreatedBy: "reception-1",
		})
		require.NoError(t, err, "admission %d", i)
		assert.Equal(t, want, adm.AdmissionNumber)
	}
}

func TestCreateAdmissionUnknownPatient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID: "PAT-404",
		Pricing:   PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestCreateAdmissionInsuredNeedsCompany(t *testing.T) {
	env := newTestEnv(t)
	env.seedPatient(t, "PAT-1")

	_, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID:    "PAT-1",
		HasInsurance: true,
		Pricing:      PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	unknown := "CIE-404"
	_, err = env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID:          "PAT-1",
		HasInsurance:       true,
		InsuranceCompanyID: &unknown,
		Pricing:            PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestCancelAdmission(t *testing.T) {
	env := newTestEnv(t)
	env.seedPatient(t, "PAT-1")

	adm, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID: "PAT-1",
		Pricing:   PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.NoError(t, err)

	cancelled, err := env.admission.Cancel(context.Background(), adm.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionCancelled, cancelled.Status)

	// A second cancel is a conflict.
	_, err = env.admission.Cancel(context.Background(), adm.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestCancelBilledAdmissionRefused(t *testing.T) {
	env := newTestEnv(t)
	env.seedPatient(t, "PAT-1")

	adm, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID: "PAT-1",
		Pricing:   PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.NoError(t, err)
	_, err = env.invoice.Create(context.Background(), adm.ID, models.InvoiceTypeTicket, "cashier-1")
	require.NoError(t, err)

	_, err = env.admission.Cancel(context.Background(), adm.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestCancelledVisitDoesNotAnchorControl(t *testing.T) {
	env := newTestEnv(t)
	env.seedPatient(t, "PAT-1")

	adm, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID: "PAT-1",
		Pricing:   PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.NoError(t, err)
	_, err = env.admission.Cancel(context.Background(), adm.ID)
	require.NoError(t, err)

	revisit, err := env.admission.Create(context.Background(), CreateAdmissionRequest{
		PatientID: "PAT-1",
		Pricing:   PricingRequest{Legacy: &LegacySingleService{ServiceCode: "CONS-GEN"}},
	})
	require.NoError(t, err)
	assert.False(t, revisit.IsControl)
	assert.Equal(t, 10000.0, revisit.PatientAmount)
}
