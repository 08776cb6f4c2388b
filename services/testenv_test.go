package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lebossseur/masterClinique-sub001/database"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDBCounter int64
	admissionSeq  int64
)

// testClock is the frozen "now" every service under test runs at.
var testClock = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// testEnv wires the full service graph over an in-memory sqlite database.
// Every service's clock is pinned to testClock.
type testEnv struct {
	db *gorm.DB

	sequences  *repositories.SequenceRepository
	admissions *repositories.AdmissionRepository
	invoices   *repositories.InvoiceRepository
	payments   *repositories.PaymentRepository
	sessions   *repositories.CashSessionRepository
	accounting *repositories.AccountingRepository
	batches    *repositories.InsuranceInvoiceRepository
	catalog    *repositories.CatalogRepository

	coverage  *CoverageService
	admission *AdmissionService
	invoice   *InvoiceService
	payment   *PaymentService
	cash      *CashSessionService
	batch     *InsuranceBatchService
	ledger    *AccountingService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps concurrent transactions serialized, which
	// is what the row-locked counter guarantees on PostgreSQL.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, models.SeedServices(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:         db,
		sequences:  repositories.NewSequenceRepository(),
		admissions: repositories.NewAdmissionRepository(db),
		invoices:   repositories.NewInvoiceRepository(db, nil),
		payments:   repositories.NewPaymentRepository(db),
		sessions:   repositories.NewCashSessionRepository(db),
		accounting: repositories.NewAccountingRepository(db),
		batches:    repositories.NewInsuranceInvoiceRepository(db),
		catalog:    repositories.NewCatalogRepository(db, nil),
	}

	env.coverage = NewCoverageService(env.catalog, env.admissions)
	env.admission = NewAdmissionService(db, env.admissions, env.catalog, env.coverage, env.sequences)
	env.invoice = NewInvoiceService(db, env.invoices, env.admissions, env.payments, env.sessions, env.sequences)
	env.payment = NewPaymentService(db, env.payments, env.invoices, env.sessions, env.accounting, env.sequences)
	env.cash = NewCashSessionService(db, env.sessions, env.payments, database.NewLocalLockManager())
	env.batch = NewInsuranceBatchService(db, env.invoices, env.batches, env.catalog, env.sequences)
	env.ledger = NewAccountingService(db, env.accounting, env.sequences)

	now := func() time.Time { return testClock }
	env.admission.now = now
	env.invoice.now = now
	env.payment.now = now
	env.cash.now = now
	env.batch.now = now
	env.ledger.now = now

	return env
}

func (e *testEnv) seedPatient(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Patient{
		ID:        id,
		FirstName: "Awa",
		LastName:  "Diallo",
	}).Error)
}

func (e *testEnv) seedCompany(t *testing.T, id, name string, defaultCoverage float64) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.InsuranceCompany{
		ID:              id,
		Name:            name,
		DefaultCoverage: defaultCoverage,
	}).Error)
}

// seedInvoice inserts an invoice row directly, bypassing the admission
// pipeline, for tests that only exercise downstream behavior.
func (e *testEnv) seedInvoice(t *testing.T, inv *models.Invoice) *models.Invoice {
	t.Helper()
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = testClock
	}
	if inv.Status == "" {
		inv.Status = models.InvoicePending
	}
	if inv.InvoiceType == "" {
		inv.InvoiceType = models.InvoiceTypeTicket
	}
	require.NoError(t, e.db.Create(inv).Error)
	return inv
}

// seedBilledAdmission inserts a prior, already billed admission with one
// service line, as the control-window detector expects to find it.
func (e *testEnv) seedBilledAdmission(t *testing.T, patientID, serviceCode string, at time.Time) *models.Admission {
	t.Helper()
	adm := &models.Admission{
		AdmissionNumber: fmt.Sprintf("A%s%03d", at.Format("20060102"), atomic.AddInt64(&admissionSeq, 1)),
		PatientID:       patientID,
		HasInsurance:    false,
		BasePrice:       10000,
		PatientAmount:   10000,
		Status:          models.AdmissionBilled,
		AdmissionDate:   at,
		ServiceLines: []models.AdmissionServiceLine{{
			ServiceCode: serviceCode,
			ServiceName: serviceCode,
			BasePrice:   10000,
			PatientPays: 10000,
		}},
	}
	require.NoError(t, e.db.Create(adm).Error)
	return adm
}
