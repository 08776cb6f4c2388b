package repositories

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seqTestDBCounter int64

func newSequenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sequence_test_%d?mode=memory&cache=shared",
		atomic.AddInt64(&seqTestDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.SequenceCounter{}))
	return db
}

func TestSequenceFormats(t *testing.T) {
	db := newSequenceTestDB(t)
	repo := NewSequenceRepository()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		next func(tx *gorm.DB) (string, error)
		want string
	}{
		{"admission", func(tx *gorm.DB) (string, error) { return repo.NextAdmissionNumber(tx, at) }, "A20250310001"},
		{"invoice", func(tx *gorm.DB) (string, error) { return repo.NextInvoiceNumber(tx, at) }, "F202503100001"},
		{"payment", func(tx *gorm.DB) (string, error) { return repo.NextPaymentNumber(tx, at) }, "P202503100001"},
		{"insurance", func(tx *gorm.DB) (string, error) { return repo.NextInsuranceInvoiceNumber(tx, at) }, "INS-202503-0001"},
		{"transaction", func(tx *gorm.DB) (string, error) { return repo.NextTransactionNumber(tx, at) }, "TRX-20250310-000001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := db.Transaction(func(tx *gorm.DB) error {
				got, err := tc.next(tx)
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestSequenceCountsPerScope(t *testing.T) {
	db := newSequenceTestDB(t)
	repo := NewSequenceRepository()
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	var got []string
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, at := range []time.Time{day1, day1, day2} {
			n, err := repo.NextAdmissionNumber(tx, at)
			if err != nil {
				return err
			}
			got = append(got, n)
		}
		// Another document kind keeps its own counter.
		n, err := repo.NextInvoiceNumber(tx, day1)
		if err != nil {
			return err
		}
		got = append(got, n)
		return nil
	})
	require.NoError(t, err)

	// Day scopes are independent, and the invoice counter starts fresh.
	assert.Equal(t, []string{"A20250310001", "A20250310002", "A20250311001", "F202503100001"}, got)
}

func TestSequenceRollbackBurnsNoNumber(t *testing.T) {
	db := newSequenceTestDB(t)
	repo := NewSequenceRepository()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	errBoom := fmt.Errorf("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := repo.NextAdmissionNumber(tx, at)
		require.NoError(t, err)
		assert.Equal(t, "A20250310001", n)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	// The counter rolled back with the transaction, so the same number is
	// reissued.
	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := repo.NextAdmissionNumber(tx, at)
		require.NoError(t, err)
		assert.Equal(t, "A20250310001", n)
		return nil
	})
	require.NoError(t, err)
}

func TestSequenceConcurrentAllocationsAreUnique(t *testing.T) {
	db := newSequenceTestDB(t)
	repo := NewSequenceRepository()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	const n = 100
	var (
		mu      sync.Mutex
		numbers = make(map[string]struct{}, n)
		wg      sync.WaitGroup
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				number, err := repo.NextAdmissionNumber(tx, at)
				if err != nil {
					return err
				}
				mu.Lock()
				numbers[number] = struct{}{}
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, n)
	assert.Contains(t, numbers, "A20250310001")
	assert.Contains(t, numbers, "A20250310100")
}
