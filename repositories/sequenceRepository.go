package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

const allocMaxRetries = 3

// SequenceRepository issues collision-free sequential document numbers,
// one counter row per (document kind, date scope). The increment runs in
// the caller's transaction: if the caller rolls back, the counter rolls
// back with it and no number is burned. A per-scope latch serializes
// concurrent allocations in-process; the upsert's row lock serializes
// them across processes.
type SequenceRepository struct {
	mu      sync.Mutex
	latches map[string]*sync.Mutex
}

func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{latches: make(map[string]*sync.Mutex)}
}

// NextAdmissionNumber formats A + YYYYMMDD + 3-digit counter.
func (r *SequenceRepository) NextAdmissionNumber(tx *gorm.DB, at time.Time) (string, error) {
	return r.next(tx, "A", at.Format("20060102"), "", 3)
}

// NextInvoiceNumber formats F + YYYYMMDD + 4-digit counter.
func (r *SequenceRepository) NextInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	return r.next(tx, "F", at.Format("20060102"), "", 4)
}

// NextPaymentNumber formats P + YYYYMMDD + 4-digit counter.
func (r *SequenceRepository) NextPaymentNumber(tx *gorm.DB, at time.Time) (string, error) {
	return r.next(tx, "P", at.Format("20060102"), "", 4)
}

// NextInsuranceInvoiceNumber formats INS-YYYYMM-<4-digit counter>,
// month-scoped.
func (r *SequenceRepository) NextInsuranceInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	return r.next(tx, "INS-", at.Format("200601"), "-", 4)
}

// NextTransactionNumber formats TRX-YYYYMMDD-<6-digit counter>. Accounting
// entries go through the same serialized counter as every other document
// instead of a wall-clock timestamp, which collides under concurrent
// payments.
func (r *SequenceRepository) NextTransactionNumber(tx *gorm.DB, at time.Time) (string, error) {
	return r.next(tx, "TRX-", at.Format("20060102"), "-", 6)
}

func (r *SequenceRepository) next(tx *gorm.DB, prefix, datePart, sep string, width int) (string, error) {
	scopeKey := prefix + datePart

	latch := r.latch(scopeKey)
	latch.Lock()
	defer latch.Unlock()

	var lastErr error
	for attempt := 0; attempt < allocMaxRetries; attempt++ {
		value, err := incrementCounter(tx, scopeKey)
		if err == nil {
			return fmt.Sprintf("%s%s%s%0*d", prefix, datePart, sep, width, value), nil
		}
		lastErr = err
	}
	return "", utils.NewAllocationError(
		fmt.Sprintf("could not allocate a number for scope %s", scopeKey), lastErr)
}

// incrementCounter bumps the scope's counter atomically. The upsert locks
// the counter row until the surrounding transaction commits, so two
// concurrent transactions on the same scope cannot read the same value.
func incrementCounter(tx *gorm.DB, scopeKey string) (int64, error) {
	err := tx.Exec(
		`INSERT INTO sequence_counter (scope_key, last_value) VALUES (?, 1)
		 ON CONFLICT (scope_key) DO UPDATE SET last_value = sequence_counter.last_value + 1`,
		scopeKey,
	).Error
	if err != nil {
		return 0, err
	}

	var value int64
	err = tx.Raw(`SELECT last_value FROM sequence_counter WHERE scope_key = ?`, scopeKey).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *SequenceRepository) latch(scopeKey string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	latch, ok := r.latches[scopeKey]
	if !ok {
		latch = &sync.Mutex{}
		r.latches[scopeKey] = latch
	}
	return latch
}
