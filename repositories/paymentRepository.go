package repositories

import (
	"context"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// PaymentRepository owns the append-only payment ledger.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateTx appends a payment in the caller's transaction. Payments are
// never updated or deleted afterwards.
func (r *PaymentRepository) CreateTx(tx *gorm.DB, payment *models.Payment) error {
	if err := tx.Create(payment).Error; err != nil {
		return utils.NewPersistenceError("failed to create payment", err)
	}
	return nil
}

// TotalForInvoiceTx sums payments already recorded against an invoice.
// Runs in the payment transaction so the overpayment check and the insert
// see the same ledger state.
func (r *PaymentRepository) TotalForInvoiceTx(tx *gorm.DB, invoiceID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.Payment{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, utils.NewPersistenceError("failed to sum invoice payments", err)
	}
	return total, nil
}

// TotalForSessionTx sums payments tied to one cash session; used at close
// to compute the expected drawer amount.
func (r *PaymentRepository) TotalForSessionTx(tx *gorm.DB, sessionID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.Payment{}).
		Where("cash_session_id = ?", sessionID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, utils.NewPersistenceError("failed to sum session payments", err)
	}
	return total, nil
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list payments", err)
	}
	return payments, nil
}

func (r *PaymentRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ?", sessionID).
		Order("payment_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list payments", err)
	}
	return payments, nil
}

// AccountingRepository owns the append-only accounting ledger.
type AccountingRepository struct {
	db *gorm.DB
}

func NewAccountingRepository(db *gorm.DB) *AccountingRepository {
	return &AccountingRepository{db: db}
}

// AppendTx writes one ledger row in the caller's transaction. The ledger
// has no update or delete path.
func (r *AccountingRepository) AppendTx(tx *gorm.DB, entry *models.AccountingTransaction) error {
	if err := tx.Create(entry).Error; err != nil {
		return utils.NewPersistenceError("failed to append accounting transaction", err)
	}
	return nil
}

// ListByDay returns the ledger rows of one calendar day.
func (r *AccountingRepository) ListByDay(ctx context.Context, day time.Time) ([]models.AccountingTransaction, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var entries []models.AccountingTransaction
	err := r.db.WithContext(ctx).
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Order("transaction_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list accounting transactions", err)
	}
	return entries, nil
}

func (r *AccountingRepository) ListByType(ctx context.Context, txType string) ([]models.AccountingTransaction, error) {
	var entries []models.AccountingTransaction
	err := r.db.WithContext(ctx).
		Where("type = ?", txType).
		Order("transaction_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list accounting transactions", err)
	}
	return entries, nil
}

// MethodTotal is one row of the daily cash summary.
type MethodTotal struct {
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
}

// SummarizeDay aggregates the day's ledger by type and payment method.
func (r *AccountingRepository) SummarizeDay(ctx context.Context, day time.Time) ([]MethodTotal, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var totals []MethodTotal
	err := r.db.WithContext(ctx).Model(&models.AccountingTransaction{}).
		Select("type, payment_method, SUM(amount) AS total").
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Group("type, payment_method").
		Scan(&totals).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to summarize accounting transactions", err)
	}
	return totals, nil
}
