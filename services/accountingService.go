package services

import (
	"context"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// RecordExpenseRequest posts an EXPENSE row to the accounting ledger.
type RecordExpenseRequest struct {
	Category      string
	Amount        float64
	PaymentMethod string
	Description   string
}

// DailySummary reports a day's ledger totals by payment method.
type DailySummary struct {
	Date         string                     `json:"date"`
	TotalIncome  float64                    `json:"total_income"`
	TotalExpense float64                    `json:"total_expense"`
	Net          float64                    `json:"net"`
	ByMethod     []repositories.MethodTotal `json:"by_method"`
}

// AccountingService exposes the ledger: expense recording and read
// surfaces. Income rows are posted by PaymentService only.
type AccountingService struct {
	db         *gorm.DB
	accounting *repositories.AccountingRepository
	sequences  *repositories.SequenceRepository
	now        func() time.Time
}

func NewAccountingService(
	db *gorm.DB,
	accounting *repositories.AccountingRepository,
	sequences *repositories.SequenceRepository,
) *AccountingService {
	return &AccountingService{
		db:         db,
		accounting: accounting,
		sequences:  sequences,
		now:        time.Now,
	}
}

// RecordExpense appends an EXPENSE entry with an allocator-issued number.
func (s *AccountingService) RecordExpense(ctx context.Context, createdBy string, req RecordExpenseRequest) (*models.AccountingTransaction, error) {
	if req.Amount <= 0 {
		return nil, utils.NewValidationError("expense amount must be positive")
	}
	if req.Category == "" {
		return nil, utils.NewValidationError("expense category is required")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, utils.NewValidationError("invalid payment method %q", req.PaymentMethod)
	}

	at := s.now()
	var entry *models.AccountingTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.sequences.NextTransactionNumber(tx, at)
		if err != nil {
			return err
		}
		entry = &models.AccountingTransaction{
			TransactionNumber: number,
			TransactionDate:   at,
			Type:              models.TransactionExpense,
			Category:          req.Category,
			Amount:            req.Amount,
			PaymentMethod:     req.PaymentMethod,
			Description:       req.Description,
			CreatedBy:         createdBy,
		}
		return s.accounting.AppendTx(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *AccountingService) ListByDay(ctx context.Context, day time.Time) ([]models.AccountingTransaction, error) {
	return s.accounting.ListByDay(ctx, day)
}

func (s *AccountingService) ListByType(ctx context.Context, txType string) ([]models.AccountingTransaction, error) {
	if txType != models.TransactionIncome && txType != models.TransactionExpense {
		return nil, utils.NewValidationError("invalid transaction type %q", txType)
	}
	return s.accounting.ListByType(ctx, txType)
}

// SummarizeDay folds the day's ledger into income/expense totals.
func (s *AccountingService) SummarizeDay(ctx context.Context, day time.Time) (*DailySummary, error) {
	totals, err := s.accounting.SummarizeDay(ctx, day)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:     day.Format("2006-01-02"),
		ByMethod: totals,
	}
	for _, t := range totals {
		switch t.Type {
		case models.TransactionIncome:
			summary.TotalIncome += t.Total
		case models.TransactionExpense:
			summary.TotalExpense += t.Total
		}
	}
	summary.TotalIncome = utils.RoundMoney(summary.TotalIncome)
	summary.TotalExpense = utils.RoundMoney(summary.TotalExpense)
	summary.Net = utils.RoundMoney(summary.TotalIncome - summary.TotalExpense)
	return summary, nil
}
