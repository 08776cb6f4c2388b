package models

import (
	"time"

	"github.com/lebossseur/masterClinique-sub001/utils"
)

// SessionStatus: a cash session is OPEN exactly once, then CLOSED forever.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// PaymentMethod values accepted at the desk.
const (
	MethodCash        = "CASH"
	MethodMobileMoney = "MOBILE_MONEY"
	MethodCard        = "CARD"
	MethodBank        = "BANK"
)

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCash, MethodMobileMoney, MethodCard, MethodBank:
		return true
	}
	return false
}

// CashSession model. At most one OPEN session per cashier at any time.
type CashSession struct {
	ID             uint          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CashierID      string        `gorm:"column:cashier_id;not null;index" json:"cashier_id"`
	Status         SessionStatus `gorm:"column:status;check:status IN ('OPEN', 'CLOSED');not null;index" json:"status"`
	OpeningAmount  float64       `gorm:"column:opening_amount;not null" json:"opening_amount"`
	OpeningTime    time.Time     `gorm:"column:opening_time;not null" json:"opening_time"`
	ClosingAmount  *float64      `gorm:"column:closing_amount" json:"closing_amount"`
	ExpectedAmount *float64      `gorm:"column:expected_amount" json:"expected_amount"`
	Difference     *float64      `gorm:"column:difference" json:"difference"`
	ClosingTime    *time.Time    `gorm:"column:closing_time" json:"closing_time"`
	Notes          string        `gorm:"column:notes" json:"notes"`
	Payments       []Payment     `gorm:"foreignKey:CashSessionID;references:ID" json:"-"`
}

func (CashSession) TableName() string {
	return "cash_session"
}

// CloseWith records the drawer count against the expected amount and flips
// the session to CLOSED. Closing an already closed session is a conflict.
func (s *CashSession) CloseWith(closingAmount, expectedAmount float64, at time.Time, notes string) error {
	if s.Status == SessionClosed {
		return utils.NewConflictError("cash session %d is already closed", s.ID)
	}
	difference := utils.RoundMoney(closingAmount - expectedAmount)
	s.ClosingAmount = &closingAmount
	s.ExpectedAmount = &expectedAmount
	s.Difference = &difference
	s.ClosingTime = &at
	if notes != "" {
		if s.Notes != "" {
			s.Notes += "\n"
		}
		s.Notes += notes
	}
	s.Status = SessionClosed
	return nil
}

// Payment model. Immutable once created. CashSessionID is nullable only
// for control auto-payments recorded when no session is open.
type Payment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceID     uint      `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	CashSessionID *uint     `gorm:"column:cash_session_id;index" json:"cash_session_id"`
	PaymentNumber string    `gorm:"column:payment_number;unique;not null" json:"payment_number"`
	PaymentDate   time.Time `gorm:"column:payment_date;not null;index" json:"payment_date"`
	Amount        float64   `gorm:"column:amount;not null" json:"amount"`
	PaymentMethod string    `gorm:"column:payment_method;not null" json:"payment_method"`
	Reference     string    `gorm:"column:reference" json:"reference"`
	Notes         string    `gorm:"column:notes" json:"notes"`
	ReceivedBy    string    `gorm:"column:received_by" json:"received_by"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payment"
}

// Accounting transaction types and categories.
const (
	TransactionIncome  = "INCOME"
	TransactionExpense = "EXPENSE"

	CategoryPayment = "PAYMENT"
)

// AccountingTransaction is an append-only ledger row. Rows are never
// updated or deleted.
type AccountingTransaction struct {
	ID                uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	TransactionNumber string    `gorm:"column:transaction_number;unique;not null" json:"transaction_number"`
	TransactionDate   time.Time `gorm:"column:transaction_date;not null;index" json:"transaction_date"`
	Type              string    `gorm:"column:type;check:type IN ('INCOME', 'EXPENSE');not null;index" json:"type"`
	Category          string    `gorm:"column:category;not null" json:"category"`
	Amount            float64   `gorm:"column:amount;not null" json:"amount"`
	PaymentMethod     string    `gorm:"column:payment_method" json:"payment_method"`
	ReferenceType     string    `gorm:"column:reference_type" json:"reference_type"`
	ReferenceID       uint      `gorm:"column:reference_id" json:"reference_id"`
	Description       string    `gorm:"column:description" json:"description"`
	CreatedBy         string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AccountingTransaction) TableName() string {
	return "accounting_transaction"
}
