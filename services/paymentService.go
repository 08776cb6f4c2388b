package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// RecordPaymentRequest is one payment against an invoice, taken at the
// cashier's open drawer.
type RecordPaymentRequest struct {
	InvoiceID     uint
	Amount        float64
	PaymentMethod string
	Reference     string
	Notes         string
}

// PaymentResult reports where the invoice stands after the payment.
type PaymentResult struct {
	PaymentNumber string               `json:"payment_number"`
	TotalPaid     float64              `json:"total_paid"`
	Remaining     float64              `json:"remaining"`
	NewStatus     models.InvoiceStatus `json:"new_status"`
}

// PaymentService records payments against the cashier's open session and
// posts the matching accounting entries.
type PaymentService struct {
	db         *gorm.DB
	payments   *repositories.PaymentRepository
	invoices   *repositories.InvoiceRepository
	sessions   *repositories.CashSessionRepository
	accounting *repositories.AccountingRepository
	sequences  *repositories.SequenceRepository
	now        func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	payments *repositories.PaymentRepository,
	invoices *repositories.InvoiceRepository,
	sessions *repositories.CashSessionRepository,
	accounting *repositories.AccountingRepository,
	sequences *repositories.SequenceRepository,
) *PaymentService {
	return &PaymentService{
		db:         db,
		payments:   payments,
		invoices:   invoices,
		sessions:   sessions,
		accounting: accounting,
		sequences:  sequences,
		now:        time.Now,
	}
}

// Record atomically inserts the payment, posts the INCOME entry and
// recomputes the invoice status. A missing or closed session, a negative
// amount or an overpayment all fail the whole operation.
func (s *PaymentService) Record(ctx context.Context, cashierID string, req RecordPaymentRequest) (*PaymentResult, error) {
	if req.Amount < 0 {
		return nil, utils.NewValidationError("amount must not be negative")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, utils.NewValidationError("invalid payment method %q", req.PaymentMethod)
	}

	at := s.now()
	var result *PaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.sessions.FindOpenByCashierTx(tx, cashierID)
		if err != nil {
			return err
		}
		if session == nil {
			return utils.NewConflictError("cashier %s has no open cash session", cashierID)
		}

		invoice, err := s.invoices.GetByIDTx(tx, req.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == models.InvoiceCancelled {
			return utils.NewConflictError("invoice %s is cancelled", invoice.InvoiceNumber)
		}

		paid, err := s.payments.TotalForInvoiceTx(tx, req.InvoiceID)
		if err != nil {
			return err
		}
		if utils.MoneyGreater(paid+req.Amount, invoice.PatientResponsibility) {
			return utils.NewConflictError(
				"payment of %.2f exceeds the remaining balance %.2f on invoice %s",
				req.Amount, invoice.PatientResponsibility-paid, invoice.InvoiceNumber)
		}

		paymentNumber, err := s.sequences.NextPaymentNumber(tx, at)
		if err != nil {
			return err
		}
		payment := &models.Payment{
			InvoiceID:     invoice.ID,
			CashSessionID: &session.ID,
			PaymentNumber: paymentNumber,
			PaymentDate:   at,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			Reference:     req.Reference,
			Notes:         req.Notes,
			ReceivedBy:    cashierID,
		}
		if err := s.payments.CreateTx(tx, payment); err != nil {
			return err
		}

		trxNumber, err := s.sequences.NextTransactionNumber(tx, at)
		if err != nil {
			return err
		}
		entry := &models.AccountingTransaction{
			TransactionNumber: trxNumber,
			TransactionDate:   at,
			Type:              models.TransactionIncome,
			Category:          models.CategoryPayment,
			Amount:            req.Amount,
			PaymentMethod:     req.PaymentMethod,
			ReferenceType:     "payment",
			ReferenceID:       payment.ID,
			Description:       fmt.Sprintf("Payment %s on invoice %s", paymentNumber, invoice.InvoiceNumber),
			CreatedBy:         cashierID,
		}
		if err := s.accounting.AppendTx(tx, entry); err != nil {
			return err
		}

		totalPaid := utils.RoundMoney(paid + req.Amount)
		newStatus := models.RecomputeInvoiceStatus(invoice.Status, totalPaid, invoice.PatientResponsibility)
		if newStatus != invoice.Status {
			invoice.Status = newStatus
			if err := s.invoices.UpdateStatusTx(tx, invoice); err != nil {
				return err
			}
		}

		result = &PaymentResult{
			PaymentNumber: paymentNumber,
			TotalPaid:     totalPaid,
			Remaining:     utils.RoundMoney(invoice.PatientResponsibility - totalPaid),
			NewStatus:     newStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invoices.InvalidateCache(ctx, req.InvoiceID)
	return result, nil
}

func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	return s.payments.ListByInvoice(ctx, invoiceID)
}

func (s *PaymentService) ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error) {
	return s.payments.ListBySession(ctx, sessionID)
}
