package services

import (
	"context"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// InvoiceService materializes invoices from admissions.
type InvoiceService struct {
	db         *gorm.DB
	invoices   *repositories.InvoiceRepository
	admissions *repositories.AdmissionRepository
	payments   *repositories.PaymentRepository
	sessions   *repositories.CashSessionRepository
	sequences  *repositories.SequenceRepository
	now        func() time.Time
}

func NewInvoiceService(
	db *gorm.DB,
	invoices *repositories.InvoiceRepository,
	admissions *repositories.AdmissionRepository,
	payments *repositories.PaymentRepository,
	sessions *repositories.CashSessionRepository,
	sequences *repositories.SequenceRepository,
) *InvoiceService {
	return &InvoiceService{
		db:         db,
		invoices:   invoices,
		admissions: admissions,
		payments:   payments,
		sessions:   sessions,
		sequences:  sequences,
		now:        time.Now,
	}
}

// Create turns an admission into an invoice. The invoice, its items, the
// admission's BILLED flip and — for free controls — a zero auto-payment
// commit together or not at all.
func (s *InvoiceService) Create(ctx context.Context, admissionID uint, invoiceType models.InvoiceType, createdBy string) (*models.Invoice, error) {
	if invoiceType != models.InvoiceTypeTicket && invoiceType != models.InvoiceTypeA4 {
		return nil, utils.NewValidationError("invalid invoice type %q", invoiceType)
	}

	at := s.now()
	var invoice *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admission, err := s.admissions.GetByIDTx(tx, admissionID)
		if err != nil {
			return err
		}
		if admission.Status == models.AdmissionCancelled {
			return utils.NewConflictError("admission %s is cancelled", admission.AdmissionNumber)
		}

		billed, err := s.invoices.ExistsForAdmissionTx(tx, admissionID)
		if err != nil {
			return err
		}
		if billed {
			return utils.NewConflictError("admission %s is already billed", admission.AdmissionNumber)
		}

		number, err := s.sequences.NextInvoiceNumber(tx, at)
		if err != nil {
			return err
		}

		status := models.InvoicePending
		if admission.IsControl {
			status = models.InvoiceControle
		}

		items := make([]models.InvoiceItem, 0, len(admission.ServiceLines))
		for _, line := range admission.ServiceLines {
			items = append(items, models.InvoiceItem{
				Description: line.ServiceName,
				Quantity:    1,
				UnitPrice:   line.PatientPays,
				TotalPrice:  line.PatientPays,
			})
		}

		invoice = &models.Invoice{
			InvoiceNumber:         number,
			PatientID:             admission.PatientID,
			AdmissionID:           admission.ID,
			InsuranceCompanyID:    admission.InsuranceCompanyID,
			InvoiceDate:           at,
			InvoiceType:           invoiceType,
			TotalAmount:           admission.BasePrice,
			InsuranceCovered:      admission.InsuranceAmount,
			PatientResponsibility: admission.PatientAmount,
			Status:                status,
			CreatedBy:             createdBy,
			Items:                 items,
		}
		if err := s.invoices.CreateTx(tx, invoice); err != nil {
			return err
		}

		// A control invoice settles itself with a zero payment, tied to
		// the creator's open session if one exists.
		if admission.IsControl {
			if err := s.recordControlPayment(tx, invoice, createdBy, at); err != nil {
				return err
			}
		}

		if err := admission.MarkBilled(); err != nil {
			return err
		}
		return s.admissions.UpdateStatusTx(tx, admission)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) recordControlPayment(tx *gorm.DB, invoice *models.Invoice, createdBy string, at time.Time) error {
	number, err := s.sequences.NextPaymentNumber(tx, at)
	if err != nil {
		return err
	}

	var sessionID *uint
	session, err := s.sessions.FindOpenByCashierTx(tx, createdBy)
	if err != nil {
		return err
	}
	if session != nil {
		sessionID = &session.ID
	}

	return s.payments.CreateTx(tx, &models.Payment{
		InvoiceID:     invoice.ID,
		CashSessionID: sessionID,
		PaymentNumber: number,
		PaymentDate:   at,
		Amount:        0,
		PaymentMethod: models.MethodCash,
		Notes:         "free control",
		ReceivedBy:    createdBy,
	})
}

// RecomputeStatus re-derives an invoice's status from its payment total
// and persists it when it changed.
func (s *InvoiceService) RecomputeStatus(ctx context.Context, invoiceID uint) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = s.invoices.GetByIDTx(tx, invoiceID)
		if err != nil {
			return err
		}
		paid, err := s.payments.TotalForInvoiceTx(tx, invoiceID)
		if err != nil {
			return err
		}
		status := models.RecomputeInvoiceStatus(invoice.Status, paid, invoice.PatientResponsibility)
		if status == invoice.Status {
			return nil
		}
		invoice.Status = status
		return s.invoices.UpdateStatusTx(tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	s.invoices.InvalidateCache(ctx, invoiceID)
	return invoice, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *InvoiceService) ListByPatient(ctx context.Context, patientID string) ([]models.Invoice, error) {
	return s.invoices.ListByPatient(ctx, patientID)
}

func (s *InvoiceService) ListByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	return s.invoices.ListByStatus(ctx, status)
}
