package services

import (
	"context"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// InsuranceBatchService aggregates paid, insurance-covered patient
// invoices into payer invoices.
type InsuranceBatchService struct {
	db        *gorm.DB
	invoices  *repositories.InvoiceRepository
	batches   *repositories.InsuranceInvoiceRepository
	catalog   *repositories.CatalogRepository
	sequences *repositories.SequenceRepository
	now       func() time.Time
}

func NewInsuranceBatchService(
	db *gorm.DB,
	invoices *repositories.InvoiceRepository,
	batches *repositories.InsuranceInvoiceRepository,
	catalog *repositories.CatalogRepository,
	sequences *repositories.SequenceRepository,
) *InsuranceBatchService {
	return &InsuranceBatchService{
		db:        db,
		invoices:  invoices,
		batches:   batches,
		catalog:   catalog,
		sequences: sequences,
		now:       time.Now,
	}
}

// ListEligible returns the payer's invoices that can still be batched.
func (s *InsuranceBatchService) ListEligible(ctx context.Context, companyID string, periodStart, periodEnd *time.Time) ([]models.Invoice, error) {
	if _, err := s.catalog.GetInsuranceCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.invoices.ListEligibleForBatch(ctx, companyID, periodStart, periodEnd)
}

// GenerateBatch creates a DRAFT payer invoice over the selected patient
// invoices. The selection is re-validated server-side inside the
// transaction: anything already batched, unpaid or foreign to the payer is
// silently dropped, and an empty remainder fails the whole operation.
func (s *InsuranceBatchService) GenerateBatch(ctx context.Context, createdBy, companyID string, periodStart, periodEnd time.Time, invoiceIDs []uint) (*models.InsuranceInvoice, error) {
	if len(invoiceIDs) == 0 {
		return nil, utils.NewValidationError("at least one invoice must be selected")
	}
	if periodEnd.Before(periodStart) {
		return nil, utils.NewValidationError("period end precedes period start")
	}
	if _, err := s.catalog.GetInsuranceCompany(ctx, companyID); err != nil {
		return nil, err
	}

	at := s.now()
	var batch *models.InsuranceInvoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eligible, err := s.invoices.FilterEligibleTx(tx, companyID, &periodStart, &periodEnd, invoiceIDs)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return utils.NewConflictError("none of the selected invoices are eligible for batching")
		}

		number, err := s.sequences.NextInsuranceInvoiceNumber(tx, at)
		if err != nil {
			return err
		}

		total := 0.0
		items := make([]models.InsuranceInvoiceItem, 0, len(eligible))
		for _, inv := range eligible {
			total += inv.InsuranceCovered
			items = append(items, models.InsuranceInvoiceItem{
				PatientInvoiceID: inv.ID,
				Amount:           inv.InsuranceCovered,
			})
		}

		batch = &models.InsuranceInvoice{
			InvoiceNumber:      number,
			InsuranceCompanyID: companyID,
			PeriodStart:        periodStart,
			PeriodEnd:          periodEnd,
			TotalAmount:        utils.RoundMoney(total),
			TotalInvoices:      len(eligible),
			Status:             models.InsuranceInvoiceDraft,
			CreatedBy:          createdBy,
			Items:              items,
		}
		return s.batches.CreateTx(tx, batch)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// UpdateStatus moves a payer invoice along DRAFT -> SENT -> {PAID, PARTIAL}.
func (s *InsuranceBatchService) UpdateStatus(ctx context.Context, id uint, status string) error {
	parsed, err := models.ParseInsuranceInvoiceStatus(status)
	if err != nil {
		return err
	}
	return s.batches.UpdateStatus(ctx, id, parsed)
}

func (s *InsuranceBatchService) GetByID(ctx context.Context, id uint) (*models.InsuranceInvoice, error) {
	return s.batches.GetByID(ctx, id)
}

func (s *InsuranceBatchService) ListByCompany(ctx context.Context, companyID string) ([]models.InsuranceInvoice, error) {
	return s.batches.ListByCompany(ctx, companyID)
}
