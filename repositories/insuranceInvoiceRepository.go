package repositories

import (
	"context"
	"errors"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// InsuranceInvoiceRepository owns payer-invoice persistence.
type InsuranceInvoiceRepository struct {
	db *gorm.DB
}

func NewInsuranceInvoiceRepository(db *gorm.DB) *InsuranceInvoiceRepository {
	return &InsuranceInvoiceRepository{db: db}
}

// CreateTx persists the payer invoice with its items in the caller's
// transaction. The unique index on patient_invoice_id backstops the
// eligibility re-check against concurrent batch generation.
func (r *InsuranceInvoiceRepository) CreateTx(tx *gorm.DB, invoice *models.InsuranceInvoice) error {
	if err := tx.Create(invoice).Error; err != nil {
		return utils.NewPersistenceError("failed to create insurance invoice", err)
	}
	return nil
}

func (r *InsuranceInvoiceRepository) GetByID(ctx context.Context, id uint) (*models.InsuranceInvoice, error) {
	var invoice models.InsuranceInvoice
	err := r.db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("insurance invoice %d not found", id)
		}
		return nil, utils.NewPersistenceError("failed to get insurance invoice", err)
	}
	return &invoice, nil
}

func (r *InsuranceInvoiceRepository) ListByCompany(ctx context.Context, companyID string) ([]models.InsuranceInvoice, error) {
	var invoices []models.InsuranceInvoice
	err := r.db.WithContext(ctx).
		Where("insurance_company_id = ?", companyID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list insurance invoices", err)
	}
	return invoices, nil
}

// UpdateStatus persists a validated status value.
func (r *InsuranceInvoiceRepository) UpdateStatus(ctx context.Context, id uint, status models.InsuranceInvoiceStatus) error {
	result := r.db.WithContext(ctx).Model(&models.InsuranceInvoice{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return utils.NewPersistenceError("failed to update insurance invoice status", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFoundError("insurance invoice %d not found", id)
	}
	return nil
}
