package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lebossseur/masterClinique-sub001/cache"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

const InvoiceCacheExpiry = 24 * time.Hour

// InvoiceRepository owns invoice persistence and the invoice read cache.
type InvoiceRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewInvoiceRepository(db *gorm.DB, cache *cache.Cache) *InvoiceRepository {
	return &InvoiceRepository{db: db, cache: cache}
}

// CreateTx persists the invoice with its items in the caller's transaction.
func (r *InvoiceRepository) CreateTx(tx *gorm.DB, invoice *models.Invoice) error {
	if err := tx.Create(invoice).Error; err != nil {
		return utils.NewPersistenceError("failed to create invoice", err)
	}
	return nil
}

// ExistsForAdmissionTx reports whether the admission is already billed.
func (r *InvoiceRepository) ExistsForAdmissionTx(tx *gorm.DB, admissionID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Invoice{}).
		Where("admission_id = ?", admissionID).
		Count(&count).Error
	if err != nil {
		return false, utils.NewPersistenceError("failed to check invoice existence", err)
	}
	return count > 0, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	cacheKey := r.invoiceCacheKey(id)
	var cached models.Invoice
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	invoice, err := r.getByID(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, cacheKey, invoice, InvoiceCacheExpiry); err != nil {
		log.Printf("Failed to set invoice in cache: %v", err)
	}
	return invoice, nil
}

// GetByIDTx reads an invoice under a row lock; payment recording and
// status recomputation go through here.
func (r *InvoiceRepository) GetByIDTx(tx *gorm.DB, id uint) (*models.Invoice, error) {
	return r.getByID(lockForUpdate(tx), id)
}

func (r *InvoiceRepository) getByID(db *gorm.DB, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.Preload("Items").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("invoice %d not found", id)
		}
		return nil, utils.NewPersistenceError("failed to get invoice", err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		First(&invoice, "invoice_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("invoice %s not found", number)
		}
		return nil, utils.NewPersistenceError("failed to get invoice", err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("patient_id = ?", patientID).
		Order("invoice_date DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list invoices", err)
	}
	return invoices, nil
}

func (r *InvoiceRepository) ListByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("invoice_date DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list invoices", err)
	}
	return invoices, nil
}

// ListEligibleForBatch returns PAID, insurance-covered invoices of one
// payer that no payer invoice references yet. The NOT EXISTS keeps an
// invoice from ever being batched twice.
func (r *InvoiceRepository) ListEligibleForBatch(ctx context.Context, companyID string, periodStart, periodEnd *time.Time) ([]models.Invoice, error) {
	return r.listEligible(r.db.WithContext(ctx), companyID, periodStart, periodEnd, nil)
}

// FilterEligibleTx re-validates a caller's selection server-side inside the
// batch transaction.
func (r *InvoiceRepository) FilterEligibleTx(tx *gorm.DB, companyID string, periodStart, periodEnd *time.Time, ids []uint) ([]models.Invoice, error) {
	return r.listEligible(tx, companyID, periodStart, periodEnd, ids)
}

func (r *InvoiceRepository) listEligible(db *gorm.DB, companyID string, periodStart, periodEnd *time.Time, ids []uint) ([]models.Invoice, error) {
	query := db.Model(&models.Invoice{}).
		Where("insurance_company_id = ?", companyID).
		Where("status = ?", models.InvoicePaid).
		Where("insurance_covered > 0").
		Where("NOT EXISTS (SELECT 1 FROM insurance_invoice_item WHERE insurance_invoice_item.patient_invoice_id = invoice.id)")
	if periodStart != nil {
		query = query.Where("invoice_date >= ?", *periodStart)
	}
	if periodEnd != nil {
		query = query.Where("invoice_date <= ?", *periodEnd)
	}
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date ASC").Find(&invoices).Error; err != nil {
		return nil, utils.NewPersistenceError("failed to list eligible invoices", err)
	}
	return invoices, nil
}

// UpdateStatusTx persists a recomputed status and drops the stale cache
// entry once the transaction is underway.
func (r *InvoiceRepository) UpdateStatusTx(tx *gorm.DB, invoice *models.Invoice) error {
	err := tx.Model(&models.Invoice{}).
		Where("id = ?", invoice.ID).
		Update("status", invoice.Status).Error
	if err != nil {
		return utils.NewPersistenceError(
			fmt.Sprintf("failed to update invoice %d status", invoice.ID), err)
	}
	return nil
}

// InvalidateCache drops the cached copy of one invoice. Called after a
// mutating transaction commits.
func (r *InvoiceRepository) InvalidateCache(ctx context.Context, id uint) {
	if err := r.cache.Delete(ctx, r.invoiceCacheKey(id)); err != nil {
		log.Printf("Failed to delete invoice cache: %v", err)
	}
}

func (r *InvoiceRepository) invoiceCacheKey(id uint) string {
	return fmt.Sprintf("invoice_cache:%d", id)
}
