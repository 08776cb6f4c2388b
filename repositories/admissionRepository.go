package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// AdmissionRepository owns admission persistence. Multi-row writes run in
// the caller's transaction.
type AdmissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepository(db *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// CreateTx persists the admission together with its service lines and
// optional vital-signs snapshot as one unit.
func (r *AdmissionRepository) CreateTx(tx *gorm.DB, admission *models.Admission) error {
	if err := tx.Create(admission).Error; err != nil {
		return utils.NewPersistenceError("failed to create admission", err)
	}
	return nil
}

func (r *AdmissionRepository) GetByID(ctx context.Context, id uint) (*models.Admission, error) {
	return r.getByID(r.db.WithContext(ctx), id)
}

// GetByIDTx reads an admission inside a transaction with a row lock, so
// a concurrent billing of the same admission waits and then fails the
// one-invoice-per-admission check instead of double-billing.
func (r *AdmissionRepository) GetByIDTx(tx *gorm.DB, id uint) (*models.Admission, error) {
	return r.getByID(lockForUpdate(tx), id)
}

func (r *AdmissionRepository) getByID(db *gorm.DB, id uint) (*models.Admission, error) {
	var admission models.Admission
	err := db.Preload("ServiceLines").Preload("VitalSigns").
		First(&admission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("admission %d not found", id)
		}
		return nil, utils.NewPersistenceError("failed to get admission", err)
	}
	return &admission, nil
}

func (r *AdmissionRepository) GetByNumber(ctx context.Context, number string) (*models.Admission, error) {
	var admission models.Admission
	err := r.db.WithContext(ctx).Preload("ServiceLines").Preload("VitalSigns").
		First(&admission, "admission_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("admission %s not found", number)
		}
		return nil, utils.NewPersistenceError("failed to get admission", err)
	}
	return &admission, nil
}

// ListByPatient returns a patient's admissions, newest first.
func (r *AdmissionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Admission, error) {
	var admissions []models.Admission
	err := r.db.WithContext(ctx).Preload("ServiceLines").
		Where("patient_id = ?", patientID).
		Order("admission_date DESC").
		Find(&admissions).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list admissions", err)
	}
	return admissions, nil
}

// ListByStatus returns admissions in one status, oldest first — the
// billing desk works its WAITING_BILLING queue front to back.
func (r *AdmissionRepository) ListByStatus(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error) {
	var admissions []models.Admission
	err := r.db.WithContext(ctx).Preload("ServiceLines").
		Where("status = ?", status).
		Order("admission_date ASC").
		Find(&admissions).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list admissions", err)
	}
	return admissions, nil
}

// FindRecentBillable returns the most recent non-cancelled, non-control
// admission of the patient that contains serviceCode, dated within
// (since, until]. Used for free-control detection.
func (r *AdmissionRepository) FindRecentBillable(ctx context.Context, patientID, serviceCode string, since, until time.Time) (*models.Admission, error) {
	var admission models.Admission
	err := r.db.WithContext(ctx).
		Joins("JOIN admission_service_line ON admission_service_line.admission_id = admission.id").
		Where("admission.patient_id = ?", patientID).
		Where("admission_service_line.service_code = ?", serviceCode).
		Where("admission.status <> ?", models.AdmissionCancelled).
		Where("admission.is_control = ?", false).
		Where("admission.admission_date > ? AND admission.admission_date <= ?", since, until).
		Order("admission.admission_date DESC").
		First(&admission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.NewPersistenceError("failed to query control window", err)
	}
	return &admission, nil
}

// UpdateStatusTx persists a status already transitioned on the model.
func (r *AdmissionRepository) UpdateStatusTx(tx *gorm.DB, admission *models.Admission) error {
	err := tx.Model(&models.Admission{}).
		Where("id = ?", admission.ID).
		Update("status", admission.Status).Error
	if err != nil {
		return utils.NewPersistenceError(
			fmt.Sprintf("failed to update admission %d status", admission.ID), err)
	}
	return nil
}
