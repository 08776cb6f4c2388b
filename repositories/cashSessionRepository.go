package repositories

import (
	"context"
	"errors"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// CashSessionRepository owns cash-session persistence.
type CashSessionRepository struct {
	db *gorm.DB
}

func NewCashSessionRepository(db *gorm.DB) *CashSessionRepository {
	return &CashSessionRepository{db: db}
}

func (r *CashSessionRepository) CreateTx(tx *gorm.DB, session *models.CashSession) error {
	if err := tx.Create(session).Error; err != nil {
		return utils.NewPersistenceError("failed to create cash session", err)
	}
	return nil
}

// FindOpenByCashier returns the cashier's OPEN session, or nil when the
// drawer is closed.
func (r *CashSessionRepository) FindOpenByCashier(ctx context.Context, cashierID string) (*models.CashSession, error) {
	return r.findOpenByCashier(r.db.WithContext(ctx), cashierID)
}

// FindOpenByCashierTx is the transactional variant used while recording a
// payment, so a session closed mid-operation is seen as closed.
func (r *CashSessionRepository) FindOpenByCashierTx(tx *gorm.DB, cashierID string) (*models.CashSession, error) {
	return r.findOpenByCashier(lockForUpdate(tx), cashierID)
}

func (r *CashSessionRepository) findOpenByCashier(db *gorm.DB, cashierID string) (*models.CashSession, error) {
	var session models.CashSession
	err := db.Where("cashier_id = ? AND status = ?", cashierID, models.SessionOpen).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.NewPersistenceError("failed to find open cash session", err)
	}
	return &session, nil
}

// GetByIDTx loads a session by (id, cashier) under a row lock for closing.
func (r *CashSessionRepository) GetByIDTx(tx *gorm.DB, id uint, cashierID string) (*models.CashSession, error) {
	var session models.CashSession
	err := lockForUpdate(tx).
		Where("id = ? AND cashier_id = ?", id, cashierID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("cash session %d not found for cashier %s", id, cashierID)
		}
		return nil, utils.NewPersistenceError("failed to get cash session", err)
	}
	return &session, nil
}

func (r *CashSessionRepository) GetByID(ctx context.Context, id uint) (*models.CashSession, error) {
	var session models.CashSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("cash session %d not found", id)
		}
		return nil, utils.NewPersistenceError("failed to get cash session", err)
	}
	return &session, nil
}

// SaveTx persists a closed session's reconciliation fields.
func (r *CashSessionRepository) SaveTx(tx *gorm.DB, session *models.CashSession) error {
	if err := tx.Save(session).Error; err != nil {
		return utils.NewPersistenceError("failed to save cash session", err)
	}
	return nil
}

// ListByCashier returns a cashier's session history, newest first.
func (r *CashSessionRepository) ListByCashier(ctx context.Context, cashierID string) ([]models.CashSession, error) {
	var sessions []models.CashSession
	err := r.db.WithContext(ctx).
		Where("cashier_id = ?", cashierID).
		Order("opening_time DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list cash sessions", err)
	}
	return sessions, nil
}
