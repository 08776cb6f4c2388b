package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lebossseur/masterClinique-sub001/database"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

const sessionLockTTL = 10 * time.Second

// CashSessionService drives the drawer-session lifecycle: open once,
// record payments through PaymentService, close once with reconciliation.
type CashSessionService struct {
	db       *gorm.DB
	sessions *repositories.CashSessionRepository
	payments *repositories.PaymentRepository
	locks    database.LockManager
	now      func() time.Time
}

func NewCashSessionService(
	db *gorm.DB,
	sessions *repositories.CashSessionRepository,
	payments *repositories.PaymentRepository,
	locks database.LockManager,
) *CashSessionService {
	return &CashSessionService{
		db:       db,
		sessions: sessions,
		payments: payments,
		locks:    locks,
		now:      time.Now,
	}
}

// Open starts a cashier's session. The per-cashier lock keeps the
// "already open?" check and the insert from racing with a concurrent open.
func (s *CashSessionService) Open(ctx context.Context, cashierID string, openingAmount float64, notes string) (*models.CashSession, error) {
	if cashierID == "" {
		return nil, utils.NewValidationError("cashier_id is required")
	}
	if openingAmount < 0 {
		return nil, utils.NewValidationError("opening amount must not be negative")
	}

	release, err := s.locks.Acquire(ctx, sessionLockKey(cashierID), sessionLockTTL)
	if err != nil {
		return nil, utils.NewAllocationError("could not serialize session open", err)
	}
	defer release()

	var session *models.CashSession
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.sessions.FindOpenByCashierTx(tx, cashierID)
		if err != nil {
			return err
		}
		if open != nil {
			return utils.NewConflictError("cashier %s already has an open session", cashierID)
		}
		session = &models.CashSession{
			CashierID:     cashierID,
			Status:        models.SessionOpen,
			OpeningAmount: openingAmount,
			OpeningTime:   s.now(),
			Notes:         notes,
		}
		return s.sessions.CreateTx(tx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Close reconciles and closes the session: expected = opening float +
// session payments; difference = counted − expected. One-way, one-time.
func (s *CashSessionService) Close(ctx context.Context, sessionID uint, cashierID string, closingAmount float64, notes string) (*models.CashSession, error) {
	if closingAmount < 0 {
		return nil, utils.NewValidationError("closing amount must not be negative")
	}

	release, err := s.locks.Acquire(ctx, sessionLockKey(cashierID), sessionLockTTL)
	if err != nil {
		return nil, utils.NewAllocationError("could not serialize session close", err)
	}
	defer release()

	var session *models.CashSession
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = s.sessions.GetByIDTx(tx, sessionID, cashierID)
		if err != nil {
			return err
		}

		collected, err := s.payments.TotalForSessionTx(tx, sessionID)
		if err != nil {
			return err
		}
		expected := utils.RoundMoney(session.OpeningAmount + collected)
		if err := session.CloseWith(closingAmount, expected, s.now(), notes); err != nil {
			return err
		}
		return s.sessions.SaveTx(tx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Current returns the cashier's open session.
func (s *CashSessionService) Current(ctx context.Context, cashierID string) (*models.CashSession, error) {
	session, err := s.sessions.FindOpenByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, utils.NewNotFoundError("cashier %s has no open session", cashierID)
	}
	return session, nil
}

func (s *CashSessionService) GetByID(ctx context.Context, id uint) (*models.CashSession, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *CashSessionService) History(ctx context.Context, cashierID string) ([]models.CashSession, error) {
	return s.sessions.ListByCashier(ctx, cashierID)
}

func sessionLockKey(cashierID string) string {
	return fmt.Sprintf("cash_session_lock:%s", cashierID)
}
