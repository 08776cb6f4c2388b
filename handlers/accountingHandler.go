package handlers

import (
	"time"

	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AccountingHandler struct {
	service *services.AccountingService
}

func NewAccountingHandler(service *services.AccountingService) *AccountingHandler {
	return &AccountingHandler{service: service}
}

type RecordExpenseRequest struct {
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Description   string  `json:"description"`
}

func (r RecordExpenseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.Amount, validation.Required, validation.Min(0.01)),
		validation.Field(&r.PaymentMethod, validation.Required, validation.In("CASH", "MOBILE_MONEY", "CARD", "BANK")),
	)
}

func (h *AccountingHandler) RecordExpense(c *gin.Context) {
	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	entry, err := h.service.RecordExpense(c, middlewares.OperatorID(c), services.RecordExpenseRequest{
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	})
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, entry, 201)
}

// GetTransactions lists the ledger for one day (?date=YYYY-MM-DD, default
// today) or one type (?type=INCOME|EXPENSE).
func (h *AccountingHandler) GetTransactions(c *gin.Context) {
	if txType := c.Query("type"); txType != "" {
		entries, err := h.service.ListByType(c, txType)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		middlewares.RespondJSON(c, entries, 200)
		return
	}

	day, err := resolveDay(c.Query("date"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	entries, err := h.service.ListByDay(c, day)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, entries, 200)
}

func (h *AccountingHandler) GetDailySummary(c *gin.Context) {
	day, err := resolveDay(c.Query("date"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	summary, err := h.service.SummarizeDay(c, day)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, summary, 200)
}

func resolveDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, utils.NewValidationError("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return day, nil
}
