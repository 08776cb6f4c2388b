package handlers

import (
	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CashSessionHandler struct {
	service *services.CashSessionService
}

func NewCashSessionHandler(service *services.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{service: service}
}

type OpenSessionRequest struct {
	OpeningAmount float64 `json:"opening_amount"`
	Notes         string  `json:"notes"`
}

func (r OpenSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OpeningAmount, validation.Min(0.0)),
	)
}

func (h *CashSessionHandler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	session, err := h.service.Open(c, middlewares.OperatorID(c), req.OpeningAmount, req.Notes)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, session, 201)
}

type CloseSessionRequest struct {
	ClosingAmount float64 `json:"closing_amount"`
	Notes         string  `json:"notes"`
}

func (r CloseSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ClosingAmount, validation.Min(0.0)),
	)
}

func (h *CashSessionHandler) CloseSession(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	var req CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	session, err := h.service.Close(c, id, middlewares.OperatorID(c), req.ClosingAmount, req.Notes)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, session, 200)
}

// GetCurrentSession returns the calling cashier's open session.
func (h *CashSessionHandler) GetCurrentSession(c *gin.Context) {
	session, err := h.service.Current(c, middlewares.OperatorID(c))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, session, 200)
}

func (h *CashSessionHandler) GetSessionByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	session, err := h.service.GetByID(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, session, 200)
}

func (h *CashSessionHandler) GetSessionHistory(c *gin.Context) {
	sessions, err := h.service.History(c, middlewares.OperatorID(c))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, sessions, 200)
}
