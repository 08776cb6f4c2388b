package handlers

import (
	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type PaymentHandler struct {
	service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type RecordPaymentRequest struct {
	InvoiceID     uint    `json:"invoice_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Reference     string  `json:"reference"`
	Notes         string  `json:"notes"`
}

func (r RecordPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InvoiceID, validation.Required),
		validation.Field(&r.Amount, validation.Min(0.0)),
		validation.Field(&r.PaymentMethod, validation.Required, validation.In("CASH", "MOBILE_MONEY", "CARD", "BANK")),
	)
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	result, err := h.service.Record(c, middlewares.OperatorID(c), services.RecordPaymentRequest{
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Notes:         req.Notes,
	})
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, result, 201)
}

func (h *PaymentHandler) GetPaymentsByInvoice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	payments, err := h.service.ListByInvoice(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, payments, 200)
}

func (h *PaymentHandler) GetPaymentsBySession(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	payments, err := h.service.ListBySession(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, payments, 200)
}
