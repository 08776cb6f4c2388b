package handlers

import (
	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type InvoiceHandler struct {
	service *services.InvoiceService
}

func NewInvoiceHandler(service *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

type CreateInvoiceRequest struct {
	AdmissionID uint   `json:"admission_id"`
	InvoiceType string `json:"invoice_type"`
}

func (r CreateInvoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AdmissionID, validation.Required),
		validation.Field(&r.InvoiceType, validation.Required, validation.In("TICKET", "A4")),
	)
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	invoice, err := h.service.Create(c, req.AdmissionID, models.InvoiceType(req.InvoiceType), middlewares.OperatorID(c))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, invoice, 201)
}

func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	invoice, err := h.service.GetByID(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, invoice, 200)
}

func (h *InvoiceHandler) GetAllInvoices(c *gin.Context) {
	if patientID := c.Query("patient_id"); patientID != "" {
		invoices, err := h.service.ListByPatient(c, patientID)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		middlewares.RespondJSON(c, invoices, 200)
		return
	}

	status := models.InvoiceStatus(c.DefaultQuery("status", string(models.InvoicePending)))
	invoices, err := h.service.ListByStatus(c, status)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, invoices, 200)
}

func (h *InvoiceHandler) RecomputeInvoiceStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	invoice, err := h.service.RecomputeStatus(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, invoice, 200)
}
