package handlers

import (
	"time"

	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type InsuranceInvoiceHandler struct {
	service *services.InsuranceBatchService
}

func NewInsuranceInvoiceHandler(service *services.InsuranceBatchService) *InsuranceInvoiceHandler {
	return &InsuranceInvoiceHandler{service: service}
}

// GetEligibleInvoices lists a payer's not-yet-batched paid invoices.
// Optional period bounds come as ?from=2026-01-01&to=2026-01-31.
func (h *InsuranceInvoiceHandler) GetEligibleInvoices(c *gin.Context) {
	companyID := c.Param("company_id")

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	invoices, err := h.service.ListEligible(c, companyID, from, to)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, invoices, 200)
}

type GenerateBatchRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	InvoiceIDs  []uint `json:"invoice_ids"`
}

func (r GenerateBatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PeriodStart, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.PeriodEnd, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.InvoiceIDs, validation.Required, validation.Length(1, 0)),
	)
}

func (h *InsuranceInvoiceHandler) GenerateBatch(c *gin.Context) {
	companyID := c.Param("company_id")

	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	batch, err := h.service.GenerateBatch(c, middlewares.OperatorID(c), companyID, periodStart, periodEnd.Add(24*time.Hour-time.Nanosecond), req.InvoiceIDs)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, batch, 201)
}

type UpdateBatchStatusRequest struct {
	Status string `json:"status"`
}

func (h *InsuranceInvoiceHandler) UpdateBatchStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}

	var req UpdateBatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}

	if err := h.service.UpdateStatus(c, id, req.Status); err != nil {
		middlewares.RespondError(c, err)
		return
	}

	batch, err := h.service.GetByID(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, batch, 200)
}

func (h *InsuranceInvoiceHandler) GetBatchByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	batch, err := h.service.GetByID(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, batch, 200)
}

func (h *InsuranceInvoiceHandler) GetBatchesByCompany(c *gin.Context) {
	batches, err := h.service.ListByCompany(c, c.Param("company_id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, batches, 200)
}

func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, utils.NewValidationError("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return &t, nil
}
