package handlers

import (
	"strconv"

	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AdmissionHandler struct {
	service *services.AdmissionService
}

func NewAdmissionHandler(service *services.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{service: service}
}

// CreateAdmissionRequest is the wire shape of an admission creation. The
// pricing arms are mutually exclusive: a legacy single service or a cart.
type CreateAdmissionRequest struct {
	PatientID          string                        `json:"patient_id"`
	ConsultationType   string                        `json:"consultation_type"`
	HasInsurance       bool                          `json:"has_insurance"`
	InsuranceCompanyID *string                       `json:"insurance_company_id"`
	InsuranceNumber    string                        `json:"insurance_number"`
	Legacy             *services.LegacySingleService `json:"legacy"`
	Cart               *services.ServiceCart         `json:"cart"`
	VitalSigns         *services.VitalSignsInput     `json:"vital_signs"`
}

func (r CreateAdmissionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required),
		validation.Field(&r.InsuranceCompanyID, validation.Required.When(r.HasInsurance).Error("required for insured admissions")),
	)
}

func (h *AdmissionHandler) CreateAdmission(c *gin.Context) {
	var req CreateAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("%v", err))
		return
	}

	admission, err := h.service.Create(c, services.CreateAdmissionRequest{
		PatientID:          req.PatientID,
		ConsultationType:   req.ConsultationType,
		HasInsurance:       req.HasInsurance,
		InsuranceCompanyID: req.InsuranceCompanyID,
		InsuranceNumber:    req.InsuranceNumber,
		Pricing:            services.PricingRequest{Legacy: req.Legacy, Cart: req.Cart},
		VitalSigns:         req.VitalSigns,
		CreatedBy:          middlewares.OperatorID(c),
	})
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, admission, 201)
}

func (h *AdmissionHandler) GetAdmissionByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	admission, err := h.service.GetByID(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, admission, 200)
}

func (h *AdmissionHandler) CancelAdmission(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	admission, err := h.service.Cancel(c, id)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, admission, 200)
}

func (h *AdmissionHandler) GetAllAdmissions(c *gin.Context) {
	if patientID := c.Query("patient_id"); patientID != "" {
		admissions, err := h.service.ListByPatient(c, patientID)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		middlewares.RespondJSON(c, admissions, 200)
		return
	}

	status := models.AdmissionStatus(c.DefaultQuery("status", string(models.AdmissionWaitingBilling)))
	admissions, err := h.service.ListByStatus(c, status)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, admissions, 200)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("invalid id %q", raw)
	}
	return uint(id), nil
}
