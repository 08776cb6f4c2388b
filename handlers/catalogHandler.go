package handlers

import (
	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/services"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the price catalog and the payer directory.
type CatalogHandler struct {
	service *services.CatalogService
}

func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) GetAllServices(c *gin.Context) {
	services, err := h.service.ListServices(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, services, 200)
}

func (h *CatalogHandler) GetServiceByCode(c *gin.Context) {
	service, err := h.service.GetService(c, c.Param("code"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, service, 200)
}

func (h *CatalogHandler) SaveService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := h.service.SaveService(c, &service); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, service, 201)
}

func (h *CatalogHandler) GetAllInsuranceCompanies(c *gin.Context) {
	companies, err := h.service.ListInsuranceCompanies(c)
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, companies, 200)
}

func (h *CatalogHandler) GetInsuranceCompanyByID(c *gin.Context) {
	company, err := h.service.GetInsuranceCompany(c, c.Param("company_id"))
	if err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, company, 200)
}

func (h *CatalogHandler) SaveInsuranceCompany(c *gin.Context) {
	var company models.InsuranceCompany
	if err := c.ShouldBindJSON(&company); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	if err := h.service.SaveInsuranceCompany(c, &company); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, company, 201)
}

func (h *CatalogHandler) SaveCoverageRate(c *gin.Context) {
	var rate models.InsuranceCoverageRate
	if err := c.ShouldBindJSON(&rate); err != nil {
		middlewares.RespondError(c, utils.NewValidationError("invalid request body: %v", err))
		return
	}
	rate.InsuranceCompanyID = c.Param("company_id")
	if err := h.service.SaveCoverageRate(c, &rate); err != nil {
		middlewares.RespondError(c, err)
		return
	}
	middlewares.RespondJSON(c, rate, 201)
}
