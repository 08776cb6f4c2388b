package services

import (
	"context"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"
)

// CatalogService exposes the reference directories: price catalog,
// insurance companies and their coverage overrides.
type CatalogService struct {
	catalog *repositories.CatalogRepository
}

func NewCatalogService(catalog *repositories.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) GetService(ctx context.Context, code string) (*models.Service, error) {
	return s.catalog.GetService(ctx, code)
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *CatalogService) SaveService(ctx context.Context, service *models.Service) error {
	if service.Code == "" {
		return utils.NewValidationError("service code is required")
	}
	if service.BasePrice < 0 {
		return utils.NewValidationError("service base price must not be negative")
	}
	return s.catalog.UpsertService(ctx, service)
}

func (s *CatalogService) GetInsuranceCompany(ctx context.Context, id string) (*models.InsuranceCompany, error) {
	return s.catalog.GetInsuranceCompany(ctx, id)
}

func (s *CatalogService) ListInsuranceCompanies(ctx context.Context) ([]models.InsuranceCompany, error) {
	return s.catalog.ListInsuranceCompanies(ctx)
}

func (s *CatalogService) SaveInsuranceCompany(ctx context.Context, company *models.InsuranceCompany) error {
	if company.ID == "" || company.Name == "" {
		return utils.NewValidationError("insurance company id and name are required")
	}
	if company.DefaultCoverage < 0 || company.DefaultCoverage > 100 {
		return utils.NewValidationError("default coverage must be between 0 and 100")
	}
	return s.catalog.UpsertInsuranceCompany(ctx, company)
}

func (s *CatalogService) SaveCoverageRate(ctx context.Context, rate *models.InsuranceCoverageRate) error {
	if rate.CoveragePercentage < 0 || rate.CoveragePercentage > 100 {
		return utils.NewValidationError("coverage percentage must be between 0 and 100")
	}
	if _, err := s.catalog.GetInsuranceCompany(ctx, rate.InsuranceCompanyID); err != nil {
		return err
	}
	if _, err := s.catalog.GetService(ctx, rate.ServiceCode); err != nil {
		return err
	}
	return s.catalog.UpsertCoverageRate(ctx, rate)
}
