package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lebossseur/masterClinique-sub001/cache"
	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

const CatalogCacheExpiry = 7 * 24 * time.Hour

// CatalogRepository serves the reference directories the billing engine
// consumes: the price catalog, insurance companies with their coverage
// rates, and the read-only patient directory.
type CatalogRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCatalogRepository(db *gorm.DB, cache *cache.Cache) *CatalogRepository {
	return &CatalogRepository{db: db, cache: cache}
}

// GetService returns one price-catalog entry by code.
func (r *CatalogRepository) GetService(ctx context.Context, code string) (*models.Service, error) {
	cacheKey := fmt.Sprintf("service_cache:%s", code)
	var cached models.Service
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var service models.Service
	err := r.db.WithContext(ctx).First(&service, "code = ? AND active = ?", code, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("service %s not found", code)
		}
		return nil, utils.NewPersistenceError("failed to get service", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, service, CatalogCacheExpiry); err != nil {
		log.Printf("Failed to set service in cache: %v", err)
	}
	return &service, nil
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&services).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list services", err)
	}
	return services, nil
}

func (r *CatalogRepository) UpsertService(ctx context.Context, service *models.Service) error {
	if err := r.db.WithContext(ctx).Save(service).Error; err != nil {
		return utils.NewPersistenceError("failed to save service", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("service_cache:%s", service.Code)); err != nil {
		log.Printf("Failed to delete service cache: %v", err)
	}
	return nil
}

// GetInsuranceCompany returns a payer with its default coverage.
func (r *CatalogRepository) GetInsuranceCompany(ctx context.Context, id string) (*models.InsuranceCompany, error) {
	cacheKey := fmt.Sprintf("insurance_company_cache:%s", id)
	var cached models.InsuranceCompany
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var company models.InsuranceCompany
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("insurance company %s not found", id)
		}
		return nil, utils.NewPersistenceError("failed to get insurance company", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, company, CatalogCacheExpiry); err != nil {
		log.Printf("Failed to set insurance company in cache: %v", err)
	}
	return &company, nil
}

func (r *CatalogRepository) ListInsuranceCompanies(ctx context.Context) ([]models.InsuranceCompany, error) {
	var companies []models.InsuranceCompany
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	if err != nil {
		return nil, utils.NewPersistenceError("failed to list insurance companies", err)
	}
	return companies, nil
}

func (r *CatalogRepository) UpsertInsuranceCompany(ctx context.Context, company *models.InsuranceCompany) error {
	if err := r.db.WithContext(ctx).Save(company).Error; err != nil {
		return utils.NewPersistenceError("failed to save insurance company", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("insurance_company_cache:%s", company.ID)); err != nil {
		log.Printf("Failed to delete insurance company cache: %v", err)
	}
	return nil
}

// CoverageRate returns the company-specific override for a service code.
// A nil result with nil error means no override exists and the company's
// default coverage applies.
func (r *CatalogRepository) CoverageRate(ctx context.Context, companyID, serviceCode string) (*float64, error) {
	var rate models.InsuranceCoverageRate
	err := r.db.WithContext(ctx).
		First(&rate, "insurance_company_id = ? AND service_code = ?", companyID, serviceCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.NewPersistenceError("failed to get coverage rate", err)
	}
	return &rate.CoveragePercentage, nil
}

func (r *CatalogRepository) UpsertCoverageRate(ctx context.Context, rate *models.InsuranceCoverageRate) error {
	err := r.db.WithContext(ctx).
		Where(models.InsuranceCoverageRate{
			InsuranceCompanyID: rate.InsuranceCompanyID,
			ServiceCode:        rate.ServiceCode,
		}).
		Assign(map[string]interface{}{"coverage_percentage": rate.CoveragePercentage}).
		FirstOrCreate(rate).Error
	if err != nil {
		return utils.NewPersistenceError("failed to save coverage rate", err)
	}
	return nil
}

// PatientExists checks the patient directory. Patient demographics are
// managed by the patient module; the billing desk only verifies existence.
func (r *CatalogRepository) PatientExists(ctx context.Context, patientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", patientID).
		Count(&count).Error
	if err != nil {
		return false, utils.NewPersistenceError("failed to check patient", err)
	}
	return count > 0, nil
}
