package services

import (
	"context"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"

	"gorm.io/gorm"
)

// CreateAdmissionRequest carries everything needed to open an admission.
type CreateAdmissionRequest struct {
	PatientID          string
	ConsultationType   string
	HasInsurance       bool
	InsuranceCompanyID *string
	InsuranceNumber    string
	Pricing            PricingRequest
	VitalSigns         *VitalSignsInput
	CreatedBy          string
}

type VitalSignsInput struct {
	Temperature   float64 `json:"temperature"`
	BloodPressure string  `json:"blood_pressure"`
	Pulse         int     `json:"pulse"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
}

// AdmissionService creates admissions and drives their status.
type AdmissionService struct {
	db         *gorm.DB
	admissions *repositories.AdmissionRepository
	catalog    *repositories.CatalogRepository
	coverage   *CoverageService
	sequences  *repositories.SequenceRepository
	now        func() time.Time
}

func NewAdmissionService(
	db *gorm.DB,
	admissions *repositories.AdmissionRepository,
	catalog *repositories.CatalogRepository,
	coverage *CoverageService,
	sequences *repositories.SequenceRepository,
) *AdmissionService {
	return &AdmissionService{
		db:         db,
		admissions: admissions,
		catalog:    catalog,
		coverage:   coverage,
		sequences:  sequences,
		now:        time.Now,
	}
}

// Create prices the admission and persists it with its service lines and
// optional vital-signs snapshot as one atomic unit.
func (s *AdmissionService) Create(ctx context.Context, req CreateAdmissionRequest) (*models.Admission, error) {
	if req.PatientID == "" {
		return nil, utils.NewValidationError("patient_id is required")
	}
	exists, err := s.catalog.PatientExists(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, utils.NewNotFoundError("patient %s not found", req.PatientID)
	}
	if req.HasInsurance {
		if req.InsuranceCompanyID == nil {
			return nil, utils.NewValidationError("insurance_company_id is required for insured admissions")
		}
		if _, err := s.catalog.GetInsuranceCompany(ctx, *req.InsuranceCompanyID); err != nil {
			return nil, err
		}
	}

	at := s.now()
	priced, err := s.coverage.Price(ctx, PricingInput{
		PatientID:          req.PatientID,
		HasInsurance:       req.HasInsurance,
		InsuranceCompanyID: req.InsuranceCompanyID,
		At:                 at,
		Request:            req.Pricing,
	})
	if err != nil {
		return nil, err
	}

	admission := &models.Admission{
		PatientID:           req.PatientID,
		ConsultationType:    req.ConsultationType,
		HasInsurance:        req.HasInsurance,
		InsuranceCompanyID:  req.InsuranceCompanyID,
		InsuranceNumber:     req.InsuranceNumber,
		BasePrice:           priced.BasePrice,
		CoveragePercentage:  priced.CoveragePercentage,
		InsuranceAmount:     priced.InsuranceAmount,
		PatientAmount:       priced.PatientAmount,
		IsControl:           priced.IsControl,
		OriginalAdmissionID: priced.OriginalAdmissionID,
		ControlValidUntil:   priced.ControlValidUntil,
		Status:              models.AdmissionWaitingBilling,
		AdmissionDate:       at,
		CreatedBy:           req.CreatedBy,
		ServiceLines:        priced.Lines,
	}
	if req.VitalSigns != nil {
		admission.VitalSigns = &models.VitalSignsSnapshot{
			Temperature:   req.VitalSigns.Temperature,
			BloodPressure: req.VitalSigns.BloodPressure,
			Pulse:         req.VitalSigns.Pulse,
			Weight:        req.VitalSigns.Weight,
			Height:        req.VitalSigns.Height,
			RecordedAt:    at,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.sequences.NextAdmissionNumber(tx, at)
		if err != nil {
			return err
		}
		admission.AdmissionNumber = number
		return s.admissions.CreateTx(tx, admission)
	})
	if err != nil {
		return nil, err
	}
	return admission, nil
}

// Cancel transitions an admission to CANCELLED; billed admissions are
// immutable.
func (s *AdmissionService) Cancel(ctx context.Context, id uint) (*models.Admission, error) {
	var admission *models.Admission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		admission, err = s.admissions.GetByIDTx(tx, id)
		if err != nil {
			return err
		}
		if err := admission.Cancel(); err != nil {
			return err
		}
		return s.admissions.UpdateStatusTx(tx, admission)
	})
	if err != nil {
		return nil, err
	}
	return admission, nil
}

func (s *AdmissionService) GetByID(ctx context.Context, id uint) (*models.Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

func (s *AdmissionService) ListByPatient(ctx context.Context, patientID string) ([]models.Admission, error) {
	return s.admissions.ListByPatient(ctx, patientID)
}

func (s *AdmissionService) ListByStatus(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error) {
	return s.admissions.ListByStatus(ctx, status)
}
