package services

import (
	"context"
	"time"

	"github.com/lebossseur/masterClinique-sub001/models"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/utils"
)

// controlWindow is the trailing window in which a revisit for the same
// service is a free control.
const controlWindow = 15 * 24 * time.Hour

// PricingRequest is a tagged union: either a legacy single consultation
// code or a multi-service cart with the caller's pre-computed totals.
// Exactly one arm must be set.
type PricingRequest struct {
	Legacy *LegacySingleService `json:"legacy,omitempty"`
	Cart   *ServiceCart         `json:"cart,omitempty"`
}

// LegacySingleService prices one catalog service; the split is computed
// here from the payer's coverage rates.
type LegacySingleService struct {
	ServiceCode string `json:"service_code"`
}

// ServiceCart carries lines priced upstream. TotalPatient distinguishes
// explicit zero from absent: nil falls back to the base price, a pointer
// to 0 is a valid explicit value.
type ServiceCart struct {
	Lines          []CartLine `json:"lines"`
	TotalBase      float64    `json:"total_base"`
	TotalInsurance float64    `json:"total_insurance"`
	TotalPatient   *float64   `json:"total_patient,omitempty"`
}

type CartLine struct {
	ServiceCode      string  `json:"service_code"`
	ServiceName      string  `json:"service_name"`
	BasePrice        float64 `json:"base_price"`
	InsuranceCovered float64 `json:"insurance_covered"`
	PatientPays      float64 `json:"patient_pays"`
}

// PricingInput is the admission context the calculator needs.
type PricingInput struct {
	PatientID          string
	HasInsurance       bool
	InsuranceCompanyID *string
	At                 time.Time
	Request            PricingRequest
}

// PricedAdmission is the calculator's output: the aggregate split plus
// per-line amounts, with free-control revisits already resolved.
type PricedAdmission struct {
	BasePrice           float64
	CoveragePercentage  float64
	InsuranceAmount     float64
	PatientAmount       float64
	IsControl           bool
	OriginalAdmissionID *uint
	ControlValidUntil   *time.Time
	Lines               []models.AdmissionServiceLine
}

// CoverageService computes insurance coverage and patient responsibility
// for an admission, and detects free control revisits.
type CoverageService struct {
	catalog    *repositories.CatalogRepository
	admissions *repositories.AdmissionRepository
}

func NewCoverageService(catalog *repositories.CatalogRepository, admissions *repositories.AdmissionRepository) *CoverageService {
	return &CoverageService{catalog: catalog, admissions: admissions}
}

// Price resolves the request into a PricedAdmission.
func (s *CoverageService) Price(ctx context.Context, input PricingInput) (*PricedAdmission, error) {
	var priced *PricedAdmission
	var err error
	switch {
	case input.Request.Cart != nil && input.Request.Legacy != nil:
		return nil, utils.NewValidationError("request must carry either a cart or a legacy service, not both")
	case input.Request.Cart != nil:
		priced, err = s.priceCart(input.Request.Cart)
	case input.Request.Legacy != nil:
		priced, err = s.priceLegacy(ctx, input)
	default:
		return nil, utils.NewValidationError("at least one service required")
	}
	if err != nil {
		return nil, err
	}

	if err := s.applyControl(ctx, input, priced); err != nil {
		return nil, err
	}
	return priced, nil
}

// priceCart trusts the caller's totals.
func (s *CoverageService) priceCart(cart *ServiceCart) (*PricedAdmission, error) {
	if len(cart.Lines) == 0 {
		return nil, utils.NewValidationError("at least one service required")
	}

	base := cart.TotalBase
	if base == 0 {
		for _, line := range cart.Lines {
			base += line.BasePrice
		}
	}
	insurance := cart.TotalInsurance

	// Explicit zero is a valid patient amount; only an absent value falls
	// back to the base price.
	patient := base
	if cart.TotalPatient != nil {
		patient = *cart.TotalPatient
	}

	if !utils.MoneyEquals(patient+insurance, base) {
		return nil, utils.NewValidationError(
			"cart totals do not balance: patient %.2f + insurance %.2f != base %.2f",
			patient, insurance, base)
	}

	coverage := 0.0
	if base > 0 {
		coverage = utils.RoundMoney(insurance / base * 100)
	}

	lines := make([]models.AdmissionServiceLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, models.AdmissionServiceLine{
			ServiceCode:      l.ServiceCode,
			ServiceName:      l.ServiceName,
			BasePrice:        l.BasePrice,
			InsuranceCovered: l.InsuranceCovered,
			PatientPays:      l.PatientPays,
		})
	}

	return &PricedAdmission{
		BasePrice:          utils.RoundMoney(base),
		CoveragePercentage: coverage,
		InsuranceAmount:    utils.RoundMoney(insurance),
		PatientAmount:      utils.RoundMoney(patient),
		Lines:              lines,
	}, nil
}

// priceLegacy computes the split for one catalog service from the payer's
// coverage: the (company, service) override if present, else the company
// default, else zero.
func (s *CoverageService) priceLegacy(ctx context.Context, input PricingInput) (*PricedAdmission, error) {
	service, err := s.catalog.GetService(ctx, input.Request.Legacy.ServiceCode)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if input.HasInsurance && input.InsuranceCompanyID != nil {
		override, err := s.catalog.CoverageRate(ctx, *input.InsuranceCompanyID, service.Code)
		if err != nil {
			return nil, err
		}
		if override != nil {
			rate = *override
		} else {
			company, err := s.catalog.GetInsuranceCompany(ctx, *input.InsuranceCompanyID)
			if err != nil {
				return nil, err
			}
			rate = company.DefaultCoverage
		}
	}

	base := service.BasePrice
	insurance := utils.RoundMoney(base * rate / 100)
	patient := utils.RoundMoney(base - insurance)

	return &PricedAdmission{
		BasePrice:          base,
		CoveragePercentage: rate,
		InsuranceAmount:    insurance,
		PatientAmount:      patient,
		Lines: []models.AdmissionServiceLine{{
			ServiceCode:      service.Code,
			ServiceName:      service.Name,
			BasePrice:        base,
			InsuranceCovered: insurance,
			PatientPays:      patient,
		}},
	}, nil
}

// applyControl zeroes the whole admission when any service in the cart was
// billed to the same patient within the trailing control window.
func (s *CoverageService) applyControl(ctx context.Context, input PricingInput, priced *PricedAdmission) error {
	since := input.At.Add(-controlWindow)

	var match *models.Admission
	for _, line := range priced.Lines {
		found, err := s.admissions.FindRecentBillable(ctx, input.PatientID, line.ServiceCode, since, input.At)
		if err != nil {
			return err
		}
		if found != nil && (match == nil || found.AdmissionDate.After(match.AdmissionDate)) {
			match = found
		}
	}
	if match == nil {
		return nil
	}

	validUntil := match.AdmissionDate.Add(controlWindow)
	priced.IsControl = true
	priced.OriginalAdmissionID = &match.ID
	priced.ControlValidUntil = &validUntil
	priced.BasePrice = 0
	priced.CoveragePercentage = 0
	priced.InsuranceAmount = 0
	priced.PatientAmount = 0
	for i := range priced.Lines {
		priced.Lines[i].BasePrice = 0
		priced.Lines[i].InsuranceCovered = 0
		priced.Lines[i].PatientPays = 0
		priced.Lines[i].IsFreeControl = true
	}
	return nil
}
