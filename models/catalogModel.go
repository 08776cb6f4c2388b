package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is a price-catalog entry.
type Service struct {
	Code      string    `gorm:"primaryKey;column:code" json:"code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	BasePrice float64   `gorm:"column:base_price;not null" json:"base_price"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Service) TableName() string {
	return "service"
}

// InsuranceCompany model
type InsuranceCompany struct {
	ID              string  `gorm:"primaryKey;column:id" json:"id"`
	Name            string  `gorm:"column:name;unique;not null" json:"name"`
	DefaultCoverage float64 `gorm:"column:default_coverage;not null" json:"default_coverage"`
}

func (InsuranceCompany) TableName() string {
	return "insurance_company"
}

// InsuranceCoverageRate overrides a company's default coverage for one
// service code.
type InsuranceCoverageRate struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InsuranceCompanyID string  `gorm:"column:insurance_company_id;not null;uniqueIndex:idx_company_service" json:"insurance_company_id"`
	ServiceCode        string  `gorm:"column:service_code;not null;uniqueIndex:idx_company_service" json:"service_code"`
	CoveragePercentage float64 `gorm:"column:coverage_percentage;not null" json:"coverage_percentage"`
}

func (InsuranceCoverageRate) TableName() string {
	return "insurance_coverage_rate"
}

// Patient is the read-only slice of the patient directory the billing desk
// needs. Demographics live in the patient module, outside this service.
type Patient struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	FirstName string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;not null;index" json:"last_name"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Patient) TableName() string {
	return "patient"
}

// SeedServices inserts the consultation catalog a fresh clinic starts with.
func SeedServices(db *gorm.DB) error {
	services := []Service{
		{Code: "CONS-GEN", Name: "Consultation generale", BasePrice: 10000, Active: true},
		{Code: "CONS-SPEC", Name: "Consultation specialisee", BasePrice: 15000, Active: true},
		{Code: "CONS-URG", Name: "Consultation urgence", BasePrice: 20000, Active: true},
		{Code: "SOIN-PANST", Name: "Pansement", BasePrice: 5000, Active: true},
		{Code: "LAB-NFS", Name: "Numeration formule sanguine", BasePrice: 8000, Active: true},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&services).Error
}
