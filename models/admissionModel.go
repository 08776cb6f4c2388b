package models

import (
	"time"

	"github.com/lebossseur/masterClinique-sub001/utils"
)

// AdmissionStatus is the admission state machine:
// WAITING_BILLING -> BILLED, or WAITING_BILLING -> CANCELLED.
type AdmissionStatus string

const (
	AdmissionWaitingBilling AdmissionStatus = "WAITING_BILLING"
	AdmissionBilled         AdmissionStatus = "BILLED"
	AdmissionCancelled      AdmissionStatus = "CANCELLED"
)

// Admission model
type Admission struct {
	ID                  uint                 `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AdmissionNumber     string               `gorm:"column:admission_number;unique;not null" json:"admission_number"`
	PatientID           string               `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ConsultationType    string               `gorm:"column:consultation_type" json:"consultation_type"`
	HasInsurance        bool                 `gorm:"column:has_insurance;not null" json:"has_insurance"`
	InsuranceCompanyID  *string              `gorm:"column:insurance_company_id;index" json:"insurance_company_id"`
	InsuranceNumber     string               `gorm:"column:insurance_number" json:"insurance_number"`
	BasePrice           float64              `gorm:"column:base_price;not null" json:"base_price"`
	CoveragePercentage  float64              `gorm:"column:coverage_percentage" json:"coverage_percentage"`
	InsuranceAmount     float64              `gorm:"column:insurance_amount" json:"insurance_amount"`
	PatientAmount       float64              `gorm:"column:patient_amount" json:"patient_amount"`
	IsControl           bool                 `gorm:"column:is_control;not null;index" json:"is_control"`
	OriginalAdmissionID *uint                `gorm:"column:original_admission_id;index" json:"original_admission_id"`
	ControlValidUntil   *time.Time           `gorm:"column:control_valid_until" json:"control_valid_until"`
	Status              AdmissionStatus      `gorm:"column:status;check:status IN ('WAITING_BILLING', 'BILLED', 'CANCELLED');not null;index" json:"status"`
	AdmissionDate       time.Time            `gorm:"column:admission_date;not null;index" json:"admission_date"`
	CreatedBy           string               `gorm:"column:created_by" json:"created_by"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ServiceLines        []AdmissionServiceLine `gorm:"foreignKey:AdmissionID;references:ID" json:"service_lines"`
	VitalSigns          *VitalSignsSnapshot  `gorm:"foreignKey:AdmissionID;references:ID" json:"vital_signs,omitempty"`
}

func (Admission) TableName() string {
	return "admission"
}

// MarkBilled transitions WAITING_BILLING -> BILLED. There is no way back.
func (a *Admission) MarkBilled() error {
	if a.Status != AdmissionWaitingBilling {
		return utils.NewConflictError("admission %s cannot be billed from status %s", a.AdmissionNumber, a.Status)
	}
	a.Status = AdmissionBilled
	return nil
}

// Cancel transitions to CANCELLED; a billed admission is never cancelled.
func (a *Admission) Cancel() error {
	switch a.Status {
	case AdmissionBilled:
		return utils.NewConflictError("admission %s is already billed", a.AdmissionNumber)
	case AdmissionCancelled:
		return utils.NewConflictError("admission %s is already cancelled", a.AdmissionNumber)
	}
	a.Status = AdmissionCancelled
	return nil
}

// AdmissionServiceLine model. Line amounts reconcile to the admission
// aggregates: sum(patient_pays) + sum(insurance_covered) == sum(base_price).
type AdmissionServiceLine struct {
	ID               uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AdmissionID      uint    `gorm:"column:admission_id;not null;index" json:"admission_id"`
	ServiceCode      string  `gorm:"column:service_code;not null;index" json:"service_code"`
	ServiceName      string  `gorm:"column:service_name;not null" json:"service_name"`
	BasePrice        float64 `gorm:"column:base_price;not null" json:"base_price"`
	InsuranceCovered float64 `gorm:"column:insurance_covered" json:"insurance_covered"`
	PatientPays      float64 `gorm:"column:patient_pays" json:"patient_pays"`
	IsFreeControl    bool    `gorm:"column:is_free_control;not null" json:"is_free_control"`
}

func (AdmissionServiceLine) TableName() string {
	return "admission_service_line"
}

// VitalSignsSnapshot model, taken once at admission.
type VitalSignsSnapshot struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AdmissionID   uint      `gorm:"column:admission_id;not null;uniqueIndex" json:"admission_id"`
	Temperature   float64   `gorm:"column:temperature" json:"temperature"`
	BloodPressure string    `gorm:"column:blood_pressure" json:"blood_pressure"`
	Pulse         int       `gorm:"column:pulse" json:"pulse"`
	Weight        float64   `gorm:"column:weight" json:"weight"`
	Height        float64   `gorm:"column:height" json:"height"`
	RecordedAt    time.Time `gorm:"column:recorded_at;autoCreateTime" json:"recorded_at"`
}

func (VitalSignsSnapshot) TableName() string {
	return "vital_signs_snapshot"
}
