package models

import (
	"time"

	"github.com/lebossseur/masterClinique-sub001/utils"
)

// InsuranceInvoiceStatus lifecycle: DRAFT -> SENT -> {PAID, PARTIAL}.
type InsuranceInvoiceStatus string

const (
	InsuranceInvoiceDraft   InsuranceInvoiceStatus = "DRAFT"
	InsuranceInvoiceSent    InsuranceInvoiceStatus = "SENT"
	InsuranceInvoicePaid    InsuranceInvoiceStatus = "PAID"
	InsuranceInvoicePartial InsuranceInvoiceStatus = "PARTIAL"
)

// ParseInsuranceInvoiceStatus validates a caller-supplied status value.
func ParseInsuranceInvoiceStatus(s string) (InsuranceInvoiceStatus, error) {
	switch InsuranceInvoiceStatus(s) {
	case InsuranceInvoiceDraft, InsuranceInvoiceSent, InsuranceInvoicePaid, InsuranceInvoicePartial:
		return InsuranceInvoiceStatus(s), nil
	}
	return "", utils.NewValidationError("invalid insurance invoice status %q", s)
}

// InsuranceInvoice groups paid, insurance-covered patient invoices of one
// payer for a billing period.
type InsuranceInvoice struct {
	ID                 uint                   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceNumber      string                 `gorm:"column:invoice_number;unique;not null" json:"invoice_number"`
	InsuranceCompanyID string                 `gorm:"column:insurance_company_id;not null;index" json:"insurance_company_id"`
	PeriodStart        time.Time              `gorm:"column:period_start;not null" json:"period_start"`
	PeriodEnd          time.Time              `gorm:"column:period_end;not null" json:"period_end"`
	TotalAmount        float64                `gorm:"column:total_amount;not null" json:"total_amount"`
	TotalInvoices      int                    `gorm:"column:total_invoices;not null" json:"total_invoices"`
	Status             InsuranceInvoiceStatus `gorm:"column:status;check:status IN ('DRAFT', 'SENT', 'PAID', 'PARTIAL');not null" json:"status"`
	CreatedBy          string                 `gorm:"column:created_by" json:"created_by"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Items              []InsuranceInvoiceItem `gorm:"foreignKey:InsuranceInvoiceID;references:ID" json:"items"`
}

func (InsuranceInvoice) TableName() string {
	return "insurance_invoice"
}

// InsuranceInvoiceItem links one patient invoice into a payer invoice.
// PatientInvoiceID is unique so an invoice is never billed to a payer twice.
type InsuranceInvoiceItem struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InsuranceInvoiceID uint    `gorm:"column:insurance_invoice_id;not null;index" json:"insurance_invoice_id"`
	PatientInvoiceID   uint    `gorm:"column:patient_invoice_id;not null;uniqueIndex" json:"patient_invoice_id"`
	Amount             float64 `gorm:"column:amount;not null" json:"amount"`
}

func (InsuranceInvoiceItem) TableName() string {
	return "insurance_invoice_item"
}
