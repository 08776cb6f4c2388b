package models

import (
	"time"

	"github.com/lebossseur/masterClinique-sub001/utils"
)

// InvoiceStatus is derived from payments, except CONTROLE and CANCELLED
// which are sticky.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceControle  InvoiceStatus = "CONTROLE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceType selects the printed layout: till ticket or A4 sheet.
type InvoiceType string

const (
	InvoiceTypeTicket InvoiceType = "TICKET"
	InvoiceTypeA4     InvoiceType = "A4"
)

// Invoice model. One invoice per admission.
type Invoice struct {
	ID                    uint          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceNumber         string        `gorm:"column:invoice_number;unique;not null" json:"invoice_number"`
	PatientID             string        `gorm:"column:patient_id;not null;index" json:"patient_id"`
	AdmissionID           uint          `gorm:"column:admission_id;not null;uniqueIndex" json:"admission_id"`
	InsuranceCompanyID    *string       `gorm:"column:insurance_company_id;index" json:"insurance_company_id"`
	InvoiceDate           time.Time     `gorm:"column:invoice_date;not null;index" json:"invoice_date"`
	InvoiceType           InvoiceType   `gorm:"column:invoice_type;check:invoice_type IN ('TICKET', 'A4');not null" json:"invoice_type"`
	TotalAmount           float64       `gorm:"column:total_amount;not null" json:"total_amount"`
	InsuranceCovered      float64       `gorm:"column:insurance_covered" json:"insurance_covered"`
	PatientResponsibility float64       `gorm:"column:patient_responsibility" json:"patient_responsibility"`
	Status                InvoiceStatus `gorm:"column:status;check:status IN ('PENDING', 'PARTIAL', 'PAID', 'CONTROLE', 'CANCELLED');not null;index" json:"status"`
	CreatedBy             string        `gorm:"column:created_by" json:"created_by"`
	CreatedAt             time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Items                 []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID" json:"items"`
}

func (Invoice) TableName() string {
	return "invoice"
}

// InvoiceItem model
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceID   uint    `gorm:"column:invoice_id;not null;index" json:"invoice_id"`
	Description string  `gorm:"column:description;not null" json:"description"`
	Quantity    int     `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   float64 `gorm:"column:unit_price;not null" json:"unit_price"`
	TotalPrice  float64 `gorm:"column:total_price;not null" json:"total_price"`
}

func (InvoiceItem) TableName() string {
	return "invoice_item"
}

// RecomputeInvoiceStatus is the single authoritative derivation of an
// invoice status from its payment total. CONTROLE and CANCELLED are
// terminal and never overwritten here.
func RecomputeInvoiceStatus(current InvoiceStatus, totalPaid, patientResponsibility float64) InvoiceStatus {
	if current == InvoiceControle || current == InvoiceCancelled {
		return current
	}
	switch {
	case totalPaid >= patientResponsibility-utils.MoneyTolerance:
		return InvoicePaid
	case totalPaid > utils.MoneyTolerance:
		return InvoicePartial
	default:
		return InvoicePending
	}
}
