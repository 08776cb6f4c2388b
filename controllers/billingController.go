package controllers

import (
	"github.com/lebossseur/masterClinique-sub001/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBillingRoutes registers the billing-desk surface.
func SetupBillingRoutes(
	router *gin.Engine,
	admissionHandler *handlers.AdmissionHandler,
	invoiceHandler *handlers.InvoiceHandler,
	paymentHandler *handlers.PaymentHandler,
	cashSessionHandler *handlers.CashSessionHandler,
	insuranceInvoiceHandler *handlers.InsuranceInvoiceHandler,
	accountingHandler *handlers.AccountingHandler,
	catalogHandler *handlers.CatalogHandler,
) {
	router.POST("/admissions", admissionHandler.CreateAdmission)
	router.GET("/admissions", admissionHandler.GetAllAdmissions)
	router.GET("/admissions/:id", admissionHandler.GetAdmissionByID)
	router.POST("/admissions/:id/cancel", admissionHandler.CancelAdmission)

	router.POST("/invoices", invoiceHandler.CreateInvoice)
	router.GET("/invoices", invoiceHandler.GetAllInvoices)
	router.GET("/invoices/:id", invoiceHandler.GetInvoiceByID)
	router.POST("/invoices/:id/recompute", invoiceHandler.RecomputeInvoiceStatus)
	router.GET("/invoices/:id/payments", paymentHandler.GetPaymentsByInvoice)

	router.POST("/payments", paymentHandler.RecordPayment)

	router.POST("/cash_sessions", cashSessionHandler.OpenSession)
	router.GET("/cash_sessions", cashSessionHandler.GetSessionHistory)
	router.GET("/cash_sessions/current", cashSessionHandler.GetCurrentSession)
	router.GET("/cash_sessions/:id", cashSessionHandler.GetSessionByID)
	router.POST("/cash_sessions/:id/close", cashSessionHandler.CloseSession)
	router.GET("/cash_sessions/:id/payments", paymentHandler.GetPaymentsBySession)

	router.GET("/insurance_companies", catalogHandler.GetAllInsuranceCompanies)
	router.POST("/insurance_companies", catalogHandler.SaveInsuranceCompany)
	router.GET("/insurance_companies/:company_id", catalogHandler.GetInsuranceCompanyByID)
	router.POST("/insurance_companies/:company_id/coverage_rates", catalogHandler.SaveCoverageRate)
	router.GET("/insurance_companies/:company_id/eligible_invoices", insuranceInvoiceHandler.GetEligibleInvoices)
	router.POST("/insurance_companies/:company_id/batches", insuranceInvoiceHandler.GenerateBatch)
	router.GET("/insurance_companies/:company_id/batches", insuranceInvoiceHandler.GetBatchesByCompany)

	router.GET("/insurance_invoices/:id", insuranceInvoiceHandler.GetBatchByID)
	router.PUT("/insurance_invoices/:id/status", insuranceInvoiceHandler.UpdateBatchStatus)

	router.POST("/expenses", accountingHandler.RecordExpense)
	router.GET("/accounting_transactions", accountingHandler.GetTransactions)
	router.GET("/accounting_transactions/daily_summary", accountingHandler.GetDailySummary)

	router.GET("/services", catalogHandler.GetAllServices)
	router.POST("/services", catalogHandler.SaveService)
	router.GET("/services/:code", catalogHandler.GetServiceByCode)
}
