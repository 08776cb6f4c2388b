package routes

import (
	"net/http"

	"github.com/lebossseur/masterClinique-sub001/cache"
	"github.com/lebossseur/masterClinique-sub001/config"
	"github.com/lebossseur/masterClinique-sub001/controllers"
	"github.com/lebossseur/masterClinique-sub001/database"
	"github.com/lebossseur/masterClinique-sub001/handlers"
	"github.com/lebossseur/masterClinique-sub001/middlewares"
	"github.com/lebossseur/masterClinique-sub001/repositories"
	"github.com/lebossseur/masterClinique-sub001/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB, locks database.LockManager) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middlewares.OperatorHeader},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.RequireOperator())

	// Repositories
	sequenceRepo := repositories.NewSequenceRepository()
	admissionRepo := repositories.NewAdmissionRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db, cache)
	paymentRepo := repositories.NewPaymentRepository(db)
	sessionRepo := repositories.NewCashSessionRepository(db)
	accountingRepo := repositories.NewAccountingRepository(db)
	batchRepo := repositories.NewInsuranceInvoiceRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db, cache)

	// Services
	coverageService := services.NewCoverageService(catalogRepo, admissionRepo)
	admissionService := services.NewAdmissionService(db, admissionRepo, catalogRepo, coverageService, sequenceRepo)
	invoiceService := services.NewInvoiceService(db, invoiceRepo, admissionRepo, paymentRepo, sessionRepo, sequenceRepo)
	paymentService := services.NewPaymentService(db, paymentRepo, invoiceRepo, sessionRepo, accountingRepo, sequenceRepo)
	sessionService := services.NewCashSessionService(db, sessionRepo, paymentRepo, locks)
	batchService := services.NewInsuranceBatchService(db, invoiceRepo, batchRepo, catalogRepo, sequenceRepo)
	accountingService := services.NewAccountingService(db, accountingRepo, sequenceRepo)
	catalogService := services.NewCatalogService(catalogRepo)

	// Handlers
	admissionHandler := handlers.NewAdmissionHandler(admissionService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	sessionHandler := handlers.NewCashSessionHandler(sessionService)
	batchHandler := handlers.NewInsuranceInvoiceHandler(batchService)
	accountingHandler := handlers.NewAccountingHandler(accountingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)

	controllers.SetupBillingRoutes(
		router,
		admissionHandler,
		invoiceHandler,
		paymentHandler,
		sessionHandler,
		batchHandler,
		accountingHandler,
		catalogHandler,
	)

	controllers.SetupRootRoute(router)

	return router
}
