// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"posledger/internal/core/validate"
	"posledger/internal/domain/attendance"
	"posledger/internal/domain/auth"
	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
	"posledger/internal/domain/documents/bill"
	"posledger/internal/domain/reports"
	"posledger/internal/infrastructure/http/v1/handlers"
	"posledger/internal/infrastructure/http/v1/middleware"
	"posledger/pkg/logger"
)

// Services are the domain services served by the API.
type Services struct {
	Auth       *auth.Service
	StockItems *stockitem.Service
	Suppliers  *supplier.Service
	Employees  *employee.Service
	Bills      *bill.Engine
	Attendance *attendance.Service
	Reports    *reports.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator
	Services     Services

	// DB backs the readiness probe.
	DB handlers.Pinger

	// Metrics is optional; when set, /metrics is served.
	Metrics *middleware.Metrics

	// Idempotency is optional; when set, bill creation honours
	// X-Idempotency-Key.
	Idempotency middleware.IdempotencyStore

	// Production turns on HTTPS redirects and gin release mode.
	Production bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validate.Register(v); err != nil {
			panic(err)
		}
	}

	router := gin.New()

	// Recovery runs inside ErrorHandler so a recovered panic still gets
	// a JSON body, and the logger and metrics see the final status.
	router.Use(middleware.Trace())
	router.Use(middleware.Secure(cfg.Production))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerRegistryRoutes(protected, cfg)
		registerBillRoutes(protected, cfg)
		registerAttendanceRoutes(protected, cfg)
		registerDashboardRoutes(protected, cfg)
	}

	return router
}

func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.Services.Auth)

	group := rg.Group("/auth")
	group.POST("/login", h.Login)

	protected := group.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))
	protected.GET("/me", h.Me)
	protected.POST("/logout", h.Logout)
}

func registerRegistryRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()
	svc := cfg.Services

	RegisterCatalogRoutes(rg.Group("/inventory"), handlers.NewStockItemHandler(base, svc.StockItems), nil)
	RegisterCatalogRoutes(rg.Group("/employees"), handlers.NewEmployeeHandler(base, svc.Employees), nil)

	suppliers := handlers.NewSupplierHandler(base, svc.Suppliers, svc.Bills)
	RegisterCatalogRoutes(rg.Group("/suppliers"), suppliers, suppliers.Profile)
}

func registerBillRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	var create []gin.HandlerFunc
	if cfg.Idempotency != nil {
		create = append(create, middleware.Idempotency(cfg.Idempotency))
	}

	RegisterBillRoutes(rg.Group("/purchases"),
		handlers.NewBillHandler(base, cfg.Services.Bills, bill.DirectionPurchase), create...)
	RegisterBillRoutes(rg.Group("/sales"),
		handlers.NewBillHandler(base, cfg.Services.Bills, bill.DirectionSale), create...)
}

func registerAttendanceRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewAttendanceHandler(handlers.NewBaseHandler(), cfg.Services.Attendance)

	group := rg.Group("/attendance")
	group.GET("/today", h.Today)
	group.GET("", h.List)
	group.POST("", h.Mark)
}

func registerDashboardRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	h := handlers.NewDashboardHandler(handlers.NewBaseHandler(), cfg.Services.Reports)
	rg.GET("/dashboard", h.Get)
}
