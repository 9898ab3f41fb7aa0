// README: HTTP router registration.
package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tourquote/internal/http/handlers"
	"tourquote/internal/http/middleware"
)

type RouterDeps struct {
	Calculator     handlers.Calculator
	Catalog        handlers.CatalogReader
	Rates          handlers.RateSource
	Quotes         handlers.QuoteService
	QuotePDF       handlers.RenderFunc
	Assistant      handlers.Assistant
	HealthChecks   map[string]handlers.Check
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(logger), middleware.Recovery(logger), middleware.Metrics())
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", "Location", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := r.Group("/api")

	calculatorHandler := handlers.NewCalculatorHandler(deps.Calculator)
	api.POST("/calculator", calculatorHandler.Calculate)

	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	api.GET("/tours", catalogHandler.Tours)
	api.GET("/vehicles", catalogHandler.Vehicles)
	api.GET("/hotels", catalogHandler.Hotels)
	api.GET("/guides", catalogHandler.Guides)

	currencyHandler := handlers.NewCurrencyHandler(deps.Rates)
	api.GET("/currency/rates", currencyHandler.Rates)

	if deps.Quotes != nil {
		quoteHandler := handlers.NewQuoteHandler(deps.Quotes, deps.QuotePDF)
		api.POST("/quotes", quoteHandler.Create)
		api.GET("/quotes/:id", quoteHandler.Get)
		api.GET("/quotes/:id/pdf", quoteHandler.PDF)
		api.GET("/quotes/:id/xlsx", quoteHandler.XLSX)
	}

	if deps.Assistant != nil {
		assistantHandler := handlers.NewAssistantHandler(deps.Assistant)
		api.POST("/assistant/suggest", assistantHandler.Suggest)
	}

	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
