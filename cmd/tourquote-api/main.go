// README: Entry point; loads config, wires services, starts HTTP server and the FX refresher.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourquote/internal/config"
	httptransport "tourquote/internal/http"
	"tourquote/internal/http/handlers"
	"tourquote/internal/infra"
	"tourquote/internal/modules/assistant"
	"tourquote/internal/modules/catalog"
	"tourquote/internal/modules/currency"
	"tourquote/internal/modules/pricing"
	"tourquote/internal/modules/quote"
	"tourquote/internal/modules/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN, cfg.DB.ConnectTimeout, logger)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	defer dbPool.Close()

	if cfg.DB.Migrate {
		if err := infra.Migrate(ctx, dbPool, logger); err != nil {
			logger.Fatal("migrations", zap.Error(err))
		}
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()

	catalogStore := catalog.NewStore(dbPool)
	settingsSvc := settings.NewService(settings.NewStore(dbPool), logger)

	converter := currency.NewConverter(
		currency.NewHTTPRateProvider(cfg.FX.RatesURL, &http.Client{Timeout: cfg.FX.FetchTimeout}),
		currency.Options{
			TTL:          cfg.FX.TTL,
			FetchTimeout: cfg.FX.FetchTimeout,
			Snapshots:    currency.NewRedisSnapshotStore(redisClient, currency.DefaultSnapshotKey, 7*24*time.Hour),
			Logger:       logger.Named("fx"),
		},
	)
	if err := converter.Warm(ctx); err != nil {
		logger.Warn("fx snapshot unavailable, starting from built-in rates", zap.Error(err))
	}

	pricingSvc := pricing.NewService(catalogStore, settingsSvc, converter, logger.Named("pricing"))
	quoteSvc := quote.NewService(quote.NewStore(dbPool), pricingSvc, cfg.Quote.ValidFor)
	pdfRenderer, err := quote.NewPDFRenderer(cfg.Quote.PDFFont)
	if err != nil {
		logger.Fatal("pdf renderer", zap.Error(err))
	}

	assistantDeps := assistant.Deps{
		Usage:   assistant.NewUsageStore(dbPool, cfg.AI.MonthlyTokens),
		Tours:   catalogStore,
		Timeout: cfg.AI.Timeout,
		Logger:  logger.Named("assistant"),
	}
	if cfg.AI.GeminiKey != "" {
		gemini, err := assistant.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Warn("gemini init failed, assistant will use fallback replies", zap.Error(err))
		} else {
			defer gemini.Close()
			assistantDeps.LLM = gemini
		}
	}
	if cfg.AI.MapsKey != "" {
		routes, err := assistant.NewRouteService(cfg.AI.MapsKey)
		if err != nil {
			logger.Warn("maps init failed, route hints disabled", zap.Error(err))
		} else {
			assistantDeps.Routes = routes
		}
	}

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Calculator: pricingSvc,
		Catalog:    catalogStore,
		Rates:      converter,
		Quotes:     quoteSvc,
		QuotePDF:   pdfRenderer.Render,
		Assistant:  assistant.NewService(assistantDeps),
		HealthChecks: map[string]handlers.Check{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         logger,
	})

	go converter.Run(ctx)

	server := httptransport.NewServer(cfg.HTTP.Addr, router, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
