package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/cache"
	"github.com/autospec4x4/quote-builder/config"
	"github.com/autospec4x4/quote-builder/controllers"
	"github.com/autospec4x4/quote-builder/database"
	"github.com/autospec4x4/quote-builder/logger"
	"github.com/autospec4x4/quote-builder/metrics"
	"github.com/autospec4x4/quote-builder/middleware"
	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/providers"
	"github.com/autospec4x4/quote-builder/repository"
	"github.com/autospec4x4/quote-builder/routes"
	"github.com/autospec4x4/quote-builder/services"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync() //nolint:errcheck

	// One admin client per configured store. An unconfigured store simply
	// has no entry; the services reject requests routed to it.
	clients := make(map[string]providers.API)
	for _, store := range []string{models.StoreAutospec, models.StoreLinex} {
		creds := cfg.Store(store)
		if creds.Configured() {
			clients[store] = providers.NewShopifyClient(creds.Domain, creds.Token)
		} else {
			log.Warn("Store not configured", zap.String("store", store))
		}
	}

	// Redis backs the enrichment cache and wizard sessions when configured;
	// otherwise both fall back to process-local storage.
	var enrichCache cache.Cache = cache.NewMemoryCache()
	var sessionRepo repository.SessionRepository = repository.NewMemorySessionRepository(cfg.SessionTTL)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		enrichCache = cache.NewRedisCache(redisClient)
		sessionRepo = repository.NewRedisSessionRepository(redisClient, cfg.SessionTTL)
		log.Info("Connected to Redis")
	}

	// Catalog compatibility lookups read from the autospec store.
	var compatClient providers.API
	if c, ok := clients[models.StoreAutospec]; ok {
		compatClient = c
	}

	catalogService := services.NewCatalogService(cfg.SeedPath, compatClient, log)
	enrichmentService := services.NewEnrichmentService(clients, enrichCache, cfg.EnrichTTL, cfg.StorefrontBaseURL, log)
	draftOrderService := services.NewDraftOrderService(clients, log)
	quoteService := services.NewQuoteService(draftOrderService, log)
	wizardService := services.NewWizardService(sessionRepo, catalogService, enrichmentService, log)

	// Load the catalog up front so a broken seed fails fast.
	if _, err := catalogService.Catalog(context.Background()); err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(metrics.PrometheusMiddleware())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "quote-builder"})
	})

	routes.Register(r,
		controllers.NewQuoteController(draftOrderService, quoteService),
		controllers.NewEnrichController(enrichmentService),
		controllers.NewWizardController(wizardService),
		controllers.NewCatalogController(catalogService),
		controllers.NewDebugController(cfg, catalogService, clients),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Quote builder started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited cleanly")
}
