package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"guardian-lab/internal/api"
	"guardian-lab/internal/api/handlers"
	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/internal/domain/services"
	"guardian-lab/internal/infrastructure/cache"
	"guardian-lab/internal/infrastructure/database"
	"guardian-lab/internal/infrastructure/database/repository"
	"guardian-lab/internal/infrastructure/reputation"
	"guardian-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Guardian Lab")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize audit repository
	var audit *repository.AuditRepository
	if db != nil {
		audit = repository.NewAuditRepository(db, log)
		if err := audit.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to prepare audit schema, auditing disabled")
			audit = nil
		} else {
			log.Info().Msg("audit repository initialized")
		}
	} else {
		log.Warn().Msg("running without database - audit log unavailable")
	}

	// Build the rule catalog, overlaying the external domain list if present
	catalog := rules.NewDefaultCatalog()
	if cfg.Analysis.MaliciousDomainsFile != "" {
		if err := catalog.MaliciousDomains.LoadExternal(cfg.Analysis.MaliciousDomainsFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.Analysis.MaliciousDomainsFile).Msg("failed to load external domain list")
		} else {
			log.Info().Int("domains", catalog.MaliciousDomains.Len()).Msg("malicious domain list loaded")
		}
	}

	// Optional external collaborators
	var reputationClient services.ReputationClient
	if cfg.Reputation.Enabled {
		reputationClient = reputation.NewPhishTankClient(cfg.Reputation, redisCache, log)
		log.Info().Str("api_url", cfg.Reputation.APIURL).Msg("reputation service enabled")
	}

	var classifier services.Classifier
	if cfg.Classifier.Enabled {
		classifier = services.NewHTTPClassifier(cfg.Classifier, log)
		log.Info().Str("api_url", cfg.Classifier.APIURL).Msg("classifier enabled")
	}

	// Initialize the analysis engine
	analyzer := services.NewMessageAnalyzer(cfg.Analysis, catalog, reputationClient, classifier, log)
	log.Info().Msg("message analyzer initialized")

	// Initialize handlers
	deps := handlers.Dependencies{
		Analyzer:         analyzer,
		Cache:            redisCache,
		Audit:            audit,
		MaxMessageLength: cfg.Analysis.MaxMessageLength,
		Logger:           log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections. Both are
// optional: the engine runs fully without them.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		}
	}

	return db, redisCache
}
