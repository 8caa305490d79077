// ==============================================================================
// SCREENING SERVICE - cmd/screening/main.go
// ==============================================================================
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freightgate/internal/audit"
	"freightgate/internal/customs"
	"freightgate/internal/handler"
	"freightgate/internal/middleware"
	"freightgate/internal/notification"
	"freightgate/internal/repository/postgres"
	"freightgate/internal/screening"
	"freightgate/pkg/cache"
	"freightgate/pkg/config"
	"freightgate/pkg/logger"
	"freightgate/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("screening-api")

	log.Info("Starting screening service", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	// Database is optional: without it the audit trail is in-memory only.
	var auditRepo *postgres.AuditRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal("Failed to connect to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		defer db.Close()

		auditRepo = postgres.NewAuditRepository(db)
		log.Info("Durable audit sink enabled", nil)
	}

	// Redis is optional too; without it results are cached per process.
	var screeningCache screening.Cache = screening.NewMemoryCache()
	var redisStore *cache.RedisCache
	if cfg.Redis.URL != "" {
		store, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer store.Close()
		redisStore = store
		screeningCache = screening.NewRedisCache(store, log)
		log.Info("Redis screening cache enabled", nil)
	}

	var auditSink audit.Sink
	if auditRepo != nil {
		auditSink = auditRepo
	}
	auditLog := audit.NewLog(cfg.Screening.AuditRetention, auditSink, log)

	policy := screening.PolicyFromConfig(cfg.Screening)
	gateway := screening.NewTradeGovGateway(cfg.TradeGov, log)
	notifier := notification.NewService(log)

	screeningService := screening.NewService(gateway, screeningCache, policy, auditLog, notifier, log)
	customsService := customs.NewService(screeningService, customs.NewStaticClassifier(), log)

	v := validator.New()
	screeningHandler := handler.NewScreeningHandler(screeningService, auditRepo, v, log)
	customsHandler := handler.NewCustomsHandler(customsService, v, log)

	r := mux.NewRouter()

	// Global middleware
	r.Use(middleware.CORS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recovery)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.NewLoggingMiddleware(log).Log)
	r.Use(middleware.BodyLimit(1 << 20))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"screening"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	authMw := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	api.Use(authMw.Authenticate)

	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore.Client(), cfg.RateLimit.Requests, cfg.RateLimit.Window)
		api.Use(limiter.Limit)
	}

	api.HandleFunc("/screening/party", screeningHandler.ScreenParty).Methods("POST")
	api.HandleFunc("/screening/shipment", screeningHandler.ScreenShipment).Methods("POST")
	api.HandleFunc("/screening/audit", screeningHandler.AuditTrail).Methods("GET")
	api.HandleFunc("/screening/audit/export", screeningHandler.ExportAudit).Methods("GET")
	api.HandleFunc("/screening/stats", screeningHandler.Stats).Methods("GET")
	api.HandleFunc("/screening/cache/clear", screeningHandler.ClearCache).Methods("POST")
	api.HandleFunc("/customs/preclear", customsHandler.PreClear).Methods("POST")

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Screening service started", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down screening service...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Screening service forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Screening service stopped gracefully", nil)
}
