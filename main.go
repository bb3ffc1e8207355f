package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"letterbox/handlers"
	"letterbox/internal/cache"
	"letterbox/internal/config"
	"letterbox/internal/database"
	"letterbox/internal/logger"
	"letterbox/internal/metrics"
	"letterbox/middleware"
	"letterbox/services"
)

var (
	cfg           *config.Config
	logr          *zap.Logger
	dbPool        *pgxpool.Pool
	letterCache   *cache.Redis
	letterService *services.LetterService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logr, err = logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err = database.Connect(ctx, cfg.DatabaseURL, cfg.AccessKey)
	if err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}
	logr.Info("Successfully connected to database")

	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logr.Fatal("Failed to initialize schema", zap.Error(err))
	}

	opts := []services.LetterServiceOption{
		services.WithDeliveryDelay(cfg.DeliveryDelay),
	}

	if cfg.RedisURL != "" {
		letterCache, err = cache.New(ctx, cfg.RedisURL, cfg.LettersCacheTTL, logr)
		if err != nil {
			logr.Warn("Could not initialize letters cache, continuing without it", zap.Error(err))
		} else {
			opts = append(opts, services.WithCache(letterCache))
			logr.Info("Letters cache initialized", zap.Duration("ttl", cfg.LettersCacheTTL))
		}
	}

	letterService = services.NewLetterService(database.NewPostgresStore(dbPool), opts...)

	metrics.Init()
}

func main() {
	defer func() {
		logr.Info("Closing database connection pool...")
		dbPool.Close()
		if letterCache != nil {
			letterCache.Close()
		}
		logr.Sync()
	}()

	letterHandler := handlers.NewLetterHandler(letterService, logr)
	healthHandler := handlers.NewHealthHandler(dbPool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trusted := middleware.WithTrustedProxy(cfg.TrustProxy)
	generalLimiter := middleware.NewRateLimiter("general", cfg.RateLimitRPS, cfg.RateLimitBurst, trusted)
	// Reactions are the cheapest thing to spam, so they get a tighter bucket.
	reactLimiter := middleware.NewRateLimiter("react", cfg.RateLimitRPS/5, max(cfg.RateLimitBurst/5, 1), trusted)
	go generalLimiter.CleanupVisitors(ctx, time.Minute, 3*time.Minute)
	go reactLimiter.CleanupVisitors(ctx, time.Minute, 3*time.Minute)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(logr))
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler())).Methods("GET")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(generalLimiter.Middleware)
	letterHandler.Register(api, reactLimiter.Middleware)

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(zap.NewStdLog(logr)),
		gorillaHandlers.PrintRecoveryStack(true),
	)

	server := http.Server{
		Addr:         cfg.Addr(),
		Handler:      recovery(corsHandler(r)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logr.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("Server shutdown error", zap.Error(err))
	}

	logr.Info("Server shutdown complete")
}
