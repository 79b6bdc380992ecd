// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"otcbook/internal/config"
	"otcbook/internal/metrics"
	"otcbook/internal/orderbook/repository"
	"otcbook/internal/orderbook/service"
	orderbookhttp "otcbook/internal/orderbook/transport/http"
	"otcbook/internal/pricing"
	"otcbook/pkg/db"
	"otcbook/pkg/logger"
	"otcbook/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer lg.Sync()

	metrics.InitMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		lg.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()
	lg.Info("connected to PostgreSQL")

	// --- ИНИЦИАЛИЗАЦИЯ СЛОЁВ ---
	var prices pricing.Source = pricing.NewStatic(pricing.Identity{})
	if cfg.PriceIndexSymbol != "" {
		prices = pricing.NewBinanceSource(pricing.NewBinanceTicker(), cfg.PriceIndexSymbol, lg)
		lg.Info("price index enabled", zap.String("symbol", cfg.PriceIndexSymbol))
	}

	orderRepo := repository.NewPostgresOrderRepository(database)
	orderService := service.NewService(orderRepo, prices, service.Options{
		ReputationURL: cfg.ReputationURL,
		QueryTimeout:  cfg.QueryTimeout,
	}, lg)
	orderHandler := orderbookhttp.NewHandler(orderService, cfg.PageTitle, lg)

	// --- РОУТЕР ---
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.MetricsMiddleware)
	if cfg.RateLimitPerMinute > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, lg).Middleware)
	}

	api := chi.NewRouter()
	api.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	orderHandler.Register(r, api)
	r.Mount("/api", api)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/vieworderbook", http.StatusFound)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.QueryTimeout)
		defer cancel()
		if err := orderRepo.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	})

	// Метрики, при наличии учётки - под basic auth
	r.Group(func(mr chi.Router) {
		if cfg.MetricsUser != "" {
			mr.Use(middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPasswordHash))
		}
		mr.Handle("/metrics", promhttp.Handler())
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.QueryTimeout + 10*time.Second,
	}

	// Graceful shutdown на сигналы ОС
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		lg.Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown failed", zap.Error(err))
		}
	}()

	lg.Info("server running", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Fatal("server failed", zap.Error(err))
	}
	lg.Info("server stopped")
}
