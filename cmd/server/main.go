// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/api"
	"github.com/Mihaix21/Stock-Forecasting/internal/cache"
	"github.com/Mihaix21/Stock-Forecasting/internal/config"
	"github.com/Mihaix21/Stock-Forecasting/internal/repository/postgres"
	"github.com/Mihaix21/Stock-Forecasting/internal/scheduler"
	"github.com/Mihaix21/Stock-Forecasting/internal/service"
	"github.com/Mihaix21/Stock-Forecasting/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "release" {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize cache (noop unless CACHE_ENABLED)
	productCache, err := cache.NewProductCache(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize product cache")
	}

	// Initialize repositories and services
	productRepo := postgres.NewProductRepository(db)
	runRepo := postgres.NewRunRepository(db)

	productService := service.NewProductService(productRepo, productCache)
	forecastService := service.NewForecastService(productRepo, runRepo, cfg.Forecast)

	// Optional background plan recomputation
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(cfg.Scheduler, forecastService, productService)
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer sched.Stop()
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
		ProductService:  productService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
