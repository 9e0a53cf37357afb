package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/api/handlers"
	"github.com/Mihaix21/Stock-Forecasting/internal/api/middleware"
	"github.com/Mihaix21/Stock-Forecasting/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	ForecastService *service.ForecastService
	ProductService  *service.ProductService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)
			apiGroup.POST("/forecast/:product_id", forecastHandler.Compute)
			apiGroup.POST("/forecast/:product_id/runs", forecastHandler.ComputeAndSave)
			apiGroup.GET("/runs", forecastHandler.ListRuns)
			apiGroup.DELETE("/runs/:id", forecastHandler.DeleteRun)
		}

		if services.ProductService != nil {
			productHandler := handlers.NewProductHandler(services.ProductService)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.List)
				productGroup.POST("", productHandler.Create)
				productGroup.GET("/:id", productHandler.Get)
				productGroup.POST("/:id/history", productHandler.AppendHistory)
				productGroup.DELETE("/:id", productHandler.Delete)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
