package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cropguard/backend/internal/assessment"
	"github.com/cropguard/backend/internal/config"
	"github.com/cropguard/backend/internal/http/handlers"
	"github.com/cropguard/backend/internal/http/middleware"
	"github.com/cropguard/backend/internal/view"

	_ "github.com/cropguard/backend/docs"
)

func Router(cfg config.Config, sessions *assessment.Registry, webhookMode string, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.SetHTMLTemplate(view.Templates())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.APIKeyHeader, middleware.RequestIDHeader, handlers.SessionHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, handlers.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Sessions:       sessions,
		Validator:      validator.New(),
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		SessionTTL:     cfg.SessionTTL,
		CookieSecure:   cfg.CookieSecure,
		WebhookMode:    webhookMode,
	}

	r.GET("/healthz", h.Healthz)

	r.GET("/", h.Index)
	r.POST("/assess", h.Assess)
	r.POST("/retry", h.Retry)
	r.POST("/reset", h.Reset)

	api := r.Group("/api")
	api.Use(middleware.APIKey(cfg.APIKey))
	{
		api.POST("/assessments", h.CreateAssessment)
		api.POST("/assessments/retry", h.RetryAssessment)
		api.GET("/assessments/current", h.CurrentAssessment)
		api.DELETE("/assessments/current", h.ResetAssessment)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
