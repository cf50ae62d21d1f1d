package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"krishi-sahayak/backend/internal/features/advisory/application"
	advisory_http "krishi-sahayak/backend/internal/features/advisory/presentation/http"
	configdomain "krishi-sahayak/backend/internal/features/config/domain"
	config_http "krishi-sahayak/backend/internal/features/config/presentation/http"
	"krishi-sahayak/backend/internal/logger"
	"krishi-sahayak/backend/internal/middleware"
)

// Dependencies are the services the HTTP router is wired to.
type Dependencies struct {
	Logger        *logger.Logger
	RouterService application.RouterService
	Catalog       *configdomain.Catalog
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(deps.Logger), middleware.Recovery(deps.Logger))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		handler := advisory_http.NewAdvisoryHandler(deps.RouterService, deps.Logger)
		api.POST("/voice-assistant", handler.VoiceAssistantHandler)
	}

	configGroup := r.Group("/api/config")
	{
		configGroup.GET("/catalog", config_http.NewCatalogHandler(deps.Catalog).GetCatalogHandler)
	}

	return r
}
