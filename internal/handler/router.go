package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mtljason322/freshcart/pkg/middleware"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine serving the API under /api/v1.
func NewRouter(productHandler *ProductHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	// unversioned health check for load balancers
	router.GET("/health", Health)

	v1 := router.Group("/api/v1")
	{
		productHandler.RegisterRoutes(v1)
		v1.GET("/health", Health)
	}

	return router
}
