package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostreamfr/internal/middleware"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

// SetupRouter builds the gin engine with the shared middleware chain. store
// may be nil to disable response caching.
func SetupRouter(h *Handler, store middleware.ResponseStore, log logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.Gzip())
	if store != nil {
		r.Use(middleware.ResponseCache(store, "/health", "/metrics"))
	}

	h.RegisterRoutes(r)
	return r
}
