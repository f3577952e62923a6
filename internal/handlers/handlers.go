// Package handlers implements the HTTP routes of the scraping API.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amaumene/gostreamfr/internal/constants"
	apperrors "github.com/amaumene/gostreamfr/internal/errors"
	"github.com/amaumene/gostreamfr/internal/models"
	"github.com/amaumene/gostreamfr/internal/services"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

// methodNotAllowed is the error body for every non-GET, non-OPTIONS request.
const methodNotAllowed = "Method not allowed. Use GET."

// Handler handles HTTP requests for the scraping API.
type Handler struct {
	scraper *services.Scraper
	logger  logger.Logger
	started time.Time
}

// New creates a new Handler with the provided services.
func New(container *services.Container) *Handler {
	return &Handler{
		scraper: container.Scraper,
		logger:  container.Logger,
		started: time.Now(),
	}
}

// RegisterRoutes registers all HTTP routes. Unsupported methods on known
// paths get a 405 envelope and unknown paths a 404 envelope.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.Failure(methodNotAllowed, http.StatusMethodNotAllowed))
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.Failure("Not found", http.StatusNotFound))
	})

	r.GET("/home", h.handleHome)
	r.GET("/section", h.handleSection)
	r.GET("/catalog", h.handleCatalog)
	r.GET("/category", h.handleCategory)
	r.GET("/letter", h.handleLetter)
	r.GET("/search", h.handleSearch)
	r.GET("/series", h.handleSeries)
	r.GET("/movie", h.handleMovie)
	r.GET("/episode", h.handleEpisode)
	r.GET("/embed", h.handleEmbed)
	r.GET("/meta", h.handleMeta)

	r.GET("/health", h.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// respond writes the envelope, or the error mapped to its status code.
func (h *Handler) respond(c *gin.Context, env models.Envelope, err error) {
	if err != nil {
		status := apperrors.StatusCode(err)
		if status >= http.StatusInternalServerError {
			h.logger.Errorf("[Handler] %s failed: %v", c.Request.URL.Path, err)
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(status, models.Failure(apperrors.PublicMessage(err), status))
		return
	}
	c.Header("Cache-Control", constants.CacheControl)
	c.JSON(http.StatusOK, env)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, models.Success(gin.H{
		"status":  "ok",
		"service": constants.ServiceName,
		"version": constants.ServiceVersion,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}, nil))
}
