// Package httpapi exposes listings over HTTP with JSON bodies and base64
// encoded images.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lewtec/realtor/internal/apperrors"
	"github.com/lewtec/realtor/internal/domain"
	"github.com/rs/zerolog"
)

// ListingService is what the handlers need from the service layer.
type ListingService interface {
	CreateListingEncoded(ctx context.Context, in domain.NewListing, images []string) (uuid.UUID, error)
	ListSummaries(ctx context.Context) ([]*domain.ListingSummary, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*domain.ListingDetail, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the HTTP surface.
type Options struct {
	Logger       zerolog.Logger
	MaxBodyBytes int64
	Pprof        bool
}

// Handler serves the listing endpoints.
type Handler struct {
	svc    ListingService
	health Pinger
	help   []byte
}

// NewRouter builds the gin engine with every route and middleware wired.
func NewRouter(svc ListingService, health Pinger, opts Options) *gin.Engine {
	h := &Handler{svc: svc, health: health, help: renderHelp()}

	router := gin.New()
	router.Use(RequestLogger(opts.Logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zerolog.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Msg("http: handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Code: apperrors.KindInternal.Code()})
	}))
	// "*" admits any method; the explicit names are for clients that do not
	// understand the wildcard.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "*"},
		AllowHeaders:    []string{"*"},
		MaxAge:          12 * time.Hour,
	}))
	if opts.MaxBodyBytes > 0 {
		router.Use(BodyLimit(opts.MaxBodyBytes))
	}

	h.RegisterRoutes(&router.RouterGroup)
	if opts.Pprof {
		pprof.Register(router)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Code: apperrors.KindNotFound.Code(), Description: "no route for " + c.Request.URL.Path})
	})
	return router
}

// RegisterRoutes registers the listing, help and health routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Help)
	rg.GET("/healthz", h.Health)
	rg.POST("/realtor_objects", h.CreateListing)
	rg.GET("/realtor_objects", h.ListSummaries)
	rg.GET("/realtor_objects/:id", h.GetDetail)
}

// GET /
func (h *Handler) Help(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.help)
}

// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Code: apperrors.KindInternal.Code()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
