// Package api serves the itinerary collaborators over JSON for browser
// front ends: generation, refinement, place and event lookup, calendar
// export and share tokens.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/alexanderramin/itinera/internal/geo"
	"github.com/alexanderramin/itinera/internal/intelligence"
)

// Deps are the collaborators behind the routes. Nil model-backed services
// answer 503 (generation, refinement) or an empty list (events).
type Deps struct {
	Generator    intelligence.GenerateService
	Refiner      intelligence.RefineService
	Events       intelligence.EventService
	Alternatives intelligence.AlternativesService
	Geocoder     geo.Geocoder

	ShareBaseURL   string
	AllowedOrigins []string

	// RequestsPerMinute limits each client IP. Zero disables limiting.
	RequestsPerMinute int

	Now    func() time.Time
	Logger *slog.Logger
}

type handler struct {
	deps Deps
}

// NewRouter builds the gin engine and wraps it with CORS.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Alternatives == nil {
		d.Alternatives = intelligence.NewAlternativesService(nil)
	}
	h := &handler{deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))
	if d.RequestsPerMinute > 0 {
		limit := rate.Every(time.Minute / time.Duration(d.RequestsPerMinute))
		r.Use(newIPRateLimiter(limit, d.RequestsPerMinute).middleware())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/itinerary", h.generate)
		api.POST("/refine", h.refine)
		api.POST("/alternatives", h.alternatives)
		api.GET("/geocode", h.geocode)
		api.GET("/events", h.events)
		api.POST("/export/ics", h.exportICS)
		api.POST("/share", h.createShare)
		api.GET("/share/:token", h.openShare)
		api.GET("/share/:token/qr", h.shareQR)
	}

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}
