package handlers

import (
	"net/http"

	"JournalVault/internal/config"
	"JournalVault/internal/middleware"
	"JournalVault/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	blobService *service.BlobService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	if config.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.WithLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.APIKeyHeader},
		MaxAge:         86400,
	}))
	r.Use(middleware.WithGzip)

	syncHandler := NewSyncHandler(blobService, logger, config)

	r.Get("/health", syncHandler.Health)

	r.Group(func(api chi.Router) {
		api.Use(middleware.WithAPIKey(config.APIKey))
		api.Use(middleware.NewRateLimiter(config.RateLimitPerMinute, config.RateLimitPerHour).Handler)

		api.Get("/api/sync", syncHandler.Fetch)
		api.Post("/api/sync", syncHandler.Store)
		api.Delete("/api/sync", syncHandler.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, response{Success: false, Error: "Not found"})
	})

	return &Handler{Router: r}
}
