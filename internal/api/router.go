package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/imagestore"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/metrics"
)

// Config holds the dependencies of the API router. Only DB is required.
type Config struct {
	DB             *db.DB
	Images         *imagestore.Local
	Metrics        *metrics.Metrics
	Placeholder    *imaging.ProcessResult
	MaxUploadBytes int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}

	itemsHandler := &ItemsHandler{
		DB:             cfg.DB,
		Images:         cfg.Images,
		Metrics:        cfg.Metrics,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	healthHandler := &HealthHandler{DB: cfg.DB}

	// Items.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("POST /items", itemsHandler.Create)
	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.HandleFunc("PATCH /items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /items/{id}", itemsHandler.Delete)
	mux.HandleFunc("PATCH /items/{id}/softdelete", itemsHandler.SoftDelete)
	mux.HandleFunc("PATCH /items/{id}/undelete", itemsHandler.Undelete)
	mux.HandleFunc("PUT /items/{id}/image", itemsHandler.UploadImage)

	// Static images.
	if cfg.Placeholder != nil {
		mux.Handle("GET /static/images/box.jpg", placeholderHandler(cfg.Placeholder))
	}
	if cfg.Images != nil {
		files := http.StripPrefix("/static/images/", http.FileServer(http.Dir(cfg.Images.Dir())))
		mux.Handle("GET /static/images/items/", files)
	}

	mux.HandleFunc("GET /healthz", healthHandler.Check)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return metricsMiddleware(cfg.Metrics, mux)
}

// placeholderHandler serves the rendered default item image.
func placeholderHandler(img *imaging.ProcessResult) http.Handler {
	modTime := time.Now()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", img.MIME)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeContent(w, r, "box.jpg", modTime, bytes.NewReader(img.Data))
	})
}

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	DB *db.DB
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		slog.WarnContext(r.Context(), "health check failed", "error", err)
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
