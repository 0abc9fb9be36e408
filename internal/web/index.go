package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	current, err := store.ListItems(r.Context(), s.DB, model.FilterCurrent)
	if err != nil {
		slog.Error("failed to list current items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	deleted, err := store.ListItems(r.Context(), s.DB, model.FilterDeleted)
	if err != nil {
		slog.Error("failed to list deleted items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Templates.Render(w, "index.html", &struct {
		PageData
		Current []model.Item
		Deleted []model.Item
	}{
		PageData: PageData{Title: "Items"},
		Current:  current,
		Deleted:  deleted,
	})
}
