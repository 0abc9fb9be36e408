package web

import (
	"net/http"

	"github.com/erazemk/zaloga/internal/db"
)

// NewRouter creates the web page router.
func NewRouter(d *db.DB) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        d,
		Templates: templates,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.Index)

	return mux, nil
}
