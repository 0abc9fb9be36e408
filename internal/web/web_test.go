package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/store"
)

func TestLoadTemplates(t *testing.T) {
	ts, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	if _, ok := ts.templates["index.html"]; !ok {
		t.Error("index.html not loaded")
	}
}

func TestImageURL(t *testing.T) {
	tests := map[string]string{
		"./static/images/box.jpg":        "/static/images/box.jpg",
		"./static/images/items/3.jpg":    "/static/images/items/3.jpg",
		"https://example.com/banana.png": "https://example.com/banana.png",
		"fakeImage":                      "fakeImage",
	}
	for in, want := range tests {
		if got := imageURL(in); got != want {
			t.Errorf("imageURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIndexPage(t *testing.T) {
	d := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := store.CreateItem(ctx, d, "Expensive graphics card", 700, ""); err != nil {
		t.Fatalf("creating item: %v", err)
	}
	gone, err := store.CreateItem(ctx, d, "Bananas <ripe>", 5, "")
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	if _, err := store.SoftDeleteItem(ctx, d, gone.ID, "Eaten"); err != nil {
		t.Fatalf("soft-deleting item: %v", err)
	}

	router, err := NewRouter(d)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html, got %s", ct)
	}

	body, _ := io.ReadAll(rec.Body)
	page := string(body)
	for _, want := range []string{
		"Current items (1)",
		"Expensive graphics card",
		"Deleted items (1)",
		"Bananas &lt;ripe&gt;",
		"Eaten",
		`src="/static/images/box.jpg"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexOnlyMatchesRoot(t *testing.T) {
	router, err := NewRouter(db.NewTestDB(t))
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
