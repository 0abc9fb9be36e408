package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/imagestore"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// UploadedImagePrefix is the public path prefix of uploaded item images.
const UploadedImagePrefix = "./static/images/items/"

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB             *db.DB
	Images         *imagestore.Local
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

// imageName is the image store key for an item's uploaded image.
func imageName(id int64) string {
	return "items/" + strconv.FormatInt(id, 10) + ".jpg"
}

// parseID reads the {id} path value. Anything that is not an integer is
// treated as a route that does not exist.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return 0, false
	}
	return id, true
}

// writeStoreError maps a store error to a response.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	slog.ErrorContext(r.Context(), msg, "error", err, "request_id", RequestID(r.Context()))
	jsonError(w, http.StatusInternalServerError, msg)
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.ParseFilter(r.URL.Query().Get("filter"))
	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		writeStoreError(w, r, err, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeStoreError(w, r, err, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var name string
	var price int64
	if err := fields.required("name", &name); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := fields.required("price", &price); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	image, present, err := fields.image()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !present {
		jsonError(w, http.StatusBadRequest, "image required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, name, price, image)
	if err != nil {
		writeStoreError(w, r, err, "failed to create item")
		return
	}
	h.Metrics.ItemOp(metrics.OpCreate)

	jsonResponse(w, http.StatusCreated, map[string]any{"item": item})
}

// Update handles PATCH /items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	fields, err := decodeFields(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var patch model.ItemPatch
	var name string
	if present, err := fields.optional("name", &name); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	} else if present {
		patch.Name = &name
	}
	var price int64
	if present, err := fields.optional("price", &price); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	} else if present {
		patch.Price = &price
	}
	image, present, err := fields.image()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if present {
		image = model.ImageOrDefault(image)
		patch.Image = &image
	}

	var item *model.Item
	if patch.Empty() {
		item, err = store.GetItem(r.Context(), h.DB, id)
	} else {
		item, err = store.UpdateItem(r.Context(), h.DB, id, patch)
	}
	if err != nil {
		writeStoreError(w, r, err, "failed to update item")
		return
	}
	h.Metrics.ItemOp(metrics.OpUpdate)

	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// SoftDelete handles PATCH /items/{id}/softdelete.
func (h *ItemsHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	fields, err := decodeFields(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var msg string
	if err := fields.required("msg", &msg); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.SoftDeleteItem(r.Context(), h.DB, id, msg)
	if err != nil {
		writeStoreError(w, r, err, "failed to delete item")
		return
	}
	h.Metrics.ItemOp(metrics.OpSoftDelete)

	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// Undelete handles PATCH /items/{id}/undelete. The body is ignored.
func (h *ItemsHandler) Undelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, err := store.UndeleteItem(r.Context(), h.DB, id)
	if err != nil {
		writeStoreError(w, r, err, "failed to restore item")
		return
	}
	h.Metrics.ItemOp(metrics.OpUndelete)

	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		writeStoreError(w, r, err, "failed to delete item")
		return
	}
	h.Metrics.ItemOp(metrics.OpDelete)

	// Best effort: the row is already gone.
	if h.Images != nil {
		err := h.Images.Delete(r.Context(), imageName(id))
		if err != nil && !errors.Is(err, imagestore.ErrNotFound) {
			slog.WarnContext(r.Context(), "failed to remove item image", "item_id", id, "error", err)
		}
	}

	jsonResponse(w, http.StatusOK, map[string]any{"deleted": id})
}

// UploadImage handles PUT /items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if h.Images == nil {
		jsonError(w, http.StatusNotFound, "image uploads disabled")
		return
	}

	if _, err := store.GetItem(r.Context(), h.DB, id); err != nil {
		writeStoreError(w, r, err, "failed to get item")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			jsonError(w, http.StatusBadRequest, "image must be JPEG or PNG")
			return
		}
		slog.ErrorContext(r.Context(), "failed to process image", "item_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to process image")
		return
	}

	if err := h.Images.Save(r.Context(), imageName(id), bytes.NewReader(processed.Data)); err != nil {
		slog.ErrorContext(r.Context(), "failed to save image", "item_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	item, err := store.SetItemImage(r.Context(), h.DB, id, UploadedImagePrefix+strconv.FormatInt(id, 10)+".jpg")
	if err != nil {
		writeStoreError(w, r, err, "failed to save image")
		return
	}
	h.Metrics.ItemOp(metrics.OpImage)

	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}
