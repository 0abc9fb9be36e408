package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// errMissingField is wrapped by field errors for absent or null required keys.
var errMissingField = errors.New("required")

// bodyFields is a decoded JSON object whose values are kept raw so that
// handlers can tell an absent key from a null or empty one.
type bodyFields map[string]json.RawMessage

// decodeFields decodes a JSON object request body.
func decodeFields(r *http.Request) (bodyFields, error) {
	defer r.Body.Close()
	var fields bodyFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		// The body was a literal null.
		return nil, errors.New("body must be a JSON object")
	}
	return fields, nil
}

// has reports whether key is present, even if its value is null.
func (f bodyFields) has(key string) bool {
	_, ok := f[key]
	return ok
}

// isNull reports whether key is present with a null value.
func (f bodyFields) isNull(key string) bool {
	raw, ok := f[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// required decodes key into dst. The key must be present and not null.
func (f bodyFields) required(key string, dst any) error {
	if !f.has(key) || f.isNull(key) {
		return fmt.Errorf("%s %w", key, errMissingField)
	}
	return f.decode(key, dst)
}

// optional decodes key into dst if present and reports whether it was.
// A null value is rejected: the fields it is used for cannot be cleared.
func (f bodyFields) optional(key string, dst any) (bool, error) {
	if !f.has(key) {
		return false, nil
	}
	if f.isNull(key) {
		return true, fmt.Errorf("%s must not be null", key)
	}
	return true, f.decode(key, dst)
}

// image decodes the image key. Absent yields ok=false; null or "" yields "".
func (f bodyFields) image() (string, bool, error) {
	if !f.has("image") {
		return "", false, nil
	}
	if f.isNull("image") {
		return "", true, nil
	}
	var image string
	if err := f.decode("image", &image); err != nil {
		return "", true, err
	}
	return image, true, nil
}

func (f bodyFields) decode(key string, dst any) error {
	if err := json.Unmarshal(f[key], dst); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}
