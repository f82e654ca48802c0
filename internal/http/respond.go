package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"milkyfeast/internal/core"
	"milkyfeast/internal/storage"
)

type (
	messageResponse struct {
		Message string `json:"message"`
	}

	errorResponse struct {
		Message string `json:"message"`
	}

	listResponse[T any] struct {
		Data  []T   `json:"data"`
		Total int64 `json:"total"`
	}
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Encode response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Message: msg})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Message: msg})
}

// respondStoreError maps a storage failure onto 404 or 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Not Found")
		return
	}
	slog.ErrorContext(r.Context(), "Storage operation failed",
		"operation", operation, "error", err)
	respondError(w, http.StatusInternalServerError, "Server Error")
}

// isValidationError reports whether err came from boundary validation of a
// transaction record rather than from storage.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidType,
		core.ErrInvalidAmount,
		core.ErrInvalidEntity,
		core.ErrInvalidDate,
		core.ErrEmptyCategory,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// parseListPage reads the page/limit/search query knobs with the defaults
// the frontend expects (page 1, five rows).
func parseListPage(r *http.Request) storage.ListPage {
	page := storage.ListPage{Page: 1, Limit: 5, Search: r.URL.Query().Get("search")}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	return page
}
