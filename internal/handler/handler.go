package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/samidev/credit-service/internal/service"
)

// Handler exposes the credit service over HTTP
type Handler struct {
	svc *service.Service
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// writeJSON writes v as a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps business errors to HTTP status codes and writes a
// unified error payload
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientCredit):
		code = http.StatusConflict
	case errors.Is(err, service.ErrInvalidState):
		code = http.StatusConflict
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
