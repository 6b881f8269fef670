package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/product"
)

// Handlers contains HTTP route handlers for the proxy.
type Handlers struct {
	client product.Lookup
	logger *slog.Logger
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// HandleProduct handles GET /api/product/{barcode} — look up a product
// upstream and pass the response through unchanged.
func (h *Handlers) HandleProduct(w http.ResponseWriter, r *http.Request) {
	barcode := r.PathValue("barcode")
	if !product.ValidBarcode(barcode) {
		writeError(w, http.StatusBadRequest, errors.NewValidation("barcode must be 8 to 13 digits"))
		return
	}

	resp, err := h.client.Lookup(r.Context(), barcode)
	if err != nil {
		h.logger.Error("upstream lookup failed", "barcode", barcode, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	status := http.StatusOK
	if !resp.Found() {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps domain error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrRemoteUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	var body errorBody
	if le, ok := err.(*errors.ListfyError); ok {
		body.Error.Code = string(le.Code)
		body.Error.Message = le.Message
	} else {
		body.Error.Code = string(errors.ErrInternal)
		body.Error.Message = err.Error()
	}
	writeJSON(w, status, body)
}
