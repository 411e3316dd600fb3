package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minicart/fulfillment/internal/application/sales"
	"github.com/minicart/fulfillment/internal/domain/order"
	"github.com/minicart/fulfillment/internal/domain/product"
)

type errorResponse struct {
	Error   string `json:"error"`
	Current *int   `json:"current,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeSalesError maps workflow errors onto the API's error taxonomy.
func writeSalesError(w http.ResponseWriter, err error) {
	var verr *sales.ValidationError
	switch {
	case errors.As(err, &verr):
		current := verr.Current
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Current: &current})
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrMissingProduct):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, sales.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// writeInventoryError maps stock store errors onto the API's error taxonomy.
func writeInventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, product.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, product.ErrMissingID),
		errors.Is(err, product.ErrInvalidQuantity),
		errors.Is(err, product.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
