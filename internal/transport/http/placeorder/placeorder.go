package placeorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/miniflavors/checkout/internal/metrics"
	"github.com/miniflavors/checkout/internal/service/models/checkout"
)

// service is an interface for the service layer.
type service interface {
	Checkout(ctx context.Context, payload checkout.Payload) (checkout.Result, error)
}

type response struct {
	OK         bool   `json:"ok"`
	Referencia string `json:"referencia,omitempty"`
	Error      string `json:"error,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

// PlaceOrder handles the checkout request: decode, run the intake
// pipeline, map the classified outcome to a status code.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	var payload checkout.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Error("Error decoding checkout request body", "error", err)
		metrics.CheckoutsTotal.WithLabelValues(string(checkout.KindValidation)).Inc()
		writeJSON(w, http.StatusBadRequest, response{
			OK:    false,
			Kind:  string(checkout.KindValidation),
			Error: "Cuerpo de la peticion invalido.",
		})

		return
	}

	result, err := service.Checkout(r.Context(), payload)
	if err != nil {
		var ce *checkout.Error
		if !errors.As(err, &ce) {
			// Anything unclassified failed while persisting; dispatch
			// failures always arrive classified.
			ce = checkout.NewError(checkout.KindStorage, "No se pudo registrar la orden.")
		}
		slog.Error("Checkout failed", "kind", ce.Kind, "error", ce.Message, "detail", ce.Detail)
		metrics.CheckoutsTotal.WithLabelValues(string(ce.Kind)).Inc()
		writeJSON(w, statusFor(ce.Kind), response{
			OK:         false,
			Kind:       string(ce.Kind),
			Error:      ce.Message,
			Referencia: ce.Referencia,
		})

		return
	}

	metrics.CheckoutsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, response{OK: true, Referencia: result.Referencia})
}

func statusFor(kind checkout.ErrorKind) int {
	switch kind {
	case checkout.KindValidation:
		return http.StatusBadRequest
	case checkout.KindNotification:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error writing checkout response", "error", err)
	}
}
