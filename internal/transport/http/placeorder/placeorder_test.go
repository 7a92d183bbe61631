package placeorder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/miniflavors/checkout/internal/service/models/checkout"
)

type fakeService struct {
	result checkout.Result
	err    error
	called bool
}

func (f *fakeService) Checkout(_ context.Context, _ checkout.Payload) (checkout.Result, error) {
	f.called = true
	return f.result, f.err
}

func post(t *testing.T, svc service, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	PlaceOrder(rec, req, svc)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestPlaceOrderSuccess(t *testing.T) {
	svc := &fakeService{result: checkout.Result{Referencia: "0007"}}

	rec := post(t, svc, `{"nombre":"Ana","telefono":"5551234567","items":[{"titulo":"Brownie","cantidad":1,"precio":"$40.00"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	resp := decode(t, rec)
	if !resp.OK || resp.Referencia != "0007" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestPlaceOrderMalformedBody(t *testing.T) {
	svc := &fakeService{}

	rec := post(t, svc, `{"nombre":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", rec.Code)
	}
	if svc.called {
		t.Error("service must not be called for an undecodable body")
	}
}

func TestPlaceOrderErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        *checkout.Error
		wantStatus int
	}{
		{"validation", checkout.NewError(checkout.KindValidation, "Datos incompletos para la orden."), http.StatusBadRequest},
		{"configuration", checkout.NewError(checkout.KindConfiguration, "Faltan variables de entorno de notificaciones."), http.StatusInternalServerError},
		{"storage", checkout.NewError(checkout.KindStorage, "No se pudo registrar la orden."), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}

			rec := post(t, svc, `{}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decode(t, rec)
			if resp.OK {
				t.Error("error responses must not claim ok")
			}
			if resp.Kind != string(tt.err.Kind) {
				t.Errorf("got kind %q, want %q", resp.Kind, tt.err.Kind)
			}
		})
	}
}

func TestPlaceOrderNotificationFailureKeepsReference(t *testing.T) {
	e := checkout.NewError(checkout.KindNotification, "Error enviando notificaciones.")
	e.Referencia = "0007"
	svc := &fakeService{err: e}

	rec := post(t, svc, `{}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("got status %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Referencia != "0007" {
		t.Errorf("notification failures must still expose the assigned reference, got %+v", resp)
	}
}

func TestPlaceOrderUnclassifiedError(t *testing.T) {
	svc := &fakeService{err: context.DeadlineExceeded}

	rec := post(t, svc, `{}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp.Kind != string(checkout.KindStorage) {
		t.Errorf("unclassified errors normalize to storage, got %q", resp.Kind)
	}
}
