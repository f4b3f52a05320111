// Package http provides HTTP handlers for the secret store and the device
// registry.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/credstore/internal/models"
	"github.com/atinyakov/credstore/internal/service"
)

// SecretService defines the secret store operations required by the
// SecretHandler.
type SecretService interface {
	// Get fetches the secret for domain, or models.ErrNotFound.
	Get(ctx context.Context, domain string) (*models.Secret, error)
	// GetAll fetches every stored secret.
	GetAll(ctx context.Context) ([]models.Secret, error)
	// Upsert validates the record and stores it under domain.
	Upsert(ctx context.Context, domain string, secret *models.Secret) error
	// Delete removes the secret for domain, or returns models.ErrNotFound.
	Delete(ctx context.Context, domain string) error
}

// DeviceObserver records which device issued the current request. Every
// secrets endpoint reports to it, reads included.
type DeviceObserver interface {
	// Observe records a request with the declared id (possibly empty)
	// arriving from sourceIP. Best effort, never returns an error.
	Observe(ctx context.Context, deviceID, sourceIP string)
}

// SecretHandler handles the /secrets endpoints.
type SecretHandler struct {
	SecretService SecretService
	Devices       DeviceObserver
}

// observe derives the request's device identity inputs and reports them.
func (h *SecretHandler) observe(r *http.Request) {
	h.Devices.Observe(r.Context(), r.URL.Query().Get("device_id"), sourceIP(r))
}

// Get handles GET /secrets/{domain}.
func (h *SecretHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.observe(r)

	secret, err := h.SecretService.Get(r.Context(), chi.URLParam(r, "domain"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secret)
}

// List handles GET /secrets.
func (h *SecretHandler) List(w http.ResponseWriter, r *http.Request) {
	h.observe(r)

	secrets, err := h.SecretService.GetAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, secrets)
}

// Upsert handles PUT and POST /secrets/{domain}. A valid payload fully
// replaces any record stored for the domain; success is 204 No Content.
func (h *SecretHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	h.observe(r)

	var secret models.Secret
	if err := json.NewDecoder(r.Body).Decode(&secret); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	err := h.SecretService.Upsert(r.Context(), chi.URLParam(r, "domain"), &secret)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /secrets/{domain}.
func (h *SecretHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.observe(r)

	if err := h.SecretService.Delete(r.Context(), chi.URLParam(r, "domain")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps service errors onto the response taxonomy: NotFound →
// 404, validation → 400, anything else → 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "domain not found")
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "storage error: "+err.Error())
	}
}

// sourceIP extracts the caller's IP from the request, tolerating both
// host:port remote addresses and bare IPs left by the RealIP middleware.
func sourceIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
