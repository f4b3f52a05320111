package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/credstore/internal/models"
)

// DeviceService defines the registry operations required by the DeviceHandler.
type DeviceService interface {
	// GetAll fetches every known device with its accumulated IP set.
	GetAll(ctx context.Context) ([]models.Device, error)
}

// DeviceHandler handles the /devices endpoint. It bypasses the secret store
// entirely.
type DeviceHandler struct {
	DeviceService DeviceService
}

// List handles GET /devices.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.DeviceService.GetAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}
