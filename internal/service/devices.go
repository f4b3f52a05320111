package service

import (
	"context"

	"github.com/atinyakov/credstore/internal/models"
	"go.uber.org/zap"
)

// DeviceRepository defines the persistence operations needed by the DeviceService.
type DeviceRepository interface {
	// RecordObservation merges ip into the address set of identity,
	// creating the device if unknown.
	RecordObservation(ctx context.Context, identity, ip string) (*models.Device, error)
	// GetAll fetches every known device.
	GetAll(ctx context.Context) ([]models.Device, error)
}

// DeviceService derives device identities and records observations.
type DeviceService struct {
	repo DeviceRepository
	log  *zap.Logger
}

// NewDeviceService constructs a DeviceService with the provided repository
// and logger.
func NewDeviceService(repo DeviceRepository, log *zap.Logger) *DeviceService {
	return &DeviceService{repo: repo, log: log}
}

// ResolveIdentity returns the registry key for a request: the declared
// device id when non-empty, otherwise the source IP itself. Anonymous
// requests from one IP keep merging into the same IP-keyed entry instead of
// growing the registry without bound.
func ResolveIdentity(deviceID, sourceIP string) string {
	if deviceID != "" {
		return deviceID
	}
	return sourceIP
}

// Observe records that a request with the given declared id (possibly empty)
// arrived from sourceIP. Recording is a best-effort side effect: failures are
// logged and swallowed so they never block the secret operation.
func (s *DeviceService) Observe(ctx context.Context, deviceID, sourceIP string) {
	identity := ResolveIdentity(deviceID, sourceIP)
	if identity == "" {
		return
	}
	if _, err := s.repo.RecordObservation(ctx, identity, sourceIP); err != nil {
		s.log.Error("failed to record device observation",
			zap.String("identity", identity),
			zap.String("ip", sourceIP),
			zap.Error(err),
		)
	}
}

// GetAll returns every known device with its accumulated IP set.
func (s *DeviceService) GetAll(ctx context.Context) ([]models.Device, error) {
	return s.repo.GetAll(ctx)
}
