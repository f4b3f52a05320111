package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/credstore/internal/models"
	"github.com/lib/pq"
)

// PostgresDeviceRepository implements the device registry against a
// PostgreSQL database. The address set lives in a TEXT[] column and is grown
// with a single statement, so concurrent observations for the same identity
// cannot lose addresses.
type PostgresDeviceRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDeviceRepository creates a new PostgresDeviceRepository using the
// provided *sql.DB.
func NewPostgresDeviceRepository(db *sql.DB) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{DB: db}
}

// RecordObservation registers the identity if unknown and merges ip into its
// address set. The distinct union is computed inside the UPDATE expression;
// the read-modify-write never leaves the backend. Returns the resulting
// device state.
func (r *PostgresDeviceRepository) RecordObservation(ctx context.Context, identity, ip string) (*models.Device, error) {
	var addrs pq.StringArray
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO devices (device_id, ip_addrs)
		VALUES ($1, ARRAY[$2])
		ON CONFLICT (device_id) DO UPDATE SET
			ip_addrs = (
				SELECT array_agg(DISTINCT a) FROM unnest(devices.ip_addrs || EXCLUDED.ip_addrs) AS a
			)
		RETURNING ip_addrs
	`, identity, ip).Scan(&addrs)
	if err != nil {
		return nil, fmt.Errorf("record observation: %w", err)
	}
	return &models.Device{DeviceID: identity, IPAddrs: addrs}, nil
}

// GetAll fetches every known device with its accumulated address set.
func (r *PostgresDeviceRepository) GetAll(ctx context.Context) ([]models.Device, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT device_id, ip_addrs FROM devices
	`)
	if err != nil {
		return nil, fmt.Errorf("get all devices: %w", err)
	}
	defer rows.Close()

	devices := make([]models.Device, 0)
	for rows.Next() {
		var dev models.Device
		var addrs pq.StringArray
		if err := rows.Scan(&dev.DeviceID, &addrs); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		dev.IPAddrs = addrs
		devices = append(devices, dev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return devices, nil
}
