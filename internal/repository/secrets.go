// Package repository provides persistence implementations for the secret
// store and the device registry using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/atinyakov/credstore/internal/models"
)

// PostgresSecretRepository implements the secret store against a PostgreSQL
// database. Each secret is stored as one JSONB document keyed by domain, so
// upsert and delete ride on the backend's per-row atomicity.
type PostgresSecretRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSecretRepository creates a new PostgresSecretRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresSecretRepository(db *sql.DB) *PostgresSecretRepository {
	return &PostgresSecretRepository{DB: db}
}

// Get fetches the secret stored for domain. Returns models.ErrNotFound when
// no record exists for that exact key.
func (r *PostgresSecretRepository) Get(ctx context.Context, domain string) (*models.Secret, error) {
	var doc []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT record FROM secrets WHERE domain = $1
	`, domain).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get secret: %w", err)
	}

	var secret models.Secret
	if err := json.Unmarshal(doc, &secret); err != nil {
		return nil, fmt.Errorf("decode secret for %q: %w", domain, err)
	}
	return &secret, nil
}

// GetAll fetches every stored secret in storage order.
func (r *PostgresSecretRepository) GetAll(ctx context.Context) ([]models.Secret, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT record FROM secrets
	`)
	if err != nil {
		return nil, fmt.Errorf("get all secrets: %w", err)
	}
	defer rows.Close()

	secrets := make([]models.Secret, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var secret models.Secret
		if err := json.Unmarshal(doc, &secret); err != nil {
			return nil, fmt.Errorf("decode secret: %w", err)
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return secrets, nil
}

// Upsert inserts the secret or fully replaces an existing record with the
// same domain key. Re-upserting the same payload yields the same stored
// state.
func (r *PostgresSecretRepository) Upsert(ctx context.Context, secret *models.Secret) error {
	doc, err := json.Marshal(secret)
	if err != nil {
		return fmt.Errorf("encode secret for %q: %w", secret.Domain, err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO secrets (domain, record)
		VALUES ($1, $2)
		ON CONFLICT (domain) DO UPDATE SET
			record = EXCLUDED.record
	`, secret.Domain, doc)
	if err != nil {
		return fmt.Errorf("upsert secret: %w", err)
	}
	return nil
}

// Delete removes the record for domain. Returns models.ErrNotFound when no
// such record existed.
func (r *PostgresSecretRepository) Delete(ctx context.Context, domain string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM secrets WHERE domain = $1
	`, domain)
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
