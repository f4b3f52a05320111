// Package service provides business logic for the secret store and the
// device registry, delegating persistence to repository interfaces.
package service

import (
	"context"

	"github.com/atinyakov/credstore/internal/models"
)

// SecretRepository defines the persistence operations needed by the SecretService.
type SecretRepository interface {
	// Get fetches the secret for domain, or models.ErrNotFound.
	Get(ctx context.Context, domain string) (*models.Secret, error)
	// GetAll fetches every stored secret.
	GetAll(ctx context.Context) ([]models.Secret, error)
	// Upsert inserts the secret or fully replaces the record with the same domain.
	Upsert(ctx context.Context, secret *models.Secret) error
	// Delete removes the record for domain, or returns models.ErrNotFound.
	Delete(ctx context.Context, domain string) error
}

// SecretService implements the secret store operations on top of a
// SecretRepository, validating payloads before they reach the store.
type SecretService struct {
	repo SecretRepository
}

// NewSecretService constructs a SecretService with the provided SecretRepository.
func NewSecretService(repo SecretRepository) *SecretService {
	return &SecretService{repo: repo}
}

// Get returns the secret stored for domain.
func (s *SecretService) Get(ctx context.Context, domain string) (*models.Secret, error) {
	return s.repo.Get(ctx, domain)
}

// GetAll returns every stored secret.
func (s *SecretService) GetAll(ctx context.Context) ([]models.Secret, error) {
	return s.repo.GetAll(ctx)
}

// Upsert validates the record and stores it under domain. The stored record's
// domain always equals the key: a body carrying a different domain is
// rejected, a body omitting it inherits the key. Malformed payloads are
// reported as *ValidationError before any store mutation is attempted.
func (s *SecretService) Upsert(ctx context.Context, domain string, secret *models.Secret) error {
	if secret.Domain == "" {
		secret.Domain = domain
	}
	if secret.Domain != domain {
		return &ValidationError{Reason: "body domain does not match path domain"}
	}
	if err := secret.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return s.repo.Upsert(ctx, secret)
}

// Delete removes the secret stored for domain.
func (s *SecretService) Delete(ctx context.Context, domain string) error {
	return s.repo.Delete(ctx, domain)
}

// ValidationError reports a payload that does not match either secret
// variant shape. It is detected before any store mutation is attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid secret: " + e.Reason
}
