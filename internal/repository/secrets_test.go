package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/credstore/internal/models"
)

func setupSecretMock(t *testing.T) (*PostgresSecretRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresSecretRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func passwordDoc(t *testing.T, domain, username, password string) []byte {
	t.Helper()
	doc, err := json.Marshal(models.Secret{
		Domain:   domain,
		Type:     models.PasswordSecret,
		Password: &models.PasswordData{Username: username, Password: password},
	})
	if err != nil {
		t.Fatalf("marshal secret: %v", err)
	}
	return doc
}

func TestSecretGet_Success(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	doc := passwordDoc(t, "example.com", "bob", "x")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT record FROM secrets WHERE domain = $1`)).
		WithArgs("example.com").
		WillReturnRows(sqlmock.NewRows([]string{"record"}).AddRow(doc))

	secret, err := repo.Get(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret.Domain != "example.com" || secret.Type != models.PasswordSecret {
		t.Errorf("unexpected secret: %+v", secret)
	}
	if secret.Password == nil || secret.Password.Username != "bob" {
		t.Errorf("unexpected password data: %+v", secret.Password)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSecretGet_NotFound(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT record FROM secrets WHERE domain = $1`)).
		WithArgs("missing.com").
		WillReturnRows(sqlmock.NewRows([]string{"record"}))

	_, err := repo.Get(context.Background(), "missing.com")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSecretGet_QueryError(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT record FROM secrets WHERE domain = $1`)).
		WithArgs("example.com").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Get(context.Background(), "example.com")
	if err == nil || !regexp.MustCompile(`get secret`).MatchString(err.Error()) {
		t.Errorf("expected wrapped get secret error, got %v", err)
	}
}

func TestSecretGetAll_Success(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"record"}).
		AddRow(passwordDoc(t, "a.com", "u1", "p1")).
		AddRow(passwordDoc(t, "b.com", "u2", "p2"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT record FROM secrets`)).
		WillReturnRows(rows)

	secrets, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(secrets) != 2 {
		t.Fatalf("expected 2 secrets, got %d", len(secrets))
	}
	if secrets[0].Domain != "a.com" || secrets[1].Domain != "b.com" {
		t.Errorf("unexpected secrets returned: %+v", secrets)
	}
}

func TestSecretGetAll_Empty(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT record FROM secrets`)).
		WillReturnRows(sqlmock.NewRows([]string{"record"}))

	secrets, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secrets == nil || len(secrets) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", secrets)
	}
}

func TestSecretUpsert_Success(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	secret := &models.Secret{
		Domain: "example.com",
		Type:   models.PasswordSecret,
		Password: &models.PasswordData{
			Username: "bob",
			Password: "x",
		},
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO secrets (domain, record)`)).
		WithArgs("example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), secret); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSecretUpsert_ExecError(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	secret := &models.Secret{
		Domain:   "example.com",
		Type:     models.PasswordSecret,
		Password: &models.PasswordData{Username: "bob", Password: "x"},
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO secrets (domain, record)`)).
		WithArgs("example.com", sqlmock.AnyArg()).
		WillReturnError(errors.New("backend down"))

	err := repo.Upsert(context.Background(), secret)
	if err == nil || !regexp.MustCompile(`upsert secret`).MatchString(err.Error()) {
		t.Errorf("expected wrapped upsert error, got %v", err)
	}
}

func TestSecretDelete_Success(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM secrets WHERE domain = $1`)).
		WithArgs("example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSecretDelete_NotFound(t *testing.T) {
	repo, mock, cleanup := setupSecretMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM secrets WHERE domain = $1`)).
		WithArgs("missing.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing.com")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
