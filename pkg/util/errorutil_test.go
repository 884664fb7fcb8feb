package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("already there", map[string]any{"id": 7})

	converted := ToDomainError(original)
	require.NotNil(t, converted)
	assert.Equal(t, "CONFLICT", converted.Code)
	assert.Equal(t, http.StatusConflict, converted.HTTPStatus)
	assert.Equal(t, 7, converted.Details["id"])
}

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), NewUnauthorized("invalid credentials"))

	converted := ToDomainError(wrapped)
	require.NotNil(t, converted)
	assert.Equal(t, "UNAUTHORIZED", converted.Code)
	assert.Equal(t, "invalid credentials", converted.Message)
}

func TestToDomainErrorNoRows(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, converted)
	assert.Equal(t, "NOT_FOUND", converted.Code)
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "beds_bed_number_key"}

	converted := ToDomainError(pgErr)
	require.NotNil(t, converted)
	assert.Equal(t, "CONFLICT", converted.Code)
	assert.Equal(t, "beds_bed_number_key", converted.Details["constraint"])
}

func TestToDomainErrorGenericFallback(t *testing.T) {
	converted := ToDomainError(errors.New("boom"))
	require.NotNil(t, converted)
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	assert.Equal(t, "internal server error", converted.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestReferenceErrorsShape(t *testing.T) {
	err := NewReferenceErrors(map[string]any{
		"patient_id": "patient with ID 9 not found",
	})

	converted := ToDomainError(err)
	require.NotNil(t, converted)
	assert.Equal(t, "VALIDATION_FAILED", converted.Code)
	assert.Equal(t, http.StatusBadRequest, converted.HTTPStatus)
	assert.Equal(t, "invalid reference(s)", converted.Message)
}
