package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("username already exists", map[string]any{"username": "alice"})

	mapped := ToDomainError(original)
	require.Equal(t, "CONFLICT", mapped.Code)
	require.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	require.Equal(t, "alice", mapped.Details["username"])
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, "NOT_FOUND", mapped.Code)
	require.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection reset")
	mapped := ToDomainError(cause)
	require.Equal(t, "INTERNAL_ERROR", mapped.Code)
	require.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	require.ErrorIs(t, mapped, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	require.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)
	require.ErrorIs(t, err, cause)
}

func TestInvalidStateUsesBadRequest(t *testing.T) {
	mapped := ToDomainError(NewInvalidState("event is at full capacity"))
	require.Equal(t, "INVALID_STATE", mapped.Code)
	require.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	require.Equal(t, "event is at full capacity", mapped.Message)
}
