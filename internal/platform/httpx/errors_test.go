package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	rec := httptest.NewRecorder()
	RespondError(rec, err)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespondErrorMapsSerializationFailureToConflict(t *testing.T) {
	// Concurrent serializable transactions abort the loser at commit;
	// callers must see a retryable conflict, never an opaque 500.
	err := fmt.Errorf("platform/db: commit tx: %w", &pgconn.PgError{Code: "40001"})
	require.True(t, IsSerializationFailure(err))

	rec, problem := respond(t, err)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Conflict", problem.Title)
	require.Contains(t, problem.Detail, "retry")
}

func TestRespondErrorMapsUniqueViolationToDuplicate(t *testing.T) {
	err := fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23505"})
	require.False(t, IsSerializationFailure(err))

	rec, problem := respond(t, err)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Duplicate", problem.Title)
}

func TestRespondErrorHidesUnclassifiedErrors(t *testing.T) {
	rec, problem := respond(t, fmt.Errorf("connection reset"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, problem.Detail)
}
