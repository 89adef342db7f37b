// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

const (
	uniqueViolationCode      = "23505"
	serializationFailureCode = "40001"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique-key violation.
// Uniqueness constraints are the last line of defense against races the
// application checks might miss.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsSerializationFailure reports whether err is a PostgreSQL serialization
// failure. Serializable transactions abort the loser of a read/write race
// at commit; the mutation itself is sound and safe to retry.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailureCode
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate) || IsUniqueViolation(err):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case IsSerializationFailure(err):
		Problem(w, http.StatusConflict, "Conflict", "the operation raced a concurrent change, retry the request")
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
