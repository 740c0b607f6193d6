package stationquery

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrGeospatial marks a failure of the location predicate.
var ErrGeospatial = errors.New("stationquery: geospatial query failed")

// Code identifies a failure class in API responses.
type Code string

const (
	CodeInvalidParameters  Code = "INVALID_PARAMETERS"
	CodeDatabaseConnection Code = "DATABASE_CONNECTION_ERROR"
	CodeDuplicateEntry     Code = "DUPLICATE_ENTRY"
	CodeInvalidCoordinates Code = "INVALID_COORDINATES"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

var geoMarkers = []string{"$near", "geospatial", "bounding box"}

// Failure is the client-facing description of a failed list query.
type Failure struct {
	Status  int    `json:"-"`
	Code    Code   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Classify maps a store error to a Code. Checks run in a fixed order and
// the first match wins.
func Classify(err error) Code {
	switch {
	case isCastFailure(err):
		return CodeInvalidParameters
	case isConnectivityFailure(err):
		return CodeDatabaseConnection
	case isUniqueViolation(err):
		return CodeDuplicateEntry
	case isGeospatialFailure(err):
		return CodeInvalidCoordinates
	default:
		return CodeInternal
	}
}

// Describe builds the response for err. The error text is attached as
// Details only for internal errors and only when disclose is set.
func Describe(err error, disclose bool) Failure {
	code := Classify(err)
	switch code {
	case CodeInvalidParameters:
		return Failure{Status: http.StatusBadRequest, Code: code, Message: "Invalid query parameters provided"}
	case CodeDatabaseConnection:
		return Failure{Status: http.StatusServiceUnavailable, Code: code, Message: "Database connection error. Please try again later."}
	case CodeDuplicateEntry:
		return Failure{Status: http.StatusConflict, Code: code, Message: "Duplicate entry found"}
	case CodeInvalidCoordinates:
		return Failure{Status: http.StatusBadRequest, Code: code, Message: "Invalid location coordinates provided"}
	}

	f := Failure{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "An unexpected error occurred while fetching charging stations",
	}
	if disclose && err != nil {
		f.Details = err.Error()
	}
	return f
}

func pgCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

func isCastFailure(err error) bool {
	code, ok := pgCode(err)
	return ok && pgerrcode.IsDataException(code)
}

func isConnectivityFailure(err error) bool {
	if code, ok := pgCode(err); ok {
		return pgerrcode.IsConnectionException(code) ||
			(pgerrcode.IsOperatorIntervention(code) && code != pgerrcode.QueryCanceled) ||
			code == pgerrcode.TooManyConnections
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUniqueViolation(err error) bool {
	code, ok := pgCode(err)
	return ok && code == pgerrcode.UniqueViolation
}

func isGeospatialFailure(err error) bool {
	if errors.Is(err, ErrGeospatial) {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range geoMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
