package stationquery

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{name: "invalid text", err: &pgconn.PgError{Code: "22P02"}, want: CodeInvalidParameters},
		{name: "numeric overflow", err: fmt.Errorf("count: %w", &pgconn.PgError{Code: "22003"}), want: CodeInvalidParameters},
		{name: "connection exception", err: &pgconn.PgError{Code: "08006"}, want: CodeDatabaseConnection},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: CodeDatabaseConnection},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: CodeDatabaseConnection},
		{name: "bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), want: CodeDatabaseConnection},
		{name: "deadline", err: context.DeadlineExceeded, want: CodeDatabaseConnection},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: CodeDuplicateEntry},
		{name: "geo sentinel", err: fmt.Errorf("box: %w", ErrGeospatial), want: CodeInvalidCoordinates},
		{name: "geo message", err: errors.New("planner error: $near requires an index"), want: CodeInvalidCoordinates},
		{name: "query canceled", err: &pgconn.PgError{Code: "57014"}, want: CodeInternal},
		{name: "other", err: errors.New("boom"), want: CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// A cast failure whose message also mentions a geospatial operator is
	// still reported as invalid parameters.
	err := &pgconn.PgError{Code: "22P02", Message: "invalid input near $near"}
	if got := Classify(err); got != CodeInvalidParameters {
		t.Fatalf("got %s", got)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   Code
	}{
		{err: &pgconn.PgError{Code: "22P02"}, status: http.StatusBadRequest, code: CodeInvalidParameters},
		{err: driver.ErrBadConn, status: http.StatusServiceUnavailable, code: CodeDatabaseConnection},
		{err: &pgconn.PgError{Code: "23505"}, status: http.StatusConflict, code: CodeDuplicateEntry},
		{err: ErrGeospatial, status: http.StatusBadRequest, code: CodeInvalidCoordinates},
		{err: errors.New("boom"), status: http.StatusInternalServerError, code: CodeInternal},
	}
	for _, tc := range cases {
		f := Describe(tc.err, true)
		if f.Status != tc.status || f.Code != tc.code || f.Message == "" {
			t.Fatalf("%v: unexpected failure %+v", tc.err, f)
		}
		if tc.code != CodeInternal && f.Details != "" {
			t.Fatalf("%v: client errors must not carry details", tc.err)
		}
	}
}

func TestDescribeDisclosure(t *testing.T) {
	err := errors.New("relation \"charging_stations\" does not exist")

	if f := Describe(err, false); f.Details != "" {
		t.Fatalf("details leaked with disclosure off: %q", f.Details)
	}
	if f := Describe(err, true); f.Details != err.Error() {
		t.Fatalf("expected details with disclosure on, got %q", f.Details)
	}
}
