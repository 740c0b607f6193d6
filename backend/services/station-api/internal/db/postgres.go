package db

import (
	"context"
	"database/sql"
	"fmt"

	libdb "evstations/backend/libs/db"
)

// NewPostgres connects to Postgres using the shared pool settings.
func NewPostgres(dsn string) (*sql.DB, error) {
	return libdb.NewPostgresDB(dsn, libdb.PoolOptions{})
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS charging_stations (
	id             UUID PRIMARY KEY,
	name           TEXT NOT NULL CHECK (name <> ''),
	latitude       DOUBLE PRECISION,
	longitude      DOUBLE PRECISION,
	status         TEXT NOT NULL CHECK (status IN ('Active', 'Inactive', 'Maintenance')),
	power_output   DOUBLE PRECISION NOT NULL CHECK (power_output > 0),
	connector_type TEXT NOT NULL CHECK (connector_type IN ('Type1', 'Type2', 'CCS', 'CHAdeMO', 'GB/T')),
	created_by     UUID NOT NULL REFERENCES users (id),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS charging_stations_created_by_idx ON charging_stations (created_by);
CREATE INDEX IF NOT EXISTS charging_stations_location_idx ON charging_stations (latitude, longitude);
CREATE INDEX IF NOT EXISTS charging_stations_created_at_idx ON charging_stations (created_at, id);
`

// EnsureSchema creates the tables and indexes when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}
