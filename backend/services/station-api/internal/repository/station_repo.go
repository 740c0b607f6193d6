package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/stationquery"
)

// ErrStationNotFound indicates a missing or malformed station id.
var ErrStationNotFound = errors.New("charging station not found")

const stationColumns = `id, name, latitude, longitude, status, power_output, connector_type, created_by, created_at, updated_at`

// StationRepository persists charging stations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// CountStations counts stations matching filter.
func (r *StationRepository) CountStations(ctx context.Context, filter stationquery.Filter) (int64, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM charging_stations "+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count stations: %w", err)
	}
	return total, nil
}

// FindStations returns one page of stations matching filter, oldest first.
func (r *StationRepository) FindStations(ctx context.Context, filter stationquery.Filter, skip, limit int64) ([]models.Station, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}
	args = append(args, skip, limit)
	query := fmt.Sprintf(
		"SELECT %s FROM charging_stations %s ORDER BY created_at, id OFFSET $%d LIMIT $%d",
		stationColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find stations: %w", err)
	}
	defer rows.Close()

	stations := make([]models.Station, 0, limit)
	for rows.Next() {
		var (
			s        models.Station
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Name, &lat, &lng, &s.Status, &s.PowerOutput, &s.ConnectorType, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		s.Coordinates = coordinates(lat, lng)
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find stations: %w", err)
	}
	return stations, nil
}

// Create inserts a station owned by ownerID.
func (r *StationRepository) Create(ctx context.Context, ownerID string, in models.StationInput) (*models.Station, error) {
	const query = `
		INSERT INTO charging_stations (id, name, latitude, longitude, status, power_output, connector_type, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + stationColumns
	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), in.Name, in.Latitude, in.Longitude, string(in.Status), in.PowerOutput, string(in.ConnectorType), ownerID)
	return scanStation(row)
}

// CreateMany inserts all stations for ownerID in one transaction.
func (r *StationRepository) CreateMany(ctx context.Context, ownerID string, inputs []models.StationInput) ([]models.Station, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `
		INSERT INTO charging_stations (id, name, latitude, longitude, status, power_output, connector_type, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + stationColumns

	created := make([]models.Station, 0, len(inputs))
	for _, in := range inputs {
		row := tx.QueryRowContext(ctx, query,
			uuid.NewString(), in.Name, in.Latitude, in.Longitude, string(in.Status), in.PowerOutput, string(in.ConnectorType), ownerID)
		station, err := scanStation(row)
		if err != nil {
			return nil, err
		}
		created = append(created, *station)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID fetches a station.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*models.Station, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrStationNotFound
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+stationColumns+" FROM charging_stations WHERE id = $1", id)
	return scanStation(row)
}

// Update overwrites the user-settable fields of a station.
func (r *StationRepository) Update(ctx context.Context, id string, in models.StationInput) (*models.Station, error) {
	const query = `
		UPDATE charging_stations
		SET name = $2,
		    latitude = $3,
		    longitude = $4,
		    status = $5,
		    power_output = $6,
		    connector_type = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + stationColumns
	row := r.db.QueryRowContext(ctx, query, id, in.Name, in.Latitude, in.Longitude, string(in.Status), in.PowerOutput, string(in.ConnectorType))
	return scanStation(row)
}

// Delete removes a station.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM charging_stations WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

func scanStation(row *sql.Row) (*models.Station, error) {
	var (
		s        models.Station
		lat, lng sql.NullFloat64
	)
	err := row.Scan(&s.ID, &s.Name, &lat, &lng, &s.Status, &s.PowerOutput, &s.ConnectorType, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	s.Coordinates = coordinates(lat, lng)
	return &s, nil
}

// coordinates keeps each axis independently; a missing one stays nil.
func coordinates(lat, lng sql.NullFloat64) models.Coordinates {
	var c models.Coordinates
	if lat.Valid {
		v := lat.Float64
		c.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		c.Longitude = &v
	}
	return c
}
