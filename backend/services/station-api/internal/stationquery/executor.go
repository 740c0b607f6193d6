package stationquery

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"evstations/backend/services/station-api/internal/models"
)

// Store runs filters against the station table.
type Store interface {
	CountStations(ctx context.Context, filter Filter) (int64, error)
	FindStations(ctx context.Context, filter Filter, skip, limit int64) ([]models.Station, error)
}

// StationSummary is the list projection of a station.
type StationSummary struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Coordinates   models.Coordinates   `json:"coordinates"`
	Status        models.StationStatus `json:"status"`
	PowerOutput   float64              `json:"powerOutput"`
	ConnectorType models.ConnectorType `json:"connectorType"`
	CreatedBy     string               `json:"createdBy"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Result is one page of matching stations.
type Result struct {
	ChargingStations []StationSummary `json:"chargingStations"`
	Pagination       Pagination       `json:"pagination"`
}

// Executor counts and fetches a page of stations for a Filter.
type Executor struct {
	store Store
}

// NewExecutor returns an executor backed by store.
func NewExecutor(store Store) *Executor {
	return &Executor{store: store}
}

// Execute issues the count and the page fetch concurrently and waits for
// both. The first failure is returned and the other result is dropped.
func (e *Executor) Execute(ctx context.Context, filter Filter, page Page) (*Result, error) {
	page = page.normalized()

	var (
		g        errgroup.Group
		total    int64
		stations []models.Station
	)
	g.Go(func() error {
		n, err := e.store.CountStations(ctx, filter)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	g.Go(func() error {
		rows, err := e.store.FindStations(ctx, filter, page.Skip(), page.Limit)
		if err != nil {
			return err
		}
		stations = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]StationSummary, 0, len(stations))
	for _, s := range stations {
		summaries = append(summaries, summarize(s))
	}

	return &Result{
		ChargingStations: summaries,
		Pagination:       NewPagination(page, total),
	}, nil
}

func summarize(s models.Station) StationSummary {
	return StationSummary{
		ID:            s.ID,
		Name:          s.Name,
		Coordinates:   s.Coordinates,
		Status:        s.Status,
		PowerOutput:   s.PowerOutput,
		ConnectorType: s.ConnectorType,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
