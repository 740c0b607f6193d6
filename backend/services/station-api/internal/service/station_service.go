package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/repository"
	"evstations/backend/services/station-api/internal/stationquery"
)

var (
	// ErrInvalidStationID is returned for ids that cannot name a station.
	ErrInvalidStationID = errors.New("station: invalid id")
	// ErrStationNotFound is returned when no station has the requested id.
	ErrStationNotFound = errors.New("station: not found")
	// ErrForbidden is returned when a user modifies a station they do not own.
	ErrForbidden = errors.New("station: not owner")
)

// Station event types published to subscribers.
const (
	EventStationCreated = "station_created"
	EventStationUpdated = "station_updated"
	EventStationDeleted = "station_deleted"
)

// ValidationError lists everything wrong with a station payload. Missing is
// set when at least one required field was absent.
type ValidationError struct {
	Missing  bool
	Messages []string
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return "station: all fields are required"
	}
	return "station: " + strings.Join(e.Messages, "; ")
}

// StationRequest is a create/update payload. Pointers distinguish an absent
// field from its zero value.
type StationRequest struct {
	Name          *string  `json:"name"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Status        *string  `json:"status"`
	PowerOutput   *float64 `json:"powerOutput"`
	ConnectorType *string  `json:"connectorType"`
}

// Validate checks presence, enums and power output and returns the
// storable input. Coordinates are not range checked.
func (r StationRequest) Validate() (models.StationInput, error) {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" || r.Latitude == nil || r.Longitude == nil ||
		r.Status == nil || *r.Status == "" || r.PowerOutput == nil || r.ConnectorType == nil || *r.ConnectorType == "" {
		return models.StationInput{}, &ValidationError{Missing: true}
	}

	in := models.StationInput{
		Name:          strings.TrimSpace(*r.Name),
		Latitude:      *r.Latitude,
		Longitude:     *r.Longitude,
		Status:        models.StationStatus(*r.Status),
		PowerOutput:   *r.PowerOutput,
		ConnectorType: models.ConnectorType(*r.ConnectorType),
	}

	var msgs []string
	if math.IsNaN(in.Latitude) {
		msgs = append(msgs, "latitude must be a number")
	}
	if math.IsNaN(in.Longitude) {
		msgs = append(msgs, "longitude must be a number")
	}
	if !in.Status.Valid() {
		msgs = append(msgs, fmt.Sprintf("`%s` is not a valid status", in.Status))
	}
	if math.IsNaN(in.PowerOutput) || math.IsInf(in.PowerOutput, 0) || in.PowerOutput <= 0 {
		msgs = append(msgs, "powerOutput must be greater than 0")
	}
	if !in.ConnectorType.Valid() {
		msgs = append(msgs, fmt.Sprintf("`%s` is not a valid connector type", in.ConnectorType))
	}
	if len(msgs) > 0 {
		return models.StationInput{}, &ValidationError{Messages: msgs}
	}
	return in, nil
}

// StationRepository defines storage contract used by the service.
type StationRepository interface {
	stationquery.Store
	Create(ctx context.Context, ownerID string, in models.StationInput) (*models.Station, error)
	CreateMany(ctx context.Context, ownerID string, inputs []models.StationInput) ([]models.Station, error)
	GetByID(ctx context.Context, id string) (*models.Station, error)
	Update(ctx context.Context, id string, in models.StationInput) (*models.Station, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher fans station changes out to live subscribers.
type EventPublisher interface {
	Publish(eventType string, data any)
}

// StationService implements station management and listing.
type StationService struct {
	repo      StationRepository
	executor  *stationquery.Executor
	publisher EventPublisher
	logger    *zap.Logger
}

// NewStationService builds StationService. publisher may be nil.
func NewStationService(repo StationRepository, publisher EventPublisher, logger *zap.Logger) *StationService {
	return &StationService{
		repo:      repo,
		executor:  stationquery.NewExecutor(repo),
		publisher: publisher,
		logger:    logger,
	}
}

// List composes the filter for params and returns one page of stations.
func (s *StationService) List(ctx context.Context, params stationquery.Params, userID string) (*stationquery.Result, error) {
	filter := stationquery.Compose(params, userID)
	page := stationquery.ParsePage(params.Page, params.Limit)
	return s.executor.Execute(ctx, filter, page)
}

// Create stores a station owned by ownerID.
func (s *StationService) Create(ctx context.Context, ownerID string, req StationRequest) (*models.Station, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	station, err := s.repo.Create(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("station created", zap.String("station_id", station.ID), zap.String("owner_id", ownerID))
	s.publish(EventStationCreated, station)
	return station, nil
}

// Get returns a station by id.
func (s *StationService) Get(ctx context.Context, id string) (*models.Station, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidStationID
	}
	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

// Update replaces the settable fields of a station owned by userID.
func (s *StationService) Update(ctx context.Context, userID, id string, req StationRequest) (*models.Station, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	station, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	s.logger.Info("station updated", zap.String("station_id", id))
	s.publish(EventStationUpdated, station)
	return station, nil
}

// Delete removes a station owned by userID.
func (s *StationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}
	s.logger.Info("station deleted", zap.String("station_id", id))
	s.publish(EventStationDeleted, map[string]string{"id": id})
	return nil
}

// Seed inserts the sample stations for ownerID and returns how many were added.
func (s *StationService) Seed(ctx context.Context, ownerID string) (int, error) {
	stations, err := s.repo.CreateMany(ctx, ownerID, SampleStations())
	if err != nil {
		return 0, err
	}
	for i := range stations {
		s.publish(EventStationCreated, &stations[i])
	}
	s.logger.Info("sample stations seeded", zap.Int("count", len(stations)), zap.String("owner_id", ownerID))
	return len(stations), nil
}

// SampleStations is the fixed demo data set.
func SampleStations() []models.StationInput {
	return []models.StationInput{
		{Name: "Downtown Charging Hub", Latitude: 23.3149, Longitude: 77.3981, Status: models.StatusActive, PowerOutput: 150, ConnectorType: models.ConnectorCCS},
		{Name: "Mall Parking Station", Latitude: 23.3200, Longitude: 77.4020, Status: models.StatusActive, PowerOutput: 100, ConnectorType: models.ConnectorType2},
		{Name: "Highway Rest Stop", Latitude: 23.3100, Longitude: 77.3900, Status: models.StatusMaintenance, PowerOutput: 250, ConnectorType: models.ConnectorCHAdeMO},
		{Name: "Office Complex Charger", Latitude: 23.3180, Longitude: 77.4050, Status: models.StatusActive, PowerOutput: 50, ConnectorType: models.ConnectorType1},
		{Name: "Airport Terminal Station", Latitude: 23.3250, Longitude: 77.4100, Status: models.StatusInactive, PowerOutput: 200, ConnectorType: models.ConnectorGBT},
	}
}

func (s *StationService) owned(ctx context.Context, userID, id string) (*models.Station, error) {
	station, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if station.CreatedBy != userID {
		return nil, ErrForbidden
	}
	return station, nil
}

func (s *StationService) publish(eventType string, data any) {
	if s.publisher != nil {
		s.publisher.Publish(eventType, data)
	}
}
