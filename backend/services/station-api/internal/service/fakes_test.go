package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/repository"
	"evstations/backend/services/station-api/internal/stationquery"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Duration)}
}

func (d *fakeDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = ttl
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[jti]
	return ok, nil
}

type fakeStationRepo struct {
	mu       sync.Mutex
	stations []models.Station
	err      error
}

func (r *fakeStationRepo) CountStations(_ context.Context, _ stationquery.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.stations)), nil
}

func (r *fakeStationRepo) FindStations(_ context.Context, _ stationquery.Filter, skip, limit int64) ([]models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if skip >= int64(len(r.stations)) {
		return nil, nil
	}
	end := skip + limit
	if end > int64(len(r.stations)) {
		end = int64(len(r.stations))
	}
	return append([]models.Station(nil), r.stations[skip:end]...), nil
}

func (r *fakeStationRepo) Create(_ context.Context, ownerID string, in models.StationInput) (*models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := stationFromInput(ownerID, in)
	r.stations = append(r.stations, s)
	return &s, nil
}

func (r *fakeStationRepo) CreateMany(_ context.Context, ownerID string, inputs []models.StationInput) ([]models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Station, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, stationFromInput(ownerID, in))
	}
	r.stations = append(r.stations, out...)
	return out, nil
}

func (r *fakeStationRepo) GetByID(_ context.Context, id string) (*models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stations {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrStationNotFound
}

func (r *fakeStationRepo) Update(_ context.Context, id string, in models.StationInput) (*models.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.stations {
		if s.ID == id {
			updated := stationFromInput(s.CreatedBy, in)
			updated.ID = id
			updated.CreatedAt = s.CreatedAt
			r.stations[i] = updated
			return &updated, nil
		}
	}
	return nil, repository.ErrStationNotFound
}

func (r *fakeStationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.stations {
		if s.ID == id {
			r.stations = append(r.stations[:i], r.stations[i+1:]...)
			return nil
		}
	}
	return repository.ErrStationNotFound
}

func stationFromInput(ownerID string, in models.StationInput) models.Station {
	lat, lng := in.Latitude, in.Longitude
	now := time.Now()
	return models.Station{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Coordinates:   models.Coordinates{Latitude: &lat, Longitude: &lng},
		Status:        in.Status,
		PowerOutput:   in.PowerOutput,
		ConnectorType: in.ConnectorType,
		CreatedBy:     ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type event struct {
	Type string
	Data any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
}

func (p *recordingPublisher) Publish(eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event{Type: eventType, Data: data})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
