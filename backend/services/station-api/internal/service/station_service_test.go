package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/stationquery"
)

func strPtr(s string) *string { return &s }
func numPtr(f float64) *float64 { return &f }

func validRequest() StationRequest {
	return StationRequest{
		Name:          strPtr("Depot"),
		Latitude:      numPtr(0),
		Longitude:     numPtr(77.4),
		Status:        strPtr("Active"),
		PowerOutput:   numPtr(50),
		ConnectorType: strPtr("CCS"),
	}
}

func TestStationRequestValidate(t *testing.T) {
	in, err := validRequest().Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if in.Latitude != 0 || in.Status != models.StatusActive || in.ConnectorType != models.ConnectorCCS {
		t.Fatalf("unexpected input %+v", in)
	}

	missing := validRequest()
	missing.Longitude = nil
	var verr *ValidationError
	if _, err := missing.Validate(); !errors.As(err, &verr) || !verr.Missing {
		t.Fatalf("expected missing-field error, got %v", err)
	}

	bad := validRequest()
	bad.Status = strPtr("Broken")
	bad.PowerOutput = numPtr(0)
	bad.ConnectorType = strPtr("Tesla")
	bad.Latitude = numPtr(math.NaN())
	if _, err := bad.Validate(); !errors.As(err, &verr) || verr.Missing || len(verr.Messages) != 4 {
		t.Fatalf("expected four messages, got %v", err)
	}

	offGlobe := validRequest()
	offGlobe.Latitude = numPtr(95)
	offGlobe.Longitude = numPtr(200)
	in, err = offGlobe.Validate()
	if err != nil {
		t.Fatalf("out-of-range coordinates should be stored as given: %v", err)
	}
	if in.Latitude != 95 || in.Longitude != 200 {
		t.Fatalf("coordinates changed: %+v", in)
	}
}

func newStationService() (*StationService, *fakeStationRepo, *recordingPublisher) {
	repo := &fakeStationRepo{}
	pub := &recordingPublisher{}
	return NewStationService(repo, pub, zap.NewNop()), repo, pub
}

func TestStationLifecycle(t *testing.T) {
	svc, _, pub := newStationService()
	ctx := context.Background()
	owner := uuid.NewString()

	created, err := svc.Create(ctx, owner, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedBy != owner {
		t.Fatalf("owner not recorded")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil || got.Name != "Depot" {
		t.Fatalf("get: %+v %v", got, err)
	}

	req := validRequest()
	req.Name = strPtr("Depot 2")
	updated, err := svc.Update(ctx, owner, created.ID, req)
	if err != nil || updated.Name != "Depot 2" || updated.CreatedBy != owner {
		t.Fatalf("update: %+v %v", updated, err)
	}

	if err := svc.Delete(ctx, owner, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	want := []string{EventStationCreated, EventStationUpdated, EventStationDeleted}
	if got := pub.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestStationOwnership(t *testing.T) {
	svc, _, pub := newStationService()
	ctx := context.Background()
	owner, other := uuid.NewString(), uuid.NewString()

	created, err := svc.Create(ctx, owner, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, other, created.ID, validRequest()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden update, got %v", err)
	}
	if err := svc.Delete(ctx, other, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if len(pub.types()) != 1 {
		t.Fatalf("rejected mutations must not publish events")
	}
}

func TestStationLookupErrors(t *testing.T) {
	svc, _, _ := newStationService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, "not-a-uuid"); !errors.Is(err, ErrInvalidStationID) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if _, err := svc.Get(ctx, uuid.NewString()); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, uuid.NewString(), "nope"); !errors.Is(err, ErrInvalidStationID) {
		t.Fatalf("expected invalid id on delete, got %v", err)
	}
}

func TestSeedAndList(t *testing.T) {
	svc, _, pub := newStationService()
	ctx := context.Background()
	owner := uuid.NewString()

	n, err := svc.Seed(ctx, owner)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(SampleStations()) || len(pub.types()) != n {
		t.Fatalf("seeded %d stations with %d events", n, len(pub.types()))
	}

	res, err := svc.List(ctx, stationquery.Params{Page: "2", Limit: "2"}, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.ChargingStations) != 2 {
		t.Fatalf("page length = %d", len(res.ChargingStations))
	}
	p := res.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 3 || p.TotalCount != 5 || !p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("unexpected pagination %+v", p)
	}
}

func TestListPropagatesStoreFailure(t *testing.T) {
	svc, repo, _ := newStationService()
	repo.err = errors.New("boom")
	if _, err := svc.List(context.Background(), stationquery.Params{}, ""); err == nil {
		t.Fatalf("expected store failure")
	}
}
