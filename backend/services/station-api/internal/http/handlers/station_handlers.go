package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"evstations/backend/services/station-api/internal/metrics"
	"evstations/backend/services/station-api/internal/models"
	"evstations/backend/services/station-api/internal/service"
	"evstations/backend/services/station-api/internal/stationquery"
)

// StationService is the station logic behind the station endpoints.
type StationService interface {
	List(ctx context.Context, params stationquery.Params, userID string) (*stationquery.Result, error)
	Create(ctx context.Context, ownerID string, req service.StationRequest) (*models.Station, error)
	Get(ctx context.Context, id string) (*models.Station, error)
	Update(ctx context.Context, userID, id string, req service.StationRequest) (*models.Station, error)
	Delete(ctx context.Context, userID, id string) error
	Seed(ctx context.Context, ownerID string) (int, error)
}

// QueryObserver records list query outcomes.
type QueryObserver interface {
	ObserveQuery(result string)
}

// StationsHandlers serves /api/charging-stations.
type StationsHandlers struct {
	svc      StationService
	observer QueryObserver
	disclose bool
	logger   *zap.Logger
}

// NewStationsHandlers returns handler struct. disclose adds raw error text to
// unexpected list failures.
func NewStationsHandlers(svc StationService, observer QueryObserver, disclose bool, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{svc: svc, observer: observer, disclose: disclose, logger: logger}
}

type listFailure struct {
	Success bool `json:"success"`
	stationquery.Failure
}

// List handles GET /api/charging-stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.svc.List(r.Context(), stationquery.ParamsFromQuery(r.URL.Query()), user.ID)
	if err != nil {
		failure := stationquery.Describe(err, h.disclose)
		h.observe(string(failure.Code))
		h.logger.Error("list charging stations failed", zap.String("code", string(failure.Code)), zap.Error(err))
		writeJSON(w, failure.Status, listFailure{Failure: failure})
		return
	}

	h.observe(metrics.ResultOK)
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    result,
		Message: fmt.Sprintf("Found %d charging stations", len(result.ChargingStations)),
	})
}

// Create handles POST /api/charging-stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req service.StationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	station, err := h.svc.Create(r.Context(), user.ID, req)
	if err != nil {
		h.writeStationError(w, err, "create")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: station})
}

// Get handles GET /api/charging-stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStationError(w, err, "get")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: station})
}

// Update handles PUT /api/charging-stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req service.StationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	station, err := h.svc.Update(r.Context(), user.ID, r.PathValue("id"), req)
	if err != nil {
		h.writeStationError(w, err, "update")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: station})
}

// Delete handles DELETE /api/charging-stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		h.writeStationError(w, err, "delete")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Charging station deleted successfully"})
}

// Seed handles POST /api/charging-stations/seed.
func (h *StationsHandlers) Seed(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	count, err := h.svc.Seed(r.Context(), user.ID)
	if err != nil {
		h.writeStationError(w, err, "seed")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Sample data created successfully",
		Data:    map[string]int{"count": count},
	})
}

func (h *StationsHandlers) writeStationError(w http.ResponseWriter, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Missing {
			writeError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		writeError(w, http.StatusBadRequest, verr.Messages)
	case errors.Is(err, service.ErrInvalidStationID):
		writeError(w, http.StatusBadRequest, "Invalid charging station id")
	case errors.Is(err, service.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "Charging station not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, fmt.Sprintf("You are not authorized to %s this charging station", action))
	default:
		h.logger.Error("charging station request failed", zap.String("action", action), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

func (h *StationsHandlers) observe(result string) {
	if h.observer != nil {
		h.observer.ObserveQuery(result)
	}
}
