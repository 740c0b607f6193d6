package models

import "time"

// StationStatus is the operational state of a charging station.
type StationStatus string

const (
	StatusActive      StationStatus = "Active"
	StatusInactive    StationStatus = "Inactive"
	StatusMaintenance StationStatus = "Maintenance"
)

// StationStatuses lists accepted statuses in display order.
var StationStatuses = []StationStatus{StatusActive, StatusInactive, StatusMaintenance}

// Valid reports whether s is a known status.
func (s StationStatus) Valid() bool {
	for _, known := range StationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ConnectorType is the plug standard offered by a station.
type ConnectorType string

const (
	ConnectorType1   ConnectorType = "Type1"
	ConnectorType2   ConnectorType = "Type2"
	ConnectorCCS     ConnectorType = "CCS"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorGBT     ConnectorType = "GB/T"
)

// ConnectorTypes lists accepted connector types in display order.
var ConnectorTypes = []ConnectorType{ConnectorType1, ConnectorType2, ConnectorCCS, ConnectorCHAdeMO, ConnectorGBT}

// Valid reports whether c is a known connector type.
func (c ConnectorType) Valid() bool {
	for _, known := range ConnectorTypes {
		if c == known {
			return true
		}
	}
	return false
}

// Coordinates holds a station position. Either axis may be missing on rows
// written before both were mandatory.
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Station is a persisted charging station.
type Station struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Coordinates   Coordinates   `json:"coordinates"`
	Status        StationStatus `db:"status" json:"status"`
	PowerOutput   float64       `db:"power_output" json:"powerOutput"`
	ConnectorType ConnectorType `db:"connector_type" json:"connectorType"`
	CreatedBy     string        `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// StationInput carries the user-settable fields of a station.
type StationInput struct {
	Name          string
	Latitude      float64
	Longitude     float64
	Status        StationStatus
	PowerOutput   float64
	ConnectorType ConnectorType
}
