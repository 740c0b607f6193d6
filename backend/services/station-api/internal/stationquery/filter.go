package stationquery

import (
	"net/url"
	"strings"
)

// BoxHalfSpan is the half-width, in degrees, of the search box built around
// a latitude/longitude pair. Roughly a 5 km radius.
const BoxHalfSpan = 0.05

// ownerFlag is the only getByUserId value that restricts results to the caller.
const ownerFlag = "true"

// Params are the raw list query values.
type Params struct {
	Search        string
	Status        string
	PowerOutput   string
	ConnectorType string
	Latitude      string
	Longitude     string
	Page          string
	Limit         string
	GetByUserID   string
}

// ParamsFromQuery reads Params from a request query string.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Search:        q.Get("search"),
		Status:        q.Get("status"),
		PowerOutput:   q.Get("powerOutput"),
		ConnectorType: q.Get("connectorType"),
		Latitude:      q.Get("latitude"),
		Longitude:     q.Get("longitude"),
		Page:          q.Get("page"),
		Limit:         q.Get("limit"),
		GetByUserID:   q.Get("getByUserId"),
	}
}

// Predicate is one condition of a Filter. The concrete types below are the
// only implementations.
type Predicate interface {
	predicate()
}

// NameContains matches stations whose name contains Substring, ignoring case.
type NameContains struct {
	Substring string
}

// StatusEquals matches an exact status.
type StatusEquals struct {
	Status string
}

// PowerEquals matches an exact power output in kW.
type PowerEquals struct {
	KW float64
}

// ConnectorEquals matches an exact connector type.
type ConnectorEquals struct {
	Connector string
}

// BoundingBox matches stations whose coordinates fall inside the closed box.
type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// OwnerEquals matches stations created by UserID.
type OwnerEquals struct {
	UserID string
}

func (NameContains) predicate()    {}
func (StatusEquals) predicate()    {}
func (PowerEquals) predicate()     {}
func (ConnectorEquals) predicate() {}
func (BoundingBox) predicate()     {}
func (OwnerEquals) predicate()     {}

// Filter is a conjunction of predicates. An empty Filter matches every station.
type Filter []Predicate

// BoxAround returns the search box centred on lat/lng.
func BoxAround(lat, lng float64) BoundingBox {
	return BoundingBox{
		MinLatitude:  lat - BoxHalfSpan,
		MaxLatitude:  lat + BoxHalfSpan,
		MinLongitude: lng - BoxHalfSpan,
		MaxLongitude: lng + BoxHalfSpan,
	}
}

// Compose translates list parameters into a Filter. userID is the caller and
// is only used when GetByUserID asks for the caller's own stations.
func Compose(p Params, userID string) Filter {
	filter := Filter{}

	if search := strings.TrimSpace(p.Search); search != "" {
		filter = append(filter, NameContains{Substring: search})
	}
	if status := strings.TrimSpace(p.Status); status != "" {
		filter = append(filter, StatusEquals{Status: status})
	}
	if power, ok := leadingFloat(p.PowerOutput); ok {
		filter = append(filter, PowerEquals{KW: power})
	}
	if connector := strings.TrimSpace(p.ConnectorType); connector != "" {
		filter = append(filter, ConnectorEquals{Connector: connector})
	}

	lat, latOK := leadingFloat(p.Latitude)
	lng, lngOK := leadingFloat(p.Longitude)
	if latOK && lngOK {
		filter = append(filter, BoxAround(lat, lng))
	}

	if p.GetByUserID == ownerFlag {
		filter = append(filter, OwnerEquals{UserID: userID})
	}

	return filter
}
