package models

import (
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

// Waypoint is the API shape of a point of interest.
type Waypoint struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func NewWaypoint(w tourdb.Waypoint) Waypoint {
	return Waypoint{ID: w.ID, Name: w.Name, Lat: w.Lat, Lng: w.Lng}
}

// CircuitWaypointEntry is one element of a circuit's ordered POI list.
type CircuitWaypointEntry struct {
	PoiID string `json:"poiId"`
	Order int64  `json:"order"`
}

type Circuit struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Price       float64                `json:"price"`
	Seats       int64                  `json:"seats"`
	Pois        []CircuitWaypointEntry `json:"poiIdsOrdered,omitempty"`
}

func NewCircuit(c tourdb.Circuit) Circuit {
	return Circuit{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description.String,
		Price:       c.Price,
		Seats:       c.Seats,
	}
}

// NewCircuitWithStops includes the ordered waypoint list.
func NewCircuitWithStops(c tourdb.Circuit, stops []tourdb.CircuitStop) Circuit {
	circuit := NewCircuit(c)
	circuit.Pois = make([]CircuitWaypointEntry, len(stops))
	for i, stop := range stops {
		circuit.Pois[i] = CircuitWaypointEntry{PoiID: stop.WaypointID, Order: stop.Position}
	}
	return circuit
}

// CircuitStop is one ordered, coordinate-bearing entry of a circuit's
// waypoint list.
type CircuitStop struct {
	PoiID string  `json:"poiId"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Order int64   `json:"order"`
}

func NewCircuitStops(stops []tourdb.CircuitStop) []CircuitStop {
	out := make([]CircuitStop, len(stops))
	for i, stop := range stops {
		out[i] = CircuitStop{
			PoiID: stop.WaypointID,
			Name:  stop.Name,
			Lat:   stop.Lat,
			Lng:   stop.Lng,
			Order: stop.Position,
		}
	}
	return out
}

type Route struct {
	ID         string   `json:"id"`
	CircuitID  string   `json:"circuitId"`
	OperatorID string   `json:"operatorId"`
	VehicleID  *string  `json:"vehicleId,omitempty"`
	DateStart  *int64   `json:"dateStart,omitempty"`
	Hours      *string  `json:"hours,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Seats      *int64   `json:"seats,omitempty"`
	Status     string   `json:"status"`
}

func NewRoute(r tourdb.Route) Route {
	route := Route{
		ID:         r.ID,
		CircuitID:  r.CircuitID,
		OperatorID: r.OperatorID,
		Status:     r.Status,
	}
	if r.VehicleID.Valid {
		route.VehicleID = &r.VehicleID.String
	}
	if r.DateStart.Valid {
		route.DateStart = &r.DateStart.Int64
	}
	if r.Hours.Valid {
		route.Hours = &r.Hours.String
	}
	if r.Price.Valid {
		route.Price = &r.Price.Float64
	}
	if r.Seats.Valid {
		route.Seats = &r.Seats.Int64
	}
	return route
}

func NewRoutes(rows []tourdb.Route) []Route {
	out := make([]Route, len(rows))
	for i, r := range rows {
		out[i] = NewRoute(r)
	}
	return out
}

type TracePoint struct {
	ID           string  `json:"id"`
	RouteID      string  `json:"routeId"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RecordedAt   int64   `json:"recordedAt"`
	ReachedPoi   *string `json:"reachedPoi"`
	ReachedOrder *int64  `json:"reachedOrder,omitempty"`
}

func NewTracePoint(tp tourdb.TracePoint) TracePoint {
	trace := TracePoint{
		ID:         tp.ID,
		RouteID:    tp.RouteID,
		Lat:        tp.Lat,
		Lng:        tp.Lng,
		RecordedAt: tp.RecordedAt,
	}
	if tp.MatchedWaypointID.Valid {
		trace.ReachedPoi = &tp.MatchedWaypointID.String
	}
	if tp.MatchedPosition.Valid {
		trace.ReachedOrder = &tp.MatchedPosition.Int64
	}
	return trace
}

// TraceList is a route's trace log plus its path encoded as a Google
// polyline for map rendering.
type TraceList struct {
	Traces      []TracePoint `json:"traces"`
	EncodedPath string       `json:"encodedPath,omitempty"`
}

func NewTraceList(rows []tourdb.TracePoint, encodedPath string) TraceList {
	traces := make([]TracePoint, len(rows))
	for i, tp := range rows {
		traces[i] = NewTracePoint(tp)
	}
	return TraceList{Traces: traces, EncodedPath: encodedPath}
}

// BatchIngest reports how many samples a batch stored and which waypoint,
// if any, the batch arrived at.
type BatchIngest struct {
	Results    int     `json:"results"`
	ReachedPoi *string `json:"reachedPoi"`
}

// RouteStop is one entry of a route's expected-stop snapshot.
type RouteStop struct {
	PoiID  string `json:"poiId"`
	Order  int64  `json:"order"`
	Status string `json:"status"`
}

// TrackingStatus reports the freshness of a route's GPS feed.
type TrackingStatus struct {
	LastFixAt int64 `json:"lastFixAt,omitempty"`
	Stale     bool  `json:"stale"`
}

// RouteProgress summarizes a route's advancement through its stops.
// Tracking is present only while the route is ongoing.
type RouteProgress struct {
	Route    Route           `json:"route"`
	Stops    []RouteStop     `json:"stops"`
	Visited  int             `json:"visited"`
	Total    int             `json:"total"`
	Percent  float64         `json:"percent"`
	Tracking *TrackingStatus `json:"tracking,omitempty"`
}
