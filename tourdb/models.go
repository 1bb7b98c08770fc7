package tourdb

import "database/sql"

// Row types mirror the tables in schema.sql. Timestamps are Unix seconds.

type Waypoint struct {
	ID        string
	Name      string
	Lat       float64
	Lng       float64
	IsDeleted int64
	CreatedAt int64
	UpdatedAt int64
}

type Circuit struct {
	ID          string
	Title       string
	Description sql.NullString
	Price       float64
	Seats       int64
	IsDeleted   int64
	CreatedAt   int64
	UpdatedAt   int64
}

// CircuitWaypoint is one ordered association between a circuit and a
// waypoint. Position values for a circuit are unique, contiguous and
// 1-based at every committed state.
type CircuitWaypoint struct {
	ID         string
	CircuitID  string
	WaypointID string
	Position   int64
}

// CircuitStop is a CircuitWaypoint joined with its waypoint's identity
// and coordinates, ordered by position.
type CircuitStop struct {
	WaypointID string
	Name       string
	Lat        float64
	Lng        float64
	Position   int64
}

type Vehicle struct {
	ID       string
	Name     string
	Capacity int64
}

type Route struct {
	ID         string
	CircuitID  string
	OperatorID string
	VehicleID  sql.NullString
	DateStart  sql.NullInt64
	Hours      sql.NullString
	Price      sql.NullFloat64
	Seats      sql.NullInt64
	Status     string
	CreatedAt  int64
	UpdatedAt  int64
}

// RouteStop is one entry of a route's waypoint-sequence snapshot, taken
// from the circuit at scheduling time.
type RouteStop struct {
	ID         string
	RouteID    string
	WaypointID string
	Position   int64
	Status     string
}

// RouteStopCandidate is a pending route stop joined with its waypoint
// coordinates, used as geofence matching input.
type RouteStopCandidate struct {
	WaypointID string
	Position   int64
	Lat        float64
	Lng        float64
}

type TracePoint struct {
	ID                string
	RouteID           string
	Lat               float64
	Lng               float64
	RecordedAt        int64
	MatchedWaypointID sql.NullString
	MatchedPosition   sql.NullInt64
}
