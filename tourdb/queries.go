package tourdb

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries can
// run standalone or inside a unit of work.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ---- waypoints ----

type CreateWaypointParams struct {
	ID        string
	Name      string
	Lat       float64
	Lng       float64
	CreatedAt int64
	UpdatedAt int64
}

const createWaypoint = `
INSERT INTO waypoints (id, name, lat, lng, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateWaypoint(ctx context.Context, arg CreateWaypointParams) error {
	_, err := q.db.ExecContext(ctx, createWaypoint,
		arg.ID, arg.Name, arg.Lat, arg.Lng, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getWaypoint = `
SELECT id, name, lat, lng, is_deleted, created_at, updated_at
FROM waypoints WHERE id = ?
`

func (q *Queries) GetWaypoint(ctx context.Context, id string) (Waypoint, error) {
	row := q.db.QueryRowContext(ctx, getWaypoint, id)
	var w Waypoint
	err := row.Scan(&w.ID, &w.Name, &w.Lat, &w.Lng, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

const listWaypoints = `
SELECT id, name, lat, lng, is_deleted, created_at, updated_at
FROM waypoints WHERE is_deleted = 0 ORDER BY name, id
`

func (q *Queries) ListWaypoints(ctx context.Context) ([]Waypoint, error) {
	rows, err := q.db.QueryContext(ctx, listWaypoints)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Waypoint
	for rows.Next() {
		var w Waypoint
		if err := rows.Scan(&w.ID, &w.Name, &w.Lat, &w.Lng, &w.IsDeleted, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

const softDeleteWaypoint = `
UPDATE waypoints SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0
`

func (q *Queries) SoftDeleteWaypoint(ctx context.Context, id string, updatedAt int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteWaypoint, updatedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- circuits ----

type CreateCircuitParams struct {
	ID          string
	Title       string
	Description sql.NullString
	Price       float64
	Seats       int64
	CreatedAt   int64
	UpdatedAt   int64
}

const createCircuit = `
INSERT INTO circuits (id, title, description, price, seats, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateCircuit(ctx context.Context, arg CreateCircuitParams) error {
	_, err := q.db.ExecContext(ctx, createCircuit,
		arg.ID, arg.Title, arg.Description, arg.Price, arg.Seats, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getCircuit = `
SELECT id, title, description, price, seats, is_deleted, created_at, updated_at
FROM circuits WHERE id = ?
`

func (q *Queries) GetCircuit(ctx context.Context, id string) (Circuit, error) {
	row := q.db.QueryRowContext(ctx, getCircuit, id)
	var c Circuit
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Seats, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) scanCircuits(rows *sql.Rows) ([]Circuit, error) {
	defer rows.Close()
	var items []Circuit
	for rows.Next() {
		var c Circuit
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Seats, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const listCircuits = `
SELECT id, title, description, price, seats, is_deleted, created_at, updated_at
FROM circuits WHERE is_deleted = 0 ORDER BY created_at DESC, id
`

func (q *Queries) ListCircuits(ctx context.Context) ([]Circuit, error) {
	rows, err := q.db.QueryContext(ctx, listCircuits)
	if err != nil {
		return nil, err
	}
	return q.scanCircuits(rows)
}

const listCircuitsByPriceRange = `
SELECT id, title, description, price, seats, is_deleted, created_at, updated_at
FROM circuits WHERE is_deleted = 0 AND price >= ? AND price <= ?
ORDER BY price, id
`

func (q *Queries) ListCircuitsByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]Circuit, error) {
	rows, err := q.db.QueryContext(ctx, listCircuitsByPriceRange, minPrice, maxPrice)
	if err != nil {
		return nil, err
	}
	return q.scanCircuits(rows)
}

const listCircuitsByMaxSeats = `
SELECT id, title, description, price, seats, is_deleted, created_at, updated_at
FROM circuits WHERE is_deleted = 0 AND seats <= ?
ORDER BY seats, id
`

func (q *Queries) ListCircuitsByMaxSeats(ctx context.Context, maxSeats int64) ([]Circuit, error) {
	rows, err := q.db.QueryContext(ctx, listCircuitsByMaxSeats, maxSeats)
	if err != nil {
		return nil, err
	}
	return q.scanCircuits(rows)
}

const searchCircuits = `
SELECT id, title, description, price, seats, is_deleted, created_at, updated_at
FROM circuits
WHERE is_deleted = 0 AND (title LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%')
ORDER BY title, id
`

func (q *Queries) SearchCircuits(ctx context.Context, keyword string) ([]Circuit, error) {
	rows, err := q.db.QueryContext(ctx, searchCircuits, keyword, keyword)
	if err != nil {
		return nil, err
	}
	return q.scanCircuits(rows)
}

type UpdateCircuitParams struct {
	ID          string
	Title       string
	Description sql.NullString
	Price       float64
	Seats       int64
	UpdatedAt   int64
}

const updateCircuit = `
UPDATE circuits SET title = ?, description = ?, price = ?, seats = ?, updated_at = ?
WHERE id = ? AND is_deleted = 0
`

func (q *Queries) UpdateCircuit(ctx context.Context, arg UpdateCircuitParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCircuit,
		arg.Title, arg.Description, arg.Price, arg.Seats, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteCircuit = `
UPDATE circuits SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0
`

func (q *Queries) SoftDeleteCircuit(ctx context.Context, id string, updatedAt int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteCircuit, updatedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- circuit_waypoints ----

type CreateCircuitWaypointParams struct {
	ID         string
	CircuitID  string
	WaypointID string
	Position   int64
}

const createCircuitWaypoint = `
INSERT INTO circuit_waypoints (id, circuit_id, waypoint_id, position)
VALUES (?, ?, ?, ?)
`

func (q *Queries) CreateCircuitWaypoint(ctx context.Context, arg CreateCircuitWaypointParams) error {
	_, err := q.db.ExecContext(ctx, createCircuitWaypoint,
		arg.ID, arg.CircuitID, arg.WaypointID, arg.Position)
	return err
}

const getCircuitWaypoint = `
SELECT id, circuit_id, waypoint_id, position
FROM circuit_waypoints WHERE circuit_id = ? AND waypoint_id = ?
`

func (q *Queries) GetCircuitWaypoint(ctx context.Context, circuitID, waypointID string) (CircuitWaypoint, error) {
	row := q.db.QueryRowContext(ctx, getCircuitWaypoint, circuitID, waypointID)
	var cw CircuitWaypoint
	err := row.Scan(&cw.ID, &cw.CircuitID, &cw.WaypointID, &cw.Position)
	return cw, err
}

const listCircuitWaypoints = `
SELECT id, circuit_id, waypoint_id, position
FROM circuit_waypoints WHERE circuit_id = ? ORDER BY position
`

func (q *Queries) ListCircuitWaypoints(ctx context.Context, circuitID string) ([]CircuitWaypoint, error) {
	rows, err := q.db.QueryContext(ctx, listCircuitWaypoints, circuitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CircuitWaypoint
	for rows.Next() {
		var cw CircuitWaypoint
		if err := rows.Scan(&cw.ID, &cw.CircuitID, &cw.WaypointID, &cw.Position); err != nil {
			return nil, err
		}
		items = append(items, cw)
	}
	return items, rows.Err()
}

const listCircuitStops = `
SELECT cw.waypoint_id, w.name, w.lat, w.lng, cw.position
FROM circuit_waypoints cw
JOIN waypoints w ON w.id = cw.waypoint_id
WHERE cw.circuit_id = ? AND w.is_deleted = 0
ORDER BY cw.position
`

// ListCircuitStops returns the circuit's ordered waypoint list with
// coordinates, skipping waypoints deleted from the catalog.
func (q *Queries) ListCircuitStops(ctx context.Context, circuitID string) ([]CircuitStop, error) {
	rows, err := q.db.QueryContext(ctx, listCircuitStops, circuitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CircuitStop
	for rows.Next() {
		var s CircuitStop
		if err := rows.Scan(&s.WaypointID, &s.Name, &s.Lat, &s.Lng, &s.Position); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const shiftCircuitPositionsUp = `
UPDATE circuit_waypoints SET position = position + 1
WHERE circuit_id = ? AND position >= ?
`

// ShiftCircuitPositionsUp makes room at fromPosition by incrementing every
// association at or beyond it.
func (q *Queries) ShiftCircuitPositionsUp(ctx context.Context, circuitID string, fromPosition int64) error {
	_, err := q.db.ExecContext(ctx, shiftCircuitPositionsUp, circuitID, fromPosition)
	return err
}

const shiftCircuitPositionsDown = `
UPDATE circuit_waypoints SET position = position - 1
WHERE circuit_id = ? AND position > ?
`

// ShiftCircuitPositionsDown closes the gap left at abovePosition by
// decrementing every association strictly beyond it.
func (q *Queries) ShiftCircuitPositionsDown(ctx context.Context, circuitID string, abovePosition int64) error {
	_, err := q.db.ExecContext(ctx, shiftCircuitPositionsDown, circuitID, abovePosition)
	return err
}

const deleteCircuitWaypoint = `
DELETE FROM circuit_waypoints WHERE circuit_id = ? AND waypoint_id = ?
`

func (q *Queries) DeleteCircuitWaypoint(ctx context.Context, circuitID, waypointID string) error {
	_, err := q.db.ExecContext(ctx, deleteCircuitWaypoint, circuitID, waypointID)
	return err
}

const deleteCircuitWaypoints = `
DELETE FROM circuit_waypoints WHERE circuit_id = ?
`

func (q *Queries) DeleteCircuitWaypoints(ctx context.Context, circuitID string) error {
	_, err := q.db.ExecContext(ctx, deleteCircuitWaypoints, circuitID)
	return err
}

// ---- vehicles ----

type CreateVehicleParams struct {
	ID       string
	Name     string
	Capacity int64
}

const createVehicle = `
INSERT INTO vehicles (id, name, capacity) VALUES (?, ?, ?)
`

func (q *Queries) CreateVehicle(ctx context.Context, arg CreateVehicleParams) error {
	_, err := q.db.ExecContext(ctx, createVehicle, arg.ID, arg.Name, arg.Capacity)
	return err
}

const getVehicle = `
SELECT id, name, capacity FROM vehicles WHERE id = ?
`

func (q *Queries) GetVehicle(ctx context.Context, id string) (Vehicle, error) {
	row := q.db.QueryRowContext(ctx, getVehicle, id)
	var v Vehicle
	err := row.Scan(&v.ID, &v.Name, &v.Capacity)
	return v, err
}

// ---- routes ----

type CreateRouteParams struct {
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

const createRoute = `
INSERT INTO routes (id, circuit_id, operator_id, vehicle_id, date_start, hours, price, seats, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateRoute(ctx context.Context, arg CreateRouteParams) error {
	_, err := q.db.ExecContext(ctx, createRoute,
		arg.ID, arg.CircuitID, arg.OperatorID, arg.VehicleID, arg.DateStart,
		arg.Hours, arg.Price, arg.Seats, arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getRoute = `
SELECT id, circuit_id, operator_id, vehicle_id, date_start, hours, price, seats, status, created_at, updated_at
FROM routes WHERE id = ?
`

func (q *Queries) GetRoute(ctx context.Context, id string) (Route, error) {
	row := q.db.QueryRowContext(ctx, getRoute, id)
	var r Route
	err := row.Scan(&r.ID, &r.CircuitID, &r.OperatorID, &r.VehicleID, &r.DateStart,
		&r.Hours, &r.Price, &r.Seats, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (q *Queries) scanRoutes(rows *sql.Rows) ([]Route, error) {
	defer rows.Close()
	var items []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.CircuitID, &r.OperatorID, &r.VehicleID, &r.DateStart,
			&r.Hours, &r.Price, &r.Seats, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listRoutes = `
SELECT id, circuit_id, operator_id, vehicle_id, date_start, hours, price, seats, status, created_at, updated_at
FROM routes ORDER BY date_start, hours, id
`

func (q *Queries) ListRoutes(ctx context.Context) ([]Route, error) {
	rows, err := q.db.QueryContext(ctx, listRoutes)
	if err != nil {
		return nil, err
	}
	return q.scanRoutes(rows)
}

const listRoutesByStatus = `
SELECT id, circuit_id, operator_id, vehicle_id, date_start, hours, price, seats, status, created_at, updated_at
FROM routes WHERE status = ? ORDER BY date_start, hours, id
`

func (q *Queries) ListRoutesByStatus(ctx context.Context, status string) ([]Route, error) {
	rows, err := q.db.QueryContext(ctx, listRoutesByStatus, status)
	if err != nil {
		return nil, err
	}
	return q.scanRoutes(rows)
}

const updateRouteStatus = `
UPDATE routes SET status = ?, updated_at = ? WHERE id = ?
`

func (q *Queries) UpdateRouteStatus(ctx context.Context, id, status string, updatedAt int64) error {
	_, err := q.db.ExecContext(ctx, updateRouteStatus, status, updatedAt, id)
	return err
}

// ---- route_stops ----

type CreateRouteStopParams struct {
	ID         string
	RouteID    string
	WaypointID string
	Position   int64
}

const createRouteStop = `
INSERT INTO route_stops (id, route_id, waypoint_id, position)
VALUES (?, ?, ?, ?)
`

func (q *Queries) CreateRouteStop(ctx context.Context, arg CreateRouteStopParams) error {
	_, err := q.db.ExecContext(ctx, createRouteStop,
		arg.ID, arg.RouteID, arg.WaypointID, arg.Position)
	return err
}

const listRouteStops = `
SELECT id, route_id, waypoint_id, position, status
FROM route_stops WHERE route_id = ? ORDER BY position
`

func (q *Queries) ListRouteStops(ctx context.Context, routeID string) ([]RouteStop, error) {
	rows, err := q.db.QueryContext(ctx, listRouteStops, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RouteStop
	for rows.Next() {
		var s RouteStop
		if err := rows.Scan(&s.ID, &s.RouteID, &s.WaypointID, &s.Position, &s.Status); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const listPendingRouteStops = `
SELECT rs.waypoint_id, rs.position, w.lat, w.lng
FROM route_stops rs
JOIN waypoints w ON w.id = rs.waypoint_id
WHERE rs.route_id = ? AND rs.status = 'pending' AND w.is_deleted = 0
ORDER BY rs.position
`

// ListPendingRouteStops returns the route's not-yet-visited stops with
// coordinates, the geofence matcher's candidate set.
func (q *Queries) ListPendingRouteStops(ctx context.Context, routeID string) ([]RouteStopCandidate, error) {
	rows, err := q.db.QueryContext(ctx, listPendingRouteStops, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RouteStopCandidate
	for rows.Next() {
		var c RouteStopCandidate
		if err := rows.Scan(&c.WaypointID, &c.Position, &c.Lat, &c.Lng); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const markRouteStopVisited = `
UPDATE route_stops SET status = 'visited'
WHERE route_id = ? AND waypoint_id = ? AND status = 'pending'
`

// MarkRouteStopVisited flips a pending stop to visited. The returned count
// is zero when the stop was already visited, which callers treat as "do
// not record a second arrival".
func (q *Queries) MarkRouteStopVisited(ctx context.Context, routeID, waypointID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, markRouteStopVisited, routeID, waypointID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- trace_points ----

type CreateTracePointParams struct {
	ID         string
	RouteID    string
	Lat        float64
	Lng        float64
	RecordedAt int64
}

const createTracePoint = `
INSERT INTO trace_points (id, route_id, lat, lng, recorded_at)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateTracePoint(ctx context.Context, arg CreateTracePointParams) error {
	_, err := q.db.ExecContext(ctx, createTracePoint,
		arg.ID, arg.RouteID, arg.Lat, arg.Lng, arg.RecordedAt)
	return err
}

const annotateTracePoint = `
UPDATE trace_points SET matched_waypoint_id = ?, matched_position = ?
WHERE id = ? AND matched_waypoint_id IS NULL
`

// AnnotateTracePoint attaches the matched waypoint to the trace point that
// triggered the arrival. Trace points are otherwise append-only.
func (q *Queries) AnnotateTracePoint(ctx context.Context, id, waypointID string, position int64) error {
	_, err := q.db.ExecContext(ctx, annotateTracePoint, waypointID, position, id)
	return err
}

func (q *Queries) scanTracePoints(rows *sql.Rows) ([]TracePoint, error) {
	defer rows.Close()
	var items []TracePoint
	for rows.Next() {
		var t TracePoint
		if err := rows.Scan(&t.ID, &t.RouteID, &t.Lat, &t.Lng, &t.RecordedAt,
			&t.MatchedWaypointID, &t.MatchedPosition); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const listTracePoints = `
SELECT id, route_id, lat, lng, recorded_at, matched_waypoint_id, matched_position
FROM trace_points WHERE route_id = ? ORDER BY recorded_at, id
`

func (q *Queries) ListTracePoints(ctx context.Context, routeID string) ([]TracePoint, error) {
	rows, err := q.db.QueryContext(ctx, listTracePoints, routeID)
	if err != nil {
		return nil, err
	}
	return q.scanTracePoints(rows)
}

const listTracePointsBetween = `
SELECT id, route_id, lat, lng, recorded_at, matched_waypoint_id, matched_position
FROM trace_points
WHERE route_id = ? AND recorded_at >= ? AND recorded_at <= ?
ORDER BY recorded_at, id
`

func (q *Queries) ListTracePointsBetween(ctx context.Context, routeID string, start, end int64) ([]TracePoint, error) {
	rows, err := q.db.QueryContext(ctx, listTracePointsBetween, routeID, start, end)
	if err != nil {
		return nil, err
	}
	return q.scanTracePoints(rows)
}

const getLatestTracePoint = `
SELECT id, route_id, lat, lng, recorded_at, matched_waypoint_id, matched_position
FROM trace_points WHERE route_id = ?
ORDER BY recorded_at DESC, id DESC LIMIT 1
`

func (q *Queries) GetLatestTracePoint(ctx context.Context, routeID string) (TracePoint, error) {
	row := q.db.QueryRowContext(ctx, getLatestTracePoint, routeID)
	var t TracePoint
	err := row.Scan(&t.ID, &t.RouteID, &t.Lat, &t.Lng, &t.RecordedAt,
		&t.MatchedWaypointID, &t.MatchedPosition)
	return t, err
}

const countMatchedTraces = `
SELECT COUNT(*) FROM trace_points
WHERE route_id = ? AND matched_waypoint_id = ?
`

func (q *Queries) CountMatchedTraces(ctx context.Context, routeID, waypointID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMatchedTraces, routeID, waypointID)
	var n int64
	err := row.Scan(&n)
	return n, err
}
