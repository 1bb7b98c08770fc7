// Package routes schedules guided-tour routes from circuit templates and
// drives them through their lifecycle.
package routes

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kaouthar-hr/Move2See-Project/internal/clock"
	"github.com/Kaouthar-hr/Move2See-Project/internal/fault"
	"github.com/Kaouthar-hr/Move2See-Project/internal/lifecycle"
	"github.com/Kaouthar-hr/Move2See-Project/internal/logging"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

// ScheduleParams describes a new route. Price and Seats fall back to the
// circuit's price and the vehicle's capacity when left unset.
type ScheduleParams struct {
	CircuitID  string
	OperatorID string
	VehicleID  string
	DateStart  int64
	Hours      string
	Price      *float64
	Seats      *int64
}

// Progress summarizes how far along its stop sequence a route is.
type Progress struct {
	Route   tourdb.Route
	Stops   []tourdb.RouteStop
	Visited int
	Total   int
	Percent float64
}

type Service struct {
	db     *tourdb.Client
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(db *tourdb.Client, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:     db,
		clock:  clk,
		logger: logger.With(slog.String("component", "route_service")),
	}
}

// Schedule creates a route in the scheduled state and snapshots the
// circuit's current waypoint sequence into per-route stop records. Later
// edits to the circuit do not touch routes already scheduled from it.
func (s *Service) Schedule(ctx context.Context, params ScheduleParams) (tourdb.Route, error) {
	if params.CircuitID == "" || params.OperatorID == "" {
		return tourdb.Route{}, fault.New(fault.KindInvalidInput, "circuit and operator ids are required")
	}

	now := s.clock.Now().Unix()
	var route tourdb.Route
	err := s.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		circuit, err := q.GetCircuit(ctx, params.CircuitID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && circuit.IsDeleted != 0) {
			return fault.New(fault.KindNotFound, "circuit not found")
		} else if err != nil {
			return fault.Wrap(fault.KindInternal, "loading circuit", err)
		}

		var vehicleID sql.NullString
		seats := circuit.Seats
		if params.VehicleID != "" {
			vehicle, err := q.GetVehicle(ctx, params.VehicleID)
			if errors.Is(err, sql.ErrNoRows) {
				return fault.New(fault.KindInvalidInput, "vehicle does not exist")
			} else if err != nil {
				return fault.Wrap(fault.KindInternal, "loading vehicle", err)
			}
			vehicleID = sql.NullString{String: vehicle.ID, Valid: true}
			seats = vehicle.Capacity
		}

		price := circuit.Price
		if params.Price != nil {
			price = *params.Price
		}
		if params.Seats != nil {
			seats = *params.Seats
		}

		route = tourdb.Route{
			ID:         uuid.NewString(),
			CircuitID:  circuit.ID,
			OperatorID: params.OperatorID,
			VehicleID:  vehicleID,
			Status:     string(lifecycle.StatusScheduled),
			Price:      sql.NullFloat64{Float64: price, Valid: true},
			Seats:      sql.NullInt64{Int64: seats, Valid: true},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if params.DateStart != 0 {
			route.DateStart = sql.NullInt64{Int64: params.DateStart, Valid: true}
		}
		if params.Hours != "" {
			route.Hours = sql.NullString{String: params.Hours, Valid: true}
		}

		if err := q.CreateRoute(ctx, tourdb.CreateRouteParams{
			ID:         route.ID,
			CircuitID:  route.CircuitID,
			OperatorID: route.OperatorID,
			VehicleID:  route.VehicleID,
			DateStart:  route.DateStart,
			Hours:      route.Hours,
			Price:      route.Price,
			Seats:      route.Seats,
			Status:     route.Status,
			CreatedAt:  route.CreatedAt,
			UpdatedAt:  route.UpdatedAt,
		}); err != nil {
			return fault.Wrap(fault.KindInternal, "creating route", err)
		}

		stops, err := q.ListCircuitStops(ctx, circuit.ID)
		if err != nil {
			return fault.Wrap(fault.KindInternal, "loading circuit waypoints", err)
		}
		for _, stop := range stops {
			if err := q.CreateRouteStop(ctx, tourdb.CreateRouteStopParams{
				ID:         uuid.NewString(),
				RouteID:    route.ID,
				WaypointID: stop.WaypointID,
				Position:   stop.Position,
			}); err != nil {
				return fault.Wrap(fault.KindInternal, "snapshotting route stop", err)
			}
		}
		return nil
	})
	if err != nil {
		return tourdb.Route{}, err
	}

	logging.LogOperation(s.logger, "route_scheduled",
		slog.String("route_id", route.ID),
		slog.String("circuit_id", route.CircuitID),
		slog.String("operator_id", route.OperatorID))
	return route, nil
}

// Get returns a single route.
func (s *Service) Get(ctx context.Context, routeID string) (tourdb.Route, error) {
	route, err := s.db.Queries.GetRoute(ctx, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return tourdb.Route{}, fault.New(fault.KindNotFound, "route not found")
	} else if err != nil {
		return tourdb.Route{}, fault.Wrap(fault.KindInternal, "loading route", err)
	}
	return route, nil
}

// List returns routes, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]tourdb.Route, error) {
	if status == "" {
		routes, err := s.db.Queries.ListRoutes(ctx)
		if err != nil {
			return nil, fault.Wrap(fault.KindInternal, "listing routes", err)
		}
		return routes, nil
	}

	parsed, err := lifecycle.ParseStatus(status)
	if err != nil {
		return nil, fault.Wrap(fault.KindInvalidInput, "invalid status filter", err)
	}
	routes, err := s.db.Queries.ListRoutesByStatus(ctx, string(parsed))
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing routes", err)
	}
	return routes, nil
}

// Transition applies a lifecycle action (start, pause, resume, complete,
// cancel) to the route and returns the updated record.
func (s *Service) Transition(ctx context.Context, routeID string, action lifecycle.Action) (tourdb.Route, error) {
	var route tourdb.Route
	err := s.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		current, err := q.GetRoute(ctx, routeID)
		if errors.Is(err, sql.ErrNoRows) {
			return fault.New(fault.KindNotFound, "route not found")
		} else if err != nil {
			return fault.Wrap(fault.KindInternal, "loading route", err)
		}

		status, err := lifecycle.ParseStatus(current.Status)
		if err != nil {
			return fault.Wrap(fault.KindInternal, "stored route status is invalid", err)
		}

		next, err := lifecycle.Apply(status, action)
		if err != nil {
			return err
		}

		now := s.clock.Now().Unix()
		if err := q.UpdateRouteStatus(ctx, routeID, string(next), now); err != nil {
			return fault.Wrap(fault.KindInternal, "updating route status", err)
		}

		current.Status = string(next)
		current.UpdatedAt = now
		route = current
		return nil
	})
	if err != nil {
		return tourdb.Route{}, err
	}

	logging.LogOperation(s.logger, "route_transitioned",
		slog.String("route_id", route.ID),
		slog.String("action", string(action)),
		slog.String("status", route.Status))
	return route, nil
}

// Progress reports the route's stop snapshot and how much of it has been
// visited so far.
func (s *Service) Progress(ctx context.Context, routeID string) (Progress, error) {
	route, err := s.Get(ctx, routeID)
	if err != nil {
		return Progress{}, err
	}

	stops, err := s.db.Queries.ListRouteStops(ctx, routeID)
	if err != nil {
		return Progress{}, fault.Wrap(fault.KindInternal, "listing route stops", err)
	}

	visited := 0
	for _, stop := range stops {
		if stop.Status == "visited" {
			visited++
		}
	}

	progress := Progress{
		Route:   route,
		Stops:   stops,
		Visited: visited,
		Total:   len(stops),
	}
	if progress.Total > 0 {
		progress.Percent = float64(visited) / float64(progress.Total) * 100
	}
	return progress, nil
}
