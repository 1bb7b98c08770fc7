// Package tracking ingests GPS samples for ongoing routes, persists them
// as an append-only trace log and detects waypoint arrivals exactly once.
package tracking

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kaouthar-hr/Move2See-Project/internal/clock"
	"github.com/Kaouthar-hr/Move2See-Project/internal/fault"
	"github.com/Kaouthar-hr/Move2See-Project/internal/geo"
	"github.com/Kaouthar-hr/Move2See-Project/internal/lifecycle"
	"github.com/Kaouthar-hr/Move2See-Project/internal/logging"
	"github.com/Kaouthar-hr/Move2See-Project/internal/metrics"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

// Sample is one GPS reading submitted by a route operator.
type Sample struct {
	Lat        float64
	Lng        float64
	RecordedAt int64
}

// Arrival identifies the waypoint a sample landed on.
type Arrival struct {
	WaypointID string
	Position   int64
	DistanceKm float64
}

// PointResult is the outcome of a single-sample ingestion.
type PointResult struct {
	Trace   tourdb.TracePoint
	Arrival *Arrival
}

// BatchResult is the outcome of a batched ingestion. At most one arrival
// is detected per batch; Arrival is nil when no sample matched.
type BatchResult struct {
	Ingested int
	Arrival  *Arrival
}

// Freshness reports the age of a route's most recent fix.
type Freshness struct {
	LastFixAt int64 // Unix seconds, 0 when no trace point exists
	Stale     bool
}

type Engine struct {
	db         *tourdb.Client
	matcher    geo.Matcher
	authorizer Authorizer
	staleness  *StaleDetector
	clock      clock.Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewEngine(db *tourdb.Client, authorizer Authorizer, clk clock.Clock, m *metrics.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		db:         db,
		matcher:    geo.NewMatcher(),
		authorizer: authorizer,
		staleness:  NewStaleDetector(),
		clock:      clk,
		metrics:    m,
		logger:     logger.With(slog.String("component", "trace_engine")),
	}
}

func validateSample(s Sample) error {
	if s.Lat < -90 || s.Lat > 90 || s.Lng < -180 || s.Lng > 180 {
		return fault.New(fault.KindInvalidInput, "coordinates out of range")
	}
	return nil
}

// gate loads the route and rejects ingestion unless the caller may
// operate it and its status accepts traces. Elevated actors skip the
// ownership check but not the status check.
func (e *Engine) gate(ctx context.Context, actor Actor, routeID string) (tourdb.Route, error) {
	route, err := e.db.Queries.GetRoute(ctx, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return tourdb.Route{}, fault.New(fault.KindNotFound, "route not found")
	} else if err != nil {
		return tourdb.Route{}, fault.Wrap(fault.KindInternal, "loading route", err)
	}

	if !actor.Elevated {
		allowed, err := e.authorizer.CanOperateRoute(ctx, actor.OperatorID, routeID)
		if err != nil {
			return tourdb.Route{}, err
		}
		if !allowed {
			return tourdb.Route{}, fault.New(fault.KindUnauthorized, "operator may not submit traces for this route")
		}
	}

	status, err := lifecycle.ParseStatus(route.Status)
	if err != nil {
		return tourdb.Route{}, fault.Wrap(fault.KindInternal, "stored route status is invalid", err)
	}
	if !status.AcceptsTraces() {
		return tourdb.Route{}, fault.Newf(fault.KindRouteNotActive, "route is %s, traces are accepted only while ongoing", status)
	}
	return route, nil
}

// matchPending runs the geofence against the route's still-pending stops.
func (e *Engine) matchPending(ctx context.Context, q *tourdb.Queries, routeID string, lat, lng float64) (*Arrival, error) {
	pending, err := q.ListPendingRouteStops(ctx, routeID)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing pending stops", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	candidates := make([]geo.Candidate, len(pending))
	for i, stop := range pending {
		candidates[i] = geo.Candidate{
			WaypointID: stop.WaypointID,
			Position:   stop.Position,
			Lat:        stop.Lat,
			Lng:        stop.Lng,
		}
	}

	match, ok := e.matcher.NearestCandidate(lat, lng, candidates)
	if !ok {
		return nil, nil
	}
	return &Arrival{
		WaypointID: match.WaypointID,
		Position:   match.Position,
		DistanceKm: match.DistanceKm,
	}, nil
}

// recordArrival flips the stop to visited and annotates the trace point
// that triggered it. The status guard on the update makes a second
// arrival at the same waypoint a no-op.
func (e *Engine) recordArrival(ctx context.Context, q *tourdb.Queries, routeID, traceID string, arrival *Arrival) (bool, error) {
	affected, err := q.MarkRouteStopVisited(ctx, routeID, arrival.WaypointID)
	if err != nil {
		return false, fault.Wrap(fault.KindInternal, "marking stop visited", err)
	}
	if affected == 0 {
		return false, nil
	}
	if err := q.AnnotateTracePoint(ctx, traceID, arrival.WaypointID, arrival.Position); err != nil {
		return false, fault.Wrap(fault.KindInternal, "annotating trace point", err)
	}
	return true, nil
}

// IngestPoint records one sample for an ongoing route. When the sample
// lies within the proximity threshold of a pending waypoint, that
// waypoint becomes visited and the stored trace point carries the match.
func (e *Engine) IngestPoint(ctx context.Context, actor Actor, routeID string, sample Sample) (PointResult, error) {
	if err := validateSample(sample); err != nil {
		return PointResult{}, err
	}
	if _, err := e.gate(ctx, actor, routeID); err != nil {
		return PointResult{}, err
	}

	recordedAt := sample.RecordedAt
	if recordedAt == 0 {
		recordedAt = e.clock.Now().Unix()
	}

	result := PointResult{
		Trace: tourdb.TracePoint{
			ID:         uuid.NewString(),
			RouteID:    routeID,
			Lat:        sample.Lat,
			Lng:        sample.Lng,
			RecordedAt: recordedAt,
		},
	}

	err := e.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		if err := q.CreateTracePoint(ctx, tourdb.CreateTracePointParams{
			ID:         result.Trace.ID,
			RouteID:    routeID,
			Lat:        sample.Lat,
			Lng:        sample.Lng,
			RecordedAt: recordedAt,
		}); err != nil {
			return fault.Wrap(fault.KindInternal, "persisting trace point", err)
		}

		arrival, err := e.matchPending(ctx, q, routeID, sample.Lat, sample.Lng)
		if err != nil || arrival == nil {
			return err
		}

		recorded, err := e.recordArrival(ctx, q, routeID, result.Trace.ID, arrival)
		if err != nil {
			return err
		}
		if recorded {
			result.Arrival = arrival
			result.Trace.MatchedWaypointID = sql.NullString{String: arrival.WaypointID, Valid: true}
			result.Trace.MatchedPosition = sql.NullInt64{Int64: arrival.Position, Valid: true}
		}
		return nil
	})
	if err != nil {
		return PointResult{}, err
	}

	if e.metrics != nil {
		e.metrics.TracePointsIngested.Inc()
		if result.Arrival != nil {
			e.metrics.WaypointArrivals.Inc()
		}
	}
	if result.Arrival != nil {
		logging.LogOperation(e.logger, "waypoint_arrival",
			slog.String("route_id", routeID),
			slog.String("waypoint_id", result.Arrival.WaypointID),
			slog.Float64("distance_km", result.Arrival.DistanceKm))
	}
	return result, nil
}

// IngestBatch records every sample of the batch, then scans them in
// submission order and takes the first geofence hit, so a waypoint
// passed through mid-batch is not missed.
func (e *Engine) IngestBatch(ctx context.Context, actor Actor, routeID string, samples []Sample) (BatchResult, error) {
	if len(samples) == 0 {
		return BatchResult{}, fault.New(fault.KindInvalidInput, "batch must contain at least one sample")
	}
	for _, s := range samples {
		if err := validateSample(s); err != nil {
			return BatchResult{}, err
		}
	}
	if _, err := e.gate(ctx, actor, routeID); err != nil {
		return BatchResult{}, err
	}

	now := e.clock.Now().Unix()
	result := BatchResult{Ingested: len(samples)}

	err := e.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		traceIDs := make([]string, len(samples))
		for i, s := range samples {
			recordedAt := s.RecordedAt
			if recordedAt == 0 {
				recordedAt = now
			}
			traceIDs[i] = uuid.NewString()
			if err := q.CreateTracePoint(ctx, tourdb.CreateTracePointParams{
				ID:         traceIDs[i],
				RouteID:    routeID,
				Lat:        s.Lat,
				Lng:        s.Lng,
				RecordedAt: recordedAt,
			}); err != nil {
				return fault.Wrap(fault.KindInternal, "persisting trace point", err)
			}
		}

		for i, s := range samples {
			arrival, err := e.matchPending(ctx, q, routeID, s.Lat, s.Lng)
			if err != nil {
				return err
			}
			if arrival == nil {
				continue
			}
			recorded, err := e.recordArrival(ctx, q, routeID, traceIDs[i], arrival)
			if err != nil {
				return err
			}
			if recorded {
				result.Arrival = arrival
				break
			}
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}

	if e.metrics != nil {
		e.metrics.TracePointsIngested.Add(float64(result.Ingested))
		if result.Arrival != nil {
			e.metrics.WaypointArrivals.Inc()
		}
	}
	logging.LogOperation(e.logger, "trace_batch_ingested",
		slog.String("route_id", routeID),
		slog.Int("samples", result.Ingested),
		slog.Bool("arrival", result.Arrival != nil))
	return result, nil
}

// Traces returns a route's full trace log, oldest first.
func (e *Engine) Traces(ctx context.Context, routeID string) ([]tourdb.TracePoint, error) {
	if _, err := e.routeExists(ctx, routeID); err != nil {
		return nil, err
	}
	traces, err := e.db.Queries.ListTracePoints(ctx, routeID)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing trace points", err)
	}
	return traces, nil
}

// TraceSegment returns the trace points captured in [start, end].
func (e *Engine) TraceSegment(ctx context.Context, routeID string, start, end int64) ([]tourdb.TracePoint, error) {
	if start > end {
		return nil, fault.New(fault.KindInvalidInput, "start time must not be after end time")
	}
	if _, err := e.routeExists(ctx, routeID); err != nil {
		return nil, err
	}
	traces, err := e.db.Queries.ListTracePointsBetween(ctx, routeID, start, end)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing trace segment", err)
	}
	return traces, nil
}

// RouteFreshness reports when the route last produced a fix and whether
// its feed has gone stale.
func (e *Engine) RouteFreshness(ctx context.Context, routeID string) (Freshness, error) {
	if _, err := e.routeExists(ctx, routeID); err != nil {
		return Freshness{}, err
	}

	latest, err := e.db.Queries.GetLatestTracePoint(ctx, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return Freshness{Stale: true}, nil
	} else if err != nil {
		return Freshness{}, fault.Wrap(fault.KindInternal, "loading latest trace point", err)
	}

	lastFix := time.Unix(latest.RecordedAt, 0)
	return Freshness{
		LastFixAt: latest.RecordedAt,
		Stale:     e.staleness.Check(lastFix, e.clock.Now()),
	}, nil
}

func (e *Engine) routeExists(ctx context.Context, routeID string) (tourdb.Route, error) {
	route, err := e.db.Queries.GetRoute(ctx, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return tourdb.Route{}, fault.New(fault.KindNotFound, "route not found")
	} else if err != nil {
		return tourdb.Route{}, fault.Wrap(fault.KindInternal, "loading route", err)
	}
	return route, nil
}
