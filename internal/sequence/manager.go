// Package sequence maintains the ordered association between a circuit
// and its waypoints. Position values for a circuit are kept unique,
// contiguous and 1-based across inserts, removals and rebuilds.
package sequence

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/Kaouthar-hr/Move2See-Project/internal/fault"
	"github.com/Kaouthar-hr/Move2See-Project/internal/logging"
	"github.com/Kaouthar-hr/Move2See-Project/internal/metrics"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

// Entry is one caller-supplied element of a rebuild request.
type Entry struct {
	WaypointID string
	Position   int64
}

// Manager owns every mutation of the circuit_waypoints table. All writes
// run inside a single transaction per operation, so concurrent inserts on
// the same circuit cannot interleave their shift-then-insert steps.
type Manager struct {
	db      *tourdb.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewManager(db *tourdb.Client, m *metrics.Metrics, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		db:      db,
		metrics: m,
		logger:  logger.With(slog.String("component", "sequence_manager")),
	}
}

// Insert attaches waypointID to circuitID at the requested position.
// Associations at or beyond that position are shifted up by one first, so
// the sequence stays gapless. Positions beyond the current maximum simply
// append.
func (m *Manager) Insert(ctx context.Context, circuitID, waypointID string, position int64) (tourdb.CircuitWaypoint, error) {
	if position < 1 {
		return tourdb.CircuitWaypoint{}, fault.New(fault.KindInvalidInput, "order must be a positive integer")
	}
	if circuitID == "" || waypointID == "" {
		return tourdb.CircuitWaypoint{}, fault.New(fault.KindInvalidInput, "circuit and waypoint ids are required")
	}

	var created tourdb.CircuitWaypoint
	err := m.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		circuit, err := q.GetCircuit(ctx, circuitID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && circuit.IsDeleted != 0) {
			return fault.New(fault.KindNotFound, "circuit not found")
		} else if err != nil {
			return fault.Wrap(fault.KindInternal, "loading circuit", err)
		}

		waypoint, err := q.GetWaypoint(ctx, waypointID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && waypoint.IsDeleted != 0) {
			return fault.New(fault.KindNotFound, "waypoint not found or deactivated")
		} else if err != nil {
			return fault.Wrap(fault.KindInternal, "loading waypoint", err)
		}

		_, err = q.GetCircuitWaypoint(ctx, circuitID, waypointID)
		if err == nil {
			return fault.New(fault.KindConflict, "waypoint is already associated with this circuit")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fault.Wrap(fault.KindInternal, "checking existing association", err)
		}

		if err := q.ShiftCircuitPositionsUp(ctx, circuitID, position); err != nil {
			return fault.Wrap(fault.KindInternal, "shifting positions", err)
		}

		created = tourdb.CircuitWaypoint{
			ID:         uuid.NewString(),
			CircuitID:  circuitID,
			WaypointID: waypointID,
			Position:   position,
		}
		if err := q.CreateCircuitWaypoint(ctx, tourdb.CreateCircuitWaypointParams{
			ID:         created.ID,
			CircuitID:  created.CircuitID,
			WaypointID: created.WaypointID,
			Position:   created.Position,
		}); err != nil {
			return fault.Wrap(fault.KindInternal, "creating association", err)
		}
		return nil
	})
	if err != nil {
		return tourdb.CircuitWaypoint{}, err
	}

	if m.metrics != nil {
		m.metrics.SequenceMutations.WithLabelValues("insert").Inc()
	}
	logging.LogOperation(m.logger, "circuit_waypoint_inserted",
		slog.String("circuit_id", circuitID),
		slog.String("waypoint_id", waypointID),
		slog.Int64("position", position))
	return created, nil
}

// Remove detaches waypointID from circuitID and closes the gap by
// shifting every later association down by one.
func (m *Manager) Remove(ctx context.Context, circuitID, waypointID string) error {
	if circuitID == "" || waypointID == "" {
		return fault.New(fault.KindInvalidInput, "circuit and waypoint ids are required")
	}

	err := m.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		existing, err := q.GetCircuitWaypoint(ctx, circuitID, waypointID)
		if errors.Is(err, sql.ErrNoRows) {
			return fault.New(fault.KindNotFound, "circuit-waypoint association not found")
		} else if err != nil {
			return fault.Wrap(fault.KindInternal, "loading association", err)
		}

		if err := q.DeleteCircuitWaypoint(ctx, circuitID, waypointID); err != nil {
			return fault.Wrap(fault.KindInternal, "deleting association", err)
		}

		if err := q.ShiftCircuitPositionsDown(ctx, circuitID, existing.Position); err != nil {
			return fault.Wrap(fault.KindInternal, "compacting positions", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if m.metrics != nil {
		m.metrics.SequenceMutations.WithLabelValues("remove").Inc()
	}
	logging.LogOperation(m.logger, "circuit_waypoint_removed",
		slog.String("circuit_id", circuitID),
		slog.String("waypoint_id", waypointID))
	return nil
}

// Rebuild replaces the whole association set for a circuit. The input is
// normalized before persisting: entries are sorted by their supplied
// position (ties broken by waypoint ID) and renumbered 1..N, so the
// contiguity invariant holds regardless of what the caller sent.
func (m *Manager) Rebuild(ctx context.Context, circuitID string, entries []Entry) ([]tourdb.CircuitWaypoint, error) {
	if circuitID == "" {
		return nil, fault.New(fault.KindInvalidInput, "circuit id is required")
	}
	if len(entries) == 0 {
		return nil, fault.New(fault.KindInvalidInput, "ordered waypoint list must not be empty")
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.WaypointID == "" || e.Position < 1 {
			return nil, fault.New(fault.KindInvalidInput, "every entry needs a waypoint id and a positive order")
		}
		if seen[e.WaypointID] {
			return nil, fault.Newf(fault.KindInvalidInput, "waypoint %s appears more than once", e.WaypointID)
		}
		seen[e.WaypointID] = true
	}

	normalized := make([]Entry, len(entries))
	copy(normalized, entries)
	sort.SliceStable(normalized, func(i, j int) bool {
		if normalized[i].Position != normalized[j].Position {
			return normalized[i].Position < normalized[j].Position
		}
		return normalized[i].WaypointID < normalized[j].WaypointID
	})

	rebuilt := make([]tourdb.CircuitWaypoint, 0, len(normalized))
	err := m.db.ExecTx(ctx, func(q *tourdb.Queries) error {
		circuit, err := q.GetCircuit(ctx, circuitID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && circuit.IsDeleted != 0) {
			return fault.New(fault.KindNotFound, "circuit not found")
		} else if err != nil {
			return fault.Wrap(fault.KindInternal, "loading circuit", err)
		}

		if err := q.DeleteCircuitWaypoints(ctx, circuitID); err != nil {
			return fault.Wrap(fault.KindInternal, "clearing associations", err)
		}

		for i, e := range normalized {
			wp, err := q.GetWaypoint(ctx, e.WaypointID)
			if errors.Is(err, sql.ErrNoRows) || (err == nil && wp.IsDeleted != 0) {
				return fault.Newf(fault.KindNotFound, "waypoint %s not found or deactivated", e.WaypointID)
			} else if err != nil {
				return fault.Wrap(fault.KindInternal, "loading waypoint", err)
			}

			cw := tourdb.CircuitWaypoint{
				ID:         uuid.NewString(),
				CircuitID:  circuitID,
				WaypointID: e.WaypointID,
				Position:   int64(i + 1),
			}
			if err := q.CreateCircuitWaypoint(ctx, tourdb.CreateCircuitWaypointParams{
				ID:         cw.ID,
				CircuitID:  cw.CircuitID,
				WaypointID: cw.WaypointID,
				Position:   cw.Position,
			}); err != nil {
				return fault.Wrap(fault.KindInternal, "creating association", err)
			}
			rebuilt = append(rebuilt, cw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m.metrics != nil {
		m.metrics.SequenceMutations.WithLabelValues("rebuild").Inc()
	}
	logging.LogOperation(m.logger, "circuit_sequence_rebuilt",
		slog.String("circuit_id", circuitID),
		slog.Int("waypoints", len(rebuilt)))
	return rebuilt, nil
}

// List returns the circuit's ordered waypoint list with coordinates.
func (m *Manager) List(ctx context.Context, circuitID string) ([]tourdb.CircuitStop, error) {
	circuit, err := m.db.Queries.GetCircuit(ctx, circuitID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && circuit.IsDeleted != 0) {
		return nil, fault.New(fault.KindNotFound, "circuit not found")
	} else if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "loading circuit", err)
	}

	stops, err := m.db.Queries.ListCircuitStops(ctx, circuitID)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "listing circuit waypoints", err)
	}
	return stops, nil
}
