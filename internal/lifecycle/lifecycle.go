// Package lifecycle implements the route execution state machine.
//
// scheduled -> ongoing <-> paused, ongoing -> completed,
// and scheduled/ongoing/paused -> cancelled. Completed and cancelled are
// terminal.
package lifecycle

import (
	"github.com/Kaouthar-hr/Move2See-Project/internal/fault"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionEnd    Action = "end"
	ActionCancel Action = "cancel"
)

type transition struct {
	from map[Status]bool
	to   Status
}

var transitions = map[Action]transition{
	ActionStart: {
		from: map[Status]bool{StatusScheduled: true},
		to:   StatusOngoing,
	},
	ActionPause: {
		from: map[Status]bool{StatusOngoing: true},
		to:   StatusPaused,
	},
	ActionResume: {
		from: map[Status]bool{StatusPaused: true},
		to:   StatusOngoing,
	},
	ActionEnd: {
		from: map[Status]bool{StatusOngoing: true},
		to:   StatusCompleted,
	},
	ActionCancel: {
		from: map[Status]bool{StatusScheduled: true, StatusOngoing: true, StatusPaused: true},
		to:   StatusCancelled,
	},
}

// ParseStatus validates a stored status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusOngoing, StatusPaused, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fault.Newf(fault.KindInvalidInput, "unknown route status %q", s)
}

// ParseAction validates a transition action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionStart, ActionPause, ActionResume, ActionEnd, ActionCancel:
		return Action(s), nil
	}
	return "", fault.Newf(fault.KindInvalidInput, "unknown route action %q", s)
}

// Apply returns the status that results from performing action on current.
func Apply(current Status, action Action) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fault.Newf(fault.KindInvalidInput, "unknown route action %q", action)
	}
	if !t.from[current] {
		return "", fault.Newf(fault.KindInvalidStateTransition,
			"cannot %s a route with status %q", action, current)
	}
	return t.to, nil
}

// AcceptsTraces reports whether a route in this status may ingest
// position samples.
func (s Status) AcceptsTraces() bool {
	return s == StatusOngoing
}

// Terminal reports whether this status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
