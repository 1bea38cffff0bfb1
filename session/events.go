package session

import (
	"fmt"

	"github.com/nstehr/ruck/ruck-core/model"
)

// EventKind identifies a notable change between two consecutive snapshots.
type EventKind string

const (
	EventPhaseTransition EventKind = "phase_transition"
	EventPossession      EventKind = "possession_change"
	EventBallReleased    EventKind = "ball_released"
	EventBallCollected   EventKind = "ball_collected"
)

// Event is detected by diffing the match before and after a batch.
type Event struct {
	Kind   EventKind
	Time   int
	Detail string
}

// carrier names the player holding the ball, e.g. "H10", or "".
func carrier(s model.Snapshot) string {
	for _, p := range s.Home {
		if p.Carrying {
			return fmt.Sprintf("H%d", p.Number)
		}
	}
	for _, p := range s.Away {
		if p.Carrying {
			return fmt.Sprintf("A%d", p.Number)
		}
	}
	return ""
}

// detectEvents compares two snapshots of the same match.
func detectEvents(prev, cur model.Snapshot) []Event {
	var events []Event

	if prev.Phase != cur.Phase || prev.Side != cur.Side {
		events = append(events, Event{
			Kind:   EventPhaseTransition,
			Time:   cur.Time,
			Detail: fmt.Sprintf("%s %s -> %s %s", prev.Phase, prev.Side, cur.Phase, cur.Side),
		})
	}

	before, after := carrier(prev), carrier(cur)
	switch {
	case before != "" && after == "":
		events = append(events, Event{Kind: EventBallReleased, Time: cur.Time, Detail: before})
	case before == "" && after != "":
		events = append(events, Event{Kind: EventBallCollected, Time: cur.Time, Detail: after})
	case before != "" && after != "" && before[0] != after[0]:
		events = append(events, Event{
			Kind:   EventPossession,
			Time:   cur.Time,
			Detail: before + " -> " + after,
		})
	}
	return events
}
