// Package filter decides whether a notification event should be surfaced.
package filter

import (
	"time"

	"github.com/minipop/minipop/internal/model"
)

// Default active hours: 6:00 through 20:59 local time.
const (
	DefaultFirstHour = 6
	DefaultLastHour  = 20
)

// RejectReason identifies which rule rejected an event.
type RejectReason int

const (
	// RejectNone means the event was accepted.
	RejectNone RejectReason = iota
	// RejectGroupSummary means the event is a synthetic roll-up.
	RejectGroupSummary
	// RejectSourceNotSelected means the source is not on the allow-list.
	RejectSourceNotSelected
	// RejectOutsideActiveHours means the local hour is outside the window.
	RejectOutsideActiveHours
)

// String returns the string representation of the reject reason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "accepted"
	case RejectGroupSummary:
		return "group-summary"
	case RejectSourceNotSelected:
		return "source-not-selected"
	case RejectOutsideActiveHours:
		return "outside-active-hours"
	default:
		return "unknown"
	}
}

// Snapshot is the read-only configuration view a single filter invocation
// consumes. It is re-fetched per event so settings changes apply to the next
// event rather than retroactively.
type Snapshot struct {
	// SelectedSources is an explicit allow-list. Empty means nothing is
	// shown until the user selects sources.
	SelectedSources map[string]bool

	// ActiveHours holds the hour-of-day values (0-23) during which overlays
	// are permitted. Nil means the default window applies.
	ActiveHours map[int]bool

	// PersistentBypassHours exempts persistent/ongoing events from the
	// active-hours window. Off by default: persistent events follow the same
	// window as everything else.
	PersistentBypassHours bool
}

// DefaultActiveHours returns the default active-hours set, 6 through 20
// inclusive.
func DefaultActiveHours() map[int]bool {
	hours := make(map[int]bool, DefaultLastHour-DefaultFirstHour+1)
	for h := DefaultFirstHour; h <= DefaultLastHour; h++ {
		hours[h] = true
	}
	return hours
}

// Decide evaluates the rejection rules in order and returns the first reason
// that applies, or RejectNone.
func Decide(ev model.NotificationEvent, snap Snapshot, now time.Time) RejectReason {
	if ev.GroupSummary {
		return RejectGroupSummary
	}

	if !snap.SelectedSources[ev.SourceID] {
		return RejectSourceNotSelected
	}

	if ev.Persistent && snap.PersistentBypassHours {
		return RejectNone
	}

	hours := snap.ActiveHours
	if hours == nil {
		hours = DefaultActiveHours()
	}
	if !hours[now.Local().Hour()] {
		return RejectOutsideActiveHours
	}

	return RejectNone
}

// Accept reports whether the event passes every rule.
func Accept(ev model.NotificationEvent, snap Snapshot, now time.Time) bool {
	return Decide(ev, snap, now) == RejectNone
}
