// Package booking converts grid positions picked by a user into the wire
// timestamps the backend persists, and validates a requested window before
// submission.
//
// The backend stores whatever wall-clock digits it receives in a
// Z-suffixed field without converting them, so the wire strings must carry
// the operating timezone's local digits rather than true UTC. That
// compensation is a contract with the backend, not a bug; changing it
// silently would shift every stored booking by the zone offset.
package booking

import (
	"errors"
	"fmt"
	"time"

	"roomgrid/internal/week"
)

// wireLayout shapes timestamps the way the backend expects them, minus the
// literal Z suffix appended after zone re-expression.
const wireLayout = "2006-01-02T15:04:05.000"

var (
	ErrBadDuration    = errors.New("duration is not an allowed option")
	ErrSlotExpired    = errors.New("slot start is already in the past")
	ErrSlotOverlaps   = errors.New("slot overlaps an existing booking")
	ErrEndsAfterClose = errors.New("booking would end after closing time")
)

// Normalizer computes reservation windows under the fixed-offset backend
// convention.
type Normalizer struct {
	backendZone *time.Location
	durations   map[int]bool
	closeHour   int
}

// New loads the backend operating timezone (e.g. "Europe/Paris") and the
// allowed duration options in minutes.
func New(backendZone string, durations []int, closeHour int) (*Normalizer, error) {
	loc, err := time.LoadLocation(backendZone)
	if err != nil {
		return nil, fmt.Errorf("load backend timezone %q: %w", backendZone, err)
	}
	allowed := make(map[int]bool, len(durations))
	for _, d := range durations {
		allowed[d] = true
	}
	return &Normalizer{backendZone: loc, durations: allowed, closeHour: closeHour}, nil
}

// Window resolves a grid cell plus duration to the [start, end) instants of
// the reservation. The cell is interpreted as UTC wall-clock, mirroring the
// grid labels. end - start always equals the duration; the timezone
// re-expression happens only at serialization time, in WireTime.
func (n *Normalizer) Window(weekStart time.Time, dayIndex int, slot week.Slot, durationMinutes int) (start, end time.Time, err error) {
	if !n.durations[durationMinutes] {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d minutes", ErrBadDuration, durationMinutes)
	}
	start = week.SlotTime(weekStart, dayIndex, slot)
	end = start.Add(time.Duration(durationMinutes) * time.Minute)
	return start, end, nil
}

// WireTime serializes an instant for the backend: the digits are the
// backend zone's wall-clock reading of the instant, but the suffix claims
// UTC. The backend stores the string verbatim.
func (n *Normalizer) WireTime(t time.Time) string {
	return t.In(n.backendZone).Format(wireLayout) + "Z"
}

// CheckWindow applies the pre-submission rules surfaced to the user:
// the slot must not have started yet, the window must not cross closing
// time, and it must not overlap any booking already on the grid.
func (n *Normalizer) CheckWindow(start, end, now time.Time, conflict bool) error {
	if start.Before(now) {
		return ErrSlotExpired
	}
	closing := time.Date(start.Year(), start.Month(), start.Day(), n.closeHour, 0, 0, 0, start.Location())
	if end.After(closing) {
		return ErrEndsAfterClose
	}
	if conflict {
		return ErrSlotOverlaps
	}
	return nil
}
