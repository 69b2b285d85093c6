package model

import "time"

// Booking is a persisted reservation interval [StartTime, EndTime) for a room.
type Booking struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	Title      string    `json:"bookingTitle"`
	OwnerEmail string    `json:"userEmail"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
}

// Valid reports whether the booking interval is well-formed.
func (b *Booking) Valid() bool {
	return b.EndTime.After(b.StartTime)
}

func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// ContainsTime reports whether t falls inside [StartTime, EndTime).
// The end bound is exclusive so a booking ending on a slot boundary
// does not claim the following slot.
func (b *Booking) ContainsTime(t time.Time) bool {
	return !t.Before(b.StartTime) && t.Before(b.EndTime)
}

// Overlaps reports whether two booking intervals intersect.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.StartTime.Before(other.EndTime) && other.StartTime.Before(b.EndTime)
}

// OverlapsWindow reports whether the booking intersects [start, end).
func (b *Booking) OverlapsWindow(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}
