// Package grid reconciles raw bookings onto the fixed week grid: which
// booking covers a given slot, whether a slot is the first of a multi-slot
// booking, and the label rendered on a booked cell.
package grid

import (
	"fmt"
	"time"

	"roomgrid/internal/model"
	"roomgrid/internal/week"
)

// timeLayout renders slot boundaries in the canonical display timezone.
const timeLayout = "15:04"

// FindBooking returns the booking covering the given grid cell, or nil.
// The cell instant is resolved against weekStart in UTC and matched with
// an exclusive end bound: a booking ending exactly on a slot boundary does
// not occupy that slot. Bookings are scanned in order, first match wins;
// a malformed booking (end <= start) can never contain an instant and is
// skipped naturally.
func FindBooking(bookings []model.Booking, weekStart time.Time, dayIndex int, slot week.Slot) *model.Booking {
	target := week.SlotTime(weekStart, dayIndex, slot)
	for i := range bookings {
		if bookings[i].ContainsTime(target) {
			return &bookings[i]
		}
	}
	return nil
}

// IsFirstSlot reports whether the cell is the opening slot of the booking
// covering it. A booking spanning several slots renders its label only in
// the cell whose hour and minute equal its start time in UTC.
func IsFirstSlot(bookings []model.Booking, weekStart time.Time, dayIndex int, slot week.Slot) bool {
	b := FindBooking(bookings, weekStart, dayIndex, slot)
	if b == nil {
		return false
	}
	start := b.StartTime.UTC()
	return start.Hour() == slot.Hour && start.Minute() == slot.Minute
}

// FormatBookingTime renders "HH:MM - HH:MM" for a booking in UTC. Using a
// fixed zone instead of the viewer's locale keeps the label aligned with
// the grid when the local clock is offset from the display convention.
func FormatBookingTime(b *model.Booking) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s",
		b.StartTime.UTC().Format(timeLayout),
		b.EndTime.UTC().Format(timeLayout))
}
