// Package week holds the calendar-week arithmetic behind the booking grid:
// Monday-anchored week selection, week navigation and grid labels. All
// computations run in UTC, the canonical display timezone of the grid.
package week

import (
	"fmt"
	"time"
)

const (
	// DaysPerWeek is the number of columns in the grid.
	DaysPerWeek = 7
	// SlotMinutes is the grid granularity.
	SlotMinutes = 15

	rangeLayout = "2 Jan 2006"
	dayLayout   = "2 Jan"
)

// Slot identifies one cell of a day column by its wall-clock position.
type Slot struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Label renders the slot as "HH:MM".
func (s Slot) Label() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Start returns the Monday 00:00 UTC instant of the week containing ref.
// Weeks start on Monday, not Sunday.
func Start(ref time.Time) time.Time {
	ref = ref.UTC()
	offset := (int(ref.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := ref.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// Shift moves the week anchor by deltaWeeks whole weeks. Any integer is
// valid, past or future.
func Shift(weekStart time.Time, deltaWeeks int) time.Time {
	return weekStart.AddDate(0, 0, DaysPerWeek*deltaWeeks)
}

// Day returns the date of the dayIndex-th column (0 = Monday) of the week.
func Day(weekStart time.Time, dayIndex int) time.Time {
	return weekStart.AddDate(0, 0, dayIndex)
}

// SlotTime resolves a grid cell to its absolute UTC instant.
func SlotTime(weekStart time.Time, dayIndex int, slot Slot) time.Time {
	d := Day(weekStart, dayIndex)
	return time.Date(d.Year(), d.Month(), d.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)
}

// FormatRange renders the inclusive Monday-Sunday span, e.g.
// "3 Jun 2024 - 9 Jun 2024".
func FormatRange(weekStart time.Time) string {
	end := weekStart.AddDate(0, 0, DaysPerWeek-1)
	return fmt.Sprintf("%s - %s", weekStart.Format(rangeLayout), end.Format(rangeLayout))
}

// DayLabel renders a column header, e.g. "5 Jun".
func DayLabel(weekStart time.Time, dayIndex int) string {
	return Day(weekStart, dayIndex).Format(dayLayout)
}

// DaySlots enumerates the grid rows for one day between startHour
// (inclusive) and endHour (exclusive), SlotMinutes apart.
func DaySlots(startHour, endHour int) []Slot {
	var slots []Slot
	for h := startHour; h < endHour; h++ {
		for m := 0; m < 60; m += SlotMinutes {
			slots = append(slots, Slot{Hour: h, Minute: m})
		}
	}
	return slots
}
