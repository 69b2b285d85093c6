package grid

import (
	"time"

	"roomgrid/internal/model"
	"roomgrid/internal/week"
)

// Cell is one rendered slot of the week view.
type Cell struct {
	Slot      week.Slot `json:"slot"`
	Booked    bool      `json:"booked"`
	FirstSlot bool      `json:"firstSlot,omitempty"`
	BookingID string    `json:"bookingId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Label     string    `json:"label,omitempty"`
}

// DayView is one column of the week view.
type DayView struct {
	DayIndex int    `json:"dayIndex"`
	Date     string `json:"date"`
	Label    string `json:"label"`
	Cells    []Cell `json:"cells"`
}

// WeekView is the fully reconciled grid handed to the UI and the exporter.
type WeekView struct {
	WeekStart string    `json:"weekStart"`
	Range     string    `json:"range"`
	Days      []DayView `json:"days"`
}

// BuildWeek reconciles bookings onto a 7-day grid of rows between startHour
// and endHour. Booking labels appear only in the first covered slot so
// multi-slot bookings can render as merged cells.
func BuildWeek(bookings []model.Booking, weekStart time.Time, startHour, endHour int) WeekView {
	view := WeekView{
		WeekStart: weekStart.Format("2006-01-02"),
		Range:     week.FormatRange(weekStart),
	}

	slots := week.DaySlots(startHour, endHour)
	for day := 0; day < week.DaysPerWeek; day++ {
		dv := DayView{
			DayIndex: day,
			Date:     week.Day(weekStart, day).Format("2006-01-02"),
			Label:    week.DayLabel(weekStart, day),
			Cells:    make([]Cell, 0, len(slots)),
		}
		for _, slot := range slots {
			cell := Cell{Slot: slot}
			if b := FindBooking(bookings, weekStart, day, slot); b != nil {
				cell.Booked = true
				cell.BookingID = b.ID
				if IsFirstSlot(bookings, weekStart, day, slot) {
					cell.FirstSlot = true
					cell.Title = b.Title
					cell.Label = FormatBookingTime(b)
				}
			}
			dv.Cells = append(dv.Cells, cell)
		}
		view.Days = append(view.Days, dv)
	}
	return view
}
