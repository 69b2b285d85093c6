package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datetime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestBooking_Valid(t *testing.T) {
	ok := Booking{
		StartTime: datetime(2024, 6, 3, 9, 0),
		EndTime:   datetime(2024, 6, 3, 9, 30),
	}
	assert.True(t, ok.Valid())

	inverted := Booking{
		StartTime: datetime(2024, 6, 3, 10, 0),
		EndTime:   datetime(2024, 6, 3, 9, 0),
	}
	assert.False(t, inverted.Valid())

	zero := Booking{
		StartTime: datetime(2024, 6, 3, 9, 0),
		EndTime:   datetime(2024, 6, 3, 9, 0),
	}
	assert.False(t, zero.Valid())
}

func TestBooking_ContainsTime(t *testing.T) {
	b := Booking{
		StartTime: datetime(2024, 6, 3, 9, 0),
		EndTime:   datetime(2024, 6, 3, 9, 30),
	}

	assert.True(t, b.ContainsTime(datetime(2024, 6, 3, 9, 0)))
	assert.True(t, b.ContainsTime(datetime(2024, 6, 3, 9, 15)))
	// end bound is exclusive
	assert.False(t, b.ContainsTime(datetime(2024, 6, 3, 9, 30)))
	assert.False(t, b.ContainsTime(datetime(2024, 6, 3, 8, 45)))
}

func TestBooking_Overlaps(t *testing.T) {
	existing := Booking{
		StartTime: datetime(2024, 6, 3, 10, 0),
		EndTime:   datetime(2024, 6, 3, 12, 0),
	}

	before := Booking{
		StartTime: datetime(2024, 6, 3, 8, 0),
		EndTime:   datetime(2024, 6, 3, 10, 0),
	}
	assert.False(t, existing.Overlaps(&before))

	after := Booking{
		StartTime: datetime(2024, 6, 3, 12, 0),
		EndTime:   datetime(2024, 6, 3, 13, 0),
	}
	assert.False(t, existing.Overlaps(&after))

	during := Booking{
		StartTime: datetime(2024, 6, 3, 11, 0),
		EndTime:   datetime(2024, 6, 3, 13, 0),
	}
	assert.True(t, existing.Overlaps(&during))
	assert.True(t, existing.OverlapsWindow(datetime(2024, 6, 3, 11, 0), datetime(2024, 6, 3, 11, 15)))
	assert.False(t, existing.OverlapsWindow(datetime(2024, 6, 3, 12, 0), datetime(2024, 6, 3, 12, 15)))
}

func TestFilterRooms(t *testing.T) {
	rooms := []Room{
		{ID: "a", Name: "Alpha", Capacity: 4, Equipments: []Equipment{{Name: "Projector"}}},
		{ID: "b", Name: "Beta", Capacity: 10, Equipments: []Equipment{{Name: "Whiteboard"}}},
		{ID: "c", Name: "Gamma", Capacity: 20, Equipments: []Equipment{{Name: "Projector"}, {Name: "Whiteboard"}}},
	}

	all := FilterRooms(rooms, "", 0)
	assert.Len(t, all, 3)

	projector := FilterRooms(rooms, "Projector", 0)
	assert.Len(t, projector, 2)

	bigProjector := FilterRooms(rooms, "Projector", 5)
	assert.Len(t, bigProjector, 1)
	assert.Equal(t, "c", bigProjector[0].ID)

	none := FilterRooms(rooms, "Screen", 0)
	assert.Empty(t, none)
}
