// Package session owns the browsing state of one grid user: the room list
// and filters, the selected room, the selected week and that week's
// bookings. It replaces implicit global stores with one explicit object so
// every dependency is passed in rather than reached for.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"roomgrid/internal/booking"
	"roomgrid/internal/bookingapi"
	"roomgrid/internal/grid"
	"roomgrid/internal/metrics"
	"roomgrid/internal/model"
	"roomgrid/internal/week"
)

// ErrNoRoomSelected rejects a booking attempt made before any room is
// selected. Fetch paths short-circuit to an empty slot list instead.
var ErrNoRoomSelected = errors.New("no room selected")

// Backend is the subset of the booking API the session drives.
type Backend interface {
	GetRooms(ctx context.Context) ([]model.Room, error)
	GetEquipments(ctx context.Context) ([]model.Equipment, error)
	GetWeekBookings(ctx context.Context, roomID string, weekStart time.Time) ([]model.Booking, error)
	CreateBooking(ctx context.Context, req bookingapi.CreateBookingRequest) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	InvalidateWeek(ctx context.Context, roomID string, weekStart time.Time)
}

// Options sets the grid bounds and default filters.
type Options struct {
	DayStartHour    int
	DayEndHour      int
	DefaultCapacity int
}

// CreateParams describes a booking request placed from the grid.
type CreateParams struct {
	Title           string
	UserEmail       string
	DayIndex        int
	Slot            week.Slot
	DurationMinutes int
}

// Session is safe for use from multiple HTTP connections; all state is
// guarded by a single mutex and network calls run outside of it.
type Session struct {
	backend    Backend
	normalizer *booking.Normalizer
	logger     zerolog.Logger
	now        func() time.Time
	opts       Options

	mu              sync.Mutex
	rooms           []model.Room
	filteredRooms   []model.Room
	selectedRoom    *model.Room
	equipment       []model.Equipment
	equipmentFilter string
	minCapacity     int
	selectedWeek    time.Time
	bookings        []model.Booking
	loadErr         error
}

// New builds a session anchored on the Monday of the current week.
func New(backend Backend, normalizer *booking.Normalizer, logger zerolog.Logger, opts Options) *Session {
	s := &Session{
		backend:      backend,
		normalizer:   normalizer,
		logger:       logger,
		now:          time.Now,
		opts:         opts,
		minCapacity:  opts.DefaultCapacity,
		selectedWeek: week.Start(time.Now()),
	}
	return s
}

// SetClock injects a deterministic clock; the selected week is re-anchored
// on the new clock's current week.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.selectedWeek = week.Start(now())
}

// LoadRooms fetches the room list, applies the active filters and selects
// the first visible room when none is selected yet.
func (s *Session) LoadRooms(ctx context.Context) error {
	rooms, err := s.backend.GetRooms(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		metrics.IncBackendError("rooms")
		s.logger.Error().Err(err).Msg("failed to fetch rooms")
		return err
	}
	s.loadErr = nil
	s.rooms = rooms
	s.refilterLocked()
	return nil
}

// LoadEquipment fetches the equipment catalogue used to populate filters.
func (s *Session) LoadEquipment(ctx context.Context) error {
	equipment, err := s.backend.GetEquipments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		metrics.IncBackendError("equipements")
		s.logger.Error().Err(err).Msg("failed to fetch equipment")
		return err
	}
	s.equipment = equipment
	return nil
}

// SelectRoom switches the active room. An unknown id keeps the current
// selection.
func (s *Session) SelectRoom(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			s.selectedRoom = &s.rooms[i]
			return true
		}
	}
	s.logger.Warn().Str("room_id", roomID).Msg("room not found")
	return false
}

// SetEquipmentFilter refilters the room list; empty means any equipment.
func (s *Session) SetEquipmentFilter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equipmentFilter = name
	s.refilterLocked()
}

// SetMinCapacity refilters the room list by minimum seat count.
func (s *Session) SetMinCapacity(capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minCapacity = capacity
	s.refilterLocked()
}

// refilterLocked recomputes the filtered list and keeps the selected room
// when it is still visible, otherwise falls back to the first match.
// Idempotent: applying it twice with unchanged inputs changes nothing.
func (s *Session) refilterLocked() {
	s.filteredRooms = model.FilterRooms(s.rooms, s.equipmentFilter, s.minCapacity)

	if s.selectedRoom != nil {
		for i := range s.filteredRooms {
			if s.filteredRooms[i].ID == s.selectedRoom.ID {
				return
			}
		}
	}
	if len(s.filteredRooms) > 0 {
		s.selectedRoom = &s.filteredRooms[0]
	} else {
		s.selectedRoom = nil
	}
}

// RefreshBookings fetches the selected room's bookings for the selected
// week. Without a selected room it clears the slots and reports nothing.
// A response arriving after the user switched room or week is discarded.
func (s *Session) RefreshBookings(ctx context.Context) error {
	s.mu.Lock()
	if s.selectedRoom == nil {
		s.bookings = nil
		s.mu.Unlock()
		s.logger.Warn().Msg("no room selected, clearing slots")
		return nil
	}
	roomID := s.selectedRoom.ID
	weekStart := s.selectedWeek
	s.mu.Unlock()

	bookings, err := s.backend.GetWeekBookings(ctx, roomID, weekStart)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedRoom == nil || s.selectedRoom.ID != roomID || !s.selectedWeek.Equal(weekStart) {
		s.logger.Debug().Str("room_id", roomID).Msg("discarding stale bookings response")
		return nil
	}
	if err != nil {
		s.bookings = nil
		metrics.IncBackendError("bookings")
		s.logger.Error().Err(err).Str("room_id", roomID).Msg("failed to fetch bookings")
		return err
	}
	s.bookings = s.ingestLocked(bookings)
	return nil
}

// ingestLocked drops malformed intervals instead of letting them sit
// unmatched on the grid forever.
func (s *Session) ingestLocked(bookings []model.Booking) []model.Booking {
	valid := bookings[:0]
	for i := range bookings {
		if !bookings[i].Valid() {
			metrics.IncMalformedBooking()
			s.logger.Warn().
				Str("booking_id", bookings[i].ID).
				Time("start", bookings[i].StartTime).
				Time("end", bookings[i].EndTime).
				Msg("rejecting booking with end before start")
			continue
		}
		valid = append(valid, bookings[i])
	}
	return valid
}

// PrevWeek navigates one week back and refetches.
func (s *Session) PrevWeek(ctx context.Context) error {
	s.shiftWeek(-1)
	return s.RefreshBookings(ctx)
}

// NextWeek navigates one week forward and refetches.
func (s *Session) NextWeek(ctx context.Context) error {
	s.shiftWeek(1)
	return s.RefreshBookings(ctx)
}

func (s *Session) shiftWeek(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedWeek = week.Shift(s.selectedWeek, delta)
}

// CreateBooking validates the request, normalizes the window to the
// backend's wire convention, persists it and refetches the week. Creation
// and refetch form one logical unit; concurrent writers are resolved by
// last-fetch-wins.
func (s *Session) CreateBooking(ctx context.Context, params CreateParams) (*model.Booking, error) {
	s.mu.Lock()
	if s.selectedRoom == nil {
		s.mu.Unlock()
		metrics.IncBookingCreated("no_room")
		return nil, ErrNoRoomSelected
	}
	roomID := s.selectedRoom.ID
	weekStart := s.selectedWeek
	existing := make([]model.Booking, len(s.bookings))
	copy(existing, s.bookings)
	s.mu.Unlock()

	start, end, err := s.normalizer.Window(weekStart, params.DayIndex, params.Slot, params.DurationMinutes)
	if err != nil {
		metrics.IncBookingCreated("invalid")
		return nil, err
	}

	conflict := false
	for i := range existing {
		if existing[i].OverlapsWindow(start, end) {
			conflict = true
			break
		}
	}
	if err := s.normalizer.CheckWindow(start, end, s.now(), conflict); err != nil {
		metrics.IncBookingCreated("rejected")
		return nil, err
	}

	created, err := s.backend.CreateBooking(ctx, bookingapi.CreateBookingRequest{
		UserEmail:    params.UserEmail,
		RoomID:       roomID,
		BookingTitle: params.Title,
		StartTime:    s.normalizer.WireTime(start),
		EndTime:      s.normalizer.WireTime(end),
	})
	if err != nil {
		metrics.IncBookingCreated("error")
		s.logger.Error().Err(err).Str("room_id", roomID).Msg("failed to create booking")
		return nil, err
	}

	metrics.IncBookingCreated("ok")
	s.backend.InvalidateWeek(ctx, roomID, weekStart)
	if err := s.RefreshBookings(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("refresh after create failed")
	}
	return created, nil
}

// CancelBooking passes a cancellation through to the backend and refetches
// the week so the grid settles.
func (s *Session) CancelBooking(ctx context.Context, bookingID string) error {
	if err := s.backend.CancelBooking(ctx, bookingID); err != nil {
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("failed to cancel booking")
		return err
	}
	metrics.IncBookingCancelled()

	s.mu.Lock()
	roomID := ""
	if s.selectedRoom != nil {
		roomID = s.selectedRoom.ID
	}
	weekStart := s.selectedWeek
	s.mu.Unlock()

	if roomID != "" {
		s.backend.InvalidateWeek(ctx, roomID, weekStart)
	}
	return s.RefreshBookings(ctx)
}

// WeekView reconciles the current bookings onto the grid.
func (s *Session) WeekView() grid.WeekView {
	s.mu.Lock()
	bookings := make([]model.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	weekStart := s.selectedWeek
	s.mu.Unlock()

	metrics.IncWeeksServed()
	return grid.BuildWeek(bookings, weekStart, s.opts.DayStartHour, s.opts.DayEndHour)
}

// Rooms returns the filtered room list and the selected room id.
func (s *Session) Rooms() ([]model.Room, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]model.Room, len(s.filteredRooms))
	copy(rooms, s.filteredRooms)
	selected := ""
	if s.selectedRoom != nil {
		selected = s.selectedRoom.ID
	}
	return rooms, selected
}

// Equipment returns the fetched equipment catalogue.
func (s *Session) Equipment() []model.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	equipment := make([]model.Equipment, len(s.equipment))
	copy(equipment, s.equipment)
	return equipment
}

// SelectedWeek returns the Monday anchor of the displayed week.
func (s *Session) SelectedWeek() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedWeek
}

// Bookings returns the ingested bookings of the displayed week.
func (s *Session) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := make([]model.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	return bookings
}

// LoadErr reports the last room/equipment loading failure, if any.
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}
