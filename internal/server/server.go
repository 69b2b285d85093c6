// Package server exposes the session as a small JSON API for the grid UI.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roomgrid/internal/booking"
	"roomgrid/internal/export"
	"roomgrid/internal/session"
	"roomgrid/internal/week"
)

// HTTPServer routes grid requests to a session.
type HTTPServer struct {
	session *session.Session
	logger  zerolog.Logger
}

func New(sess *session.Session, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{session: sess, logger: logger}
}

// Handler builds the route table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/equipment", s.handleEquipment)
	mux.HandleFunc("/api/rooms/select", s.handleSelectRoom)
	mux.HandleFunc("/api/filters", s.handleFilters)
	mux.HandleFunc("/api/week", s.handleWeek)
	mux.HandleFunc("/api/week/next", s.handleWeekNav(1))
	mux.HandleFunc("/api/week/prev", s.handleWeekNav(-1))
	mux.HandleFunc("/api/week.xlsx", s.handleWeekExport)
	mux.HandleFunc("/api/bookings", s.handleCreateBooking)
	mux.HandleFunc("/api/bookings/cancel", s.handleCancelBooking)
	mux.HandleFunc("/healthz", s.handleHealth)
	return s.withRequestLog(mux)
}

// withRequestLog tags every request with a correlation id and logs it.
func (s *HTTPServer) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		s.logger.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request")
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

// RoomsResponse lists the filtered rooms and the active selection.
type RoomsResponse struct {
	Rooms    any    `json:"rooms"`
	Selected string `json:"selected,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.session.LoadRooms(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, RoomsResponse{Error: err.Error()})
		return
	}
	rooms, selected := s.session.Rooms()
	writeJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms, Selected: selected})
}

func (s *HTTPServer) handleEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.session.LoadEquipment(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": s.session.Equipment()})
}

// SelectRoomRequest is the body for POST /api/rooms/select.
type SelectRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (s *HTTPServer) handleSelectRoom(w http.ResponseWriter, r *http.Request) {
	var req SelectRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.session.SelectRoom(req.RoomID) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err := s.session.RefreshBookings(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.WeekView())
}

// FiltersRequest is the body for POST /api/filters.
type FiltersRequest struct {
	Equipment   string `json:"equipment"`
	MinCapacity int    `json:"minCapacity"`
}

func (s *HTTPServer) handleFilters(w http.ResponseWriter, r *http.Request) {
	var req FiltersRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.session.SetEquipmentFilter(req.Equipment)
	if req.MinCapacity > 0 {
		s.session.SetMinCapacity(req.MinCapacity)
	}
	rooms, selected := s.session.Rooms()
	writeJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms, Selected: selected})
}

func (s *HTTPServer) handleWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.session.RefreshBookings(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.session.WeekView())
}

func (s *HTTPServer) handleWeekNav(delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
			return
		}
		var err error
		if delta > 0 {
			err = s.session.NextWeek(r.Context())
		} else {
			err = s.session.PrevWeek(r.Context())
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, s.session.WeekView())
	}
}

func (s *HTTPServer) handleWeekExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.session.RefreshBookings(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	rooms, selected := s.session.Rooms()
	roomName := selected
	for i := range rooms {
		if rooms[i].ID == selected {
			roomName = rooms[i].Name
			break
		}
	}

	e := export.NewWeekExporter()
	defer e.Close()
	if err := e.AddWeek(s.session.WeekView(), roomName); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="week.xlsx"`)
	if err := e.Save(w); err != nil {
		s.logger.Error().Err(err).Msg("failed to stream xlsx")
	}
}

// CreateBookingRequest is the body for POST /api/bookings.
type CreateBookingRequest struct {
	Title           string `json:"bookingTitle"`
	UserEmail       string `json:"userEmail"`
	DayIndex        int    `json:"dayIndex"`
	Hour            int    `json:"hour"`
	Minute          int    `json:"minute"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.session.CreateBooking(r.Context(), session.CreateParams{
		Title:           req.Title,
		UserEmail:       req.UserEmail,
		DayIndex:        req.DayIndex,
		Slot:            week.Slot{Hour: req.Hour, Minute: req.Minute},
		DurationMinutes: req.DurationMinutes,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, created)
	case errors.Is(err, session.ErrNoRoomSelected),
		errors.Is(err, booking.ErrBadDuration),
		errors.Is(err, booking.ErrSlotExpired),
		errors.Is(err, booking.ErrSlotOverlaps),
		errors.Is(err, booking.ErrEndsAfterClose):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// CancelBookingRequest is the body for POST /api/bookings/cancel.
type CancelBookingRequest struct {
	BookingID string `json:"bookingId"`
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	var req CancelBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BookingID == "" {
		writeError(w, http.StatusBadRequest, "bookingId is required")
		return
	}
	if err := s.session.CancelBooking(r.Context(), req.BookingID); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return false
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
