// Package bookingapi is the HTTP client for the backend booking service.
package bookingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"roomgrid/internal/model"
)

const dateLayout = "2006-01-02"

// Client is a simple HTTP client for the booking backend API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	limiter *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// CreateBookingRequest is the body for POST /booking. The timestamps are
// pre-serialized wire strings (see the booking package for the fixed-offset
// convention they carry).
type CreateBookingRequest struct {
	UserEmail    string `json:"userEmail"`
	RoomID       string `json:"roomId"`
	BookingTitle string `json:"bookingTitle"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// CancelBookingRequest is the body for POST /booking/cancel.
type CancelBookingRequest struct {
	BookingID string `json:"bookingId"`
}

// CancelBookingResponse is the backend's answer to a cancellation.
type CancelBookingResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// New constructs a client with baseURL and optional API key header.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRateLimit caps outgoing requests at rps with the given burst.
func (c *Client) UseRateLimit(rps float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetRooms fetches all rooms.
func (c *Client) GetRooms(ctx context.Context) ([]model.Room, error) {
	endpoint := c.baseURL + "/rooms"
	var rooms []model.Room

	if c.readCache(ctx, "rooms", &rooms) {
		return rooms, nil
	}

	if err := c.doGet(ctx, endpoint, &rooms); err != nil {
		return nil, err
	}
	c.writeCache(ctx, "rooms", rooms)
	return rooms, nil
}

// GetEquipments fetches the equipment catalogue. The backend spells the
// route the French way.
func (c *Client) GetEquipments(ctx context.Context) ([]model.Equipment, error) {
	endpoint := c.baseURL + "/equipements"
	var equipments []model.Equipment

	if c.readCache(ctx, "equipements", &equipments) {
		return equipments, nil
	}

	if err := c.doGet(ctx, endpoint, &equipments); err != nil {
		return nil, err
	}
	c.writeCache(ctx, "equipements", equipments)
	return equipments, nil
}

// GetWeekBookings fetches the bookings of a room for the week anchored at
// weekStart.
func (c *Client) GetWeekBookings(ctx context.Context, roomID string, weekStart time.Time) ([]model.Booking, error) {
	endpoint := fmt.Sprintf("%s/booking/room/%s/week?weekStart=%s",
		c.baseURL, url.PathEscape(roomID), url.QueryEscape(weekStart.Format(dateLayout)))
	cacheKey := weekCacheKey(roomID, weekStart)
	var bookings []model.Booking

	if c.readCache(ctx, cacheKey, &bookings) {
		return bookings, nil
	}

	if err := c.doGet(ctx, endpoint, &bookings); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, bookings)
	return bookings, nil
}

// CreateBooking persists a new booking.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	endpoint := c.baseURL + "/booking"
	var created model.Booking
	if err := c.doPost(ctx, endpoint, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CancelBooking cancels a booking by id.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	endpoint := c.baseURL + "/booking/cancel"
	var resp CancelBookingResponse
	if err := c.doPost(ctx, endpoint, CancelBookingRequest{BookingID: bookingID}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error != "" {
			return fmt.Errorf("cancel booking %s: %s", bookingID, resp.Error)
		}
		return fmt.Errorf("cancel booking %s: rejected", bookingID)
	}
	return nil
}

// InvalidateWeek drops the cached bookings of a room/week after a write.
func (c *Client) InvalidateWeek(ctx context.Context, roomID string, weekStart time.Time) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, weekCacheKey(roomID, weekStart)).Err()
}

// HealthCheck checks if the backend is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func weekCacheKey(roomID string, weekStart time.Time) string {
	return fmt.Sprintf("bookings:%s:%s", roomID, weekStart.Format(dateLayout))
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	c.addHeaders(req)
	return c.do(ctx, req, out)
}

func (c *Client) doPost(ctx context.Context, endpoint string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.addHeaders(req)
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
