package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"peregovorka/internal/models"

	"github.com/redis/go-redis/v9"
)

// Client is a typed HTTP client for the peregovorka REST API. One method per
// remote operation; the bearer token is attached to every authenticated
// request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// APIError carries the HTTP status and the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer credential used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// UseRedisCache configures optional read-through caching for the room list.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login performs the password-grant exchange and remembers the token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	form.Set("grant_type", models.GrantPassword)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp tokenResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	c.token = resp.AccessToken
	return resp.AccessToken, nil
}

// Logout revokes the token server-side, best effort, and drops the local
// credential either way.
func (c *Client) Logout(ctx context.Context) {
	if c.token != "" {
		_ = c.doJSON(ctx, http.MethodDelete, "/token", nil, nil)
	}
	c.token = ""
}

func (c *Client) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	body := map[string]string{"email": email, "name": name, "password": password}
	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

const roomsCacheKey = "rooms"

func (c *Client) ListRooms(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room
	if c.readCache(ctx, roomsCacheKey, &rooms) {
		return rooms, nil
	}

	if err := c.doJSON(ctx, http.MethodGet, "/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	c.writeCache(ctx, roomsCacheKey, rooms)
	return rooms, nil
}

func (c *Client) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/rooms/%d", id), nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) CreateRoom(ctx context.Context, input models.RoomInput) (*models.Room, error) {
	var room models.Room
	if err := c.doJSON(ctx, http.MethodPost, "/rooms", input, &room); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, roomsCacheKey)
	return &room, nil
}

func (c *Client) UpdateRoom(ctx context.Context, id int64, input models.RoomInput) (*models.Room, error) {
	var room models.Room
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/rooms/%d", id), input, &room); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, roomsCacheKey)
	return &room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/rooms/%d", id), nil, nil); err != nil {
		return err
	}
	c.invalidateCache(ctx, roomsCacheKey)
	return nil
}

func (c *Client) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", id), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := c.doJSON(ctx, http.MethodPost, "/bookings", input, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/bookings/%d", id), nil, nil)
}

// ExportBookings downloads the admin XLSX report.
func (c *Client) ExportBookings(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bookings/export", nil)
	if err != nil {
		return nil, err
	}
	c.addAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, apiErrorFromResponse(resp)
	}
	return io.ReadAll(resp.Body)
}

// FetchDashboard loads rooms and bookings concurrently. The views render
// only complete loads: if either request fails the whole load fails.
func (c *Client) FetchDashboard(ctx context.Context) ([]*models.Room, []*models.Booking, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type roomsResult struct {
		rooms []*models.Room
		err   error
	}
	type bookingsResult struct {
		bookings []*models.Booking
		err      error
	}

	roomsCh := make(chan roomsResult, 1)
	bookingsCh := make(chan bookingsResult, 1)

	go func() {
		rooms, err := c.ListRooms(ctx)
		roomsCh <- roomsResult{rooms: rooms, err: err}
	}()
	go func() {
		bookings, err := c.ListBookings(ctx)
		bookingsCh <- bookingsResult{bookings: bookings, err: err}
	}()

	rr := <-roomsCh
	br := <-bookingsCh

	if rr.err != nil {
		return nil, nil, rr.err
	}
	if br.err != nil {
		return nil, nil, br.err
	}
	return rr.rooms, br.bookings, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.addAuth(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return apiErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

func (c *Client) addAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
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

func (c *Client) invalidateCache(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, key).Err()
}
