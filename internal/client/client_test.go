package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peregovorka/internal/models"
)

// fakeAPI records requests and serves canned responses.
type fakeAPI struct {
	mux       *http.ServeMux
	roomCalls int
	lastAuth  string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{mux: http.NewServeMux()}

	f.mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		if r.Method == http.MethodDelete {
			json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
			return
		}
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123", "token_type": "bearer"})
	})

	f.mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.User{ID: 1, Email: "alice@example.com"})
	})

	f.mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			f.roomCalls++
			json.NewEncoder(w).Encode([]models.Room{{ID: 1, Name: "Green", Capacity: 4}})
			return
		}
		var input models.RoomInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		json.NewEncoder(w).Encode(models.Room{ID: 2, Name: input.Name, Capacity: input.Capacity})
	})

	f.mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]models.Booking{{ID: 10, RoomID: 1, UserID: 1}})
			return
		}
		var input models.BookingInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		json.NewEncoder(w).Encode(models.Booking{ID: 11, RoomID: input.RoomID, UserID: 1})
	})

	f.mux.HandleFunc("/bookings/10", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Booking deleted successfully"})
	})

	f.mux.HandleFunc("/bookings/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write([]byte("xlsx-bytes"))
	})

	ts := httptest.NewServer(f.mux)
	t.Cleanup(ts.Close)
	return f, ts
}

func TestClient_Login(t *testing.T) {
	_, ts := newFakeAPI(t)
	c := New(ts.URL, time.Second)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		token, err := c.Login(ctx, "alice@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
		assert.Equal(t, "tok-123", c.Token())
	})

	t.Run("BadCredentials", func(t *testing.T) {
		c := New(ts.URL, time.Second)
		_, err := c.Login(ctx, "alice@example.com", "wrong")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "invalid credentials", apiErr.Message)
	})
}

func TestClient_AuthHeader(t *testing.T) {
	f, ts := newFakeAPI(t)
	c := New(ts.URL, time.Second)
	c.SetToken("tok-123")

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", f.lastAuth)
}

func TestClient_Logout(t *testing.T) {
	f, ts := newFakeAPI(t)
	c := New(ts.URL, time.Second)
	c.SetToken("tok-123")

	c.Logout(context.Background())
	assert.Empty(t, c.Token())
	// ревокация ушла с токеном
	assert.Equal(t, "Bearer tok-123", f.lastAuth)
}

func TestClient_Bookings(t *testing.T) {
	_, ts := newFakeAPI(t)
	c := New(ts.URL, time.Second)
	ctx := context.Background()

	booking, err := c.CreateBooking(ctx, models.BookingInput{RoomID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(11), booking.ID)

	bookings, err := c.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	require.NoError(t, c.DeleteBooking(ctx, 10))
}

func TestClient_ExportBookings(t *testing.T) {
	_, ts := newFakeAPI(t)
	c := New(ts.URL, time.Second)

	data, err := c.ExportBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx-bytes"), data)
}

func TestClient_FetchDashboard(t *testing.T) {
	_, ts := newFakeAPI(t)
	c := New(ts.URL, time.Second)

	rooms, bookings, err := c.FetchDashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.Len(t, bookings, 1)

	t.Run("FailsWhenServerDown", func(t *testing.T) {
		broken := New("http://127.0.0.1:1", time.Second)
		_, _, err := broken.FetchDashboard(context.Background())
		assert.Error(t, err)
	})
}

func TestClient_RoomCache(t *testing.T) {
	f, ts := newFakeAPI(t)

	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer redisClient.Close()

	c := New(ts.URL, time.Second)
	c.UseRedisCache(redisClient, time.Minute)
	ctx := context.Background()

	_, err = c.ListRooms(ctx)
	require.NoError(t, err)
	_, err = c.ListRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.roomCalls, "second list should come from cache")

	// мутация сбрасывает кеш
	_, err = c.CreateRoom(ctx, models.RoomInput{Name: "New", Capacity: 2})
	require.NoError(t, err)

	_, err = c.ListRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.roomCalls)
}
