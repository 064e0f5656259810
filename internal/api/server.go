package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"peregovorka/internal/config"
	"peregovorka/internal/domain"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the REST API: token and user endpoints, room CRUD and
// booking CRUD, plus the admin bookings export.
type HTTPServer struct {
	cfg       config.ServerConfig
	users     domain.UserService
	rooms     domain.RoomService
	bookings  domain.BookingService
	exportDir string
	server    *http.Server
	log       zerolog.Logger
}

// NewHTTPServer wires the routes. exportDir, when set, is where the export
// endpoint keeps copies of the reports it serves.
func NewHTTPServer(cfg config.ServerConfig, exportDir string, users domain.UserService, rooms domain.RoomService, bookings domain.BookingService, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:       cfg,
		users:     users,
		rooms:     rooms,
		bookings:  bookings,
		exportDir: exportDir,
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "api").Logger()
	} else {
		srv.log = zerolog.Nop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", srv.handleToken)
	mux.HandleFunc("/users", srv.handleUsers)
	mux.HandleFunc("/users/me", srv.handleCurrentUser)
	mux.HandleFunc("/rooms", srv.handleRooms)
	mux.HandleFunc("/rooms/", srv.handleRoomByID)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/export", srv.handleBookingsExport)
	mux.HandleFunc("/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/healthz", srv.handleHealth)

	limiter := newRateLimiter(cfg.RateLimit)
	handler := loggingMiddleware(logger, limiter.Wrap(authMiddleware(users, mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
	}

	return srv
}

// Handler exposes the middleware chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
