package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"peregovorka/internal/export"
	"peregovorka/internal/metrics"
	"peregovorka/internal/models"
)

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	switch r.Method {
	case http.MethodGet:
		offset := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", models.DefaultBookingsLimit)

		bookings, err := s.bookings.ListBookings(r.Context(), user, offset, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if bookings == nil {
			bookings = []*models.Booking{}
		}
		writeJSON(w, http.StatusOK, bookings)

	case http.MethodPost:
		var input models.BookingInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		booking, err := s.bookings.CreateBooking(r.Context(), user, input)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		metrics.IncBookingCreated()
		writeJSON(w, http.StatusOK, booking)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, ok := idFromPath(r.URL.Path, "/bookings/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.GetBooking(r.Context(), user, id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case http.MethodDelete:
		if err := s.bookings.DeleteBooking(r.Context(), user, id); err != nil {
			writeServiceError(w, err)
			return
		}

		metrics.IncBookingDeleted()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted successfully"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBookingsExport streams an XLSX report of every booking. Admin only.
func (s *HTTPServer) handleBookingsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user := requireAdmin(w, r)
	if user == nil {
		return
	}

	// single page large enough for any realistic office
	const exportLimit = 100000
	bookings, err := s.bookings.ListBookings(r.Context(), user, 0, exportLimit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rooms, err := s.rooms.ListRooms(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	report, err := export.BookingsReport(bookings, rooms)
	if err != nil {
		s.log.Error().Err(err).Msg("build bookings report")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer report.Close()

	if s.exportDir != "" {
		if path, err := export.SaveReport(s.exportDir, report); err != nil {
			s.log.Warn().Err(err).Msg("keep export copy")
		} else {
			s.log.Debug().Str("path", path).Msg("export copy kept")
		}
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := report.Write(w); err != nil {
		s.log.Error().Err(err).Msg("write bookings report")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
