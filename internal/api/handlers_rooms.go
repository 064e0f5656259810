package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"peregovorka/internal/models"
)

// requireAdmin answers 403 and returns nil unless the caller is an admin.
func requireAdmin(w http.ResponseWriter, r *http.Request) *models.User {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil
	}
	if !user.IsAdmin {
		writeError(w, http.StatusForbidden, "not enough permissions")
		return nil
	}
	return user
}

func idFromPath(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rooms, err := s.rooms.ListRooms(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if rooms == nil {
			rooms = []*models.Room{}
		}
		writeJSON(w, http.StatusOK, rooms)

	case http.MethodPost:
		if requireAdmin(w, r) == nil {
			return
		}

		var input models.RoomInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		room, err := s.rooms.CreateRoom(r.Context(), input)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRoomByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r.URL.Path, "/rooms/")
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		room, err := s.rooms.GetRoom(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)

	case http.MethodPut:
		if requireAdmin(w, r) == nil {
			return
		}

		var input models.RoomInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		room, err := s.rooms.UpdateRoom(r.Context(), id, input)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)

	case http.MethodDelete:
		if requireAdmin(w, r) == nil {
			return
		}

		if err := s.rooms.DeleteRoom(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Room deleted successfully"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
