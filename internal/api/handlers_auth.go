package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"peregovorka/internal/metrics"
	"peregovorka/internal/models"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleToken implements the password-grant login: a form-encoded body with
// username, password and grant_type=password, answered with a bearer token.
func (s *HTTPServer) handleToken(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodDelete:
		s.handleTokenRevoke(w, r)
		return
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	grantType := strings.TrimSpace(r.PostFormValue("grant_type"))
	if grantType != "" && grantType != models.GrantPassword {
		writeError(w, http.StatusBadRequest, "unsupported grant_type")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), username, password)
	if err != nil {
		metrics.IncLogin("failed")
		writeServiceError(w, err)
		return
	}

	metrics.IncLogin("ok")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   models.TokenTypeBearer,
	})
}

// handleTokenRevoke invalidates the presented bearer token. The request
// went through the auth middleware, so the token is known to be live.
func (s *HTTPServer) handleTokenRevoke(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), bearerToken(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodGet:
		s.handleListUsers(w, r)
		return
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body registerRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Register(r.Context(), body.Email, body.Name, body.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleListUsers answers the admin account overview.
func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r) == nil {
		return
	}

	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
