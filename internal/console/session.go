package console

import (
	"os"
	"strings"

	"peregovorka/internal/models"
)

// Session is the authenticated identity threaded explicitly to every view.
// It is created on login and dropped on logout; no view reaches for global
// state.
type Session struct {
	Token string
	User  *models.User
}

func NewSession(token string, user *models.User) *Session {
	return &Session{Token: token, User: user}
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User != nil && s.User.IsAdmin
}

// LoadToken reads the persisted bearer token, if any.
func LoadToken(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveToken persists the bearer token for the next invocation.
func SaveToken(path, token string) error {
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

// ClearToken removes the persisted token.
func ClearToken(path string) {
	_ = os.Remove(path)
}
