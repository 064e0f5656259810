package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"peregovorka/internal/config"
	"peregovorka/internal/database"
	"peregovorka/internal/domain"
	"peregovorka/internal/events"
	"peregovorka/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo     domain.Repository
	tokens   domain.TokenRepository
	eventBus domain.EventPublisher
	cfg      config.AuthConfig
	logger   *zerolog.Logger
}

func NewUserService(repo domain.Repository, tokens domain.TokenRepository, eventBus domain.EventPublisher, cfg config.AuthConfig, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		eventBus: eventBus,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *UserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventUserRegistered, map[string]any{"user_id": user.ID, "email": user.Email})
	}

	return user, nil
}

// Login verifies credentials and issues an opaque bearer token. Attempts are
// throttled per email to slow down credential stuffing.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	allowed, err := s.tokens.CheckRateLimit(ctx, "login:"+email, s.cfg.LoginRateAttempts, time.Duration(s.cfg.LoginRateWindow)*time.Second)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login rate limit check failed")
	} else if !allowed {
		return "", ErrTooManyAttempts
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", ErrInactiveUser
	}

	token := uuid.NewString()
	ttl := time.Duration(s.cfg.TokenTTL) * time.Second
	if err := s.tokens.SaveToken(ctx, token, user.ID, ttl); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}

	return token, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.tokens.RevokeToken(ctx, token)
}

// Authenticate resolves a bearer token to its user. Unknown or expired
// tokens and inactive users fail with ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	userID, err := s.tokens.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers serves the admin account overview.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// EnsureBootstrapAdmin creates the configured admin account if it does not
// exist yet, so a fresh deployment has a way in.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context) error {
	admin := s.cfg.BootstrapAdmin
	if admin.Email == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("bootstrap admin created")
	return nil
}
