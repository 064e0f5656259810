package service

import (
	"context"
	"testing"

	"peregovorka/internal/config"
	"peregovorka/internal/database"
	"peregovorka/internal/models"
	"peregovorka/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		TokenTTL:          3600,
		BcryptCost:        bcrypt.MinCost,
		LoginRateAttempts: 3,
		LoginRateWindow:   60,
	}
}

func newTestUserService(repo *MockRepository) *UserService {
	logger := zerolog.Nop()
	return NewUserService(repo, session.NewMemoryTokenRepository(), nil, testAuthConfig(), &logger)
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).ID = 1
			}).
			Return(nil)

		user, err := svc.Register(ctx, "  Alice@Example.COM ", "Alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsAdmin)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
		repo.AssertExpectations(t)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		_, err := svc.Register(ctx, "not-an-email", "Alice", "secret")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("MissingFields", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		_, err := svc.Register(ctx, "a@b.c", "", "secret")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.Register(ctx, "a@b.c", "Alice", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		repo.On("CreateUser", mock.Anything, mock.Anything).Return(database.ErrEmailTaken)

		_, err := svc.Register(ctx, "a@b.c", "Alice", "secret")
		assert.ErrorIs(t, err, database.ErrEmailTaken)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	activeUser := func(t *testing.T) *models.User {
		return &models.User{
			ID:           1,
			Email:        "alice@example.com",
			PasswordHash: hashPassword(t, "secret"),
			IsActive:     true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)
		user := activeUser(t)

		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil)
		repo.On("GetUserByID", mock.Anything, int64(1)).Return(user, nil)

		token, err := svc.Login(ctx, "Alice@Example.com", "secret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(activeUser(t), nil)

		_, err := svc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, database.ErrNotFound)

		_, err := svc.Login(ctx, "ghost@example.com", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)
		user := activeUser(t)
		user.IsActive = false

		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil)

		_, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})

	t.Run("RateLimited", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)

		repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(activeUser(t), nil)

		// лимит три попытки
		for i := 0; i < 3; i++ {
			_, err := svc.Login(ctx, "alice@example.com", "wrong")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}

		_, err := svc.Login(ctx, "alice@example.com", "secret")
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyToken", func(t *testing.T) {
		svc := newTestUserService(new(MockRepository))

		_, err := svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		svc := newTestUserService(new(MockRepository))

		_, err := svc.Authenticate(ctx, "no-such-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestUserService(repo)
		user := &models.User{ID: 1, Email: "a@b.c", PasswordHash: hashPassword(t, "secret"), IsActive: true}

		repo.On("GetUserByEmail", mock.Anything, "a@b.c").Return(user, nil)

		token, err := svc.Login(ctx, "a@b.c", "secret")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, token))

		_, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestUserService(repo)

	accounts := []*models.User{
		{ID: 1, Email: "admin@example.com", IsAdmin: true},
		{ID: 2, Email: "user@example.com"},
	}
	repo.On("ListUsers", mock.Anything).Return(accounts, nil)

	got, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
	repo.AssertExpectations(t)
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("CreatesAdmin", func(t *testing.T) {
		repo := new(MockRepository)
		cfg := testAuthConfig()
		cfg.BootstrapAdmin = config.BootstrapAdmin{Email: "Admin@Example.com", Password: "admin"}
		svc := NewUserService(repo, session.NewMemoryTokenRepository(), nil, cfg, &logger)

		repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(nil, database.ErrNotFound)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.IsAdmin && u.Email == "admin@example.com" && u.Name == "Administrator"
		})).Return(nil)

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
		repo.AssertExpectations(t)
	})

	t.Run("SkipsExisting", func(t *testing.T) {
		repo := new(MockRepository)
		cfg := testAuthConfig()
		cfg.BootstrapAdmin = config.BootstrapAdmin{Email: "admin@example.com", Password: "admin"}
		svc := NewUserService(repo, session.NewMemoryTokenRepository(), nil, cfg, &logger)

		repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(&models.User{ID: 1}, nil)

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("NoopWithoutEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewUserService(repo, session.NewMemoryTokenRepository(), nil, testAuthConfig(), &logger)

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx))
	})
}
