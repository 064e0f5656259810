package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peregovorka/internal/models"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	user := &models.User{
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "hash",
		IsActive:     true,
	}
	err := db.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("DuplicateEmail", func(t *testing.T) {
		dup := &models.User{Email: "alice@example.com", Name: "Other", PasswordHash: "hash"}
		err := db.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	created := createTestUser(t, db, "bob@example.com")

	got, err := db.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "bob@example.com", got.Email)
	assert.True(t, got.IsActive)

	t.Run("NotFound", func(t *testing.T) {
		_, err := db.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	created := createTestUser(t, db, "carol@example.com")

	got, err := db.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	_, err = db.GetUserByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	createTestUser(t, db, "u1@example.com")
	createTestUser(t, db, "u2@example.com")

	users, err := db.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
