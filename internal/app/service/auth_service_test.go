package service

import (
	"testing"
	"time"

	"github.com/freshplatter/platter-backend/internal/app/repository"
	"github.com/freshplatter/platter-backend/internal/db"
	"github.com/freshplatter/platter-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, "test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, err := authService.Register("new@example.com", "password123", "New User", "010-1234-5678", "1 Main St")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, err = authService.Register("new@example.com", "password123", "Dup", "", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, err := authService.Register("login@example.com", "password123", "Login User", "", "")
	require.NoError(t, err)

	token, user, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "login@example.com", user.Email)

	claims, err := util.ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = authService.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetMe(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, err := authService.Register("me@example.com", "password123", "Me", "", "")
	require.NoError(t, err)

	found, err := authService.GetMe(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetMe(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
