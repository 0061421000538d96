package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskarn/go-storefront/internal/cache"
	"github.com/oskarn/go-storefront/internal/dto"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), cache.NewStore(), "test-secret", time.Hour)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "new@example.com", Password: "password123", Name: "New User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "customer", resp.User.Role)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "new@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), cache.NewStore(), "test-secret", time.Hour)
	req := dto.RegisterRequest{Email: "dup@example.com", Password: "password123", Name: "Dup"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), cache.NewStore(), "test-secret", time.Hour)
	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "user@example.com", Password: "password123", Name: "U",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "user@example.com", Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UserMutationsInvalidateAdminKeys(t *testing.T) {
	store := cache.NewStore()
	svc := NewAuthService(newMockUserRepo(), store, "test-secret", time.Hour)

	store.Set(cache.KeyAdminStats, []byte("stale"))
	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "count@example.com", Password: "password123", Name: "C",
	})
	require.NoError(t, err)
	assert.False(t, store.Has(cache.KeyAdminStats))

	store.Set(cache.KeyAdminStats, []byte("stale"))
	require.NoError(t, svc.DeleteUser(context.Background(), resp.User.ID))
	assert.False(t, store.Has(cache.KeyAdminStats))
}

func TestAuthService_DeleteUser_NotFound(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), cache.NewStore(), "test-secret", time.Hour)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), uuid.New()), ErrUserNotFound)
}
