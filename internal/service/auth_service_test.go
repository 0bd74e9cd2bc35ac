package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiacomoGuaresi/LiteERP/internal/config"
	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
)

func newAuthFixture(t *testing.T) (*stubUserRepo, AuthService) {
	t.Helper()
	repo := newStubUserRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	return repo, NewAuthService(repo, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterUserRequest{
		Email: "ops@example.com", Password: "s3cret-pass", Name: "Ops", Surname: "User",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ops@example.com", claims["email"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterUserRequest{
		Email: "ops@example.com", Password: "s3cret-pass", Name: "Ops",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterUserRequest{Email: "ops@example.com", Password: "s3cret-pass", Name: "Ops"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, dto.RegisterUserRequest{Email: "ops@example.com", Password: "another-pass", Name: "Ops"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateUserPassword(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterUserRequest{Email: "ops@example.com", Password: "old-password", Name: "Ops"})
	require.NoError(t, err)

	newPassword := "new-password"
	_, err = svc.Update(ctx, user.ID, dto.UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "new-password"})
	assert.NoError(t, err)
}
