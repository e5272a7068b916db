package service

import (
	"context"
	"testing"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/config"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthTest(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{}
	cfg.JWT.Secret = testutil.JWTSecret
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 720 * time.Hour
	cfg.JWT.Issuer = "crm-master-owl"
	return NewAuthService(repos.User, nil, cfg, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterRequest{
		Email:    "Master@Test.RU",
		Password: "секрет123",
		Name:     "Мастер",
	})
	require.NoError(t, err)
	// Email is stored lowercased.
	assert.Equal(t, "master@test.ru", user.Email)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(pair.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testutil.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["uid"])

	_, _, err = svc.Login(ctx, LoginRequest{Email: "master@test.ru", Password: "секрет123"})
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ru", Password: "секрет123"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterRequest{Email: "A@B.ru", Password: "другой456"})
	var conflict *apperr.Conflict
	require.ErrorAs(t, err, &conflict)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ru", Password: "секрет123"})
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// An access token is not a refresh token.
	_, err = svc.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ru", Password: "секрет123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginRequest{Email: "a@b.ru", Password: "не тот"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginRequest{Email: "nobody@b.ru", Password: "секрет123"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}
