package jwt_test

import (
	"roombook/config"
	"roombook/infras/jwt"
	"testing"
	"time"

	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.Claims, key string, method jwtLib.SigningMethod) string {
	t.Helper()

	token, err := jwtLib.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)

	return token
}

func validClaims(now time.Time) jwt.Claims {
	return jwt.Claims{
		UserID: "5b0c55b8-8f63-4f43-9d4e-2d2f0f8f1a01",
		Role:   "user",
		Type:   jwt.AccessToken,
		RegisteredClaims: jwtLib.RegisteredClaims{
			Issuer:    "roombook",
			IssuedAt:  jwtLib.NewNumericDate(now),
			ExpiresAt: jwtLib.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.JWT.Issuer = "roombook"

	return jwt.New(cfg)
}

func TestValidateToken(t *testing.T) {
	now := time.Now()
	svc := newService()

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateToken(sign(t, validClaims(now), secret, jwtLib.SigningMethodHS256), jwt.AccessToken)

		require.NoError(t, err)
		assert.Equal(t, "5b0c55b8-8f63-4f43-9d4e-2d2f0f8f1a01", claims.UserID)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims(now.Add(-2 * time.Hour))

		_, err := svc.ValidateToken(sign(t, claims, secret, jwtLib.SigningMethodHS256), jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := svc.ValidateToken(sign(t, validClaims(now), "other", jwtLib.SigningMethodHS256), jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong signing method", func(t *testing.T) {
		_, err := svc.ValidateToken(sign(t, validClaims(now), secret, jwtLib.SigningMethodHS512), jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims(now)
		claims.Issuer = "elsewhere"

		_, err := svc.ValidateToken(sign(t, claims, secret, jwtLib.SigningMethodHS256), jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("missing user", func(t *testing.T) {
		claims := validClaims(now)
		claims.UserID = ""

		_, err := svc.ValidateToken(sign(t, claims, secret, jwtLib.SigningMethodHS256), jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
	})

	t.Run("refresh token", func(t *testing.T) {
		claims := validClaims(now)
		claims.Type = "refresh"

		_, err := svc.ValidateToken(sign(t, claims, secret, jwtLib.SigningMethodHS256), jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token", jwt.AccessToken)

		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

func TestBearerToken(t *testing.T) {
	token, err := jwt.BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Basic abc", "Bearer ", "bearer abc.def"} {
		_, err := jwt.BearerToken(header)
		assert.ErrorIs(t, err, jwt.ErrMissingBearer, header)
	}
}
