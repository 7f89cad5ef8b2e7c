package jwt

import (
	"errors"
	"roombook/config"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingBearer = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
)

type TokenType string

const AccessToken TokenType = "access"

const bearerPrefix = "Bearer "

// Claims carried by access tokens. Tokens are minted by the identity service;
// this service only verifies them.
type Claims struct {
	UserID string    `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

type JWT interface {
	ValidateToken(token string, tokenType TokenType) (*Claims, error)
}

type verifier struct {
	secret []byte
	parser *jwt.Parser
}

// New returns a JWT verifier for HS256 tokens signed with the access secret.
// When an issuer is configured, tokens from any other issuer are rejected.
func New(cfg *config.Config) JWT {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5 * time.Second),
	}

	if cfg.JWT.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.JWT.Issuer))
	}

	return &verifier{
		secret: []byte(cfg.JWT.AccessSecret),
		parser: jwt.NewParser(options...),
	}
}

func (v *verifier) ValidateToken(token string, tokenType TokenType) (*Claims, error) {
	claims := &Claims{}

	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil, !parsed.Valid:
		return nil, ErrInvalidToken
	case claims.Type != tokenType, claims.UserID == "":
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingBearer
	}

	return token, nil
}
