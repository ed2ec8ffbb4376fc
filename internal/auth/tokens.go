package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidToken = errors.New("invalid token")

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Tokens is the pair handed out on login.
type Tokens struct {
	Access  string
	Refresh string
}

type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
}

// TokenService issues and validates HMAC signed access and refresh tokens.
// The subject of every token is the user's uid.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      utils.Clock
}

func NewTokenService(cfg config.Auth, clock utils.Clock) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("auth secret is not configured")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      clock,
	}, nil
}

func (s *TokenService) IssueTokens(userUid string) (Tokens, error) {
	access, err := s.sign(userUid, AccessToken, s.accessTTL)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.sign(userUid, RefreshToken, s.refreshTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

// ValidateAccess returns the user uid carried by a valid access token.
func (s *TokenService) ValidateAccess(token string) (string, error) {
	return s.validate(token, AccessToken)
}

// RefreshAccess exchanges a valid refresh token for a new access token.
func (s *TokenService) RefreshAccess(refreshToken string) (string, error) {
	userUid, err := s.validate(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}
	return s.sign(userUid, AccessToken, s.accessTTL)
}

func (s *TokenService) sign(userUid string, tokenType TokenType, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userUid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *TokenService) validate(token string, expected TokenType) (string, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		log.Debugf("token rejected: %v", err)
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != expected {
		return "", fmt.Errorf("%w: expected %s token, got %s", ErrInvalidToken, expected, claims.TokenType)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
