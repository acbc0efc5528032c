// Package auth issues and validates the bearer tokens that identify viewers
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownUser  = errors.New("token user no longer exists")
)

// Claims is the token payload
type Claims struct {
	UserID  uint64 `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Service signs and validates HS256 tokens
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	users     *store.Store
	now       func() time.Time
}

// NewService creates an auth service. Users are re-read on every validation
// so deleted accounts and revoked admin rights take effect immediately.
func NewService(jwtSecret []byte, ttl time.Duration, users *store.Store) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: jwtSecret,
		ttl:       ttl,
		users:     users,
		now:       time.Now,
	}
}

// GenerateToken signs a token for user and returns it with its expiry
func (s *Service) GenerateToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies the signature and expiry and returns the claims
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken parses the token and loads its user
func (s *Service) ValidateToken(tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindUser(context.Background(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	return user, nil
}
