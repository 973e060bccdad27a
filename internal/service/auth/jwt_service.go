package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents the custom JWT claims used by the application.
type Claims struct {
	jwt.RegisteredClaims
	VendorID string `json:"vid,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Type     string `json:"type"` // "access" or "refresh"
}

// Principal converts access-token claims into the request principal.
func (c *Claims) Principal() *domain.Principal {
	return &domain.Principal{
		UserID:   c.Subject,
		VendorID: c.VendorID,
		Email:    c.Email,
		Role:     domain.UserRole(c.Role),
		Locale:   domain.Locale(c.Locale),
	}
}

// JWTService handles generation, validation, and revocation of JWT tokens.
type JWTService struct {
	secret          []byte
	issuer          string
	accessDuration  time.Duration
	refreshDuration time.Duration
	cache           ports.Cache
	log             *zap.Logger
}

func NewJWTService(secret, issuer string, accessDuration, refreshDuration time.Duration, cache ports.Cache, log *zap.Logger) *JWTService {
	if accessDuration <= 0 {
		accessDuration = 15 * time.Minute
	}
	if refreshDuration <= 0 {
		refreshDuration = 7 * 24 * time.Hour
	}

	log.Info("JWT service initialized",
		zap.Duration("access_duration", accessDuration),
		zap.Duration("refresh_duration", refreshDuration),
	)

	return &JWTService{
		secret:          []byte(secret),
		issuer:          issuer,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		cache:           cache,
		log:             log,
	}
}

// GenerateAccessToken signs an access token carrying the merchant's vendor and locale.
func (s *JWTService) GenerateAccessToken(user *domain.User, vendor *domain.Vendor) (string, error) {
	claims := s.claims(user.ID, tokenTypeAccess, s.accessDuration)
	claims.Email = user.Email
	claims.Role = string(user.Role)
	claims.Locale = string(user.PreferredLanguage)
	if vendor != nil {
		claims.VendorID = vendor.ID
	}
	return s.sign(claims)
}

func (s *JWTService) GenerateRefreshToken(user *domain.User) (string, error) {
	return s.sign(s.claims(user.ID, tokenTypeRefresh, s.refreshDuration))
}

// ValidateToken parses tokenString and checks its type and revocation status.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrUnauthorized, wantType)
	}
	if s.IsTokenRevoked(ctx, claims.ID) {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
	}

	return claims, nil
}

// RevokeToken blacklists a token ID until it would have expired anyway.
func (s *JWTService) RevokeToken(ctx context.Context, tokenID string, until time.Time) error {
	if s.cache == nil {
		return errors.New("token revocation requires a cache")
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, revokedKey(tokenID), "revoked", ttl); err != nil {
		s.log.Error("failed to revoke token", zap.String("token_id", tokenID), zap.Error(err))
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("token revoked", zap.String("token_id", tokenID))
	return nil
}

func (s *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	val, err := s.cache.Get(ctx, revokedKey(tokenID))
	if err != nil {
		return false
	}
	return val == "revoked"
}

func (s *JWTService) claims(subject, tokenType string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Type: tokenType,
	}
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Error("failed to sign token",
			zap.String("user_id", claims.Subject),
			zap.String("type", claims.Type),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to sign %s token: %w", claims.Type, err)
	}
	return signed, nil
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
