package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const MinPasswordLength = 8

type Service struct {
	userRepo   ports.UserRepository
	vendorRepo ports.VendorRepository
	jwt        *JWTService
	currency   string
	log        *zap.Logger
}

func NewService(userRepo ports.UserRepository, vendorRepo ports.VendorRepository, jwt *JWTService, currency string, log *zap.Logger) ports.AuthService {
	if currency == "" {
		currency = "LRD"
	}
	return &Service{
		userRepo:   userRepo,
		vendorRepo: vendorRepo,
		jwt:        jwt,
		currency:   currency,
		log:        log,
	}
}

// Register creates a merchant user and the vendor that scopes all of their data.
func (s *Service) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.Vendor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.BusinessName = strings.TrimSpace(in.BusinessName)

	if in.Name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}
	if in.BusinessName == "" {
		return nil, nil, fmt.Errorf("%w: business name is required", domain.ErrInvalidInput)
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	locale := domain.LocaleEN
	if in.Locale == string(domain.LocaleFR) {
		locale = domain.LocaleFR
	}

	user := &domain.User{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Email:             in.Email,
		Phone:             strings.TrimSpace(in.Phone),
		Password:          string(hashedPwd),
		Role:              domain.UserRoleMerchant,
		Status:            "active",
		PreferredLanguage: locale,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to save user: %w", err)
	}

	vendor := &domain.Vendor{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		BusinessName: in.BusinessName,
		Currency:     s.currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, nil, fmt.Errorf("failed to save vendor: %w", err)
	}

	s.log.Info("Merchant registered",
		zap.String("user_id", user.ID),
		zap.String("vendor_id", vendor.ID),
	)
	return user, vendor, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		return "", "", domain.ErrInvalidCreds
	}
	if user.Status == "blocked" {
		return "", "", domain.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", domain.ErrInvalidCreds
	}

	return s.generateTokens(ctx, user)
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateToken(ctx, refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil || user == nil {
		return "", fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	}

	vendor, err := s.vendorRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load vendor: %w", err)
	}
	return s.jwt.GenerateAccessToken(user, vendor)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.jwt.ValidateToken(ctx, token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return claims.Principal(), nil
}

// Logout revokes the given access or refresh token.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.ValidateToken(ctx, token, tokenTypeAccess)
	if err != nil {
		claims, err = s.jwt.ValidateToken(ctx, token, tokenTypeRefresh)
	}
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return errors.New("token has no expiry")
	}
	return s.jwt.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) generateTokens(ctx context.Context, user *domain.User) (string, string, error) {
	vendor, err := s.vendorRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load vendor: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(user, vendor)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
