package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/mocks"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const testSecret = "test-secret-key"

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newTestService(users *mocks.MockUserRepository, vendors *mocks.MockVendorRepository, cache *mocks.MockCache) ports.AuthService {
	jwtSvc := NewJWTService(testSecret, "merchant-os", time.Minute, time.Hour, cache, newTestLogger())
	return NewService(users, vendors, jwtSvc, "LRD", newTestLogger())
}

func merchantFixture(t *testing.T, password string) (*domain.User, *domain.Vendor) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &domain.User{
		ID:                "user-123",
		Email:             "ama@example.com",
		Password:          string(hashed),
		Role:              domain.UserRoleMerchant,
		Status:            "active",
		PreferredLanguage: domain.LocaleFR,
	}
	vendor := &domain.Vendor{ID: "vendor-9", UserID: user.ID, BusinessName: "Ama Provisions"}
	return user, vendor
}

func reposFor(user *domain.User, vendor *domain.Vendor) (*mocks.MockUserRepository, *mocks.MockVendorRepository) {
	users := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	vendors := &mocks.MockVendorRepository{
		FindByUserIDFunc: func(ctx context.Context, userID string) (*domain.Vendor, error) {
			if userID == vendor.UserID {
				return vendor, nil
			}
			return nil, nil
		},
	}
	return users, vendors
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	user, vendor := merchantFixture(t, "password123")
	users, vendors := reposFor(user, vendor)
	service := newTestService(users, vendors, mocks.NewMockCache())

	// Act
	accessToken, refreshToken, err := service.Login(ctx, " AMA@example.com ", "password123")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected both tokens")
	}

	principal, err := service.ValidateToken(ctx, accessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if principal.UserID != user.ID || principal.VendorID != vendor.ID {
		t.Errorf("principal = %+v", principal)
	}
	if principal.Locale != domain.LocaleFR {
		t.Errorf("Locale = %q, want fr", principal.Locale)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	user, vendor := merchantFixture(t, "correctpassword")
	users, vendors := reposFor(user, vendor)
	service := newTestService(users, vendors, mocks.NewMockCache())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "correctpassword"},
		{name: "wrong password", email: user.Email, password: "wrongpassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, domain.ErrInvalidCreds) {
				t.Errorf("expected ErrInvalidCreds, got %v", err)
			}
		})
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	users := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("database error")
		},
	}
	service := newTestService(users, &mocks.MockVendorRepository{}, mocks.NewMockCache())

	_, _, err := service.Login(context.Background(), "a@example.com", "password")
	if !errors.Is(err, domain.ErrInvalidCreds) {
		t.Errorf("expected ErrInvalidCreds, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	var savedUser *domain.User
	var savedVendor *domain.Vendor
	users := &mocks.MockUserRepository{
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			savedUser = user
			return nil
		},
	}
	vendors := &mocks.MockVendorRepository{
		SaveFunc: func(ctx context.Context, vendor *domain.Vendor) error {
			savedVendor = vendor
			return nil
		},
	}
	service := newTestService(users, vendors, mocks.NewMockCache())

	// Act
	user, vendor, err := service.Register(context.Background(), ports.RegisterInput{
		Name:         "Ama Mensah",
		Email:        "Ama@Example.com",
		Password:     "password123",
		BusinessName: "Ama Provisions",
		Locale:       "fr",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if savedUser == nil || savedVendor == nil {
		t.Fatal("expected user and vendor to be saved")
	}
	if user.Email != "ama@example.com" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
	if user.Password == "password123" {
		t.Error("password should be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
		t.Errorf("stored hash does not match: %v", err)
	}
	if user.Role != domain.UserRoleMerchant || user.PreferredLanguage != domain.LocaleFR {
		t.Errorf("user = %+v", user)
	}
	if vendor.UserID != user.ID || vendor.Currency != "LRD" {
		t.Errorf("vendor = %+v", vendor)
	}
}

func TestRegister_Validation(t *testing.T) {
	valid := ports.RegisterInput{Name: "Ama", Email: "ama@example.com", Password: "password123", BusinessName: "Shop"}

	tests := []struct {
		name   string
		mutate func(in *ports.RegisterInput)
	}{
		{name: "missing name", mutate: func(in *ports.RegisterInput) { in.Name = "  " }},
		{name: "bad email", mutate: func(in *ports.RegisterInput) { in.Email = "not-an-email" }},
		{name: "short password", mutate: func(in *ports.RegisterInput) { in.Password = "1234567" }},
		{name: "missing business", mutate: func(in *ports.RegisterInput) { in.BusinessName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(&mocks.MockUserRepository{}, &mocks.MockVendorRepository{}, mocks.NewMockCache())
			in := valid
			tt.mutate(&in)

			_, _, err := service.Register(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "existing"}, nil
		},
	}
	service := newTestService(users, &mocks.MockVendorRepository{}, mocks.NewMockCache())

	_, _, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Ama", Email: "ama@example.com", Password: "password123", BusinessName: "Shop",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	users := &mocks.MockUserRepository{
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			return errors.New("database error")
		},
	}
	service := newTestService(users, &mocks.MockVendorRepository{}, mocks.NewMockCache())

	_, _, err := service.Register(context.Background(), ports.RegisterInput{
		Name: "Ama", Email: "ama@example.com", Password: "password123", BusinessName: "Shop",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidateToken_Invalid(t *testing.T) {
	service := newTestService(&mocks.MockUserRepository{}, &mocks.MockVendorRepository{}, mocks.NewMockCache())

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-123",
		"exp":  time.Now().Add(-1 * time.Hour).Unix(),
		"type": "access",
	}).SignedString([]byte(testSecret))

	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-123",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"type": "access",
	}).SignedString([]byte("other-secret"))

	tests := map[string]string{
		"garbage": "invalid-token",
		"expired": expired,
		"foreign": foreign,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.ValidateToken(context.Background(), token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestValidateToken_RejectsRefreshToken(t *testing.T) {
	ctx := context.Background()
	user, vendor := merchantFixture(t, "password123")
	users, vendors := reposFor(user, vendor)
	service := newTestService(users, vendors, mocks.NewMockCache())

	_, refreshToken, err := service.Login(ctx, user.Email, "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := service.ValidateToken(ctx, refreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	user, vendor := merchantFixture(t, "password123")
	users, vendors := reposFor(user, vendor)
	service := newTestService(users, vendors, mocks.NewMockCache())

	accessToken, refreshToken, err := service.Login(ctx, user.Email, "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Act
	newAccess, err := service.RefreshToken(ctx, refreshToken)

	// Assert
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if newAccess == "" {
		t.Fatal("expected new access token")
	}
	if _, err := service.RefreshToken(ctx, accessToken); err == nil {
		t.Error("access token must not be accepted as refresh token")
	}
}

func TestRefreshToken_UserNotFound(t *testing.T) {
	ctx := context.Background()
	user, vendor := merchantFixture(t, "password123")
	users, vendors := reposFor(user, vendor)
	service := newTestService(users, vendors, mocks.NewMockCache())

	_, refreshToken, _ := service.Login(ctx, user.Email, "password123")
	users.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return nil, nil
	}

	if _, err := service.RefreshToken(ctx, refreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	user, vendor := merchantFixture(t, "password123")
	users, vendors := reposFor(user, vendor)
	service := newTestService(users, vendors, mocks.NewMockCache())

	accessToken, _, err := service.Login(ctx, user.Email, "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := service.Logout(ctx, accessToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := service.ValidateToken(ctx, accessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("revoked token still valid: %v", err)
	}
}
