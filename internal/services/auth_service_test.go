package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/dto"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/atakanuzun/showfolio-backend/internal/testutil"
	"gorm.io/gorm"
)

func newAuth(t *testing.T, db *gorm.DB) *services.AuthService {
	t.Helper()
	return services.NewAuthService(db, &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.OpenTestDB(t)
	auth := newAuth(t, db)

	resp, err := auth.Register(&dto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "supersecret",
		Handle:   "Dev_One",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("token pair missing")
	}
	if resp.User.Handle != "dev_one" {
		t.Fatalf("handle=%s, want lowercased dev_one", resp.User.Handle)
	}
	if resp.User.DisplayName != "dev_one" {
		t.Fatalf("display_name=%s, want handle fallback", resp.User.DisplayName)
	}

	if _, err := auth.Login(&dto.LoginRequest{Email: "dev@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if _, err := auth.Login(&dto.LoginRequest{Email: "dev@example.com", Password: "wrong"}); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterRejectsBadHandles(t *testing.T) {
	db := testutil.OpenTestDB(t)
	auth := newAuth(t, db)

	for _, handle := range []string{"ab", "Has Space", "too-dashy", "UPPER!", ""} {
		_, err := auth.Register(&dto.RegisterRequest{
			Email:    handle + "@example.com",
			Password: "supersecret",
			Handle:   handle,
		})
		if !errors.Is(err, services.ErrInvalidHandle) {
			t.Errorf("Register(%q) err = %v, want ErrInvalidHandle", handle, err)
		}
	}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	auth := newAuth(t, db)

	if _, err := auth.Register(&dto.RegisterRequest{
		Email: "a@example.com", Password: "supersecret", Handle: "taken",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := auth.Register(&dto.RegisterRequest{
		Email: "b@example.com", Password: "supersecret", Handle: "taken",
	})
	if !errors.Is(err, services.ErrHandleTaken) {
		t.Fatalf("err = %v, want ErrHandleTaken", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	auth := newAuth(t, db)

	resp, err := auth.Register(&dto.RegisterRequest{
		Email: "r@example.com", Password: "supersecret", Handle: "rotator",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	next, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if next.RefreshToken == resp.RefreshToken {
		t.Fatal("refresh token not rotated")
	}

	// The old token is revoked after rotation.
	if _, err := auth.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken}); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for reused token", err)
	}
}
