package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scholarmatch/scholarship-service/internal/config"
	"github.com/scholarmatch/scholarship-service/internal/validator"
)

func newTestAuthService(repo *mockRepository) AuthService {
	return NewAuthService(repo, nil, testLogger(), validator.New(), config.JWTConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
	})
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("signup then login", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestAuthService(repo)

		resp, err := svc.Signup(ctx, &SignupRequest{
			Email:    "A@Example.com",
			Password: "correct-horse",
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if resp.Email != "a@example.com" {
			t.Errorf("expected normalized email, got %s", resp.Email)
		}
		if resp.Token == "" {
			t.Error("expected a signed token")
		}

		login, err := svc.Login(ctx, &LoginRequest{
			Email:    "a@example.com",
			Password: "correct-horse",
		})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if login.Token == "" {
			t.Error("expected a signed token on login")
		}
	})

	t.Run("duplicate signup", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestAuthService(repo)

		req := &SignupRequest{Email: "a@example.com", Password: "correct-horse"}
		if _, err := svc.Signup(ctx, req); err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if _, err := svc.Signup(ctx, req); !errors.Is(err, ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestAuthService(repo)

		if _, err := svc.Signup(ctx, &SignupRequest{
			Email:    "a@example.com",
			Password: "correct-horse",
		}); err != nil {
			t.Fatalf("Signup failed: %v", err)
		}

		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "a@example.com",
			Password: "wrong-horse",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestAuthService(repo)

		_, err := svc.Login(ctx, &LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever-pass",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestAuthService(repo)

		_, err := svc.Signup(ctx, &SignupRequest{
			Email:    "a@example.com",
			Password: "short",
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("token roundtrip", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestAuthService(repo)

		resp, err := svc.Signup(ctx, &SignupRequest{
			Email:    "a@example.com",
			Password: "correct-horse",
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}

		claims, err := svc.ParseToken(resp.Token)
		if err != nil {
			t.Fatalf("ParseToken failed: %v", err)
		}
		if claims.Email != "a@example.com" {
			t.Errorf("expected subject a@example.com, got %s", claims.Email)
		}
		if claims.Role != "user" {
			t.Errorf("expected role user, got %s", claims.Role)
		}

		if _, err := svc.ParseToken("not-a-token"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized for garbage token, got %v", err)
		}
	})
}
