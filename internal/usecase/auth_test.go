package usecase_test

import (
	. "github.com/polkiloo/storefront/internal/usecase"

	"context"
	"fmt"
	"testing"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	testhelpers "github.com/polkiloo/storefront/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64, admin bool) (string, error) {
			return fmt.Sprintf("token-%d-%t", userID, admin), nil
		},
		ParseFn: func(token string) (*pkgAuth.Claims, error) {
			var id int64
			var admin bool
			if _, err := fmt.Sscanf(token, "token-%d-%t", &id, &admin); err != nil {
				return nil, pkgAuth.ErrInvalidToken
			}
			return &pkgAuth.Claims{UserID: id, Admin: admin}, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "Alice", "Alice@Example.com", "password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token-1-false" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user stored under lowercased email: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@b.com", "pw"},
		{"empty password", "Alice", "a@b.com", ""},
		{"malformed email", "Alice", "not-an-email", "pw"},
	}
	for _, tc := range cases {
		if _, _, err := uc.Register(ctx, tc.userName, tc.email, tc.password); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "Bob", "bob@example.com", "secret"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "Bob", "BOB@example.com", "secret"); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "Carol", "carol@example.com", "123456"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "unknown@example.com", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	user, token, err := uc.Authenticate(ctx, "Carol@Example.com", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
	if token != "token-1-false" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAdminTokenCarriesFlag(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "Root", "root@example.com", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.ByID[1].IsAdmin = true

	_, token, err := uc.Authenticate(ctx, "root@example.com", "secret")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	claims, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if !claims.Admin || claims.UserID != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthUseCaseParseTokenEmpty(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
