package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func withSecret(t *testing.T, value string) {
	t.Helper()
	ResetSecretForTests()
	t.Setenv(secretEnvVariable, value)
	t.Cleanup(ResetSecretForTests)
}

func TestGenerateAndValidate(t *testing.T) {
	withSecret(t, "test-secret")

	token, expires, err := GenerateToken(42, TokenTTL)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if d := time.Until(expires); d <= 29*time.Minute || d > TokenTTL {
		t.Fatalf("unexpected expiry in %v", d)
	}

	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("unexpected user id: %d %v", id, err)
	}
	if claims.Issuer != issuer {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected token id")
	}
}

func TestGenerateTokenRejectsBadInput(t *testing.T) {
	withSecret(t, "test-secret")

	if _, _, err := GenerateToken(0, TokenTTL); err == nil {
		t.Fatal("expected error for missing user")
	}
	if _, _, err := GenerateToken(1, 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestMissingSecret(t *testing.T) {
	withSecret(t, "")

	if _, _, err := GenerateToken(1, time.Minute); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestSetSecretOverridesEnvironment(t *testing.T) {
	withSecret(t, "env-secret")
	SetSecret("configured")

	token, _, err := GenerateToken(3, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	ResetSecretForTests()
	if _, err := ParseAndValidate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with the configured secret must fail under the env secret, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	withSecret(t, "test-secret")

	past := time.Now().Add(-time.Hour)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(30 * time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseAndValidate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTamperedAndForeignTokens(t *testing.T) {
	withSecret(t, "test-secret")

	token, _, err := GenerateToken(5, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := ParseAndValidate(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for bad signature, got %v", err)
	}

	foreign := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "5",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, foreign).SignedString([]byte("test-secret"))
	if _, err := ParseAndValidate(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign issuer, got %v", err)
	}

	if _, err := ParseAndValidate("  "); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyPassword(hash, "admin123"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "nope"); err == nil {
		t.Fatal("expected mismatch")
	}
	if _, err := HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := ContextWithUser(context.Background(), 7)
	id, ok := UserIDFromContext(ctx)
	if !ok || id != 7 {
		t.Fatalf("unexpected user id: %d, ok=%v", id, ok)
	}
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatal("expected no user in empty context")
	}

	ctx = ContextWithToken(ctx, "tok")
	if tok, ok := TokenFromContext(ctx); !ok || tok != "tok" {
		t.Fatalf("unexpected token: %q %v", tok, ok)
	}
	if ContextWithToken(ctx, "") != ctx {
		t.Fatal("empty token must not change the context")
	}
}
