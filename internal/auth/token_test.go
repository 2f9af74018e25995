package auth_test

import (
	"testing"

	"github.com/phase2/todo-api/internal/auth"
)

const testSecret = "test-secret"

func TestIssueVerifyRoundtrip(t *testing.T) {
	issuer, err := auth.NewIssuer(testSecret, "HS256", 60)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}

	token, err := issuer.Issue("user-123", "a@b.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if identity.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "user-123")
	}
	if identity.Email != "a@b.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "a@b.com")
	}
}

func TestVerifyFailures(t *testing.T) {
	issuer, err := auth.NewIssuer(testSecret, "HS256", 60)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}

	otherIssuer, err := auth.NewIssuer("a-different-secret", "HS256", 60)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}
	wrongSecret, err := otherIssuer.Issue("user-123", "a@b.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	expiredIssuer, err := auth.NewIssuer(testSecret, "HS256", -1)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}
	expired, err := expiredIssuer.Issue("user-123", "a@b.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	good, err := issuer.Issue("user-123", "a@b.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Wrong secret",
			token: wrongSecret,
		},
		{
			name:  "Expired",
			token: expired,
		},
		{
			name:  "Malformed",
			token: "not.a.token",
		},
		{
			name:  "Empty",
			token: "",
		},
		{
			name:  "Tampered payload",
			token: good[:len(good)-2] + "xx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token); err != auth.ErrInvalidToken {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewIssuerRejectsNonHMAC(t *testing.T) {
	tests := []string{"RS256", "ES256", "none", "bogus"}
	for _, alg := range tests {
		t.Run(alg, func(t *testing.T) {
			if _, err := auth.NewIssuer(testSecret, alg, 60); err == nil {
				t.Errorf("NewIssuer(%q) expected error", alg)
			}
		})
	}
}

func TestHMACVariants(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			issuer, err := auth.NewIssuer(testSecret, alg, 60)
			if err != nil {
				t.Fatalf("NewIssuer(%q) error: %v", alg, err)
			}
			token, err := issuer.Issue("u", "a@b.com")
			if err != nil {
				t.Fatalf("Issue() error: %v", err)
			}
			if _, err := issuer.Verify(token); err != nil {
				t.Errorf("Verify() error: %v", err)
			}
		})
	}
}
