package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "secret123" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if err := h.Compare(hash, "secret123"); err != nil {
		t.Errorf("Compare with correct password: %v", err)
	}

	err = h.Compare(hash, "wrong-password")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHasher_Compare_RejectsOverlongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	password := strings.Repeat("p", MaxPasswordBytes)

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if err := h.Compare(hash, password); err != nil {
		t.Errorf("Compare with the 72-byte password: %v", err)
	}

	// bcrypt alone would accept this, reading only the first 72 bytes.
	err = h.Compare(hash, password+"extra")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if got := apperr.Message(err); got != "invalid email or password" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestHasher_SaltsEveryHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	a, _ := h.Hash("secret123")
	b, _ := h.Hash("secret123")
	if a == b {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestNewHasher_DefaultCost(t *testing.T) {
	h := NewHasher(0)
	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost error: %v", err)
	}
	if cost != DefaultCost {
		t.Errorf("expected cost %d, got %d", DefaultCost, cost)
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("super-secret", time.Hour)

	tok, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	userID, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", userID, "user-123")
	}
}

func TestTokens_Parse_Expired(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tokens.now = time.Now
	_, err = tokens.Parse(tok)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
	if err.Error() != "session expired" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestTokens_Parse_Rejects(t *testing.T) {
	good := NewTokens("right-secret", time.Hour)

	otherSecret, _ := NewTokens("wrong-secret", time.Hour).Issue("u2")

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user": "u3"}).
		SignedString([]byte("right-secret"))

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("right-secret"))

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user": "u4",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("right-secret"))

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: otherSecret},
		{name: "no expiry claim", token: noExpiry},
		{name: "no user claim", token: noUser},
		{name: "wrong algorithm", token: wrongAlg},
		{name: "malformed", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := good.Parse(tt.token)
			if !errors.Is(err, apperr.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}
