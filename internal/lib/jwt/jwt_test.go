package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndDecode(t *testing.T) {
	t.Parallel()

	m := NewManager("super-secret", time.Hour)

	token, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, err := m.Decode(token)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", subject, "user-123")
	}
}

func TestDecodeExpired(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", -time.Second)

	token, err := m.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewManager("right-secret", time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewManager("wrong-secret", time.Hour).Decode(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged token, got %v", err)
	}
}

func TestDecodeTampered(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", time.Hour)

	token, err := m.Issue("u3")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[1] = strings.Repeat("A", len(parts[1]))

	if _, err := m.Decode(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", time.Hour)

	if _, err := m.Decode("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
