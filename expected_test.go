package jwt

import (
	"errors"
	"testing"
)

func TestExpected(t *testing.T) {
	claims := Claims{
		NotBefore: 1,
		IssuedAt:  2,
		Expiry:    3,
		ID:        "id-1",
		Issuer:    "my-auth-service",
		Subject:   "user-42",
		Audience:  Audience{"api", "web"},
	}

	var tests = []struct {
		name     string
		expected Expected
		err      error
	}{
		{"empty expectations pass", Expected{}, nil},
		{"full match", Expected(claims), nil},
		{"issuer only", Expected{Issuer: "my-auth-service"}, nil},
		{"issuer mismatch", Expected{Issuer: "other"}, ErrExpected},
		{"subject mismatch", Expected{Subject: "user-43"}, ErrExpected},
		{"id mismatch", Expected{ID: "id-2"}, ErrExpected},
		{"nbf mismatch", Expected{NotBefore: 9}, ErrExpected},
		{"iat mismatch", Expected{IssuedAt: 9}, ErrExpected},
		{"exp mismatch", Expected{Expiry: 9}, ErrExpected},
		{"audience member", Expected{Audience: Audience{"web"}}, nil},
		{"audience subset", Expected{Audience: Audience{"api", "web"}}, nil},
		{"audience miss", Expected{Audience: Audience{"mobile"}}, ErrExpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.expected.ValidateToken(nil, claims, nil); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v but got: %v", tt.err, err)
			}
		})
	}
}

// An incoming error passes through untouched.
func TestExpectedKeepsPreviousError(t *testing.T) {
	prev := errors.New("previous failure")
	if err := (Expected{Issuer: "any"}).ValidateToken(nil, Claims{}, prev); !errors.Is(err, prev) {
		t.Fatalf("expected the previous error but got: %v", err)
	}
}
