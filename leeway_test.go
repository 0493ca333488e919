package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestLeeway(t *testing.T) {
	now := time.Now().Round(time.Second)
	Clock = func() time.Time { return now }
	defer func() { Clock = time.Now }()

	// Expired 30 seconds ago: fails plain, passes with a minute of leeway.
	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, WithClaims(Claims{
		Expiry: now.Add(-30 * time.Second).Unix(),
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = Verify(testAlg, testSecret, token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired but got: %v", err)
	}

	if _, err = Verify(testAlg, testSecret, token, Leeway(time.Minute)); err != nil {
		t.Fatal(err)
	}

	// Beyond the tolerance the failure stands.
	if _, err = Verify(testAlg, testSecret, token, Leeway(10*time.Second)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired but got: %v", err)
	}
}

func TestLeewayNotBefore(t *testing.T) {
	now := time.Now().Round(time.Second)
	Clock = func() time.Time { return now }
	defer func() { Clock = time.Now }()

	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, WithClaims(Claims{
		NotBefore: now.Add(30 * time.Second).Unix(),
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = Verify(testAlg, testSecret, token); !errors.Is(err, ErrNotValidYet) {
		t.Fatalf("expected ErrNotValidYet but got: %v", err)
	}

	if _, err = Verify(testAlg, testSecret, token, Leeway(time.Minute)); err != nil {
		t.Fatal(err)
	}
}

// Leeway does not interfere with non-temporal failures.
func TestLeewayKeepsOtherErrors(t *testing.T) {
	if _, err := Verify(testAlg, []byte("wrong secret"), testToken, Leeway(time.Minute)); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature but got: %v", err)
	}
}

func TestFuture(t *testing.T) {
	now := time.Now().Round(time.Second)
	Clock = func() time.Time { return now }
	defer func() { Clock = time.Now }()

	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, WithClaims(Claims{
		IssuedAt: now.Add(30 * time.Second).Unix(),
	}))
	if err != nil {
		t.Fatal(err)
	}

	// A future iat fails by default.
	if _, err = Verify(testAlg, testSecret, token); !errors.Is(err, ErrIssuedInTheFuture) {
		t.Fatalf("expected ErrIssuedInTheFuture but got: %v", err)
	}

	if _, err = Verify(testAlg, testSecret, token, Future(time.Minute)); err != nil {
		t.Fatal(err)
	}

	if _, err = Verify(testAlg, testSecret, token, Future(10*time.Second)); !errors.Is(err, ErrIssuedInTheFuture) {
		t.Fatalf("expected ErrIssuedInTheFuture but got: %v", err)
	}
}

// Future leaves an expiry failure untouched.
func TestFutureKeepsExpiry(t *testing.T) {
	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, WithClaims(Claims{
		Expiry: Clock().Add(-time.Minute).Unix(),
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = Verify(testAlg, testSecret, token, Future(time.Hour)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired but got: %v", err)
	}
}
