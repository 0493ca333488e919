package jwt

import (
	"testing"
	"time"
)

func TestSignWithMaxAge(t *testing.T) {
	now := time.Now().Round(time.Second)
	Clock = func() time.Time { return now }
	defer func() { Clock = time.Now }()

	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, MaxAge(15*time.Minute))
	if err != nil {
		t.Fatal(err)
	}

	verifiedToken, err := Verify(testAlg, testSecret, token)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := verifiedToken.StandardClaims.Expiry, now.Add(15*time.Minute).Unix(); got != want {
		t.Fatalf("expected exp: %d but got: %d", want, got)
	}

	if got, want := verifiedToken.StandardClaims.IssuedAt, now.Unix(); got != want {
		t.Fatalf("expected iat: %d but got: %d", want, got)
	}

	var claims map[string]interface{}
	if err = verifiedToken.Claims(&claims); err != nil {
		t.Fatal(err)
	}

	if got := claims["username"]; got != "alice" {
		t.Fatalf("expected the custom claim to survive the merge: %v", got)
	}
}

// MaxAge of a second or less is a no-op.
func TestSignMaxAgeIgnored(t *testing.T) {
	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, MaxAge(time.Second))
	if err != nil {
		t.Fatal(err)
	}

	verifiedToken, err := Verify(testAlg, testSecret, token)
	if err != nil {
		t.Fatal(err)
	}

	if verifiedToken.StandardClaims.Expiry != 0 {
		t.Fatalf("expected no exp claim but got: %d", verifiedToken.StandardClaims.Expiry)
	}
}

func TestSignWithClaims(t *testing.T) {
	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, WithClaims(Claims{
		Issuer:   "my-auth-service",
		Subject:  "user-42",
		Audience: Audience{"api", "web"},
		MaxAge:   10 * time.Minute,
	}))
	if err != nil {
		t.Fatal(err)
	}

	verifiedToken, err := Verify(testAlg, testSecret, token)
	if err != nil {
		t.Fatal(err)
	}

	c := verifiedToken.StandardClaims
	if c.Issuer != "my-auth-service" || c.Subject != "user-42" || len(c.Audience) != 2 {
		t.Fatalf("unexpected standard claims: %#+v", c)
	}

	if c.Expiry == 0 || c.IssuedAt == 0 {
		t.Fatal("expected MaxAge to fill exp and iat")
	}
}

func TestSignGenerateID(t *testing.T) {
	token, err := Sign(testAlg, testSecret, Map{}, GenerateID())
	if err != nil {
		t.Fatal(err)
	}

	verifiedToken, err := Verify(testAlg, testSecret, token)
	if err != nil {
		t.Fatal(err)
	}

	first := verifiedToken.StandardClaims.ID
	if first == "" {
		t.Fatal("expected a generated jti claim")
	}

	token, err = Sign(testAlg, testSecret, Map{}, GenerateID())
	if err != nil {
		t.Fatal(err)
	}

	verifiedToken, err = Verify(testAlg, testSecret, token)
	if err != nil {
		t.Fatal(err)
	}

	if verifiedToken.StandardClaims.ID == first {
		t.Fatal("expected a fresh jti per token")
	}
}

func TestMaxAgeMap(t *testing.T) {
	claims := Map{"username": "alice"}
	MaxAgeMap(15*time.Minute, claims)

	if claims["exp"] == nil || claims["iat"] == nil {
		t.Fatalf("expected exp and iat to be set: %#+v", claims)
	}

	// Existing exp is not overwritten.
	exp := claims["exp"]
	MaxAgeMap(time.Hour, claims)
	if claims["exp"] != exp {
		t.Fatal("expected the existing exp to survive")
	}

	MaxAgeMap(15*time.Minute, nil) // must not panic.
}
