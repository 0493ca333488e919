package jwt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestValidateClaims(t *testing.T) {
	now := time.Now().Round(time.Second)

	var tests = []struct {
		name   string
		leeway time.Duration
		claims Claims
		err    error
	}{
		{"no temporal claims", 0, Claims{Subject: "alice"}, nil},
		{"live token", 0, Claims{Expiry: now.Add(time.Minute).Unix()}, nil},
		{"exp on the boundary", 0, Claims{Expiry: now.Unix()}, nil},
		{"expired", 0, Claims{Expiry: now.Add(-time.Minute).Unix()}, ErrExpired},
		{"expired within leeway", time.Minute + time.Second, Claims{Expiry: now.Add(-time.Minute).Unix()}, nil},
		{"exp exactly leeway ago", time.Minute, Claims{Expiry: now.Add(-time.Minute).Unix()}, nil},
		{"exp a second beyond leeway", time.Minute, Claims{Expiry: now.Add(-time.Minute - time.Second).Unix()}, ErrExpired},
		{"not yet valid", 0, Claims{NotBefore: now.Add(time.Minute).Unix()}, ErrNotValidYet},
		{"nbf within leeway", 2 * time.Minute, Claims{NotBefore: now.Add(time.Minute).Unix()}, nil},
		{"nbf reached", 0, Claims{NotBefore: now.Add(-time.Second).Unix()}, nil},
		{"issued in the future", 0, Claims{IssuedAt: now.Add(time.Minute).Unix()}, ErrIssuedInTheFuture},
		{"iat within leeway", 2 * time.Minute, Claims{IssuedAt: now.Add(time.Minute).Unix()}, nil},
		{"iat in the past", 0, Claims{IssuedAt: now.Add(-time.Hour).Unix()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateClaims(now, tt.leeway, tt.claims); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v but got: %v", tt.err, err)
			}
		})
	}
}

// The checks run in a fixed order, so a token that is both expired and
// not yet valid reports the expiry first.
func TestValidateClaimsOrder(t *testing.T) {
	now := time.Now()
	claims := Claims{
		Expiry:    now.Add(-time.Minute).Unix(),
		NotBefore: now.Add(time.Minute).Unix(),
		IssuedAt:  now.Add(time.Minute).Unix(),
	}

	if err := validateClaims(now, 0, claims); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired but got: %v", err)
	}
}

func TestAudienceJSON(t *testing.T) {
	var tests = []struct {
		in   string
		want Audience
		out  string
	}{
		{`"api"`, Audience{"api"}, `"api"`},
		{`["api"]`, Audience{"api"}, `"api"`},
		{`["api","web"]`, Audience{"api", "web"}, `["api","web"]`},
		{`null`, nil, `null`},
	}

	for _, tt := range tests {
		var aud Audience
		if err := json.Unmarshal([]byte(tt.in), &aud); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}

		if len(aud) != len(tt.want) {
			t.Fatalf("%s: expected %v but got %v", tt.in, tt.want, aud)
		}
		for i := range aud {
			if aud[i] != tt.want[i] {
				t.Fatalf("%s: expected %v but got %v", tt.in, tt.want, aud)
			}
		}

		b, err := json.Marshal(aud)
		if err != nil {
			t.Fatal(err)
		}

		if string(b) != tt.out {
			t.Fatalf("%s: expected to marshal as %s but got %s", tt.in, tt.out, b)
		}
	}

	var aud Audience
	if err := json.Unmarshal([]byte(`42`), &aud); err == nil {
		t.Fatal("expected a number to be rejected")
	}
}

func TestClaimsHelpers(t *testing.T) {
	now := time.Now().Round(time.Second)
	Clock = func() time.Time { return now }
	defer func() { Clock = time.Now }()

	c := Claims{
		IssuedAt: now.Add(-2 * time.Minute).Unix(),
		Expiry:   now.Add(3 * time.Minute).Unix(),
	}

	if got := c.ExpiresAt(); !got.Equal(time.Unix(c.Expiry, 0)) {
		t.Fatalf("unexpected ExpiresAt: %v", got)
	}

	if got := c.Timeleft(); got != 3*time.Minute {
		t.Fatalf("expected 3m timeleft but got: %v", got)
	}

	if got := c.Age(); got != 2*time.Minute {
		t.Fatalf("expected 2m age but got: %v", got)
	}

	var zero Claims
	if !zero.ExpiresAt().IsZero() || zero.Timeleft() != 0 || zero.Age() != 0 {
		t.Fatal("expected zero helpers on empty claims")
	}
}

func TestMerge(t *testing.T) {
	var tests = []struct {
		claims interface{}
		other  interface{}
		want   string
	}{
		{Map{"foo": "bar"}, Claims{Issuer: "issuer"}, `{"iss":"issuer","foo":"bar"}`},
		{Map{"foo": "bar"}, Claims{}, `{"foo":"bar"}`},
		{Map{}, Claims{Issuer: "issuer"}, `{"iss":"issuer"}`},
	}

	for i, tt := range tests {
		if got := Merge(tt.claims, tt.other); string(got) != tt.want {
			t.Fatalf("[%d] expected %s but got %s", i, tt.want, got)
		}
	}
}
