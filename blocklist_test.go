package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestBlocklist(t *testing.T) {
	blocklist := NewBlocklist(0)

	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, MaxAge(10*time.Minute))
	if err != nil {
		t.Fatal(err)
	}

	verifiedToken, err := Verify(testAlg, testSecret, token, blocklist)
	if err != nil {
		t.Fatal(err)
	}

	blocklist.InvalidateToken(verifiedToken.Token, verifiedToken.StandardClaims.Expiry)

	if !blocklist.Has(token) {
		t.Fatal("expected the token to be blocked")
	}

	if blocklist.Count() != 1 {
		t.Fatalf("expected 1 blocked token but got: %d", blocklist.Count())
	}

	if _, err = Verify(testAlg, testSecret, token, blocklist); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked but got: %v", err)
	}

	blocklist.Del(token)
	if _, err = Verify(testAlg, testSecret, token, blocklist); err != nil {
		t.Fatal(err)
	}
}

// An expired blocked token is removed on sight: the expiry already
// rejects it, keeping the entry would only leak memory.
func TestBlocklistRemovesExpired(t *testing.T) {
	blocklist := NewBlocklist(0)

	expiry := Clock().Add(-time.Minute).Unix()
	token, err := Sign(testAlg, testSecret, Map{"username": "alice"}, WithClaims(Claims{Expiry: expiry}))
	if err != nil {
		t.Fatal(err)
	}

	blocklist.InvalidateToken(token, expiry)

	if _, err = Verify(testAlg, testSecret, token, blocklist); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired but got: %v", err)
	}

	if blocklist.Has(token) {
		t.Fatal("expected the expired token to be dropped from the blocklist")
	}
}

// Revoking a token must not alias the caller's buffer: the entry stays
// intact when the buffer is reused for something else afterwards.
func TestBlocklistInvalidateTokenBufferReuse(t *testing.T) {
	blocklist := NewBlocklist(0)

	buf := []byte("token-one")
	blocklist.InvalidateToken(buf, Clock().Add(time.Hour).Unix())

	copy(buf, []byte("token-two"))

	if !blocklist.Has([]byte("token-one")) {
		t.Fatal("expected the originally revoked token to stay blocked")
	}

	if blocklist.Has(buf) {
		t.Fatal("expected the reused buffer's new content to not be blocked")
	}
}

func TestBlocklistGC(t *testing.T) {
	now := time.Now().Round(time.Second)
	Clock = func() time.Time { return now }
	defer func() { Clock = time.Now }()

	blocklist := NewBlocklist(0)
	blocklist.InvalidateToken([]byte("expired"), now.Add(-time.Minute).Unix())
	blocklist.InvalidateToken([]byte("live"), now.Add(time.Minute).Unix())

	if removed := blocklist.GC(); removed != 1 {
		t.Fatalf("expected 1 removed entry but got: %d", removed)
	}

	if blocklist.Has([]byte("expired")) || !blocklist.Has([]byte("live")) {
		t.Fatal("expected only the live entry to survive")
	}
}
