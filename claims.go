package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrExpired indicates that the token is used after the expiry time
	// indicated in the "exp" claim, beyond any configured leeway.
	ErrExpired = errors.New("jwt: token expired")
	// ErrNotValidYet indicates that the token is used before the time
	// indicated in the "nbf" claim.
	ErrNotValidYet = errors.New("jwt: token not valid yet")
	// ErrIssuedInTheFuture indicates that the "iat" claim is in the future.
	// This is a stale-token sanity check, not a security boundary; the
	// Future validator relaxes it when issuer clocks are known to drift.
	ErrIssuedInTheFuture = errors.New("jwt: token issued in the future")
)

// Map is just a type alias, a shortcut of map[string]interface{}.
type Map = map[string]interface{}

// Marshal and Unmarshal are the JSON codec hooks of this package.
// Override Unmarshal with UnmarshalWithRequired to enforce the
// `json:"...,required"` struct tag on claim destinations.
var (
	Marshal                 = json.Marshal
	Unmarshal UnmarshalFunc = json.Unmarshal
)

// UnmarshalFunc is the function signature of the Unmarshal variable.
type UnmarshalFunc = func(payload []byte, dest interface{}) error

// Audience is the "aud" claim value. RFC 7519 allows it on the wire as
// either a single string or an array of strings; this type accepts both
// when decoding and re-emits the scalar form for a single element, so a
// token round-trips byte-identically.
type Audience []string

// UnmarshalJSON implements json.Unmarshaler.
func (aud *Audience) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*aud = Audience{single}
		return nil
	case '[':
		var many []string
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*aud = many
		return nil
	case 'n': // null
		*aud = nil
		return nil
	default:
		return fmt.Errorf("aud: expected a string or an array of strings")
	}
}

// MarshalJSON implements json.Marshaler.
func (aud Audience) MarshalJSON() ([]byte, error) {
	if len(aud) == 1 {
		return json.Marshal(aud[0])
	}

	return json.Marshal([]string(aud))
}

// Claims holds the standard JWT claims (payload fields).
// All fields are optional on the wire; any claim outside this set
// passes through the codec untouched and can be bound with a custom
// destination struct or a Map.
type Claims struct {
	// NotBefore is the "nbf" claim: seconds since epoch before which
	// the token must not be accepted.
	NotBefore int64 `json:"nbf,omitempty"`
	// IssuedAt is the "iat" claim: seconds since epoch at which the
	// token was issued.
	IssuedAt int64 `json:"iat,omitempty"`
	// Expiry is the "exp" claim: seconds since epoch after which the
	// token must not be accepted.
	Expiry int64 `json:"exp,omitempty"`
	// ID is the "jti" claim, a unique identifier useful to
	// differentiate tokens with otherwise identical content.
	ID string `json:"jti,omitempty"`
	// Issuer is the "iss" claim, the party that issued the token.
	Issuer string `json:"iss,omitempty"`
	// Subject is the "sub" claim, the party the token's statements
	// are about.
	Subject string `json:"sub,omitempty"`
	// Audience is the "aud" claim, the intended recipients.
	Audience Audience `json:"aud,omitempty"`

	// MaxAge is not part of any JSON result.
	// It's a helper field to set the "exp" and "iat" claims at once
	// through the Sign function.
	//
	// See the Clock package-level variable to modify
	// the current time function.
	MaxAge time.Duration `json:"-"`
}

// ExpiresAt returns the Expiry as a time.Time value
// or the zero value when the claim is absent.
func (c Claims) ExpiresAt() time.Time {
	if c.Expiry <= 0 {
		return time.Time{}
	}

	return time.Unix(c.Expiry, 0)
}

// Timeleft reports the remaining lifetime of the token
// or zero when it carries no expiry or has already expired.
func (c Claims) Timeleft() time.Duration {
	if c.Expiry <= 0 {
		return 0
	}

	if d := c.Expiry - Clock().Round(time.Second).Unix(); d > 0 {
		return time.Duration(d) * time.Second
	}

	return 0
}

// Age reports the duration since the token was issued
// or zero when it has no "iat" claim.
func (c Claims) Age() time.Duration {
	if c.IssuedAt <= 0 {
		return 0
	}

	if d := Clock().Round(time.Second).Unix() - c.IssuedAt; d > 0 {
		return time.Duration(d) * time.Second
	}

	return 0
}

// validateClaims checks the temporal claims that are present, in a
// fixed, deterministic order: exp, then nbf, then iat. The "leeway"
// tolerance absorbs clock drift between issuer and verifier on each
// applicable boundary.
func validateClaims(t time.Time, leeway time.Duration, claims Claims) error {
	now := t.Round(time.Second).Unix()
	skew := int64(leeway / time.Second)

	if claims.Expiry > 0 {
		if now > claims.Expiry+skew {
			return ErrExpired
		}
	}

	if claims.NotBefore > 0 {
		if now+skew < claims.NotBefore {
			return ErrNotValidYet
		}
	}

	if claims.IssuedAt > 0 {
		if now+skew < claims.IssuedAt {
			return ErrIssuedInTheFuture
		}
	}

	return nil
}

// Merge accepts two claim structs or maps
// and returns a flattened JSON result of both.
// Used on the Sign function to apply standard claims
// next to the caller's custom ones, e.g.
//
//	claims := jwt.Map{"foo": "bar"}
//	jwt.Sign(alg, key, jwt.Merge(claims, jwt.Claims{
//		MaxAge:  15 * time.Minute,
//		Issuer:  "an-issuer",
//	}))
func Merge(claims interface{}, other interface{}) json.RawMessage {
	claimsB, err := Marshal(claims)
	if err != nil {
		return nil
	}

	otherB, err := Marshal(other)
	if err != nil {
		return nil
	}

	if len(otherB) <= 2 { // "{}" or empty.
		return claimsB
	}

	if len(claimsB) <= 2 {
		return otherB
	}

	raw := append(otherB[:len(otherB)-1], ',')
	raw = append(raw, claimsB[1:]...)
	return raw
}
