package jwt

import (
	"errors"
	"fmt"
)

// ErrExpected indicates that a standard claim did not match the
// caller's expectation. The wrapped message names the claim that
// failed. Use errors.Is to check for it.
var ErrExpected = errors.New("jwt: field not match")

// Expected is a TokenValidator that matches standard claims against
// caller-supplied expectations: issuer, subject, id and the exact
// temporal fields compare for equality, while Audience checks
// membership: every expected audience value must be contained in the
// token's audience (a scalar "aud" on the wire is a one-element list).
//
// Only the non-zero fields are validated, so partial expectations work:
//
//	verifiedToken, err := jwt.Verify(alg, key, token, jwt.Expected{
//	    Issuer:   "my-auth-service",
//	    Audience: jwt.Audience{"api"},
//	})
type Expected Claims // Separate type for conceptual clarity, same structure as Claims.

var _ TokenValidator = Expected{}

// ValidateToken completes the TokenValidator interface.
// A previous validation error is respected and returned unchanged.
func (e Expected) ValidateToken(token []byte, c Claims, err error) error {
	if err != nil {
		return err
	}

	if v := e.NotBefore; v > 0 {
		if v != c.NotBefore {
			return fmt.Errorf("%w: nbf", ErrExpected)
		}
	}

	if v := e.IssuedAt; v > 0 {
		if v != c.IssuedAt {
			return fmt.Errorf("%w: iat", ErrExpected)
		}
	}

	if v := e.Expiry; v > 0 {
		if v != c.Expiry {
			return fmt.Errorf("%w: exp", ErrExpected)
		}
	}

	if v := e.ID; v != "" {
		if v != c.ID {
			return fmt.Errorf("%w: jti", ErrExpected)
		}
	}

	if v := e.Issuer; v != "" {
		if v != c.Issuer {
			return fmt.Errorf("%w: iss", ErrExpected)
		}
	}

	if v := e.Subject; v != "" {
		if v != c.Subject {
			return fmt.Errorf("%w: sub", ErrExpected)
		}
	}

	for _, expected := range e.Audience {
		if !containsAudience(c.Audience, expected) {
			return fmt.Errorf("%w: aud (%q)", ErrExpected, expected)
		}
	}

	return nil
}

func containsAudience(aud Audience, value string) bool {
	for _, v := range aud {
		if v == value {
			return true
		}
	}

	return false
}
