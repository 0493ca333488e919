package jwt

import (
	"time"

	"github.com/google/uuid"
)

// Sign signs and generates a new token based on the algorithm and a
// private key (a []byte secret for the HMAC family). The claims is the
// payload, the actual body of the token; note that the payload part is
// only encoded and signed, not encrypted, therefore it should NOT
// contain any private information. See the Verify function to decode
// and verify the result token.
//
// Example Code:
//
//	token, err := jwt.Sign(jwt.HS256, []byte("secret"), jwt.Map{
//	  "foo": "bar",
//	}, jwt.MaxAge(15*time.Minute))
func Sign(alg Alg, key PrivateKey, claims interface{}, opts ...SignOption) ([]byte, error) {
	return SignWithHeader(alg, key, claims, nil, opts...)
}

// SignWithHeader is like Sign but it accepts a custom header value
// instead of the fixed {"alg","typ"} one, e.g. a HeaderWithKid to tag
// the token with the key identifier it was signed with.
func SignWithHeader(alg Alg, key PrivateKey, claims interface{}, customHeader interface{}, opts ...SignOption) ([]byte, error) {
	if len(opts) > 0 {
		var standardClaims Claims
		for _, opt := range opts {
			opt(&standardClaims)
		}

		claims = Merge(claims, standardClaims)
	}

	return encodeToken(alg, key, claims, customHeader)
}

// SignOption is just a helper which sets the standard claims at the `Sign` function.
type SignOption func(c *Claims)

// WithClaims is a SignOption to set multiple standard claims
// (e.g. id, issuer, subject) at once, simply by passing the Claims struct.
//
// See MaxAge and GenerateID too.
func WithClaims(standardClaims Claims) SignOption {
	return func(c *Claims) {
		if standardClaims.MaxAge > time.Second {
			now := Clock()
			standardClaims.Expiry = now.Add(standardClaims.MaxAge).Unix()
			standardClaims.IssuedAt = now.Unix()
		}

		*c = standardClaims
	}
}

// MaxAge is a SignOption which sets the "exp" and "iat" standard claims
// relative to the current time. Values of a second or less are ignored.
//
// See the Clock package-level variable to modify
// the current time function.
func MaxAge(maxAge time.Duration) SignOption {
	return func(c *Claims) {
		if maxAge <= time.Second {
			return
		}

		now := Clock()
		c.Expiry = now.Add(maxAge).Unix()
		c.IssuedAt = now.Unix()
	}
}

// MaxAgeMap is a helper to set the "exp" and "iat" claims to a map claims.
// Usage:
//
//	claims := jwt.Map{"foo": "bar"}
//	jwt.MaxAgeMap(15*time.Minute, claims)
//	jwt.Sign(alg, key, claims)
func MaxAgeMap(maxAge time.Duration, claims Map) {
	if claims == nil {
		return
	}

	now := Clock()
	if claims["exp"] == nil {
		claims["exp"] = now.Add(maxAge).Unix()
		claims["iat"] = now.Unix()
	}
}

// GenerateID is a SignOption which sets the "jti" standard claim to a
// freshly generated random UUID (v4), giving each issued token a unique
// identity for replay detection or blocklisting.
func GenerateID() SignOption {
	return func(c *Claims) {
		c.ID = uuid.NewString()
	}
}
