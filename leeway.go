package jwt

import (
	"errors"
	"time"
)

// Leeway is a TokenValidator which re-evaluates the temporal claims
// with the given clock-skew tolerance. The builtin validation runs with
// zero tolerance; when it reports a temporal failure, this validator
// repeats the exact same checks allowing "leeway" of drift on each
// boundary: "exp" may lie up to leeway in the past, "nbf" and "iat" up
// to leeway in the future.
//
//	// absorb up to 30 seconds of clock drift between issuer and verifier.
//	verifiedToken, err := jwt.Verify(alg, key, token, jwt.Leeway(30*time.Second))
func Leeway(leeway time.Duration) TokenValidatorFunc {
	return func(_ []byte, standardClaims Claims, err error) error {
		switch {
		case errors.Is(err, ErrExpired),
			errors.Is(err, ErrNotValidYet),
			errors.Is(err, ErrIssuedInTheFuture):
			return validateClaims(Clock(), leeway, standardClaims)
		}

		return err
	}
}

// Future is a TokenValidator which tolerates an "iat" claim up to "dur"
// in the future without relaxing the "exp" and "nbf" checks. Whether a
// future issued-at should fail verification at all differs between JWT
// implementations; here it fails by default, and this validator is the
// switch for deployments whose issuer clocks are known to run ahead.
func Future(dur time.Duration) TokenValidatorFunc {
	return func(_ []byte, standardClaims Claims, err error) error {
		if errors.Is(err, ErrIssuedInTheFuture) {
			if Clock().Add(dur).Round(time.Second).Unix() < standardClaims.IssuedAt {
				return ErrIssuedInTheFuture
			}

			return nil
		}

		return err
	}
}
