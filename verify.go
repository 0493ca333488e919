package jwt

import (
	"encoding/json"
	"fmt"
)

// TokenValidator provides further claims validation after the
// signature has been verified and the builtin temporal checks ran.
// Validators run in registration order; each receives the outcome of
// the previous step through "err" and may keep it, replace it or, for
// advisory checks like Leeway and Future, clear it.
type TokenValidator interface {
	// ValidateToken accepts the token, the standard claims
	// extracted from the payload and any error produced by the
	// builtin validation or a previous validator in the chain.
	ValidateToken(token []byte, standardClaims Claims, err error) error
}

// TokenValidatorFunc is the functional form of a TokenValidator.
type TokenValidatorFunc func(token []byte, standardClaims Claims, err error) error

// ValidateToken completes the TokenValidator interface.
func (fn TokenValidatorFunc) ValidateToken(token []byte, standardClaims Claims, err error) error {
	return fn(token, standardClaims, err)
}

// HeaderValidator inspects the decoded header before signature
// verification and may resolve the algorithm and public key from its
// contents, most commonly through a "kid" member (see Keys). The "alg"
// argument is the caller's expected algorithm name, empty when the
// caller delegates the choice entirely to the validator.
type HeaderValidator func(alg string, headerDecoded []byte) (Alg, PublicKey, error)

// Verify decodes and verifies the given "token" against the expected
// algorithm and key. The caller's "alg" is authoritative over the
// token's self-declared one. The pipeline order is fixed: token form,
// header algorithm equality, signature, payload decode, temporal claims
// (exp, nbf, iat), then the given validators; no claim is surfaced
// before the signature has been verified.
//
// Example Code:
//
//	verifiedToken, err := jwt.Verify(jwt.HS256, []byte("secret"), token)
//	if err != nil { ... }
//	var claims map[string]interface{}
//	err = verifiedToken.Claims(&claims)
func Verify(alg Alg, key PublicKey, token []byte, validators ...TokenValidator) (*VerifiedToken, error) {
	return verifyToken(alg, key, token, nil, validators...)
}

// VerifyWithHeaderValidator is like Verify but the header is passed to
// the given "headerValidator" which may resolve the algorithm and key
// dynamically (kid-based lookup). When the validator returns a non-nil
// algorithm or key, those are used in place of the caller's.
func VerifyWithHeaderValidator(alg Alg, key PublicKey, token []byte, headerValidator HeaderValidator, validators ...TokenValidator) (*VerifiedToken, error) {
	return verifyToken(alg, key, token, headerValidator, validators...)
}

func verifyToken(alg Alg, key PublicKey, token []byte, headerValidator HeaderValidator, validators ...TokenValidator) (*VerifiedToken, error) {
	if len(token) == 0 {
		return nil, ErrMissing
	}

	header, payload, signature, err := decodeToken(alg, key, token, headerValidator)
	if err != nil {
		return nil, err
	}

	var standardClaims Claims
	if err := json.Unmarshal(payload, &standardClaims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrTokenForm, err)
	}

	err = validateClaims(Clock(), 0, standardClaims)
	for _, validator := range validators {
		if validator == nil {
			continue
		}

		// A validator can override the builtin outcome, e.g. Leeway
		// forgives a boundary expiry; on its first non-nil error the
		// chain stops.
		if err = validator.ValidateToken(token, standardClaims, err); err != nil {
			break
		}
	}

	if err != nil {
		return nil, err
	}

	verifiedTok := &VerifiedToken{
		Token:          token,
		Header:         header,
		Payload:        payload,
		Signature:      signature,
		StandardClaims: standardClaims,
	}
	return verifiedTok, nil
}

// VerifiedToken holds the decoded parts of a token whose signature and
// standard claims have been verified. Its presence is the guarantee
// that every step of the verification pipeline has passed.
type VerifiedToken struct {
	Token          []byte // the original token.
	Header         []byte // decoded header JSON.
	Payload        []byte // decoded payload JSON.
	Signature      []byte // decoded, verified signature bytes.
	StandardClaims Claims
}

// Claims unmarshals the verified payload into "dest", which may be a
// struct with json tags or a Map. Set the package-level Unmarshal
// variable to UnmarshalWithRequired to enforce required claim fields.
func (t *VerifiedToken) Claims(dest interface{}) error {
	return Unmarshal(t.Payload, dest)
}
