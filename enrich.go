package jwt

import (
	"encoding/json"
	"fmt"
)

// Enrich creates a new token out of an existing one by merging
// "extraClaims" into its payload and re-signing with the same algorithm
// the original token declares. A payload cannot be modified in place
// because the signature covers the whole header.payload content, so the
// result is a completely new token with a new signature.
//
// The original token is NOT verified here; verify it first when it
// comes from an untrusted party. The extra claims win over the original
// ones on key collisions.
func Enrich(key PrivateKey, accessToken []byte, extraClaims interface{}) ([]byte, error) {
	decodedToken, err := Decode(accessToken)
	if err != nil {
		return nil, fmt.Errorf("enrich: failed to parse original token: %w", err)
	}

	return decodedToken.Enrich(key, extraClaims)
}

// Enrich merges "extraClaims" into this unverified token's payload and
// signs the result with the token's own header algorithm. See the
// package-level Enrich function.
func (t *UnverifiedToken) Enrich(key PrivateKey, extraClaims interface{}) ([]byte, error) {
	var header HeaderWithKid
	if err := json.Unmarshal(t.Header, &header); err != nil {
		return nil, fmt.Errorf("enrich: header: %w", err)
	}

	alg := parseAlg(header.Alg)
	if alg == nil {
		return nil, fmt.Errorf("enrich: %w: %q", ErrTokenAlg, header.Alg)
	}

	merged := Merge(extraClaims, json.RawMessage(t.Payload))
	if merged == nil {
		return nil, fmt.Errorf("enrich: failed to merge claims")
	}

	return encodeToken(alg, key, merged, nil)
}
