package jwt

import "encoding/json"

// TokenPair is the standard OAuth2-style JSON envelope of an access and
// a refresh token, ready to be sent to clients as-is. The tokens are
// kept as raw messages so no re-encoding of the compact form happens.
//
// Example JSON output:
//
//	{
//	  "access_token": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...",
//	  "refresh_token": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
//	}
type TokenPair struct {
	AccessToken  json.RawMessage `json:"access_token,omitempty"`
	RefreshToken json.RawMessage `json:"refresh_token,omitempty"`
}

// NewTokenPair builds a TokenPair from raw token bytes, e.g.
//
//	accessToken, _ := jwt.Sign(alg, key, accessClaims, jwt.MaxAge(15*time.Minute))
//	refreshToken, _ := jwt.Sign(alg, key, refreshClaims, jwt.MaxAge(7*24*time.Hour))
//	pair := jwt.NewTokenPair(accessToken, refreshToken)
//
// Either token can be empty; the omitempty tags exclude it from the output.
func NewTokenPair(accessToken, refreshToken []byte) TokenPair {
	return TokenPair{
		AccessToken:  BytesQuote(accessToken),
		RefreshToken: BytesQuote(refreshToken),
	}
}

// BytesQuote wraps a byte slice in double quotes,
// making it a valid JSON string value.
func BytesQuote(b []byte) []byte {
	dst := make([]byte, len(b)+2)
	dst[0] = '"'
	copy(dst[1:], b)
	dst[len(dst)-1] = '"'
	return dst
}
