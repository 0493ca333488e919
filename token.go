package jwt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissing indicates that an empty token was given to Verify.
	ErrMissing = errors.New("jwt: token is empty")
	// ErrTokenForm indicates a structurally broken token: not exactly
	// three dot-separated segments, a segment that is not valid
	// unpadded base64url or a header/payload that is not a JSON object.
	ErrTokenForm = errors.New("jwt: invalid token form")
	// ErrTokenAlg indicates that the token's self-declared algorithm
	// does not match the one the caller expects. The header's "alg" is
	// informational only; equality is enforced before any cryptographic
	// work, which is the primary algorithm-confusion defense.
	ErrTokenAlg = errors.New("jwt: unexpected token algorithm")
)

// A builtin list of fixed headers for the builtin algorithms
// (to boost the performance a bit).
// key = alg, value = the base64-encoded full header
// (when kid or any other extra headers are not required to be inside).
var fixedHeaders = make(map[string][]byte, len(allAlgs))

func init() {
	for _, alg := range allAlgs {
		fixedHeaders[alg.Name()] = Base64Encode(createHeaderRaw(alg.Name()))
	}
}

func encodeToken(alg Alg, key PrivateKey, claims interface{}, customHeader interface{}) ([]byte, error) {
	var (
		header []byte
		err    error
	)

	if customHeader != nil {
		header, err = createCustomHeader(customHeader)
		if err != nil {
			return nil, fmt.Errorf("encodeToken: header: %w", err)
		}
	} else {
		header = createHeader(alg.Name())
	}

	payload, err := createPayload(claims)
	if err != nil {
		return nil, fmt.Errorf("encodeToken: payload: %w", err)
	}

	headerPayload := joinParts(header, payload)

	signature, err := createSignature(alg, key, headerPayload)
	if err != nil {
		return nil, fmt.Errorf("encodeToken: signature: %w", err)
	}

	// header.payload.signature
	token := joinParts(headerPayload, signature)

	return token, nil
}

// decodeToken splits, decodes and verifies the given "token".
// The caller's expected algorithm is authoritative: the header is
// checked for equality against it before the signature is even looked
// at, so a token cannot pick its own verification algorithm.
// Returns the decoded header, payload and signature parts.
func decodeToken(alg Alg, key PublicKey, token []byte, headerValidator HeaderValidator) ([]byte, []byte, []byte, error) {
	parts := bytes.Split(token, sep)
	if len(parts) != 3 {
		return nil, nil, nil, ErrTokenForm
	}

	header := parts[0]
	payload := parts[1]
	signature := parts[2]
	if len(header) == 0 || len(payload) == 0 || len(signature) == 0 {
		return nil, nil, nil, ErrTokenForm
	}

	headerDecoded, err := Base64Decode(header)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: header: %v", ErrTokenForm, err)
	}

	if headerValidator != nil {
		// The validator may resolve the algorithm and key from the
		// header contents (e.g. kid-based lookup). Any values it
		// returns override the caller's.
		algName := ""
		if alg != nil {
			algName = alg.Name()
		}

		dynamicAlg, dynamicKey, err := headerValidator(algName, headerDecoded)
		if err != nil {
			return nil, nil, nil, err
		}

		if dynamicAlg != nil {
			alg = dynamicAlg
		}

		if dynamicKey != nil {
			key = dynamicKey
		}
	}

	if alg == nil {
		return nil, nil, nil, ErrTokenAlg
	}

	if headerValidator == nil {
		if err := compareHeader(alg.Name(), headerDecoded); err != nil {
			return nil, nil, nil, err
		}
	}

	signatureDecoded, err := Base64Decode(signature)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: signature: %v", ErrTokenForm, err)
	}

	headerPayload := token[:len(header)+1+len(payload)]
	if err := alg.Verify(key, headerPayload, signatureDecoded); err != nil {
		return nil, nil, nil, err
	}

	payloadDecoded, err := Base64Decode(payload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: payload: %v", ErrTokenForm, err)
	}

	return headerDecoded, payloadDecoded, signatureDecoded, nil
}

// compareHeader reports whether the decoded header declares the
// expected algorithm. The fast path is a byte comparison against the
// canonical fixed header; headers with reordered fields or extra
// members (e.g. "kid") fall back to a JSON decode. The lookup is
// deliberately case-sensitive on both keys and values per RFC 7515.
func compareHeader(alg string, headerDecoded []byte) error {
	if bytes.Equal(headerDecoded, createHeaderRaw(alg)) {
		return nil
	}

	// encoding/json matches struct fields case-insensitively, which
	// would accept {"ALG": ...}; a raw-message map keeps exact keys.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(headerDecoded, &fields); err != nil {
		return fmt.Errorf("%w: header: %v", ErrTokenForm, err)
	}

	rawAlg, ok := fields["alg"]
	if !ok {
		return ErrTokenAlg
	}

	var declaredAlg string
	if err := json.Unmarshal(rawAlg, &declaredAlg); err != nil {
		return fmt.Errorf("%w: header: alg: %v", ErrTokenForm, err)
	}

	if declaredAlg != alg {
		return ErrTokenAlg
	}

	if rawTyp, ok := fields["typ"]; ok {
		var typ string
		if err := json.Unmarshal(rawTyp, &typ); err != nil {
			return fmt.Errorf("%w: header: typ: %v", ErrTokenForm, err)
		}

		if typ != "JWT" {
			return fmt.Errorf("%w: unexpected typ %q", ErrTokenForm, typ)
		}
	}

	return nil
}

var (
	sep = []byte(".")
	pad = []byte("=")
)

func joinParts(parts ...[]byte) []byte {
	return bytes.Join(parts, sep)
}

func createHeader(alg string) []byte {
	if header, ok := fixedHeaders[alg]; ok && len(header) > 0 {
		return header
	}

	return Base64Encode(createHeaderRaw(alg))
}

func createHeaderRaw(alg string) []byte {
	return []byte(`{"alg":"` + alg + `","typ":"JWT"}`)
}

func createCustomHeader(header interface{}) ([]byte, error) {
	b, err := Marshal(header)
	if err != nil {
		return nil, err
	}

	return Base64Encode(b), nil
}

func createPayload(claims interface{}) ([]byte, error) {
	payload, err := Marshal(claims)
	if err != nil {
		return nil, err
	}

	return Base64Encode(payload), nil
}

func createSignature(alg Alg, key PrivateKey, headerAndPayload []byte) ([]byte, error) {
	signature, err := alg.Sign(key, headerAndPayload)
	if err != nil {
		return nil, err
	}

	return Base64Encode(signature), nil
}

// Base64Encode encodes "src" to the jwt base64 url format (no padding).
func Base64Encode(src []byte) []byte {
	buf := make([]byte, base64.URLEncoding.EncodedLen(len(src)))
	base64.URLEncoding.Encode(buf, src)

	return bytes.TrimRight(buf, string(pad)) // JWT: no trailing '='.
}

// Base64Decode decodes "src" from the jwt base64 url format.
func Base64Decode(src []byte) ([]byte, error) {
	if n := len(src) % 4; n > 0 {
		// JWT: Because of no trailing '=' let's suffix it
		// with the correct number of those '=' before decoding.
		src = append(src, bytes.Repeat(pad, 4-n)...)
	}

	buf := make([]byte, base64.URLEncoding.DecodedLen(len(src)))
	n, err := base64.URLEncoding.Decode(buf, src)
	return buf[:n], err
}

// UnverifiedToken holds the three decoded segments of a token whose
// signature has NOT been checked. Decode exists so callers can inspect
// the header (most commonly a "kid" member) and choose key material
// before committing to verification; nothing in it may be trusted.
type UnverifiedToken struct {
	Token     []byte // the original, compact-serialized token.
	Header    []byte // decoded header JSON.
	Payload   []byte // decoded payload JSON.
	Signature []byte // decoded signature bytes.
}

// Claims unmarshals the unverified payload into "dest".
func (t *UnverifiedToken) Claims(dest interface{}) error {
	return Unmarshal(t.Payload, dest)
}

// decodeJSONObjectSegment base64url-decodes a header or payload
// segment and checks that the result is a JSON object. Even without
// signature verification a token whose first two segments are not
// objects is malformed, never a token.
func decodeJSONObjectSegment(name string, segment []byte) ([]byte, error) {
	decoded, err := Base64Decode(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTokenForm, name, err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(decoded, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: %s: not a JSON object", ErrTokenForm, name)
	}

	return decoded, nil
}

// Decode splits and base64url-decodes the given token without
// verifying its signature. The token must still have the valid form:
// three non-empty segments with the header and payload decoding into
// JSON objects. Use Verify instead, unless the header must be
// inspected first to select key material.
func Decode(token []byte) (*UnverifiedToken, error) {
	parts := bytes.Split(token, sep)
	if len(parts) != 3 {
		return nil, ErrTokenForm
	}

	if len(parts[0]) == 0 || len(parts[1]) == 0 || len(parts[2]) == 0 {
		return nil, ErrTokenForm
	}

	header, err := decodeJSONObjectSegment("header", parts[0])
	if err != nil {
		return nil, err
	}

	payload, err := decodeJSONObjectSegment("payload", parts[1])
	if err != nil {
		return nil, err
	}

	signature, err := Base64Decode(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrTokenForm, err)
	}

	tok := &UnverifiedToken{
		Token:     token,
		Header:    header,
		Payload:   payload,
		Signature: signature,
	}
	return tok, nil
}
