package jwt

import "errors"

var (
	// ErrEmptyKid fires when the header is missing a "kid" field.
	ErrEmptyKid = errors.New("jwt: kid is empty")
	// ErrUnknownKid fires when the header has a "kid" field
	// but it does not match any of the registered ones.
	ErrUnknownKid = errors.New("jwt: unknown kid")
)

type (
	// HeaderWithKid represents a simple header part which
	// holds the "kid" and "alg" fields.
	HeaderWithKid struct {
		Kid string `json:"kid"`
		Alg string `json:"alg"`
		Typ string `json:"typ,omitempty"`
	}

	// Key pairs a key identifier with its algorithm and key material.
	// The core codec passes "kid" through unvalidated; this registry is
	// the layer that gives it meaning.
	Key struct {
		ID      string
		Alg     Alg
		Public  PublicKey
		Private PrivateKey
	}

	// Keys is a map which holds the key id and a key pair.
	// Register the keys once at startup, the map is not safe for
	// concurrent writes. See its SignToken, VerifyToken and
	// ValidateHeader methods.
	//
	// Usage:
	//
	//	keys := make(jwt.Keys)
	//	keys.Register(jwt.RS256, "api", apiPubKey, apiPrivKey)
	//	keys.Register(jwt.ES256K, "chain", chainPubKey, nil)
	//	...
	//	token, err := keys.SignToken("api", myClaims{...}, jwt.MaxAge(15*time.Minute))
	//	...
	//	var c myClaims
	//	err = keys.VerifyToken(token, &c)
	Keys map[string]*Key
)

// Get returns the key based on its id.
func (keys Keys) Get(kid string) (*Key, bool) {
	k, ok := keys[kid]
	return k, ok
}

// Register registers a keypair to a unique identifier per key.
func (keys Keys) Register(alg Alg, kid string, pubKey PublicKey, privKey PrivateKey) {
	keys[kid] = &Key{
		ID:      kid,
		Alg:     alg,
		Public:  pubKey,
		Private: privKey,
	}
}

// RegisterPEM parses PEM-encoded key material through the algorithm's
// own parser (see AlgParser) and registers the result under "kid".
func (keys Keys) RegisterPEM(alg Alg, kid string, public, private []byte) error {
	parser, ok := alg.(AlgParser)
	if !ok {
		return ErrInvalidKey
	}

	privKey, pubKey, err := parser.Parse(private, public)
	if err != nil {
		return err
	}

	keys.Register(alg, kid, pubKey, privKey)
	return nil
}

// ValidateHeader validates the given decoded header value based on the
// registered keys. It completes the HeaderValidator contract, resolving
// the algorithm and public key from the header's "kid" member.
func (keys Keys) ValidateHeader(alg string, headerDecoded []byte) (Alg, PublicKey, error) {
	var h HeaderWithKid

	if err := Unmarshal(headerDecoded, &h); err != nil {
		return nil, nil, err
	}

	if h.Kid == "" {
		return nil, nil, ErrEmptyKid
	}

	key, ok := keys.Get(h.Kid)
	if !ok {
		return nil, nil, ErrUnknownKid
	}

	if h.Alg != key.Alg.Name() {
		return nil, nil, ErrTokenAlg
	}

	// If for some reason a specific alg was expected by the caller then check that as well.
	if alg != "" && alg != h.Alg {
		return nil, nil, ErrTokenAlg
	}

	return key.Alg, key.Public, nil
}

// SignToken signs the "claims" with the key registered under "kid",
// stamping the header with the key identifier.
func (keys Keys) SignToken(kid string, claims interface{}, opts ...SignOption) ([]byte, error) {
	k, ok := keys.Get(kid)
	if !ok {
		return nil, ErrUnknownKid
	}

	return SignWithHeader(k.Alg, k.Private, claims, HeaderWithKid{
		Kid: kid,
		Alg: k.Alg.Name(),
		Typ: "JWT",
	}, opts...)
}

// VerifyToken verifies the "token" with the key its header's "kid"
// points to and binds the custom claims to "claimsPtr".
func (keys Keys) VerifyToken(token []byte, claimsPtr interface{}, validators ...TokenValidator) error {
	verifiedToken, err := VerifyWithHeaderValidator(nil, nil, token, keys.ValidateHeader, validators...)
	if err != nil {
		return err
	}

	return verifiedToken.Claims(claimsPtr)
}
