package jwt

import (
	"crypto"
	"crypto/rsa"
	_ "crypto/sha256" // ignore:lint
	_ "crypto/sha512"
	"errors"
)

var (
	// ErrTokenSignature indicates that the signature check has been
	// performed and failed: the token was tampered with, signed with a
	// different key or signed with a different algorithm. It is the
	// "checked and rejected" outcome, distinct from the errors below
	// which mean the check could not be attempted at all.
	ErrTokenSignature = errors.New("jwt: invalid token signature")
	// ErrInvalidKey indicates that the key's Go type does not match the
	// shape the algorithm requires, e.g. a string instead of []byte for
	// HMAC or an RSA key handed to an ECDSA algorithm. This is a usage
	// error, not a verification failure.
	ErrInvalidKey = errors.New("jwt: invalid key")
)

// PrivateKey is the signing-side key material.
// Its concrete type depends on the algorithm family:
// []byte for HMAC, *rsa.PrivateKey for RS/PS,
// *ecdsa.PrivateKey for ES256/384/512 and
// *secp256k1.PrivateKey for ES256K.
type PrivateKey = interface{}

// PublicKey is the verification-side key material.
// For HMAC it is the same shared []byte secret,
// for the asymmetric families the matching public key type
// (the private key is accepted too, its public part is used).
type PublicKey = interface{}

// Alg is a signing algorithm of the registry.
// Sign and Verify always operate on the exact
// "base64url(header).base64url(payload)" bytes, never on decoded JSON,
// because that is what the signature covers on the wire.
type Alg interface {
	// Name returns the "alg" header value, e.g. "HS256".
	// Names are case-sensitive per RFC 7518.
	Name() string
	// Sign returns the wire-form signature of headerAndPayload.
	// For the ECDSA families the wire form is the fixed-width r||s
	// concatenation, already normalized from the native DER output.
	Sign(key PrivateKey, headerAndPayload []byte) ([]byte, error)
	// Verify checks the wire-form signature against headerAndPayload.
	// It returns ErrTokenSignature when the signature is
	// cryptographically invalid and ErrInvalidKey when the key's type
	// does not fit the algorithm.
	Verify(key PublicKey, headerAndPayload []byte, signature []byte) error
}

// AlgParser is implemented by the asymmetric algorithms to parse
// PEM-encoded key material into their native key types. It is used by
// the Keys registry to load keypairs next to their algorithm.
type AlgParser interface {
	Parse(private, public []byte) (PrivateKey, PublicKey, error)
}

// The full, closed algorithm set. Initialized once, read-only afterwards.
var (
	// HS256, HS384, HS512: HMAC with SHA-2, shared []byte secret.
	// The secret should be at least as long as the hash output.
	HS256 Alg = &algHMAC{"HS256", crypto.SHA256}
	HS384 Alg = &algHMAC{"HS384", crypto.SHA384}
	HS512 Alg = &algHMAC{"HS512", crypto.SHA512}

	// RS256, RS384, RS512: RSA PKCS#1 v1.5 with SHA-2.
	RS256 Alg = &algRSA{"RS256", crypto.SHA256}
	RS384 Alg = &algRSA{"RS384", crypto.SHA384}
	RS512 Alg = &algRSA{"RS512", crypto.SHA512}

	// PS256, PS384, PS512: RSA-PSS with SHA-2.
	// Signing uses a salt as long as the hash output (RFC 7518 §3.5);
	// verification accepts any salt length for interoperability.
	PS256 Alg = newAlgRSAPSS("PS256", crypto.SHA256)
	PS384 Alg = newAlgRSAPSS("PS384", crypto.SHA384)
	PS512 Alg = newAlgRSAPSS("PS512", crypto.SHA512)

	// ES256, ES384, ES512: ECDSA over the NIST P-curves.
	// Wire signatures are r||s with both scalars left-padded to the
	// curve coordinate width: 32, 48 and 66 bytes respectively.
	ES256 Alg = &algECDSA{"ES256", crypto.SHA256, 32, 256}
	ES384 Alg = &algECDSA{"ES384", crypto.SHA384, 48, 384}
	ES512 Alg = &algECDSA{"ES512", crypto.SHA512, 66, 521}

	// ES256K: ECDSA over secp256k1 with SHA-256.
	// Not a NIST curve; implemented on the decred secp256k1 package.
	ES256K Alg = &algES256K{"ES256K", crypto.SHA256, 32}

	allAlgs = []Alg{
		HS256,
		HS384,
		HS512,
		RS256,
		RS384,
		RS512,
		PS256,
		PS384,
		PS512,
		ES256,
		ES384,
		ES512,
		ES256K,
	}
)

func newAlgRSAPSS(name string, hash crypto.Hash) *algRSAPSS {
	return &algRSAPSS{
		name: name,
		signOpts: &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       hash,
		},
		verifyOpts: &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthAuto,
			Hash:       hash,
		},
	}
}

// parseAlg returns the algorithm implementation by its case-sensitive
// name or nil when the name is not one of the registered identifiers.
// Unknown names must be treated as errors by the callers, never as a
// reason to fall back to the token's self-declared algorithm.
func parseAlg(name string) Alg {
	for _, alg := range allAlgs {
		if alg.Name() == name {
			return alg
		}
	}

	return nil
}
