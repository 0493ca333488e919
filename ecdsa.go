package jwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// algECDSA implements the Alg interface for the ES256, ES384 and ES512
// algorithms: ECDSA over the P-256, P-384 and P-521 curves.
//
// The curve math natively consumes and produces ASN.1 DER signatures;
// the JWS wire form is the fixed-width r||s concatenation instead, so
// both Sign and Verify route through the signature codec (sigenc.go).
type algECDSA struct {
	name      string
	hasher    crypto.Hash
	keySize   int // coordinate width in bytes: 32, 48 or 66.
	curveBits int
}

// Parse implements the AlgParser interface.
// Either private or public can be empty, but at least one should be provided.
func (a *algECDSA) Parse(private, public []byte) (privateKey PrivateKey, publicKey PublicKey, err error) {
	if len(private) > 0 {
		privateKey, err = ParsePrivateKeyECDSA(private)
		if err != nil {
			return nil, nil, fmt.Errorf("ECDSA: private key: %w", err)
		}
	}

	if len(public) > 0 {
		publicKey, err = ParsePublicKeyECDSA(public)
		if err != nil {
			return nil, nil, fmt.Errorf("ECDSA: public key: %w", err)
		}
	}

	return
}

func (a *algECDSA) Name() string {
	return a.name
}

func (a *algECDSA) Sign(key PrivateKey, headerAndPayload []byte) ([]byte, error) {
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	if privateKey.Curve.Params().BitSize != a.curveBits {
		return nil, ErrInvalidKey
	}

	h := a.hasher.New()
	// header.payload
	_, err := h.Write(headerAndPayload)
	if err != nil {
		return nil, err
	}

	hashed := h.Sum(nil)
	der, err := ecdsa.SignASN1(rand.Reader, privateKey, hashed)
	if err != nil {
		return nil, err
	}

	return signatureToJWS(der, a.keySize)
}

func (a *algECDSA) Verify(key PublicKey, headerAndPayload []byte, signature []byte) error {
	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		if privateKey, ok := key.(*ecdsa.PrivateKey); ok {
			publicKey = &privateKey.PublicKey
		} else {
			return ErrInvalidKey
		}
	}

	if publicKey.Curve.Params().BitSize != a.curveBits {
		return ErrInvalidKey
	}

	// Reject malformed wire signatures before any curve math runs.
	der, err := signatureFromJWS(signature, a.keySize)
	if err != nil {
		return err
	}

	h := a.hasher.New()
	// header.payload
	_, err = h.Write(headerAndPayload)
	if err != nil {
		return err
	}

	hashed := h.Sum(nil)
	if !ecdsa.VerifyASN1(publicKey, hashed, der) {
		return ErrTokenSignature
	}

	return nil
}

// Key Helpers.

// MustLoadECDSA accepts private and public PEM file paths
// and returns a pair of private and public ECDSA keys.
// Pass the returned private key to Sign functions and
// the public key to Verify functions.
//
// It panics on errors.
func MustLoadECDSA(privateKeyFilename, publicKeyFilename string) (*ecdsa.PrivateKey, *ecdsa.PublicKey) {
	privateKey, err := LoadPrivateKeyECDSA(privateKeyFilename)
	if err != nil {
		panic(err)
	}

	publicKey, err := LoadPublicKeyECDSA(publicKeyFilename)
	if err != nil {
		panic(err)
	}

	return privateKey, publicKey
}

// LoadPrivateKeyECDSA loads and parses a PEM-encoded ECDSA private key
// (SEC1 or PKCS#8) from a file.
func LoadPrivateKeyECDSA(filename string) (*ecdsa.PrivateKey, error) {
	b, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return ParsePrivateKeyECDSA(b)
}

// LoadPublicKeyECDSA loads and parses a PEM-encoded ECDSA public key
// (PKIX or an x509 certificate) from a file.
func LoadPublicKeyECDSA(filename string) (*ecdsa.PublicKey, error) {
	b, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return ParsePublicKeyECDSA(b)
}

// ParsePrivateKeyECDSA decodes and parses PEM-encoded ECDSA private key
// bytes, accepting both the SEC1 ("EC PRIVATE KEY") and PKCS#8
// ("PRIVATE KEY") container forms.
func ParsePrivateKeyECDSA(key []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: private key: malformed or missing PEM format (ECDSA)", ErrKeyFormat)
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: private key: %v", ErrKeyFormat, err)
		}

		pKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key: expected a type of *ecdsa.PrivateKey", ErrKeyFormat)
		}

		privateKey = pKey
	}

	return privateKey, nil
}

// ParsePublicKeyECDSA decodes and parses PEM-encoded ECDSA public key bytes.
// The input may be a PKIX public key or a certificate carrying one.
func ParsePublicKeyECDSA(key []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: public key: malformed or missing PEM format (ECDSA)", ErrKeyFormat)
	}

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if cert, err := x509.ParseCertificate(block.Bytes); err == nil {
			parsedKey = cert.PublicKey
		} else {
			return nil, fmt.Errorf("%w: public key: %v", ErrKeyFormat, err)
		}
	}

	publicKey, ok := parsedKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key: expected a type of *ecdsa.PublicKey", ErrKeyFormat)
	}

	return publicKey, nil
}
