package jwt

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// algRSA implements the Alg interface for the RS256, RS384 and RS512
// algorithms: RSA signatures with PKCS#1 v1.5 padding over SHA-2.
// The native signature output already is the JWS wire form, so no
// normalization step is involved.
type algRSA struct {
	name   string
	hasher crypto.Hash
}

// Parse implements the AlgParser interface.
// Either private or public can be empty, but at least one should be provided.
func (a *algRSA) Parse(private, public []byte) (privateKey PrivateKey, publicKey PublicKey, err error) {
	if len(private) > 0 {
		privateKey, err = ParsePrivateKeyRSA(private)
		if err != nil {
			return nil, nil, fmt.Errorf("RSA: private key: %w", err)
		}
	}

	if len(public) > 0 {
		publicKey, err = ParsePublicKeyRSA(public)
		if err != nil {
			return nil, nil, fmt.Errorf("RSA: public key: %w", err)
		}
	}

	return
}

func (a *algRSA) Name() string {
	return a.name
}

func (a *algRSA) Sign(key PrivateKey, headerAndPayload []byte) ([]byte, error) {
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := a.hasher.New()
	// header.payload
	_, err := h.Write(headerAndPayload)
	if err != nil {
		return nil, err
	}

	hashed := h.Sum(nil)
	return rsa.SignPKCS1v15(rand.Reader, privateKey, a.hasher, hashed)
}

func (a *algRSA) Verify(key PublicKey, headerAndPayload []byte, signature []byte) error {
	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		if privateKey, ok := key.(*rsa.PrivateKey); ok {
			publicKey = &privateKey.PublicKey
		} else {
			return ErrInvalidKey
		}
	}

	h := a.hasher.New()
	// header.payload
	_, err := h.Write(headerAndPayload)
	if err != nil {
		return err
	}

	hashed := h.Sum(nil)
	if err = rsa.VerifyPKCS1v15(publicKey, a.hasher, hashed, signature); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	}

	return nil
}

// Key Helpers.

// MustLoadRSA accepts private and public PEM file paths
// and returns a pair of private and public RSA keys.
// Pass the returned private key to Sign functions and
// the public key to Verify functions.
//
// It panics on errors.
func MustLoadRSA(privateKeyFilename, publicKeyFilename string) (*rsa.PrivateKey, *rsa.PublicKey) {
	privateKey, err := LoadPrivateKeyRSA(privateKeyFilename)
	if err != nil {
		panic(err)
	}

	publicKey, err := LoadPublicKeyRSA(publicKeyFilename)
	if err != nil {
		panic(err)
	}

	return privateKey, publicKey
}

// LoadPrivateKeyRSA loads and parses a PEM-encoded RSA private key
// (PKCS#1 or PKCS#8) from a file.
func LoadPrivateKeyRSA(filename string) (*rsa.PrivateKey, error) {
	b, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return ParsePrivateKeyRSA(b)
}

// LoadPublicKeyRSA loads and parses a PEM-encoded RSA public key
// (PKIX, PKCS#1 or an x509 certificate) from a file.
func LoadPublicKeyRSA(filename string) (*rsa.PublicKey, error) {
	b, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return ParsePublicKeyRSA(b)
}

// ParsePrivateKeyRSA decodes and parses PEM-encoded RSA private key bytes,
// accepting both the PKCS#1 ("RSA PRIVATE KEY") and PKCS#8 ("PRIVATE KEY")
// container forms.
func ParsePrivateKeyRSA(key []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: private key: malformed or missing PEM format (RSA)", ErrKeyFormat)
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: private key: %v", ErrKeyFormat, err)
		}

		pKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key: expected a type of *rsa.PrivateKey", ErrKeyFormat)
		}

		privateKey = pKey
	}

	return privateKey, nil
}

// ParsePublicKeyRSA decodes and parses PEM-encoded RSA public key bytes.
// The input may be a PKIX public key, a PKCS#1 public key or a
// certificate carrying an RSA public key.
func ParsePublicKeyRSA(key []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: public key: malformed or missing PEM format (RSA)", ErrKeyFormat)
	}

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if pk1, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
			parsedKey = pk1
		} else if cert, err := x509.ParseCertificate(block.Bytes); err == nil {
			parsedKey = cert.PublicKey
		} else {
			return nil, fmt.Errorf("%w: public key: %v", ErrKeyFormat, err)
		}
	}

	publicKey, ok := parsedKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key: expected a type of *rsa.PublicKey", ErrKeyFormat)
	}

	return publicKey, nil
}
