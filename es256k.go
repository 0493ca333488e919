package jwt

import (
	"crypto"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secp256k1ecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// algES256K implements the Alg interface for the ES256K algorithm:
// ECDSA over the secp256k1 curve with SHA-256. The standard library has
// no support for this curve, so the curve math comes from the decred
// secp256k1 package; signatures are normalized between its DER output
// and the 64-byte r||s wire form through the signature codec, exactly
// like the NIST-curve family.
type algES256K struct {
	name    string
	hasher  crypto.Hash
	keySize int
}

// Parse implements the AlgParser interface.
// Either private or public can be empty, but at least one should be provided.
func (a *algES256K) Parse(private, public []byte) (privateKey PrivateKey, publicKey PublicKey, err error) {
	if len(private) > 0 {
		privateKey, err = ParsePrivateKeySecp256k1(private)
		if err != nil {
			return nil, nil, fmt.Errorf("ES256K: private key: %w", err)
		}
	}

	if len(public) > 0 {
		publicKey, err = ParsePublicKeySecp256k1(public)
		if err != nil {
			return nil, nil, fmt.Errorf("ES256K: public key: %w", err)
		}
	}

	return
}

func (a *algES256K) Name() string {
	return a.name
}

func (a *algES256K) Sign(key PrivateKey, headerAndPayload []byte) ([]byte, error) {
	privateKey, ok := key.(*secp256k1.PrivateKey)
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
	der := secp256k1ecdsa.Sign(privateKey, hashed).Serialize()
	return signatureToJWS(der, a.keySize)
}

func (a *algES256K) Verify(key PublicKey, headerAndPayload []byte, signature []byte) error {
	publicKey, ok := key.(*secp256k1.PublicKey)
	if !ok {
		if privateKey, ok := key.(*secp256k1.PrivateKey); ok {
			publicKey = privateKey.PubKey()
		} else {
			return ErrInvalidKey
		}
	}

	// Reject malformed wire signatures before any curve math runs.
	der, err := signatureFromJWS(signature, a.keySize)
	if err != nil {
		return err
	}

	sig, err := secp256k1ecdsa.ParseDERSignature(der)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureFormat, err)
	}

	h := a.hasher.New()
	// header.payload
	_, err = h.Write(headerAndPayload)
	if err != nil {
		return err
	}

	hashed := h.Sum(nil)
	if !sig.Verify(hashed, publicKey) {
		return ErrTokenSignature
	}

	return nil
}
