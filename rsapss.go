package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// algRSAPSS implements the Alg interface for the PS256, PS384 and PS512
// algorithms: RSASSA-PSS over SHA-2. The key material is identical to
// the plain RSA family, only the padding scheme differs.
//
// Signatures are produced with a salt as long as the hash output, the
// convention RFC 7518 §3.5 describes. Verification uses the automatic
// salt-length mode so that tokens from producers with other salt
// conventions still verify.
type algRSAPSS struct {
	name       string
	signOpts   *rsa.PSSOptions
	verifyOpts *rsa.PSSOptions
}

// Parse implements the AlgParser interface.
// RSA-PSS uses the same key containers as standard RSA keys.
func (a *algRSAPSS) Parse(private, public []byte) (privateKey PrivateKey, publicKey PublicKey, err error) {
	if len(private) > 0 {
		privateKey, err = ParsePrivateKeyRSA(private)
		if err != nil {
			return nil, nil, fmt.Errorf("RSA-PSS: private key: %w", err)
		}
	}

	if len(public) > 0 {
		publicKey, err = ParsePublicKeyRSA(public)
		if err != nil {
			return nil, nil, fmt.Errorf("RSA-PSS: public key: %w", err)
		}
	}

	return
}

func (a *algRSAPSS) Name() string {
	return a.name
}

func (a *algRSAPSS) Sign(key PrivateKey, headerAndPayload []byte) ([]byte, error) {
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := a.signOpts.Hash.New()
	// header.payload
	_, err := h.Write(headerAndPayload)
	if err != nil {
		return nil, err
	}

	hashed := h.Sum(nil)
	return rsa.SignPSS(rand.Reader, privateKey, a.signOpts.Hash, hashed, a.signOpts)
}

func (a *algRSAPSS) Verify(key PublicKey, headerAndPayload []byte, signature []byte) error {
	publicKey, ok := key.(*rsa.PublicKey)
	if !ok {
		if privateKey, ok := key.(*rsa.PrivateKey); ok {
			publicKey = &privateKey.PublicKey
		} else {
			return ErrInvalidKey
		}
	}

	h := a.verifyOpts.Hash.New()
	// header.payload
	_, err := h.Write(headerAndPayload)
	if err != nil {
		return err
	}

	hashed := h.Sum(nil)
	if err = rsa.VerifyPSS(publicKey, a.verifyOpts.Hash, hashed, signature, a.verifyOpts); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	}

	return nil
}
