package jwt

import (
	"errors"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrSignatureFormat indicates a malformed ECDSA signature encoding:
// a wire signature whose length is not twice the curve coordinate width,
// or a DER structure that is not a canonical SEQUENCE of two INTEGERs.
var ErrSignatureFormat = errors.New("jwt: malformed signature encoding")

// signatureToJWS converts an ASN.1 DER encoded ECDSA signature, the
// native output of the curve math, to the fixed-width form the JWS
// compact serialization requires: r||s, each scalar big-endian and
// left-zero-padded to "keySize" bytes.
func signatureToJWS(der []byte, keySize int) ([]byte, error) {
	var (
		inner cryptobyte.String
		r, s  []byte
	)

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cryptobyte_asn1.SEQUENCE) ||
		!input.Empty() ||
		!readASN1Unsigned(&inner, &r) ||
		!readASN1Unsigned(&inner, &s) ||
		!inner.Empty() {
		return nil, ErrSignatureFormat
	}

	if len(r) > keySize || len(s) > keySize {
		return nil, ErrSignatureFormat
	}

	sig := make([]byte, 2*keySize)
	copy(sig[keySize-len(r):keySize], r)
	copy(sig[2*keySize-len(s):], s)
	return sig, nil
}

// signatureFromJWS is the inverse of signatureToJWS: it splits the
// fixed-width wire signature at the midpoint and rebuilds the DER
// SEQUENCE with minimal-length INTEGER encodings, re-inserting the
// leading zero byte whenever the scalar's high bit would otherwise be
// read as a sign bit.
func signatureFromJWS(sig []byte, keySize int) ([]byte, error) {
	if len(sig) != 2*keySize {
		return nil, ErrSignatureFormat
	}

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		addASN1Unsigned(seq, sig[:keySize])
		addASN1Unsigned(seq, sig[keySize:])
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, ErrSignatureFormat
	}

	return der, nil
}

// readASN1Unsigned reads a DER INTEGER and strips the sign-padding zero
// byte, yielding the minimal big-endian magnitude. Negative values and
// non-minimal encodings are rejected: ECDSA scalars are positive and
// anything else cannot have come from a well-formed signer.
func readASN1Unsigned(s *cryptobyte.String, out *[]byte) bool {
	var v cryptobyte.String
	if !s.ReadASN1(&v, cryptobyte_asn1.INTEGER) || len(v) == 0 {
		return false
	}

	b := []byte(v)
	if b[0]&0x80 != 0 { // negative
		return false
	}

	if len(b) > 1 && b[0] == 0 {
		if b[1]&0x80 == 0 { // unnecessary padding byte
			return false
		}
		b = b[1:]
	}

	*out = b
	return true
}

func addASN1Unsigned(b *cryptobyte.Builder, v []byte) {
	for len(v) > 1 && v[0] == 0 {
		v = v[1:]
	}

	b.AddASN1(cryptobyte_asn1.INTEGER, func(i *cryptobyte.Builder) {
		if v[0]&0x80 != 0 {
			i.AddUint8(0)
		}
		i.AddBytes(v)
	})
}
