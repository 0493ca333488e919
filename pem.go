package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	encoding_asn1 "encoding/asn1"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrKeyFormat indicates malformed or mismatched key input: a missing or
// corrupt PEM container, a DER structure that does not parse, a key type
// different from the requested one or unrecognized curve parameters.
var ErrKeyFormat = errors.New("jwt: invalid key format")

// Algorithm and named-curve identifiers needed to classify key material
// beyond what the PEM block type alone reveals. The secp256k1 OID is the
// interesting one: crypto/x509 refuses that curve, so its keys are
// decoded by hand below.
var (
	oidPublicKeyECDSA      = encoding_asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidNamedCurveSecp256k1 = encoding_asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// ParsePrivateKey decodes and parses any supported PEM-encoded private
// key: PKCS#1 RSA, SEC1 EC (NIST curves or secp256k1) and PKCS#8
// containers of either family. The PEM block type selects the DER
// standard, the embedded algorithm OID selects the key type, the way
// key containers are classified in practice.
//
// Encrypted PKCS#8 containers are rejected here;
// use ParseEncryptedPrivateKey for those.
func ParsePrivateKey(key []byte) (PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: private key: malformed or missing PEM format", ErrKeyFormat)
	}

	switch block.Type {
	case "RSA PRIVATE KEY": // PKCS#1.
		privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: private key: %v", ErrKeyFormat, err)
		}
		return privateKey, nil
	case "EC PRIVATE KEY": // SEC1.
		privateKey, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			// x509 refuses non-NIST curves; retry as secp256k1.
			if k256, kerr := parseSEC1Secp256k1(block.Bytes); kerr == nil {
				return k256, nil
			}
			return nil, fmt.Errorf("%w: private key: %v", ErrKeyFormat, err)
		}
		return privateKey, nil
	case "PRIVATE KEY": // PKCS#8.
		parsedKey, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			if k256, kerr := parsePKCS8Secp256k1(block.Bytes); kerr == nil {
				return k256, nil
			}
			return nil, fmt.Errorf("%w: private key: %v", ErrKeyFormat, err)
		}

		switch parsedKey.(type) {
		case *rsa.PrivateKey, *ecdsa.PrivateKey:
			return parsedKey, nil
		default:
			return nil, fmt.Errorf("%w: private key: unsupported key type %T", ErrKeyFormat, parsedKey)
		}
	case "ENCRYPTED PRIVATE KEY":
		return nil, fmt.Errorf("%w: private key: encrypted PKCS#8, use ParseEncryptedPrivateKey", ErrKeyFormat)
	default:
		return nil, fmt.Errorf("%w: private key: unexpected PEM block type %q", ErrKeyFormat, block.Type)
	}
}

// ParsePublicKey decodes and parses any supported PEM-encoded public
// key: PKIX ("PUBLIC KEY", RSA, NIST EC or secp256k1), PKCS#1
// ("RSA PUBLIC KEY") and certificates carrying one of those.
func ParsePublicKey(key []byte) (PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: public key: malformed or missing PEM format", ErrKeyFormat)
	}

	switch block.Type {
	case "PUBLIC KEY": // PKIX.
		parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			if k256, kerr := parsePKIXSecp256k1(block.Bytes); kerr == nil {
				return k256, nil
			}
			return nil, fmt.Errorf("%w: public key: %v", ErrKeyFormat, err)
		}

		switch parsedKey.(type) {
		case *rsa.PublicKey, *ecdsa.PublicKey:
			return parsedKey, nil
		default:
			return nil, fmt.Errorf("%w: public key: unsupported key type %T", ErrKeyFormat, parsedKey)
		}
	case "RSA PUBLIC KEY": // PKCS#1.
		publicKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: public key: %v", ErrKeyFormat, err)
		}
		return publicKey, nil
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: public key: %v", ErrKeyFormat, err)
		}
		return cert.PublicKey, nil
	default:
		return nil, fmt.Errorf("%w: public key: unexpected PEM block type %q", ErrKeyFormat, block.Type)
	}
}

// ParseEncryptedPrivateKey decodes a passphrase-protected PKCS#8
// ("ENCRYPTED PRIVATE KEY") PEM container. PBES2 schemes as produced by
// openssl pkcs8 -topk8 -v2 are supported.
func ParseEncryptedPrivateKey(key, passphrase []byte) (PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: private key: malformed or missing PEM format", ErrKeyFormat)
	}

	if block.Type != "ENCRYPTED PRIVATE KEY" {
		return nil, fmt.Errorf("%w: private key: unexpected PEM block type %q", ErrKeyFormat, block.Type)
	}

	parsedKey, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", ErrKeyFormat, err)
	}

	return parsedKey, nil
}

// ParsePrivateKeySecp256k1 decodes and parses PEM-encoded secp256k1
// private key bytes, accepting both the SEC1 ("EC PRIVATE KEY") and
// PKCS#8 ("PRIVATE KEY") container forms. Pass the result to the ES256K
// Sign function.
func ParsePrivateKeySecp256k1(key []byte) (*secp256k1.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: private key: malformed or missing PEM format (secp256k1)", ErrKeyFormat)
	}

	switch block.Type {
	case "EC PRIVATE KEY":
		return parseSEC1Secp256k1(block.Bytes)
	case "PRIVATE KEY":
		return parsePKCS8Secp256k1(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: private key: unexpected PEM block type %q (secp256k1)", ErrKeyFormat, block.Type)
	}
}

// ParsePublicKeySecp256k1 decodes and parses PEM-encoded secp256k1
// public key bytes in the PKIX ("PUBLIC KEY") container form. Pass the
// result to the ES256K Verify function.
func ParsePublicKeySecp256k1(key []byte) (*secp256k1.PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: public key: malformed or missing PEM format (secp256k1)", ErrKeyFormat)
	}

	if block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("%w: public key: unexpected PEM block type %q (secp256k1)", ErrKeyFormat, block.Type)
	}

	return parsePKIXSecp256k1(block.Bytes)
}

// parseSEC1Secp256k1 parses a SEC1 ECPrivateKey structure:
//
//	SEQUENCE {
//	    version    INTEGER { 1 },
//	    privateKey OCTET STRING,
//	    [0] EXPLICIT namedCurve OID OPTIONAL,
//	    [1] EXPLICIT publicKey BIT STRING OPTIONAL }
//
// The named curve, when present, must be secp256k1; the optional public
// key is ignored and rederived from the scalar.
func parseSEC1Secp256k1(der []byte) (*secp256k1.PrivateKey, error) {
	var (
		inner, privBytes cryptobyte.String
		version          uint
	)

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cryptobyte_asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&version) ||
		!inner.ReadASN1(&privBytes, cryptobyte_asn1.OCTET_STRING) {
		return nil, fmt.Errorf("%w: private key: invalid SEC1 structure (secp256k1)", ErrKeyFormat)
	}

	if version != 1 {
		return nil, fmt.Errorf("%w: private key: unknown SEC1 version %d (secp256k1)", ErrKeyFormat, version)
	}

	var (
		params    cryptobyte.String
		hasParams bool
	)
	tag0 := cryptobyte_asn1.Tag(0).Constructed().ContextSpecific()
	if !inner.ReadOptionalASN1(&params, &hasParams, tag0) {
		return nil, fmt.Errorf("%w: private key: invalid SEC1 parameters (secp256k1)", ErrKeyFormat)
	}

	if hasParams {
		var oid encoding_asn1.ObjectIdentifier
		if !params.ReadASN1ObjectIdentifier(&oid) {
			return nil, fmt.Errorf("%w: private key: invalid curve parameters (secp256k1)", ErrKeyFormat)
		}
		if !oid.Equal(oidNamedCurveSecp256k1) {
			return nil, fmt.Errorf("%w: private key: unexpected curve %v, want secp256k1", ErrKeyFormat, oid)
		}
	}

	if len(privBytes) == 0 || len(privBytes) > 32 {
		return nil, fmt.Errorf("%w: private key: invalid scalar length %d (secp256k1)", ErrKeyFormat, len(privBytes))
	}

	scalar := make([]byte, 32)
	copy(scalar[32-len(privBytes):], privBytes)
	return secp256k1.PrivKeyFromBytes(scalar), nil
}

// parsePKCS8Secp256k1 unwraps a PKCS#8 container whose algorithm
// identifier is id-ecPublicKey with the secp256k1 named curve, then
// parses the inner SEC1 structure.
func parsePKCS8Secp256k1(der []byte) (*secp256k1.PrivateKey, error) {
	var (
		inner, algID, keyData cryptobyte.String
		version               uint
		algOID, curveOID      encoding_asn1.ObjectIdentifier
	)

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cryptobyte_asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&version) ||
		!inner.ReadASN1(&algID, cryptobyte_asn1.SEQUENCE) ||
		!algID.ReadASN1ObjectIdentifier(&algOID) ||
		!algID.ReadASN1ObjectIdentifier(&curveOID) ||
		!inner.ReadASN1(&keyData, cryptobyte_asn1.OCTET_STRING) {
		return nil, fmt.Errorf("%w: private key: invalid PKCS#8 structure (secp256k1)", ErrKeyFormat)
	}

	if !algOID.Equal(oidPublicKeyECDSA) {
		return nil, fmt.Errorf("%w: private key: unexpected key algorithm %v, want EC", ErrKeyFormat, algOID)
	}

	if !curveOID.Equal(oidNamedCurveSecp256k1) {
		return nil, fmt.Errorf("%w: private key: unexpected curve %v, want secp256k1", ErrKeyFormat, curveOID)
	}

	return parseSEC1Secp256k1(keyData)
}

// parsePKIXSecp256k1 parses a PKIX SubjectPublicKeyInfo whose algorithm
// identifier is id-ecPublicKey with the secp256k1 named curve. The
// embedded point may be compressed or uncompressed.
func parsePKIXSecp256k1(der []byte) (*secp256k1.PublicKey, error) {
	var (
		inner, algID     cryptobyte.String
		algOID, curveOID encoding_asn1.ObjectIdentifier
		point            encoding_asn1.BitString
	)

	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cryptobyte_asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1(&algID, cryptobyte_asn1.SEQUENCE) ||
		!algID.ReadASN1ObjectIdentifier(&algOID) ||
		!algID.ReadASN1ObjectIdentifier(&curveOID) ||
		!inner.ReadASN1BitString(&point) {
		return nil, fmt.Errorf("%w: public key: invalid PKIX structure (secp256k1)", ErrKeyFormat)
	}

	if !algOID.Equal(oidPublicKeyECDSA) {
		return nil, fmt.Errorf("%w: public key: unexpected key algorithm %v, want EC", ErrKeyFormat, algOID)
	}

	if !curveOID.Equal(oidNamedCurveSecp256k1) {
		return nil, fmt.Errorf("%w: public key: unexpected curve %v, want secp256k1", ErrKeyFormat, curveOID)
	}

	publicKey, err := secp256k1.ParsePubKey(point.RightAlign())
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %v", ErrKeyFormat, err)
	}

	return publicKey, nil
}
