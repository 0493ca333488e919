/*
Package jwt signs and verifies JSON Web Tokens (RFC 7519) in the JWS
compact serialization, covering the full spread of standard signing
algorithms: HMAC (HS256/384/512), RSA PKCS#1 v1.5 (RS256/384/512),
RSA-PSS (PS256/384/512) and ECDSA over the NIST P-curves
(ES256/384/512) plus secp256k1 (ES256K).

The package is pure computation: no I/O, no goroutines outside the
optional Blocklist GC, no state beyond init-once lookup tables. Every
function is safe for concurrent use and the library compiles for both
native targets and js/wasm.

# Signing

	token, err := jwt.Sign(jwt.HS256, []byte("secret"), jwt.Map{
	    "foo": "bar",
	}, jwt.MaxAge(15*time.Minute))

Claims can be a Map, a struct with json tags or the standard Claims
struct; sign options merge the standard claims in.

# Verifying

	verifiedToken, err := jwt.Verify(jwt.HS256, []byte("secret"), token)
	if err != nil { ... }

	var claims map[string]interface{}
	err = verifiedToken.Claims(&claims)

The algorithm passed to Verify is authoritative: the token's own "alg"
header is compared for equality against it before any cryptographic
work, so a token can never select its verification algorithm
(the classic algorithm-confusion attack).

Temporal claims (exp, nbf, iat) are validated with zero clock-skew
tolerance by default; pass Leeway to absorb drift, Expected to pin
issuer/subject/audience, or any custom TokenValidator:

	verifiedToken, err := jwt.Verify(jwt.RS256, publicKey, token,
	    jwt.Leeway(30*time.Second),
	    jwt.Expected{Issuer: "my-auth-server"},
	)

# Key material

Asymmetric keys load from PEM through the per-family helpers
(ParsePrivateKeyRSA, ParsePublicKeyECDSA, ...), the generic
ParsePrivateKey/ParsePublicKey classifiers (PKCS#1, SEC1, PKCS#8, PKIX
and certificates, including secp256k1 containers the standard library
rejects) or ParseEncryptedPrivateKey for passphrase-protected PKCS#8.
HMAC secrets are plain []byte.

Multiple keys can be registered under "kid" identifiers with the Keys
registry, which signs with the bound key and resolves the verification
key from the token header.
*/
package jwt
