package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/robjsliwa/jwt"
	"github.com/stretchr/testify/require"
)

// Tokens issued here must verify with golang-jwt and the other way
// around, per algorithm family.

func TestInteropHMAC(t *testing.T) {
	secret := []byte("s3cr3t-that-m4y-cont4in-ch@r$")

	token, err := jwt.Sign(jwt.HS256, secret, jwt.Map{"username": "alice"}, jwt.MaxAge(15*time.Minute))
	require.NoError(t, err)

	parsed, err := gojwt.Parse(string(token), func(*gojwt.Token) (interface{}, error) {
		return secret, nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(gojwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "alice", claims["username"])

	// The other direction.
	foreign, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	verifiedToken, err := jwt.Verify(jwt.HS256, secret, []byte(foreign))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, verifiedToken.Claims(&got))
	require.Equal(t, "alice", got["username"])
}

func TestInteropRSA(t *testing.T) {
	privateKey, publicKey := jwt.MustLoadRSA("./_testfiles/rsa_private.pem", "./_testfiles/rsa_public.pem")

	token, err := jwt.Sign(jwt.RS256, privateKey, jwt.Map{"username": "alice"})
	require.NoError(t, err)

	parsed, err := gojwt.Parse(string(token), func(*gojwt.Token) (interface{}, error) {
		return publicKey, nil
	}, gojwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	foreign, err := gojwt.NewWithClaims(gojwt.SigningMethodRS256, gojwt.MapClaims{
		"username": "alice",
	}).SignedString(privateKey)
	require.NoError(t, err)

	_, err = jwt.Verify(jwt.RS256, publicKey, []byte(foreign))
	require.NoError(t, err)
}

func TestInteropRSAPSS(t *testing.T) {
	privateKey, publicKey := jwt.MustLoadRSA("./_testfiles/rsa_private.pem", "./_testfiles/rsa_public.pem")

	token, err := jwt.Sign(jwt.PS256, privateKey, jwt.Map{"username": "alice"})
	require.NoError(t, err)

	parsed, err := gojwt.Parse(string(token), func(*gojwt.Token) (interface{}, error) {
		return publicKey, nil
	}, gojwt.WithValidMethods([]string{"PS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	foreign, err := gojwt.NewWithClaims(gojwt.SigningMethodPS256, gojwt.MapClaims{
		"username": "alice",
	}).SignedString(privateKey)
	require.NoError(t, err)

	_, err = jwt.Verify(jwt.PS256, publicKey, []byte(foreign))
	require.NoError(t, err)
}

// The ECDSA wire format (fixed-width r||s, not DER) is where
// implementations disagree most, so cross-check it explicitly.
func TestInteropECDSA(t *testing.T) {
	privateKey, publicKey := jwt.MustLoadECDSA("./_testfiles/ecdsa_p256_private.pem", "./_testfiles/ecdsa_p256_public.pem")

	token, err := jwt.Sign(jwt.ES256, privateKey, jwt.Map{"username": "alice"})
	require.NoError(t, err)

	parsed, err := gojwt.Parse(string(token), func(*gojwt.Token) (interface{}, error) {
		return publicKey, nil
	}, gojwt.WithValidMethods([]string{"ES256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	foreign, err := gojwt.NewWithClaims(gojwt.SigningMethodES256, gojwt.MapClaims{
		"username": "alice",
	}).SignedString(privateKey)
	require.NoError(t, err)

	_, err = jwt.Verify(jwt.ES256, publicKey, []byte(foreign))
	require.NoError(t, err)
}

// golang-jwt refuses a token whose header declares a different
// algorithm than the allowed one, and so does this package; both sides
// hold the algorithm-confusion line.
func TestInteropAlgorithmConfusion(t *testing.T) {
	secret := []byte("s3cr3t-that-m4y-cont4in-ch@r$")

	token, err := jwt.Sign(jwt.HS256, secret, jwt.Map{"username": "alice"})
	require.NoError(t, err)

	_, err = gojwt.Parse(string(token), func(*gojwt.Token) (interface{}, error) {
		return secret, nil
	}, gojwt.WithValidMethods([]string{"HS384"}))
	require.Error(t, err)

	_, err = jwt.Verify(jwt.HS384, secret, token)
	require.ErrorIs(t, err, jwt.ErrTokenAlg)
}
