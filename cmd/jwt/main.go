// Command jwt signs, verifies and inspects JSON Web Tokens from the
// command line using the parent library. Key material is read from PEM
// files for the asymmetric algorithms and from a raw secret (or a file
// containing one) for the HMAC family.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robjsliwa/jwt"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "jwt",
		Short:         "Sign, verify and inspect JSON Web Tokens",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newSignCommand(), newVerifyCommand(), newDecodeCommand())
	return root
}

func newSignCommand() *cobra.Command {
	var (
		algName    string
		keyFile    string
		passphrase string
		claimsJSON string
		maxAge     time.Duration
		issuer     string
		subject    string
		audience   []string
		randomJTI  bool
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a claim set and print the compact token",
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := lookupAlg(algName)
			if err != nil {
				return err
			}

			key, err := loadPrivateKey(alg, keyFile, passphrase)
			if err != nil {
				return err
			}

			var claims jwt.Map
			if claimsJSON != "" {
				if err := json.Unmarshal([]byte(claimsJSON), &claims); err != nil {
					return fmt.Errorf("claims: %w", err)
				}
			} else {
				claims = jwt.Map{}
			}

			standard := jwt.Claims{
				Issuer:   issuer,
				Subject:  subject,
				Audience: audience,
				MaxAge:   maxAge,
			}

			// WithClaims replaces the whole claim set, so it must come
			// before GenerateID which only fills the jti field.
			opts := []jwt.SignOption{jwt.WithClaims(standard)}
			if randomJTI {
				opts = append(opts, jwt.GenerateID())
			}

			token, err := jwt.Sign(alg, key, claims, opts...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(token))
			return nil
		},
	}

	cmd.Flags().StringVar(&algName, "alg", "HS256", "signing algorithm (HS256..ES256K)")
	cmd.Flags().StringVar(&keyFile, "key", "", "private key PEM file, or the raw secret for HS algorithms")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase for encrypted PKCS#8 private keys")
	cmd.Flags().StringVar(&claimsJSON, "claims", "", "claims as a JSON object")
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "sets the exp and iat claims relative to now")
	cmd.Flags().StringVar(&issuer, "iss", "", "sets the iss claim")
	cmd.Flags().StringVar(&subject, "sub", "", "sets the sub claim")
	cmd.Flags().StringSliceVar(&audience, "aud", nil, "sets the aud claim")
	cmd.Flags().BoolVar(&randomJTI, "random-jti", false, "sets the jti claim to a random UUID")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newVerifyCommand() *cobra.Command {
	var (
		algName  string
		keyFile  string
		issuer   string
		audience []string
		leeway   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "verify [token]",
		Short: "Verify a token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := lookupAlg(algName)
			if err != nil {
				return err
			}

			key, err := loadPublicKey(alg, keyFile)
			if err != nil {
				return err
			}

			var validators []jwt.TokenValidator
			if leeway > 0 {
				validators = append(validators, jwt.Leeway(leeway))
			}
			if issuer != "" || len(audience) > 0 {
				validators = append(validators, jwt.Expected{
					Issuer:   issuer,
					Audience: audience,
				})
			}

			verifiedToken, err := jwt.Verify(alg, key, []byte(args[0]), validators...)
			if err != nil {
				return err
			}

			return printJSON(cmd, verifiedToken.Payload)
		},
	}

	cmd.Flags().StringVar(&algName, "alg", "HS256", "expected signing algorithm")
	cmd.Flags().StringVar(&keyFile, "key", "", "public key PEM file, or the raw secret for HS algorithms")
	cmd.Flags().StringVar(&issuer, "iss", "", "expected iss claim")
	cmd.Flags().StringSliceVar(&audience, "aud", nil, "expected aud values")
	cmd.Flags().DurationVar(&leeway, "leeway", 0, "clock-skew tolerance for exp/nbf/iat")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [token]",
		Short: "Decode a token WITHOUT verifying its signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := jwt.Decode([]byte(args[0]))
			if err != nil {
				return err
			}

			if err := printJSON(cmd, tok.Header); err != nil {
				return err
			}
			return printJSON(cmd, tok.Payload)
		},
	}
}

func lookupAlg(name string) (jwt.Alg, error) {
	for _, alg := range []jwt.Alg{
		jwt.HS256, jwt.HS384, jwt.HS512,
		jwt.RS256, jwt.RS384, jwt.RS512,
		jwt.PS256, jwt.PS384, jwt.PS512,
		jwt.ES256, jwt.ES384, jwt.ES512,
		jwt.ES256K,
	} {
		if alg.Name() == name {
			return alg, nil
		}
	}

	return nil, fmt.Errorf("unsupported algorithm %q", name)
}

func loadPrivateKey(alg jwt.Alg, keyFile, passphrase string) (jwt.PrivateKey, error) {
	if strings.HasPrefix(alg.Name(), "HS") {
		return jwt.LoadHMAC(keyFile)
	}

	b, err := jwt.ReadFile(keyFile)
	if err != nil {
		return nil, err
	}

	if passphrase != "" {
		return jwt.ParseEncryptedPrivateKey(b, []byte(passphrase))
	}

	return jwt.ParsePrivateKey(b)
}

func loadPublicKey(alg jwt.Alg, keyFile string) (jwt.PublicKey, error) {
	if strings.HasPrefix(alg.Name(), "HS") {
		return jwt.LoadHMAC(keyFile)
	}

	b, err := jwt.ReadFile(keyFile)
	if err != nil {
		return nil, err
	}

	return jwt.ParsePublicKey(b)
}

func printJSON(cmd *cobra.Command, raw []byte) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
