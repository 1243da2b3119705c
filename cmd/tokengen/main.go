// Package main provides a CLI tool for generating dev bearer tokens for the
// vocert API. These tokens use the dev signing key and will NOT work against
// a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"vocert/internal/identity"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer = "vocert"
	defaultTTL    = 15 * time.Minute
)

type tokenOutput struct {
	Token     string `json:"token"`
	DID       string `json:"did"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	did := flag.String("did", "did:iota:student:456", "DID the token names (issuer, holder, or verifier identity)")
	key := flag.String("key", "", "Signing key; defaults to the dev key")
	ttl := flag.Duration("ttl", defaultTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	signingKey := *key
	if signingKey == "" {
		signingKey = os.Getenv("JWT_SIGNING_KEY")
	}
	if signingKey == "" {
		signingKey = devSigningKey
	}

	svc := identity.NewTokenService(signingKey, defaultIssuer, *ttl)
	token, err := svc.Mint(*did)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to mint token:", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			DID:       *did,
			ExpiresIn: ttl.String(),
			Usage:     `curl -H "Authorization: Bearer <token>" ...`,
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to encode output:", err)
			os.Exit(1)
		}
		fmt.Println(string(encoded))
		return
	}

	fmt.Println(token)
}
