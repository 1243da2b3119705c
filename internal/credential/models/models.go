// Package models defines the credential and proof records owned by the
// credential store.
package models

import (
	"regexp"
	"strings"
	"time"

	"vocert/internal/network"
	dErrors "vocert/pkg/domain-errors"
	"vocert/pkg/token"
)

const (
	credentialTokenLength = 8
	proofTokenPrefix      = "proof-"
)

var credentialIDPattern = regexp.MustCompile(`^(tst|iot)-[0-9a-z]{8}$`)

// CredentialID is the network-prefixed identifier minted at issuance:
// {prefix}-{8-char base36 token}. The prefix records which network the
// credential was issued under and is never rewritten.
type CredentialID string

// NewCredentialID mints an identifier under the given network's prefix.
// Tokens are random with no collision check; the store accepts whatever the
// issuer minted.
func NewCredentialID(net network.Network) (CredentialID, error) {
	t, err := token.Base36(credentialTokenLength)
	if err != nil {
		return "", err
	}
	return CredentialID(net.Prefix() + "-" + t), nil
}

// ParseCredentialID validates a credential ID string at trust boundaries.
func ParseCredentialID(value string) (CredentialID, error) {
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "credential_id is required")
	}
	if !credentialIDPattern.MatchString(value) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid credential_id format")
	}
	return CredentialID(value), nil
}

// String returns the credential ID as a string.
func (id CredentialID) String() string { return string(id) }

// Credential asserts a student completed a course. Title and SkillTag are
// denormalized from the course at issuance time and not re-synced. Created
// only by the issuer flow; the only mutation ever applied is the one-way
// verified flip; never deleted.
type Credential struct {
	ID         CredentialID
	CourseCode string
	Title      string
	SkillTag   string
	Date       time.Time
	StudentDID string
	IssuerDID  string
	Verified   bool
}

// Proof is a holder-generated disclosure token referencing a credential.
// The token is an opaque random reference, not a verifiable signature.
// Multiple proofs may exist for the same credential; proofs are never
// mutated or deleted.
type Proof struct {
	StudentDID   string
	CredentialID CredentialID
	Proof        string
}

// NewProofToken mints an opaque proof token.
func NewProofToken() (string, error) {
	t, err := token.Base36(credentialTokenLength)
	if err != nil {
		return "", err
	}
	return proofTokenPrefix + t, nil
}
