package handler

import (
	"strings"

	dErrors "vocert/pkg/domain-errors"
)

// Field size limits. Requests exceeding them are rejected before any lookup.
const (
	maxCourseCodeLen = 64
	maxDIDLen        = 256
	maxProofLen      = 128
)

// IssueCredentialRequest asks for a credential to be issued for a course.
// student_did is optional; the demo student identity applies when absent.
type IssueCredentialRequest struct {
	CourseCode string `json:"course_code"`
	StudentDID string `json:"student_did,omitempty"`
}

// Normalize sanitizes inputs.
func (r *IssueCredentialRequest) Normalize() {
	if r == nil {
		return
	}
	r.CourseCode = strings.TrimSpace(r.CourseCode)
	r.StudentDID = strings.TrimSpace(r.StudentDID)
}

// Validate checks that the request is well-formed.
// Enforces size limits, required fields, and syntax validation.
func (r *IssueCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	// Phase 1: Size validation
	if len(r.CourseCode) > maxCourseCodeLen {
		return dErrors.New(dErrors.CodeValidation, "course_code is too long")
	}
	if len(r.StudentDID) > maxDIDLen {
		return dErrors.New(dErrors.CodeValidation, "student_did is too long")
	}
	// Phase 2: Required fields
	if r.CourseCode == "" {
		return dErrors.New(dErrors.CodeValidation, "course_code is required")
	}
	return nil
}

// GenerateProofRequest asks for a disclosure proof for a held credential.
type GenerateProofRequest struct {
	CredentialID string `json:"credential_id"`
}

// Normalize sanitizes inputs.
func (r *GenerateProofRequest) Normalize() {
	if r == nil {
		return
	}
	r.CredentialID = strings.TrimSpace(r.CredentialID)
}

// Validate checks that the request is well-formed.
func (r *GenerateProofRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.CredentialID) > maxCourseCodeLen {
		return dErrors.New(dErrors.CodeValidation, "credential_id is too long")
	}
	if r.CredentialID == "" {
		return dErrors.New(dErrors.CodeValidation, "credential_id is required")
	}
	return nil
}

// VerifyCredentialRequest presents a proof token and the applicant identity
// it is claimed to belong to.
type VerifyCredentialRequest struct {
	Identity string `json:"identity"`
	Proof    string `json:"proof"`
}

// Normalize sanitizes inputs.
func (r *VerifyCredentialRequest) Normalize() {
	if r == nil {
		return
	}
	r.Identity = strings.TrimSpace(r.Identity)
	r.Proof = strings.TrimSpace(r.Proof)
}

// Validate checks that the request is well-formed.
func (r *VerifyCredentialRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	// Phase 1: Size validation
	if len(r.Identity) > maxDIDLen {
		return dErrors.New(dErrors.CodeValidation, "identity is too long")
	}
	if len(r.Proof) > maxProofLen {
		return dErrors.New(dErrors.CodeValidation, "proof is too long")
	}
	// Phase 2: Required fields
	if r.Identity == "" {
		return dErrors.New(dErrors.CodeValidation, "identity is required")
	}
	if r.Proof == "" {
		return dErrors.New(dErrors.CodeValidation, "proof is required")
	}
	return nil
}
