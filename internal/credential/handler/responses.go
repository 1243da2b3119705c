package handler

import (
	"time"

	"vocert/internal/catalog"
	"vocert/internal/credential/models"
)

// CourseResponse is one catalog entry as returned to clients.
type CourseResponse struct {
	CourseCode  string `json:"course_code"`
	Title       string `json:"title"`
	SkillTag    string `json:"skill_tag"`
	Credits     int    `json:"credits"`
	Description string `json:"description,omitempty"`
}

// ListCoursesResponse wraps the course catalog.
type ListCoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

// CredentialResponse is one issued credential as returned to clients.
type CredentialResponse struct {
	ID         string    `json:"id"`
	CourseCode string    `json:"course_code"`
	Title      string    `json:"title"`
	SkillTag   string    `json:"skill_tag"`
	Date       time.Time `json:"date"`
	StudentDID string    `json:"student_did"`
	IssuerDID  string    `json:"issuer_did"`
	Verified   bool      `json:"verified"`
}

// ListCredentialsResponse wraps a credential listing.
type ListCredentialsResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
}

// IssueResponse reports a freshly issued credential and its anchor transaction.
type IssueResponse struct {
	Credential  CredentialResponse `json:"credential"`
	AnchorTxID  string             `json:"anchor_tx_id"`
	ExplorerURL string             `json:"explorer_url"`
}

// ProofResponse is one disclosure proof as returned to clients.
type ProofResponse struct {
	StudentDID   string `json:"student_did"`
	CredentialID string `json:"credential_id"`
	Proof        string `json:"proof"`
}

// ListProofsResponse wraps a proof listing.
type ListProofsResponse struct {
	Proofs []ProofResponse `json:"proofs"`
}

// VerificationResponse reports a successful verification and both fee
// transactions.
type VerificationResponse struct {
	Credential         CredentialResponse `json:"credential"`
	VerificationTxID   string             `json:"verification_tx_id"`
	IssuerTxID         string             `json:"issuer_tx_id"`
	VerificationTxURL  string             `json:"verification_tx_url"`
	IssuerRoyaltyTxURL string             `json:"issuer_royalty_tx_url"`
}

func toCourseResponses(courses []catalog.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseResponse{
			CourseCode:  c.CourseCode,
			Title:       c.Title,
			SkillTag:    c.SkillTag,
			Credits:     c.Credits,
			Description: c.Description,
		})
	}
	return out
}

func toCredentialResponse(c models.Credential) CredentialResponse {
	return CredentialResponse{
		ID:         c.ID.String(),
		CourseCode: c.CourseCode,
		Title:      c.Title,
		SkillTag:   c.SkillTag,
		Date:       c.Date,
		StudentDID: c.StudentDID,
		IssuerDID:  c.IssuerDID,
		Verified:   c.Verified,
	}
}

func toCredentialResponses(credentials []models.Credential) []CredentialResponse {
	out := make([]CredentialResponse, 0, len(credentials))
	for _, c := range credentials {
		out = append(out, toCredentialResponse(c))
	}
	return out
}

func toProofResponse(p models.Proof) ProofResponse {
	return ProofResponse{
		StudentDID:   p.StudentDID,
		CredentialID: p.CredentialID.String(),
		Proof:        p.Proof,
	}
}

func toProofResponses(proofs []models.Proof) []ProofResponse {
	out := make([]ProofResponse, 0, len(proofs))
	for _, p := range proofs {
		out = append(out, toProofResponse(p))
	}
	return out
}
