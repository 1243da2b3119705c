package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp       time.Time
	SubjectDID      string
	Subject         string
	Action          string
	RequestingParty string
	Device          string
	Decision        string
	Reason          string
	RequestID       string
}

type AuditEvent string

const (
	EventCredentialIssued   AuditEvent = "credential_issued"
	EventProofGenerated     AuditEvent = "proof_generated"
	EventCredentialVerified AuditEvent = "credential_verified"
	EventVerificationFailed AuditEvent = "verification_failed"
)
