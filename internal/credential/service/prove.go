package service

import (
	"context"
	"errors"
	"strings"

	"vocert/internal/audit"
	"vocert/internal/credential/models"
	"vocert/internal/platform/tracer"
	"vocert/internal/sentinel"
	dErrors "vocert/pkg/domain-errors"
)

// ProofRequest captures the data required to generate a disclosure proof.
type ProofRequest struct {
	CredentialID models.CredentialID
	HolderDID    string
	RequestID    string
	Device       string
}

// GenerateProof runs the holder flow: resolve the credential and mint an
// opaque proof token bound to the holder identity. The token is a random
// reference, not a signature; nothing stops a holder from generating many
// proofs for the same credential.
func (s *Service) GenerateProof(ctx context.Context, req ProofRequest) (*models.Proof, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGenerateProof,
		tracer.String(tracer.AttrCredentialID, req.CredentialID.String()),
	)
	var err error
	defer func() { span.End(err) }()

	if req.CredentialID == "" {
		err = dErrors.New(dErrors.CodeValidation, "credential_id is required")
		return nil, err
	}
	if strings.TrimSpace(req.HolderDID) == "" {
		err = dErrors.New(dErrors.CodeValidation, "holder DID is required")
		return nil, err
	}

	if _, findErr := s.credentials.FindByID(ctx, req.CredentialID); findErr != nil {
		if errors.Is(findErr, sentinel.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "credential not found")
		} else {
			err = dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to resolve credential")
		}
		return nil, err
	}

	token, tokenErr := models.NewProofToken()
	if tokenErr != nil {
		err = dErrors.Wrap(tokenErr, dErrors.CodeInternal, "failed to mint proof token")
		return nil, err
	}

	proof := models.Proof{
		StudentDID:   req.HolderDID,
		CredentialID: req.CredentialID,
		Proof:        token,
	}
	if appendErr := s.proofs.Append(ctx, proof); appendErr != nil {
		err = dErrors.Wrap(appendErr, dErrors.CodeInternal, "failed to store proof")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementProofs()
	}
	s.emitAudit(ctx, audit.Event{
		Action:     string(audit.EventProofGenerated),
		SubjectDID: proof.StudentDID,
		Subject:    proof.CredentialID.String(),
		Decision:   "generated",
		Reason:     "holder_initiated",
		Device:     req.Device,
		RequestID:  req.RequestID,
	})

	return &proof, nil
}
