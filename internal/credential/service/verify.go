package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vocert/internal/audit"
	"vocert/internal/credential/models"
	"vocert/internal/ledger"
	"vocert/internal/network"
	"vocert/internal/platform/tracer"
	"vocert/internal/sentinel"
	dErrors "vocert/pkg/domain-errors"
)

// VerifyRequest captures the data a verifier presents.
type VerifyRequest struct {
	Identity  string
	ProofText string
	RequestID string
	Device    string
}

// VerificationResult reports a successful verification: the verified
// credential snapshot and the two fee transactions.
type VerificationResult struct {
	Credential       models.Credential
	VerificationTxID ledger.TxID
	IssuerTxID       ledger.TxID
}

// Verify runs the verifier flow. Order matters and is observable through
// error codes: proof lookup, credential resolution, ownership binding, fee
// gating, then the fee transfers. The two fees settle as one atomic batch so
// a failure between them cannot consume the verification fee without paying
// the issuer. No step after a failure mutates the store.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerificationResult, error) {
	net := s.session.Network()
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrNetwork, net.String()),
	)
	var err error
	defer func() { span.End(err) }()

	start := s.now()
	result, err := s.verify(ctx, req, net)
	if s.metrics != nil {
		outcome := "verified"
		if err != nil {
			outcome = outcomeFromError(err)
		}
		s.metrics.ObserveVerification(outcome, start)
	}
	if err != nil {
		s.emitAudit(ctx, audit.Event{
			Action:          string(audit.EventVerificationFailed),
			SubjectDID:      req.Identity,
			RequestingParty: req.Identity,
			Decision:        "rejected",
			Reason:          outcomeFromError(err),
			Device:          req.Device,
			RequestID:       req.RequestID,
		})
		return nil, err
	}

	span.SetAttributes(tracer.String(tracer.AttrCredentialID, result.Credential.ID.String()))
	s.emitAudit(ctx, audit.Event{
		Action:          string(audit.EventCredentialVerified),
		SubjectDID:      result.Credential.StudentDID,
		Subject:         result.Credential.ID.String(),
		RequestingParty: req.Identity,
		Decision:        "verified",
		Reason:          "fees_settled",
		Device:          req.Device,
		RequestID:       req.RequestID,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "credential verified",
			"credential_id", result.Credential.ID,
			"network", net,
			"verification_tx", result.VerificationTxID,
			"issuer_tx", result.IssuerTxID,
		)
	}
	return result, nil
}

func (s *Service) verify(ctx context.Context, req VerifyRequest, net network.Network) (*VerificationResult, error) {
	identity := strings.TrimSpace(req.Identity)
	proofText := strings.TrimSpace(req.ProofText)
	if identity == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "applicant identity is required")
	}
	if proofText == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "proof text is required")
	}

	proof, findErr := s.proofs.FindByToken(ctx, proofText)
	if findErr != nil {
		if errors.Is(findErr, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidProof, "no proof matches the presented token")
		}
		return nil, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to look up proof")
	}

	credential, credErr := s.credentials.FindByID(ctx, proof.CredentialID)
	if credErr != nil {
		if errors.Is(credErr, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		return nil, dErrors.Wrap(credErr, dErrors.CodeInternal, "failed to resolve credential")
	}

	if proof.StudentDID != identity {
		return nil, dErrors.New(dErrors.CodeOwnershipMismatch, "proof does not match the applicant identity")
	}

	balance, balanceErr := s.ledger.Balance(ctx, net)
	if balanceErr != nil {
		return nil, dErrors.Wrap(balanceErr, dErrors.CodeTransaction, "balance query failed")
	}
	total := RequiredFeeTotal()
	if balance.LessThan(total) {
		return nil, dErrors.New(dErrors.CodeInsufficientFunds,
			fmt.Sprintf("insufficient balance: required %s, available %s", total, balance))
	}

	txIDs, transferErr := s.ledger.TransferBatch(ctx, []ledger.Payment{
		{To: s.systemAddress, Amount: VerificationFee},
		{To: credential.IssuerDID, Amount: IssuerFee},
	}, net)
	if transferErr != nil {
		return nil, dErrors.Wrap(transferErr, dErrors.CodeTransaction, "fee settlement failed")
	}
	if len(txIDs) != 2 {
		return nil, dErrors.New(dErrors.CodeTransaction, "ledger returned an incomplete fee settlement")
	}

	// The credential existed above and records are never deleted, so a
	// missing id here is an internal invariant failure, not a user error.
	verified, markErr := s.credentials.MarkVerified(ctx, credential.ID)
	if markErr != nil {
		return nil, dErrors.Wrap(markErr, dErrors.CodeInternal, "failed to mark credential verified")
	}

	return &VerificationResult{
		Credential:       verified,
		VerificationTxID: txIDs[0],
		IssuerTxID:       txIDs[1],
	}, nil
}

// outcomeFromError maps a verification failure to a metrics/audit label.
func outcomeFromError(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return string(domainErr.Code)
	}
	return string(dErrors.CodeInternal)
}
