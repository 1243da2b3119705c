package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"vocert/internal/audit"
	"vocert/internal/credential/models"
	"vocert/internal/ledger"
	"vocert/internal/platform/tracer"
	"vocert/internal/sentinel"
	dErrors "vocert/pkg/domain-errors"
)

// IssueRequest captures the data required to issue a credential.
type IssueRequest struct {
	CourseCode string
	StudentDID string
	RequestID  string
	Device     string
}

// IssueResult is the issued credential plus the ledger transaction that
// anchored it.
type IssueResult struct {
	Credential models.Credential
	AnchorTxID ledger.TxID
}

// Issue runs the issuer flow: resolve the course, anchor the issuance on the
// ledger, mint a network-prefixed identifier, and append the credential.
// Title and skill tag are denormalized from the course at this moment and
// never re-synced.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	net := s.session.Network()
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssue,
		tracer.String(tracer.AttrNetwork, net.String()),
		tracer.String(tracer.AttrCourseCode, req.CourseCode),
	)
	var err error
	defer func() { span.End(err) }()

	if strings.TrimSpace(req.CourseCode) == "" {
		err = dErrors.New(dErrors.CodeValidation, "course code is required")
		return nil, err
	}
	if strings.TrimSpace(req.StudentDID) == "" {
		err = dErrors.New(dErrors.CodeValidation, "student DID is required")
		return nil, err
	}

	course, findErr := s.catalog.FindByCode(ctx, req.CourseCode)
	if findErr != nil {
		if errors.Is(findErr, sentinel.ErrNotFound) {
			err = dErrors.New(dErrors.CodeNotFound, "course not found")
		} else {
			err = dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to resolve course")
		}
		return nil, err
	}

	// The anchoring transfer carries no fee; it exists so issuance settles
	// on the ledger and surfaces ledger failures as reported errors.
	anchorTxID, transferErr := s.ledger.Transfer(ctx, s.systemAddress, decimal.Zero, net)
	if transferErr != nil {
		err = dErrors.Wrap(transferErr, dErrors.CodeTransaction, "credential anchoring failed")
		return nil, err
	}

	id, idErr := models.NewCredentialID(net)
	if idErr != nil {
		err = dErrors.Wrap(idErr, dErrors.CodeInternal, "failed to mint credential id")
		return nil, err
	}

	credential := models.Credential{
		ID:         id,
		CourseCode: course.CourseCode,
		Title:      course.Title,
		SkillTag:   course.SkillTag,
		Date:       s.now().UTC(),
		StudentDID: req.StudentDID,
		IssuerDID:  s.issuerDID,
	}

	if appendErr := s.credentials.Append(ctx, credential); appendErr != nil {
		err = dErrors.Wrap(appendErr, dErrors.CodeInternal, "failed to store credential")
		return nil, err
	}

	span.SetAttributes(tracer.String(tracer.AttrCredentialID, id.String()))
	if s.metrics != nil {
		s.metrics.IncrementIssued()
	}
	s.emitAudit(ctx, audit.Event{
		Action:     string(audit.EventCredentialIssued),
		SubjectDID: credential.StudentDID,
		Subject:    credential.ID.String(),
		Decision:   "issued",
		Reason:     "issuer_initiated",
		Device:     req.Device,
		RequestID:  req.RequestID,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "credential issued",
			"credential_id", credential.ID,
			"course_code", credential.CourseCode,
			"network", net,
		)
	}

	return &IssueResult{Credential: credential, AnchorTxID: anchorTxID}, nil
}
