// Package handler exposes the credential lifecycle flows over HTTP. Handlers
// stay thin: decode, validate, delegate to the service, translate errors.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vocert/internal/catalog"
	"vocert/internal/credential/models"
	"vocert/internal/credential/service"
	"vocert/internal/identity"
	"vocert/internal/network"
	"vocert/internal/platform/middleware"
	respond "vocert/internal/transport/http/json"
	"vocert/internal/transport/http/shared"
	dErrors "vocert/pkg/domain-errors"
)

// Service defines the flow operations the handler delegates to.
type Service interface {
	Issue(ctx context.Context, req service.IssueRequest) (*service.IssueResult, error)
	GenerateProof(ctx context.Context, req service.ProofRequest) (*models.Proof, error)
	Verify(ctx context.Context, req service.VerifyRequest) (*service.VerificationResult, error)
	Courses(ctx context.Context) ([]catalog.Course, error)
	Credentials(ctx context.Context, studentDID string) ([]models.Credential, error)
	Proofs(ctx context.Context) ([]models.Proof, error)
}

// Session exposes the active network for explorer link rendering.
type Session interface {
	Network() network.Network
}

// DemoIdentities are the fallback DIDs applied when a request carries no
// bearer token, mirroring the fixed demo personas.
type DemoIdentities struct {
	Student  string
	Employer string
}

// Handler handles credential, proof, and verification endpoints.
type Handler struct {
	logger  *slog.Logger
	flows   Service
	session Session
	demo    DemoIdentities
}

// New creates a new credential Handler.
func New(flows Service, session Session, demo DemoIdentities, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		flows:   flows,
		session: session,
		demo:    demo,
	}
}

// Register registers the credential routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/credentials", h.handleIssue)
	r.Get("/credentials", h.handleListCredentials)
	r.Get("/courses", h.handleListCourses)
	r.Post("/proofs", h.handleGenerateProof)
	r.Get("/proofs", h.handleListProofs)
	r.Post("/verifications", h.handleVerify)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req IssueCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode issue request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if req.StudentDID == "" {
		req.StudentDID = h.demo.Student
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.flows.Issue(ctx, service.IssueRequest{
		CourseCode: req.CourseCode,
		StudentDID: req.StudentDID,
		RequestID:  requestID,
		Device:     identity.DescribeDevice(middleware.GetUserAgent(ctx)),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue credential",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, IssueResponse{
		Credential:  toCredentialResponse(result.Credential),
		AnchorTxID:  string(result.AnchorTxID),
		ExplorerURL: network.ExplorerTxURL(h.session.Network(), string(result.AnchorTxID)),
	})
}

func (h *Handler) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	studentDID := r.URL.Query().Get("student_did")
	credentials, err := h.flows.Credentials(ctx, studentDID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list credentials",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, ListCredentialsResponse{
		Credentials: toCredentialResponses(credentials),
	})
}

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courses, err := h.flows.Courses(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list courses",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, ListCoursesResponse{
		Courses: toCourseResponses(courses),
	})
}

func (h *Handler) handleGenerateProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req GenerateProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode proof request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	holderDID := middleware.GetCallerDID(ctx)
	if holderDID == "" {
		holderDID = h.demo.Student
	}

	proof, err := h.flows.GenerateProof(ctx, service.ProofRequest{
		CredentialID: models.CredentialID(req.CredentialID),
		HolderDID:    holderDID,
		RequestID:    requestID,
		Device:       identity.DescribeDevice(middleware.GetUserAgent(ctx)),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate proof",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, toProofResponse(*proof))
}

func (h *Handler) handleListProofs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	proofs, err := h.flows.Proofs(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list proofs",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, ListProofsResponse{
		Proofs: toProofResponses(proofs),
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req VerifyCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode verification request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.flows.Verify(ctx, service.VerifyRequest{
		Identity:  req.Identity,
		ProofText: req.Proof,
		RequestID: requestID,
		Device:    identity.DescribeDevice(middleware.GetUserAgent(ctx)),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "verification rejected",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	net := h.session.Network()
	respond.WriteJSON(w, http.StatusOK, VerificationResponse{
		Credential:         toCredentialResponse(result.Credential),
		VerificationTxID:   string(result.VerificationTxID),
		IssuerTxID:         string(result.IssuerTxID),
		VerificationTxURL:  network.ExplorerTxURL(net, string(result.VerificationTxID)),
		IssuerRoyaltyTxURL: network.ExplorerTxURL(net, string(result.IssuerTxID)),
	})
}
