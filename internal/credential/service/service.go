// Package service implements the three role flows around the credential
// store: issuance, proof generation, and verification. All validation
// happens here, before the store is invoked; every failure is converted to
// a coded domain error and none is process-fatal.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"vocert/internal/audit"
	"vocert/internal/catalog"
	cmetrics "vocert/internal/credential/metrics"
	"vocert/internal/credential/models"
	"vocert/internal/ledger"
	"vocert/internal/network"
	"vocert/internal/platform/tracer"
)

// CredentialStore is the credential persistence dependency.
type CredentialStore interface {
	Append(ctx context.Context, credential models.Credential) error
	FindByID(ctx context.Context, id models.CredentialID) (models.Credential, error)
	List(ctx context.Context) ([]models.Credential, error)
	ListBySubject(ctx context.Context, studentDID string) ([]models.Credential, error)
	MarkVerified(ctx context.Context, id models.CredentialID) (models.Credential, error)
}

// ProofStore is the proof persistence dependency.
type ProofStore interface {
	Append(ctx context.Context, proof models.Proof) error
	FindByToken(ctx context.Context, token string) (models.Proof, error)
	List(ctx context.Context) ([]models.Proof, error)
}

// Catalog resolves course codes at issuance time.
type Catalog interface {
	FindByCode(ctx context.Context, code string) (catalog.Course, error)
	List(ctx context.Context) ([]catalog.Course, error)
}

// Ledger is the value-transfer dependency behind every fee.
type Ledger interface {
	Transfer(ctx context.Context, to string, amount decimal.Decimal, net network.Network) (ledger.TxID, error)
	TransferBatch(ctx context.Context, payments []ledger.Payment, net network.Network) ([]ledger.TxID, error)
	Balance(ctx context.Context, net network.Network) (decimal.Decimal, error)
}

// Session exposes the active ledger network selection.
type Session interface {
	Network() network.Network
}

// AuditPublisher emits audit events for credential lifecycle actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Fee constants, in the ledger's native unit.
var (
	// VerificationFee is paid to the system address on every verification.
	VerificationFee = decimal.RequireFromString("0.15")
	// IssuerFee is the royalty paid to the credential's issuer.
	IssuerFee = decimal.RequireFromString("0.10")
)

// RequiredFeeTotal is the minimum balance a verifier needs.
func RequiredFeeTotal() decimal.Decimal {
	return VerificationFee.Add(IssuerFee)
}

// Option configures the service.
type Option func(*Service)

// Service runs the issuer, holder, and verifier flows against one shared
// store. It is explicitly constructed and injected, never a global.
type Service struct {
	credentials CredentialStore
	proofs      ProofStore
	catalog     Catalog
	ledger      Ledger
	session     Session

	issuerDID     string
	systemAddress string

	auditor AuditPublisher
	metrics *cmetrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates the flow service with its required dependencies.
// issuerDID is the fixed session issuer identity stamped on every
// credential; systemAddress receives verification fees.
func NewService(
	credentials CredentialStore,
	proofs ProofStore,
	courses Catalog,
	l Ledger,
	session Session,
	issuerDID string,
	systemAddress string,
	opts ...Option,
) *Service {
	svc := &Service{
		credentials:   credentials,
		proofs:        proofs,
		catalog:       courses,
		ledger:        l,
		session:       session,
		issuerDID:     issuerDID,
		systemAddress: systemAddress,
		tracer:        tracer.NewNoop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithAuditor configures an audit publisher for the service.
func WithAuditor(auditor AuditPublisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

// WithMetrics configures flow metrics.
func WithMetrics(m *cmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer configures span emission for flows.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithLogger configures a logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Courses lists the catalog for the issuer view.
func (s *Service) Courses(ctx context.Context) ([]catalog.Course, error) {
	return s.catalog.List(ctx)
}

// Credentials lists issued credentials, optionally filtered by holder.
func (s *Service) Credentials(ctx context.Context, studentDID string) ([]models.Credential, error) {
	if studentDID != "" {
		return s.credentials.ListBySubject(ctx, studentDID)
	}
	return s.credentials.List(ctx)
}

// Proofs lists generated proofs.
func (s *Service) Proofs(ctx context.Context) ([]models.Proof, error) {
	return s.proofs.List(ctx)
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"subject_did", event.SubjectDID,
		)
	}
}
