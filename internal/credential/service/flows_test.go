package service

// End-to-end flow tests over real in-memory stores, a seeded catalog, and a
// zero-latency mock ledger: the issuer, holder, and verifier journeys plus
// the append-only, idempotence, ownership, and fee-gating invariants.

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocert/internal/audit"
	"vocert/internal/catalog"
	"vocert/internal/credential/store"
	"vocert/internal/ledger"
	"vocert/internal/network"
	"vocert/internal/session"
	dErrors "vocert/pkg/domain-errors"
)

type flowFixture struct {
	service     *Service
	credentials *store.InMemoryCredentialStore
	proofs      *store.InMemoryProofStore
	mock        *ledger.Mock
	session     *session.State
	auditStore  *audit.InMemoryStore
}

func newFlowFixture(t *testing.T, ledgerOpts ...ledger.MockOption) *flowFixture {
	t.Helper()

	courses := catalog.NewInMemoryStore()
	require.NoError(t, courses.Add(context.Background(), catalog.Course{
		CourseCode: "BC101",
		Title:      "Blockchain Fundamentals",
		SkillTag:   "Blockchain",
		Credits:    3,
	}))
	require.NoError(t, courses.Add(context.Background(), catalog.Course{
		CourseCode: "BC102",
		Title:      "Smart Contracts",
		SkillTag:   "Smart Contracts",
		Credits:    3,
	}))

	opts := append([]ledger.MockOption{
		ledger.WithLatency(network.Testnet, 0),
		ledger.WithLatency(network.Mainnet, 0),
	}, ledgerOpts...)
	mock := ledger.NewMock(opts...)

	credentials := store.NewInMemoryCredentialStore()
	proofs := store.NewInMemoryProofStore()
	sess := session.New(network.Testnet)
	auditStore := audit.NewInMemoryStore()

	svc := NewService(
		credentials,
		proofs,
		courses,
		mock,
		sess,
		testIssuerDID,
		testSystemAddress,
		WithAuditor(audit.NewPublisher(auditStore)),
	)
	return &flowFixture{
		service:     svc,
		credentials: credentials,
		proofs:      proofs,
		mock:        mock,
		session:     sess,
		auditStore:  auditStore,
	}
}

func (f *flowFixture) issue(t *testing.T, courseCode string) *IssueResult {
	t.Helper()
	result, err := f.service.Issue(context.Background(), IssueRequest{
		CourseCode: courseCode,
		StudentDID: testStudentDID,
	})
	require.NoError(t, err)
	return result
}

func (f *flowFixture) prove(t *testing.T, result *IssueResult) string {
	t.Helper()
	proof, err := f.service.GenerateProof(context.Background(), ProofRequest{
		CredentialID: result.Credential.ID,
		HolderDID:    testStudentDID,
	})
	require.NoError(t, err)
	return proof.Proof
}

var credentialIDPattern = regexp.MustCompile(`^tst-[0-9a-z]{8}$`)

func TestIssueFlow(t *testing.T) {
	f := newFlowFixture(t)

	before, err := f.credentials.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, before)

	result := f.issue(t, "BC101")
	credential := result.Credential

	assert.Regexp(t, credentialIDPattern, credential.ID.String())
	assert.Equal(t, "BC101", credential.CourseCode)
	assert.Equal(t, "Blockchain Fundamentals", credential.Title)
	assert.Equal(t, "Blockchain", credential.SkillTag)
	assert.Equal(t, testStudentDID, credential.StudentDID)
	assert.Equal(t, testIssuerDID, credential.IssuerDID)
	assert.False(t, credential.Verified)
	assert.WithinDuration(t, time.Now().UTC(), credential.Date, time.Minute)
	assert.NotEmpty(t, result.AnchorTxID)

	after, err := f.credentials.List(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, credential, after[0])
}

func TestIssueFlow_MainnetPrefix(t *testing.T) {
	f := newFlowFixture(t)
	f.session.SetNetwork(network.Mainnet)

	result := f.issue(t, "BC102")
	assert.Regexp(t, `^iot-[0-9a-z]{8}$`, result.Credential.ID.String())
}

func TestProofFlow(t *testing.T) {
	f := newFlowFixture(t)
	result := f.issue(t, "BC101")

	token := f.prove(t, result)
	assert.Regexp(t, `^proof-[0-9a-z]{8}$`, token)

	stored, err := f.proofs.FindByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, testStudentDID, stored.StudentDID)
	assert.Equal(t, result.Credential.ID, stored.CredentialID)

	// Multiple proofs may reference the same credential.
	second := f.prove(t, result)
	assert.NotEqual(t, token, second)
	all, err := f.proofs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestVerifyFlow(t *testing.T) {
	f := newFlowFixture(t)
	result := f.issue(t, "BC101")
	token := f.prove(t, result)
	anchorCount := len(f.mock.Transfers())

	verification, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: "  " + token + "  ", // surrounding whitespace is trimmed
	})
	require.NoError(t, err)

	assert.True(t, verification.Credential.Verified)
	assert.NotEmpty(t, verification.VerificationTxID)
	assert.NotEmpty(t, verification.IssuerTxID)
	assert.NotEqual(t, verification.VerificationTxID, verification.IssuerTxID)

	stored, err := f.credentials.FindByID(context.Background(), result.Credential.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)

	transfers := f.mock.Transfers()[anchorCount:]
	require.Len(t, transfers, 2)
	assert.Equal(t, testSystemAddress, transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(decimal.RequireFromString("0.15")))
	assert.Equal(t, testIssuerDID, transfers[1].To)
	assert.True(t, transfers[1].Amount.Equal(decimal.RequireFromString("0.10")))
}

func TestVerifyFlow_Idempotent(t *testing.T) {
	f := newFlowFixture(t)
	result := f.issue(t, "BC101")
	token := f.prove(t, result)

	first, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: token,
	})
	require.NoError(t, err)
	require.True(t, first.Credential.Verified)

	// Re-presenting the proof charges fees again but the record stays
	// verified; nothing else about it changes.
	second, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: token,
	})
	require.NoError(t, err)
	assert.Equal(t, first.Credential, second.Credential)

	all, err := f.credentials.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestVerifyFlow_OwnershipMismatch(t *testing.T) {
	f := newFlowFixture(t)
	result := f.issue(t, "BC101")
	token := f.prove(t, result)
	anchorCount := len(f.mock.Transfers())

	_, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testEmployerDID,
		ProofText: token,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOwnershipMismatch))

	// The failed verification must not move value or flip the flag.
	assert.Len(t, f.mock.Transfers(), anchorCount)
	stored, findErr := f.credentials.FindByID(context.Background(), result.Credential.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.Verified)
}

func TestVerifyFlow_UnknownProof(t *testing.T) {
	f := newFlowFixture(t)
	f.issue(t, "BC101")
	anchorCount := len(f.mock.Transfers())

	_, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: "proof-garbage1",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidProof))
	assert.Len(t, f.mock.Transfers(), anchorCount)
}

func TestVerifyFlow_InsufficientFunds(t *testing.T) {
	f := newFlowFixture(t, ledger.WithBalance(decimal.RequireFromString("0.2")))
	result := f.issue(t, "BC101")
	token := f.prove(t, result)
	anchorCount := len(f.mock.Transfers())

	_, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: token,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

	// Fee gating happens before any transfer is submitted.
	assert.Len(t, f.mock.Transfers(), anchorCount)
	stored, findErr := f.credentials.FindByID(context.Background(), result.Credential.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.Verified)
}

func TestFlows_EmitAuditTrail(t *testing.T) {
	f := newFlowFixture(t)
	result := f.issue(t, "BC101")
	token := f.prove(t, result)

	_, err := f.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: token,
	})
	require.NoError(t, err)

	events, err := f.auditStore.ListBySubject(context.Background(), testStudentDID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, string(audit.EventCredentialIssued), events[0].Action)
	assert.Equal(t, string(audit.EventProofGenerated), events[1].Action)
	assert.Equal(t, string(audit.EventCredentialVerified), events[2].Action)
}

func TestFlows_NetworkSwitchLeavesRecordsUntouched(t *testing.T) {
	f := newFlowFixture(t)
	result := f.issue(t, "BC101")

	f.session.SetNetwork(network.Mainnet)

	stored, err := f.credentials.FindByID(context.Background(), result.Credential.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Credential, stored)
	assert.Regexp(t, credentialIDPattern, stored.ID.String())
}
