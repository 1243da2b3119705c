package service

// Unit tests for the flow service: validation errors, domain error code
// mapping, and dependency failure propagation. Full scenario coverage with
// real stores lives in flows_test.go.

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vocert/internal/catalog"
	"vocert/internal/credential/models"
	"vocert/internal/credential/service/mocks"
	"vocert/internal/ledger"
	"vocert/internal/network"
	"vocert/internal/sentinel"
	dErrors "vocert/pkg/domain-errors"
)

const (
	testIssuerDID     = "did:iota:issuer:123"
	testStudentDID    = "did:iota:student:456"
	testEmployerDID   = "did:iota:employer:789"
	testSystemAddress = "0xef63d9b7c6fd0be5af6b4a7c2d88331bbd096a302b1f0fecce8d0fb5a56d1b9b"
)

type ServiceSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockCredentials *mocks.MockCredentialStore
	mockProofs      *mocks.MockProofStore
	mockCatalog     *mocks.MockCatalog
	mockLedger      *mocks.MockLedger
	mockSession     *mocks.MockSession
	service         *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCredentials = mocks.NewMockCredentialStore(s.ctrl)
	s.mockProofs = mocks.NewMockProofStore(s.ctrl)
	s.mockCatalog = mocks.NewMockCatalog(s.ctrl)
	s.mockLedger = mocks.NewMockLedger(s.ctrl)
	s.mockSession = mocks.NewMockSession(s.ctrl)
	s.mockSession.EXPECT().Network().Return(network.Testnet).AnyTimes()
	s.service = NewService(
		s.mockCredentials,
		s.mockProofs,
		s.mockCatalog,
		s.mockLedger,
		s.mockSession,
		testIssuerDID,
		testSystemAddress,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) testCourse() catalog.Course {
	return catalog.Course{
		CourseCode: "BC101",
		Title:      "Blockchain Fundamentals",
		SkillTag:   "Blockchain",
		Credits:    3,
	}
}

func (s *ServiceSuite) TestIssue_ValidationErrors() {
	s.T().Run("missing course code returns CodeValidation", func(t *testing.T) {
		_, err := s.service.Issue(context.Background(), IssueRequest{StudentDID: testStudentDID})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("missing student DID returns CodeValidation", func(t *testing.T) {
		_, err := s.service.Issue(context.Background(), IssueRequest{CourseCode: "BC101"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestIssue_UnknownCourseReturnsNotFound() {
	s.mockCatalog.EXPECT().
		FindByCode(gomock.Any(), "BC999").
		Return(catalog.Course{}, sentinel.ErrNotFound)

	_, err := s.service.Issue(context.Background(), IssueRequest{
		CourseCode: "BC999",
		StudentDID: testStudentDID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestIssue_LedgerFailureReturnsTransactionError() {
	s.mockCatalog.EXPECT().
		FindByCode(gomock.Any(), "BC101").
		Return(s.testCourse(), nil)
	s.mockLedger.EXPECT().
		Transfer(gomock.Any(), testSystemAddress, decimal.Zero, network.Testnet).
		Return(ledger.TxID(""), assert.AnError)

	_, err := s.service.Issue(context.Background(), IssueRequest{
		CourseCode: "BC101",
		StudentDID: testStudentDID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeTransaction))
}

func (s *ServiceSuite) TestIssue_StoreFailureReturnsInternal() {
	s.mockCatalog.EXPECT().
		FindByCode(gomock.Any(), "BC101").
		Return(s.testCourse(), nil)
	s.mockLedger.EXPECT().
		Transfer(gomock.Any(), testSystemAddress, decimal.Zero, network.Testnet).
		Return(ledger.TxID("tx-anchor123456"), nil)
	s.mockCredentials.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	_, err := s.service.Issue(context.Background(), IssueRequest{
		CourseCode: "BC101",
		StudentDID: testStudentDID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestGenerateProof_ValidationErrors() {
	s.T().Run("missing credential id returns CodeValidation", func(t *testing.T) {
		_, err := s.service.GenerateProof(context.Background(), ProofRequest{HolderDID: testStudentDID})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("missing holder DID returns CodeValidation", func(t *testing.T) {
		_, err := s.service.GenerateProof(context.Background(), ProofRequest{CredentialID: "tst-abc12345"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestGenerateProof_UnknownCredentialReturnsNotFound() {
	s.mockCredentials.EXPECT().
		FindByID(gomock.Any(), models.CredentialID("tst-missing0")).
		Return(models.Credential{}, sentinel.ErrNotFound)

	_, err := s.service.GenerateProof(context.Background(), ProofRequest{
		CredentialID: "tst-missing0",
		HolderDID:    testStudentDID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGenerateProof_StoreFailureReturnsInternal() {
	s.mockCredentials.EXPECT().
		FindByID(gomock.Any(), models.CredentialID("tst-abc12345")).
		Return(models.Credential{ID: "tst-abc12345"}, nil)
	s.mockProofs.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	_, err := s.service.GenerateProof(context.Background(), ProofRequest{
		CredentialID: "tst-abc12345",
		HolderDID:    testStudentDID,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestVerify_ValidationErrors() {
	s.T().Run("missing identity returns CodeValidation", func(t *testing.T) {
		_, err := s.service.Verify(context.Background(), VerifyRequest{ProofText: "proof-abc12345"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.T().Run("missing proof text returns CodeValidation", func(t *testing.T) {
		_, err := s.service.Verify(context.Background(), VerifyRequest{Identity: testEmployerDID})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestVerify_ProofLookupErrorPropagation() {
	s.T().Run("unmatched token returns CodeInvalidProof", func(t *testing.T) {
		s.mockProofs.EXPECT().
			FindByToken(gomock.Any(), "proof-unknown1").
			Return(models.Proof{}, sentinel.ErrNotFound)

		_, err := s.service.Verify(context.Background(), VerifyRequest{
			Identity:  testEmployerDID,
			ProofText: "proof-unknown1",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidProof))
	})

	s.T().Run("store failure returns CodeInternal", func(t *testing.T) {
		s.mockProofs.EXPECT().
			FindByToken(gomock.Any(), "proof-abc12345").
			Return(models.Proof{}, assert.AnError)

		_, err := s.service.Verify(context.Background(), VerifyRequest{
			Identity:  testEmployerDID,
			ProofText: "proof-abc12345",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestVerify_BalanceFailureReturnsTransactionError() {
	s.expectProofAndCredential()
	s.mockLedger.EXPECT().
		Balance(gomock.Any(), network.Testnet).
		Return(decimal.Zero, assert.AnError)

	_, err := s.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: "proof-abc12345",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeTransaction))
}

func (s *ServiceSuite) TestVerify_TransferFailureReturnsTransactionError() {
	s.expectProofAndCredential()
	s.mockLedger.EXPECT().
		Balance(gomock.Any(), network.Testnet).
		Return(decimal.RequireFromString("10.5"), nil)
	s.mockLedger.EXPECT().
		TransferBatch(gomock.Any(), gomock.Any(), network.Testnet).
		Return(nil, assert.AnError)

	_, err := s.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: "proof-abc12345",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeTransaction))
}

func (s *ServiceSuite) TestVerify_IncompleteSettlementReturnsTransactionError() {
	s.expectProofAndCredential()
	s.mockLedger.EXPECT().
		Balance(gomock.Any(), network.Testnet).
		Return(decimal.RequireFromString("10.5"), nil)
	s.mockLedger.EXPECT().
		TransferBatch(gomock.Any(), gomock.Any(), network.Testnet).
		Return([]ledger.TxID{"tx-onlyone12345"}, nil)

	_, err := s.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: "proof-abc12345",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeTransaction))
}

func (s *ServiceSuite) TestVerify_MarkVerifiedFailureReturnsInternal() {
	s.expectProofAndCredential()
	s.mockLedger.EXPECT().
		Balance(gomock.Any(), network.Testnet).
		Return(decimal.RequireFromString("10.5"), nil)
	s.mockLedger.EXPECT().
		TransferBatch(gomock.Any(), gomock.Any(), network.Testnet).
		Return([]ledger.TxID{"tx-fee123456789", "tx-royalty12345"}, nil)
	s.mockCredentials.EXPECT().
		MarkVerified(gomock.Any(), models.CredentialID("tst-abc12345")).
		Return(models.Credential{}, assert.AnError)

	_, err := s.service.Verify(context.Background(), VerifyRequest{
		Identity:  testStudentDID,
		ProofText: "proof-abc12345",
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInternal))
}

// expectProofAndCredential wires the happy lookup path up to the fee gate:
// a proof held by the student bound to a stored credential.
func (s *ServiceSuite) expectProofAndCredential() {
	s.mockProofs.EXPECT().
		FindByToken(gomock.Any(), "proof-abc12345").
		Return(models.Proof{
			StudentDID:   testStudentDID,
			CredentialID: "tst-abc12345",
			Proof:        "proof-abc12345",
		}, nil)
	s.mockCredentials.EXPECT().
		FindByID(gomock.Any(), models.CredentialID("tst-abc12345")).
		Return(models.Credential{
			ID:         "tst-abc12345",
			CourseCode: "BC101",
			StudentDID: testStudentDID,
			IssuerDID:  testIssuerDID,
		}, nil)
}

func TestRequiredFeeTotal(t *testing.T) {
	assert.True(t, RequiredFeeTotal().Equal(decimal.RequireFromString("0.25")))
}
