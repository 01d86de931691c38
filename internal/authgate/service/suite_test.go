package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks TokenCodec
//go:generate mockgen -source=../identity/identity.go -destination=mocks/verifier_mock.go -package=mocks Verifier
//go:generate mockgen -source=../notify/notify.go -destination=mocks/notifier_mock.go -package=mocks Notifier
//go:generate mockgen -source=../store/authorization/contracts.go -destination=mocks/authorization_store_mock.go -package=mocks -mock_names=Store=MockAuthorizationStore Store
//go:generate mockgen -source=../store/nonce/store_memory.go -destination=mocks/nonce_store_mock.go -package=mocks -mock_names=Store=MockNonceStore Store

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"medgate/internal/authgate/models"
	"medgate/internal/authgate/service/mocks"
	"medgate/internal/authgate/token"
)

const (
	testBaseURL     = "https://medgate.example.com"
	testApprovalTTL = 10 * time.Minute
	testSessionTTL  = 24 * time.Hour
)

type ServiceSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockVerifier   *mocks.MockVerifier
	mockCodec      *mocks.MockTokenCodec
	mockNotifier   *mocks.MockNotifier
	mockAuthzStore *mocks.MockAuthorizationStore
	mockNonceStore *mocks.MockNonceStore
	clock          time.Time
	service        *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockVerifier = mocks.NewMockVerifier(s.ctrl)
	s.mockCodec = mocks.NewMockTokenCodec(s.ctrl)
	s.mockNotifier = mocks.NewMockNotifier(s.ctrl)
	s.mockAuthzStore = mocks.NewMockAuthorizationStore(s.ctrl)
	s.mockNonceStore = mocks.NewMockNonceStore(s.ctrl)
	s.clock = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	s.mockCodec.EXPECT().ApprovalTTL().Return(testApprovalTTL).AnyTimes()
	s.mockCodec.EXPECT().SessionTTL().Return(testSessionTTL).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.service, err = New(
		s.mockVerifier,
		s.mockCodec,
		s.mockNotifier,
		s.mockAuthzStore,
		s.mockNonceStore,
		testBaseURL,
		WithLogger(logger),
		WithClock(func() time.Time { return s.clock }),
	)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// Shared fixture builders

func (s *ServiceSuite) testIdentity() models.VerifiedIdentity {
	return models.VerifiedIdentity{
		Email:   "dr.reyes@clinic.example.com",
		Name:    "Dr. Reyes",
		Picture: "https://example.com/reyes.png",
	}
}

func approvalClaims(jti string, identity models.VerifiedIdentity) *token.ApprovalClaims {
	return &token.ApprovalClaims{
		Email:            identity.Email,
		Name:             identity.Name,
		Picture:          identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{ID: jti},
	}
}

func (s *ServiceSuite) authorizedRecord(authorizedAt time.Time) *models.AuthorizationRecord {
	return &models.AuthorizationRecord{
		Email:        "dr.reyes@clinic.example.com",
		Name:         "Dr. Reyes",
		Picture:      "https://example.com/reyes.png",
		Authorized:   true,
		AuthorizedAt: authorizedAt,
	}
}
