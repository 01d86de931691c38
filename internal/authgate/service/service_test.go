package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"medgate/internal/authgate/models"
	"medgate/internal/authgate/store/authorization"
	dErrors "medgate/pkg/domain-errors"
)

func (s *ServiceSuite) TestSignIn_IssuesApprovalRequest() {
	identity := s.testIdentity()
	s.mockVerifier.EXPECT().Verify(gomock.Any(), "raw-assertion").Return(identity, nil)
	s.mockCodec.EXPECT().SignApproval(identity, s.clock).Return("signed-reference", "jti-1", nil)
	s.mockNotifier.EXPECT().NotifyApprovalRequest(
		gomock.Any(),
		identity,
		testBaseURL+"/api/auth/approve?token=signed-reference",
		testApprovalTTL,
	).Return(nil)

	res, err := s.service.SignIn(context.Background(), "raw-assertion")
	s.Require().NoError(err)
	s.Equal("signed-reference", res.ApprovalReference)
	s.Equal("dr.reyes@clinic.example.com", res.Email)
	s.True(res.Notified)
}

func (s *ServiceSuite) TestSignIn_ApprovalURLIsEscaped() {
	identity := s.testIdentity()
	s.mockVerifier.EXPECT().Verify(gomock.Any(), "raw-assertion").Return(identity, nil)
	s.mockCodec.EXPECT().SignApproval(identity, s.clock).Return("a+b/c", "jti-1", nil)
	s.mockNotifier.EXPECT().NotifyApprovalRequest(
		gomock.Any(),
		identity,
		testBaseURL+"/api/auth/approve?token=a%2Bb%2Fc",
		testApprovalTTL,
	).Return(nil)

	_, err := s.service.SignIn(context.Background(), "raw-assertion")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestSignIn_DisallowedDomainNeverNotifies() {
	s.mockVerifier.EXPECT().Verify(gomock.Any(), "raw-assertion").
		Return(models.VerifiedIdentity{}, dErrors.New(dErrors.CodeDomainNotAllowed, "email domain is not allowed"))

	_, err := s.service.SignIn(context.Background(), "raw-assertion")
	s.True(dErrors.HasCode(err, dErrors.CodeDomainNotAllowed))
}

func (s *ServiceSuite) TestSignIn_NotificationFailure() {
	identity := s.testIdentity()
	s.mockVerifier.EXPECT().Verify(gomock.Any(), "raw-assertion").Return(identity, nil)
	s.mockCodec.EXPECT().SignApproval(identity, s.clock).Return("signed-reference", "jti-1", nil)
	s.mockNotifier.EXPECT().NotifyApprovalRequest(gomock.Any(), identity, gomock.Any(), testApprovalTTL).
		Return(dErrors.New(dErrors.CodeNotificationFailed, "failed to deliver approval request email"))

	_, err := s.service.SignIn(context.Background(), "raw-assertion")
	s.True(dErrors.HasCode(err, dErrors.CodeNotificationFailed))
}

func (s *ServiceSuite) TestConfirmApproval_CommitsRecord() {
	claims := approvalClaims("jti-1", s.testIdentity())
	s.mockCodec.EXPECT().VerifyApproval("signed-reference").Return(claims, nil)
	s.mockNonceStore.EXPECT().Consume(gomock.Any(), "jti-1", testApprovalTTL).Return(true, nil)
	s.mockAuthzStore.EXPECT().
		Put(gomock.Any(), s.authorizedRecord(s.clock), testSessionTTL).
		Return(nil)

	res, err := s.service.ConfirmApproval(context.Background(), "signed-reference")
	s.Require().NoError(err)
	s.Equal("dr.reyes@clinic.example.com", res.Email)
	s.Equal("Dr. Reyes", res.Name)
	s.Equal(s.clock, res.ConfirmedAt)
}

func (s *ServiceSuite) TestConfirmApproval_ReplayRejected() {
	claims := approvalClaims("jti-1", s.testIdentity())
	s.mockCodec.EXPECT().VerifyApproval("signed-reference").Return(claims, nil)
	s.mockNonceStore.EXPECT().Consume(gomock.Any(), "jti-1", testApprovalTTL).Return(false, nil)

	_, err := s.service.ConfirmApproval(context.Background(), "signed-reference")
	s.True(dErrors.HasCode(err, dErrors.CodeLinkUsed))
}

func (s *ServiceSuite) TestConfirmApproval_ExpiredLinkLeavesNoRecord() {
	s.mockCodec.EXPECT().VerifyApproval("stale-reference").
		Return(nil, dErrors.New(dErrors.CodeLinkExpired, "approval link has expired"))

	_, err := s.service.ConfirmApproval(context.Background(), "stale-reference")
	s.True(dErrors.HasCode(err, dErrors.CodeLinkExpired))
}

func (s *ServiceSuite) TestConfirmApproval_InvalidLink() {
	s.mockCodec.EXPECT().VerifyApproval("garbage").
		Return(nil, dErrors.New(dErrors.CodeLinkInvalid, "approval link is invalid"))

	_, err := s.service.ConfirmApproval(context.Background(), "garbage")
	s.True(dErrors.HasCode(err, dErrors.CodeLinkInvalid))
}

func (s *ServiceSuite) TestConfirmApproval_RecordStoreFailureReleasesLink() {
	claims := approvalClaims("jti-1", s.testIdentity())
	s.mockCodec.EXPECT().VerifyApproval("signed-reference").Return(claims, nil)
	s.mockNonceStore.EXPECT().Consume(gomock.Any(), "jti-1", testApprovalTTL).Return(true, nil)
	s.mockAuthzStore.EXPECT().
		Put(gomock.Any(), s.authorizedRecord(s.clock), testSessionTTL).
		Return(errors.New("redis down"))
	s.mockNonceStore.EXPECT().Release(gomock.Any(), "jti-1").Return(nil)

	_, err := s.service.ConfirmApproval(context.Background(), "signed-reference")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestConfirmApproval_RecordStoreFailureSurvivesReleaseFailure() {
	claims := approvalClaims("jti-1", s.testIdentity())
	s.mockCodec.EXPECT().VerifyApproval("signed-reference").Return(claims, nil)
	s.mockNonceStore.EXPECT().Consume(gomock.Any(), "jti-1", testApprovalTTL).Return(true, nil)
	s.mockAuthzStore.EXPECT().
		Put(gomock.Any(), s.authorizedRecord(s.clock), testSessionTTL).
		Return(errors.New("redis down"))
	s.mockNonceStore.EXPECT().Release(gomock.Any(), "jti-1").Return(errors.New("still down"))

	_, err := s.service.ConfirmApproval(context.Background(), "signed-reference")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestConfirmApproval_NonceStoreFailure() {
	claims := approvalClaims("jti-1", s.testIdentity())
	s.mockCodec.EXPECT().VerifyApproval("signed-reference").Return(claims, nil)
	s.mockNonceStore.EXPECT().Consume(gomock.Any(), "jti-1", testApprovalTTL).
		Return(false, errors.New("redis down"))

	_, err := s.service.ConfirmApproval(context.Background(), "signed-reference")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestCheckStatus_Pending() {
	s.mockAuthzStore.EXPECT().Get(gomock.Any(), "dr.reyes@clinic.example.com").
		Return(nil, authorization.ErrNotFound)

	res, err := s.service.CheckStatus(context.Background(), "dr.reyes@clinic.example.com")
	s.Require().NoError(err)
	s.False(res.Authorized)
	s.Equal("approval pending", res.Message)
	s.Empty(res.SessionCredential)
}

func (s *ServiceSuite) TestCheckStatus_UnauthorizedRecord() {
	record := s.authorizedRecord(s.clock)
	record.Authorized = false
	s.mockAuthzStore.EXPECT().Get(gomock.Any(), "dr.reyes@clinic.example.com").Return(record, nil)

	res, err := s.service.CheckStatus(context.Background(), "dr.reyes@clinic.example.com")
	s.Require().NoError(err)
	s.False(res.Authorized)
	s.Equal("not authorized", res.Message)
}

func (s *ServiceSuite) TestCheckStatus_AuthorizedIssuesSession() {
	authorizedAt := s.clock.Add(-time.Hour)
	record := s.authorizedRecord(authorizedAt)
	s.mockAuthzStore.EXPECT().Get(gomock.Any(), "dr.reyes@clinic.example.com").Return(record, nil)
	s.mockCodec.EXPECT().SignSession(record, s.clock).Return("session-credential", nil)

	res, err := s.service.CheckStatus(context.Background(), "dr.reyes@clinic.example.com")
	s.Require().NoError(err)
	s.True(res.Authorized)
	s.Equal("session-credential", res.SessionCredential)
	s.Equal(authorizedAt, res.AuthorizedAt)
	s.Require().NotNil(res.User)
	s.Equal("dr.reyes@clinic.example.com", res.User.Email)
	s.Equal("Dr. Reyes", res.User.Name)
	s.Equal("https://example.com/reyes.png", res.User.Image)
}

func (s *ServiceSuite) TestCheckStatus_StaleRecordEvicted() {
	record := s.authorizedRecord(s.clock.Add(-testSessionTTL - time.Minute))
	s.mockAuthzStore.EXPECT().Get(gomock.Any(), "dr.reyes@clinic.example.com").Return(record, nil)
	s.mockAuthzStore.EXPECT().Delete(gomock.Any(), "dr.reyes@clinic.example.com").Return(nil)

	res, err := s.service.CheckStatus(context.Background(), "dr.reyes@clinic.example.com")
	s.Require().NoError(err)
	s.False(res.Authorized)
	s.Equal("approval expired", res.Message)
}

func (s *ServiceSuite) TestCheckStatus_RecordAtExactWindowStillValid() {
	authorizedAt := s.clock.Add(-testSessionTTL)
	record := s.authorizedRecord(authorizedAt)
	s.mockAuthzStore.EXPECT().Get(gomock.Any(), "dr.reyes@clinic.example.com").Return(record, nil)
	s.mockCodec.EXPECT().SignSession(record, s.clock).Return("session-credential", nil)

	res, err := s.service.CheckStatus(context.Background(), "dr.reyes@clinic.example.com")
	s.Require().NoError(err)
	s.True(res.Authorized)
}

func (s *ServiceSuite) TestCheckStatus_CorruptedRecord() {
	s.mockAuthzStore.EXPECT().Get(gomock.Any(), "dr.reyes@clinic.example.com").
		Return(nil, dErrors.New(dErrors.CodeRecordCorrupted, "stored authorization record failed to decode"))

	_, err := s.service.CheckStatus(context.Background(), "dr.reyes@clinic.example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeRecordCorrupted))
}
