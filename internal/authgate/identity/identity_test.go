package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/api/idtoken"

	dErrors "medgate/pkg/domain-errors"
)

func staticValidator(payload *idtoken.Payload, err error) ValidateFunc {
	return func(_ context.Context, _ string, _ string) (*idtoken.Payload, error) {
		return payload, err
	}
}

func googlePayload(claims map[string]any) *idtoken.Payload {
	return &idtoken.Payload{
		Issuer:   "https://accounts.google.com",
		Audience: "client-id",
		Claims:   claims,
	}
}

func TestNewGoogleVerifier_RequiresConfig(t *testing.T) {
	_, err := NewGoogleVerifier("", "clinic.example.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeServerMisconfigured))

	_, err = NewGoogleVerifier("client-id", "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeServerMisconfigured))
}

func TestVerify_AllowedDomain(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(googlePayload(map[string]any{
			"email":          "Dr.Reyes@Clinic.Example.Com",
			"email_verified": true,
			"name":           "Dr. Reyes",
			"picture":        "https://example.com/reyes.png",
		}), nil)),
	)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "dr.reyes@clinic.example.com", identity.Email)
	assert.Equal(t, "Dr. Reyes", identity.Name)
	assert.Equal(t, "https://example.com/reyes.png", identity.Picture)
}

func TestVerify_NameFallsBackToEmail(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(googlePayload(map[string]any{
			"email": "reyes@clinic.example.com",
		}), nil)),
	)
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "reyes@clinic.example.com", identity.Name)
}

func TestVerify_DomainNotAllowed(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(googlePayload(map[string]any{
			"email":          "intruder@elsewhere.com",
			"email_verified": true,
		}), nil)),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "raw-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDomainNotAllowed))
}

func TestVerify_SuffixCannotSpoofDomain(t *testing.T) {
	// evilclinic.example.com must not satisfy the clinic.example.com policy.
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(googlePayload(map[string]any{
			"email": "intruder@evilclinic.example.com",
		}), nil)),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "raw-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDomainNotAllowed))
}

func TestVerify_ProviderRejection(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(nil, errors.New("invalid signature"))),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "raw-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerify_UnverifiedEmail(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(googlePayload(map[string]any{
			"email":          "reyes@clinic.example.com",
			"email_verified": false,
		}), nil)),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "raw-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerify_MissingEmailClaim(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(googlePayload(map[string]any{}), nil)),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "raw-token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerify_BlankAssertion(t *testing.T) {
	v, err := NewGoogleVerifier("client-id", "clinic.example.com",
		WithValidateFunc(staticValidator(nil, errors.New("should not be called"))),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "   ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
