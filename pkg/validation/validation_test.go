package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "medgate/pkg/domain-errors"
)

type statusRequest struct {
	Email string `validate:"required,email"`
}

type signInRequest struct {
	Credential string `validate:"required,notblank"`
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(&statusRequest{Email: "dr.reyes@clinic.example.com"}))
	assert.NoError(t, Validate(&signInRequest{Credential: "raw-assertion"}))
}

func TestValidate_RequiredField(t *testing.T) {
	err := Validate(&statusRequest{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "email is required")
}

func TestValidate_BadEmail(t *testing.T) {
	err := Validate(&statusRequest{Email: "not-an-email"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "must be a valid email")
}

func TestValidate_BlankCredential(t *testing.T) {
	err := Validate(&signInRequest{Credential: "   "})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "must not be blank")
}
