package string

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimStrings(t *testing.T) {
	a, b := "  padded  ", "clean"
	TrimStrings(&a, &b)
	assert.Equal(t, "padded", a)
	assert.Equal(t, "clean", b)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "email", ToSnakeCase("Email"))
	assert.Equal(t, "session_credential", ToSnakeCase("SessionCredential"))
	assert.Equal(t, "approval_ttl", ToSnakeCase("ApprovalTTL"))
	assert.Equal(t, "", ToSnakeCase(""))
}
