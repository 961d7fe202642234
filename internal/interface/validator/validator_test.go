package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/pkg/apperror"
)

type sampleRequest struct {
	DocumentID  string `form:"documentId" validate:"required,uuid"`
	VersionType string `form:"versionType" validate:"omitempty,oneof=major minor"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := NewCustomValidator()

	assert.NoError(t, v.Validate(&sampleRequest{DocumentID: "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"}))

	err := v.Validate(&sampleRequest{DocumentID: "nope", VersionType: "patch"})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
	require.Len(t, appErr.Details, 2)
	assert.Equal(t, "documentId", appErr.Details[0].Field)
	assert.Equal(t, "must be a valid UUID", appErr.Details[0].Message)
	assert.Equal(t, "versionType", appErr.Details[1].Field)
}
