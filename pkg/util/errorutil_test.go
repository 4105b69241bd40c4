package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFlowError_PassesThroughFlowErrors(t *testing.T) {
	err := NewDuplicateEmail()

	flowErr := ToFlowError(err)
	assert.Equal(t, "DUPLICATE_EMAIL", flowErr.Code)
	assert.Equal(t, CategoryError, flowErr.Category)
	assert.Equal(t, http.StatusConflict, flowErr.HTTPStatus)
}

func TestToFlowError_UnwrapsWrappedFlowErrors(t *testing.T) {
	err := fmt.Errorf("login: %w", NewPendingApproval())

	flowErr := ToFlowError(err)
	assert.Equal(t, "PENDING_APPROVAL", flowErr.Code)
	assert.Equal(t, CategoryWarning, flowErr.Category)
}

func TestToFlowError_WrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")

	flowErr := ToFlowError(cause)
	assert.Equal(t, "INTERNAL_ERROR", flowErr.Code)
	assert.Equal(t, http.StatusInternalServerError, flowErr.HTTPStatus)
	assert.ErrorIs(t, flowErr, cause)
}

func TestToFlowError_Nil(t *testing.T) {
	assert.Nil(t, ToFlowError(nil))
}
