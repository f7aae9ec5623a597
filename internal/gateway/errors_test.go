package gatewayerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	gatewayerrors "retailpos/internal/gateway"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusNotFound, want: gatewayerrors.ErrNotFound},
		{status: http.StatusUnauthorized, want: gatewayerrors.ErrUnauthorized},
		{status: http.StatusForbidden, want: gatewayerrors.ErrUnauthorized},
		{status: http.StatusConflict, want: gatewayerrors.ErrRejected},
		{status: http.StatusInternalServerError, want: gatewayerrors.ErrRejected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("op: %w", &gatewayerrors.APIError{Status: tt.status})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserMessage(t *testing.T) {
	withMessage := fmt.Errorf("op: %w", &gatewayerrors.APIError{Status: 409, Message: "Category already exists"})
	withoutMessage := &gatewayerrors.APIError{Status: 500}

	assert.Equal(t, "Category already exists", gatewayerrors.UserMessage(withMessage, "Failed to add category"))
	assert.Equal(t, "Failed to add category", gatewayerrors.UserMessage(withoutMessage, "Failed to add category"))
	assert.Equal(t, "Failed to add category", gatewayerrors.UserMessage(errors.New("dial tcp"), "Failed to add category"))
}
