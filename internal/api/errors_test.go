package api

import (
	"alcyxob/liftlog/internal/catalog"
	"alcyxob/liftlog/internal/service"
	"alcyxob/liftlog/internal/session"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name is required", service.ErrValidation), http.StatusBadRequest},
		{session.ErrUnknownField, http.StatusBadRequest},
		{catalog.ErrMissingAPIKey, http.StatusBadRequest},
		{service.ErrAuthenticationFailed, http.StatusUnauthorized},
		{service.ErrNoActiveSession, http.StatusNotFound},
		{session.ErrSetNotFound, http.StatusNotFound},
		{service.ErrSessionActive, http.StatusConflict},
		{service.ErrSaveInProgress, http.StatusConflict},
		{service.ErrConfirmationRequired, http.StatusConflict},
		{service.ErrBackendNotConfigured, http.StatusServiceUnavailable},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
