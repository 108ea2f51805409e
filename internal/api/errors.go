package api

import (
	"alcyxob/liftlog/internal/catalog"
	"alcyxob/liftlog/internal/service"
	"alcyxob/liftlog/internal/session"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusFor maps service errors onto HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidImageType),
		errors.Is(err, service.ErrUnknownSource),
		errors.Is(err, session.ErrUnknownField),
		errors.Is(err, catalog.ErrMissingAPIKey):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrMeasurementNotFound),
		errors.Is(err, service.ErrPlanDayNotFound),
		errors.Is(err, service.ErrGoalNotSet),
		errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrNothingToRestore),
		errors.Is(err, session.ErrEntryNotFound),
		errors.Is(err, session.ErrSetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrSessionActive),
		errors.Is(err, service.ErrSaveInProgress),
		errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusConflict
	case errors.Is(err, service.ErrBackendNotConfigured),
		errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondWithError writes err using statusFor. Internal errors are logged and
// replaced by fallback so driver messages never reach the client.
func respondWithError(c *gin.Context, err error, fallback string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, code, fallback)
		return
	}
	abortWithError(c, code, err.Error())
}
