package api

import (
	"errors"
	"net/http"

	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps every service sentinel to its HTTP status. Keeping the
// taxonomy in one table keeps the Conflict/Unauthorized/Forbidden/NotFound/
// BadRequest split consistent across handlers.
var statusFor = map[error]int{
	service.ErrEmailTaken: http.StatusConflict,

	service.ErrAuthenticationFailed: http.StatusUnauthorized,
	service.ErrRegistrationToken:    http.StatusUnauthorized,

	service.ErrExerciseAccessDenied: http.StatusForbidden,
	service.ErrProgramAccessDenied:  http.StatusForbidden,
	service.ErrWorkoutAccessDenied:  http.StatusForbidden,
	service.ErrWeightAccessDenied:   http.StatusForbidden,
	service.ErrClientAccessDenied:   http.StatusForbidden,
	service.ErrNotAssignedToSession: http.StatusForbidden,
	service.ErrUnknownRole:          http.StatusForbidden,

	service.ErrExerciseNotFound:    http.StatusNotFound,
	service.ErrProgramNotFound:     http.StatusNotFound,
	service.ErrSessionNotFound:     http.StatusNotFound,
	service.ErrPrescriptionMissing: http.StatusNotFound,
	service.ErrWorkoutLogNotFound:  http.StatusNotFound,
	service.ErrExerciseLogNotFound: http.StatusNotFound,
	service.ErrWeightEntryNotFound: http.StatusNotFound,
	service.ErrClientNotFound:      http.StatusNotFound,

	service.ErrNotTemplate:            http.StatusBadRequest,
	service.ErrWorkoutAlreadyActive:   http.StatusBadRequest,
	service.ErrExerciseOutsideSession: http.StatusBadRequest,
	service.ErrCompletedLogDelete:     http.StatusBadRequest,
	service.ErrClientRequired:         http.StatusBadRequest,
	service.ErrWeightOutOfRange:       http.StatusBadRequest,
	service.ErrExerciseValidation:     http.StatusBadRequest,
	service.ErrProgramValidation:      http.StatusBadRequest,
	service.ErrWorkoutValidation:      http.StatusBadRequest,
}

// handleServiceError writes the mapped status for a known sentinel, or a
// generic 500 that leaks nothing for everything else.
func handleServiceError(c *gin.Context, err error) {
	for sentinel, status := range statusFor {
		if errors.Is(err, sentinel) {
			abortWithError(c, status, sentinel.Error())
			return
		}
	}
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
}
