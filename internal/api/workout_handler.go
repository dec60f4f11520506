package api

import (
	"net/http"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler serves workout logs and their exercise logs.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type ExerciseLogRequest struct {
	ProgramExerciseID string `json:"programExerciseId" binding:"required"`
	ActualSets        int    `json:"actualSets" binding:"min=0"`
	ActualReps        string `json:"actualReps"`
	ActualWeight      string `json:"actualWeight"`
	ActualRestPeriod  *int   `json:"actualRestPeriod"`
	ActualRPE         *int   `json:"actualRpe" binding:"omitempty,min=1,max=10"`
	Notes             string `json:"notes"`
	IsCompleted       bool   `json:"isCompleted"`
}

type WorkoutLogRequest struct {
	ProgramSessionID string               `json:"programSessionId" binding:"required"`
	Notes            string               `json:"notes"`
	Rating           *int                 `json:"rating" binding:"omitempty,min=1,max=5"`
	IsCompleted      bool                 `json:"isCompleted"`
	ExerciseLogs     []ExerciseLogRequest `json:"exerciseLogs"`
}

type WorkoutLogUpdateRequest struct {
	Notes       *string `json:"notes"`
	Rating      *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	IsCompleted *bool   `json:"isCompleted"`
}

type ExerciseLogUpdateRequest struct {
	ActualSets       *int    `json:"actualSets"`
	ActualReps       *string `json:"actualReps"`
	ActualWeight     *string `json:"actualWeight"`
	ActualRestPeriod *int    `json:"actualRestPeriod"`
	ActualRPE        *int    `json:"actualRpe" binding:"omitempty,min=1,max=10"`
	Notes            *string `json:"notes"`
	IsCompleted      *bool   `json:"isCompleted"`
}

// WorkoutLogResponse embeds the exercise logs of one workout log.
type WorkoutLogResponse struct {
	domain.WorkoutLog
	ExerciseLogs []domain.ExerciseLog `json:"exerciseLogs"`
}

func (r ExerciseLogRequest) toInput() (service.ExerciseLogInput, error) {
	programExerciseID, err := primitive.ObjectIDFromHex(r.ProgramExerciseID)
	if err != nil {
		return service.ExerciseLogInput{}, err
	}
	return service.ExerciseLogInput{
		ProgramExerciseID: programExerciseID,
		ActualSets:        r.ActualSets,
		ActualReps:        r.ActualReps,
		ActualWeight:      r.ActualWeight,
		ActualRestPeriod:  r.ActualRestPeriod,
		ActualRPE:         r.ActualRPE,
		Notes:             r.Notes,
		IsCompleted:       r.IsCompleted,
	}, nil
}

// --- Handler Methods ---

// CreateLog handles POST /workouts/logs: a client starts a session,
// optionally recording exercise results in the same call.
func (h *WorkoutHandler) CreateLog(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req WorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(req.ProgramSessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	input := service.WorkoutLogInput{
		ProgramSessionID: sessionID,
		Notes:            req.Notes,
		Rating:           req.Rating,
		IsCompleted:      req.IsCompleted,
	}
	for _, exReq := range req.ExerciseLogs {
		exInput, err := exReq.toInput()
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid program exercise ID format")
			return
		}
		input.ExerciseLogs = append(input.ExerciseLogs, exInput)
	}

	log, err := h.workoutService.CreateWorkoutLog(c.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// ListLogs handles GET /workouts/logs: own logs for a client, bound clients'
// logs for a trainer.
func (h *WorkoutHandler) ListLogs(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}

	logs, err := h.workoutService.ListWorkoutLogs(c.Request.Context(), actorID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetLog handles GET /workouts/logs/:id, embedding the exercise logs.
func (h *WorkoutHandler) GetLog(c *gin.Context) {
	actorID, role, logID, ok := h.logRequestScope(c)
	if !ok {
		return
	}

	log, exerciseLogs, err := h.workoutService.GetWorkoutLog(c.Request.Context(), actorID, role, logID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, WorkoutLogResponse{WorkoutLog: *log, ExerciseLogs: exerciseLogs})
}

// UpdateLog handles PATCH /workouts/logs/:id.
func (h *WorkoutHandler) UpdateLog(c *gin.Context) {
	actorID, role, logID, ok := h.logRequestScope(c)
	if !ok {
		return
	}

	var req WorkoutLogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	log, err := h.workoutService.UpdateWorkoutLog(c.Request.Context(), actorID, role, logID, service.WorkoutLogUpdate{
		Notes:       req.Notes,
		Rating:      req.Rating,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteLog handles DELETE /workouts/logs/:id.
func (h *WorkoutHandler) DeleteLog(c *gin.Context) {
	actorID, role, logID, ok := h.logRequestScope(c)
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkoutLog(c.Request.Context(), actorID, role, logID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout log deleted"})
}

// AddExerciseLog handles POST /workouts/logs/:id/exercises.
func (h *WorkoutHandler) AddExerciseLog(c *gin.Context) {
	actorID, role, logID, ok := h.logRequestScope(c)
	if !ok {
		return
	}

	var req ExerciseLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program exercise ID format")
		return
	}

	exerciseLog, err := h.workoutService.CreateExerciseLog(c.Request.Context(), actorID, role, logID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exerciseLog)
}

// UpdateExerciseLog handles PATCH /workouts/exercise-logs/:id.
func (h *WorkoutHandler) UpdateExerciseLog(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}
	exerciseLogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise log ID format")
		return
	}

	var req ExerciseLogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exerciseLog, err := h.workoutService.UpdateExerciseLog(c.Request.Context(), actorID, role, exerciseLogID, service.ExerciseLogUpdate{
		ActualSets:       req.ActualSets,
		ActualReps:       req.ActualReps,
		ActualWeight:     req.ActualWeight,
		ActualRestPeriod: req.ActualRestPeriod,
		ActualRPE:        req.ActualRPE,
		Notes:            req.Notes,
		IsCompleted:      req.IsCompleted,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exerciseLog)
}

// Stats handles GET /workouts/stats?clientId=. Trainers must name one of
// their own clients; clients read their own stats.
func (h *WorkoutHandler) Stats(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}

	clientID, ok := optionalIDQuery(c, "clientId")
	if !ok {
		return
	}

	stats, err := h.workoutService.GetWorkoutStats(c.Request.Context(), actorID, role, clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// logRequestScope pulls the actor identity and the :id path parameter shared
// by the per-log routes. On failure the response is already written.
func (h *WorkoutHandler) logRequestScope(c *gin.Context) (primitive.ObjectID, domain.Role, primitive.ObjectID, bool) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, "", primitive.NilObjectID, false
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return primitive.NilObjectID, "", primitive.NilObjectID, false
	}
	logID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout log ID format")
		return primitive.NilObjectID, "", primitive.NilObjectID, false
	}
	return actorID, role, logID, true
}

// optionalIDQuery parses an optional ObjectID query parameter. On a malformed
// value the response is already written and ok is false.
func optionalIDQuery(c *gin.Context, name string) (*primitive.ObjectID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return nil, false
	}
	return &id, true
}
