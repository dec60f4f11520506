package api

import (
	"net/http"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler serves programs, their sessions and prescribed exercises.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- Request Structs ---

type ProgramRequest struct {
	Name            string            `json:"name" binding:"required"`
	Description     string            `json:"description"`
	ClientID        *string           `json:"clientId"`
	IsTemplate      bool              `json:"isTemplate"`
	Duration        int               `json:"duration" binding:"required,min=1"`
	SessionsPerWeek int               `json:"sessionsPerWeek" binding:"required,min=1"`
	Difficulty      domain.Difficulty `json:"difficulty" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Goals           []string          `json:"goals"`
}

type SessionRequest struct {
	Name       string `json:"name" binding:"required"`
	DayOfWeek  *int   `json:"dayOfWeek" binding:"omitempty,min=1,max=7"`
	WeekNumber int    `json:"weekNumber" binding:"required,min=1"`
	Order      int    `json:"order" binding:"required,min=1"`
	RestDay    bool   `json:"restDay"`
}

type PrescriptionRequest struct {
	ExerciseID    string   `json:"exerciseId" binding:"required"`
	Order         int      `json:"order"`
	Sets          int      `json:"sets" binding:"required,min=1"`
	Reps          string   `json:"reps" binding:"required"`
	Weight        *float64 `json:"weight"`
	RestPeriod    int      `json:"restPeriod"`
	Tempo         string   `json:"tempo"`
	RPE           *int     `json:"rpe" binding:"omitempty,min=1,max=10"`
	Notes         string   `json:"notes"`
	IsSuperset    bool     `json:"isSuperset"`
	SupersetGroup *int     `json:"supersetGroup"`
}

// ProgramUpdateRequest carries a PATCH body: absent fields stay untouched.
// An explicit empty clientId unassigns the program.
type ProgramUpdateRequest struct {
	Name            *string            `json:"name"`
	Description     *string            `json:"description"`
	ClientID        *string            `json:"clientId"`
	IsTemplate      *bool              `json:"isTemplate"`
	Duration        *int               `json:"duration" binding:"omitempty,min=1"`
	SessionsPerWeek *int               `json:"sessionsPerWeek" binding:"omitempty,min=1"`
	Difficulty      *domain.Difficulty `json:"difficulty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Goals           []string           `json:"goals"`
}

type SessionUpdateRequest struct {
	Name       *string `json:"name"`
	DayOfWeek  *int    `json:"dayOfWeek" binding:"omitempty,min=1,max=7"`
	WeekNumber *int    `json:"weekNumber" binding:"omitempty,min=1"`
	Order      *int    `json:"order" binding:"omitempty,min=1"`
	RestDay    *bool   `json:"restDay"`
}

type PrescriptionUpdateRequest struct {
	ExerciseID    *string  `json:"exerciseId"`
	Order         *int     `json:"order"`
	Sets          *int     `json:"sets" binding:"omitempty,min=1"`
	Reps          *string  `json:"reps"`
	Weight        *float64 `json:"weight"`
	RestPeriod    *int     `json:"restPeriod"`
	Tempo         *string  `json:"tempo"`
	RPE           *int     `json:"rpe" binding:"omitempty,min=1,max=10"`
	Notes         *string  `json:"notes"`
	IsSuperset    *bool    `json:"isSuperset"`
	SupersetGroup *int     `json:"supersetGroup"`
}

func (r ProgramRequest) toInput() (service.ProgramInput, error) {
	input := service.ProgramInput{
		Name:            r.Name,
		Description:     r.Description,
		IsTemplate:      r.IsTemplate,
		Duration:        r.Duration,
		SessionsPerWeek: r.SessionsPerWeek,
		Difficulty:      r.Difficulty,
		Goals:           r.Goals,
	}
	if r.ClientID != nil && *r.ClientID != "" {
		clientID, err := primitive.ObjectIDFromHex(*r.ClientID)
		if err != nil {
			return input, err
		}
		input.ClientID = &clientID
	}
	return input, nil
}

func (r SessionRequest) toInput() service.SessionInput {
	return service.SessionInput{
		Name:       r.Name,
		DayOfWeek:  r.DayOfWeek,
		WeekNumber: r.WeekNumber,
		Order:      r.Order,
		RestDay:    r.RestDay,
	}
}

func (r ProgramUpdateRequest) toUpdate() (service.ProgramUpdate, error) {
	update := service.ProgramUpdate{
		Name:            r.Name,
		Description:     r.Description,
		IsTemplate:      r.IsTemplate,
		Duration:        r.Duration,
		SessionsPerWeek: r.SessionsPerWeek,
		Difficulty:      r.Difficulty,
		Goals:           r.Goals,
	}
	if r.ClientID != nil {
		if *r.ClientID == "" {
			update.RemoveClient = true
		} else {
			clientID, err := primitive.ObjectIDFromHex(*r.ClientID)
			if err != nil {
				return update, err
			}
			update.ClientID = &clientID
		}
	}
	return update, nil
}

func (r SessionUpdateRequest) toUpdate() service.SessionUpdate {
	return service.SessionUpdate{
		Name:       r.Name,
		DayOfWeek:  r.DayOfWeek,
		WeekNumber: r.WeekNumber,
		Order:      r.Order,
		RestDay:    r.RestDay,
	}
}

func (r PrescriptionUpdateRequest) toUpdate() (service.PrescriptionUpdate, error) {
	update := service.PrescriptionUpdate{
		Order:         r.Order,
		Sets:          r.Sets,
		Reps:          r.Reps,
		Weight:        r.Weight,
		RestPeriod:    r.RestPeriod,
		Tempo:         r.Tempo,
		RPE:           r.RPE,
		Notes:         r.Notes,
		IsSuperset:    r.IsSuperset,
		SupersetGroup: r.SupersetGroup,
	}
	if r.ExerciseID != nil {
		exerciseID, err := primitive.ObjectIDFromHex(*r.ExerciseID)
		if err != nil {
			return update, err
		}
		update.ExerciseID = &exerciseID
	}
	return update, nil
}

func (r PrescriptionRequest) toInput() (service.PrescriptionInput, error) {
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		return service.PrescriptionInput{}, err
	}
	return service.PrescriptionInput{
		ExerciseID:    exerciseID,
		Order:         r.Order,
		Sets:          r.Sets,
		Reps:          r.Reps,
		Weight:        r.Weight,
		RestPeriod:    r.RestPeriod,
		Tempo:         r.Tempo,
		RPE:           r.RPE,
		Notes:         r.Notes,
		IsSuperset:    r.IsSuperset,
		SupersetGroup: r.SupersetGroup,
	}, nil
}

// --- Program Methods ---

// Create handles POST /programs (trainer only).
func (h *ProgramHandler) Create(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), trainerID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// List handles GET /programs with optional isTemplate, difficulty and search
// query filters.
func (h *ProgramHandler) List(c *gin.Context) {
	filter := repository.ProgramFilter{
		Difficulty: domain.Difficulty(c.Query("difficulty")),
		Search:     c.Query("search"),
	}
	switch c.Query("isTemplate") {
	case "true":
		isTemplate := true
		filter.IsTemplate = &isTemplate
	case "false":
		isTemplate := false
		filter.IsTemplate = &isTemplate
	}

	programs, err := h.programService.ListPrograms(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// MyPrograms handles GET /programs/my-programs: owned programs for trainers,
// assigned programs for clients.
func (h *ProgramHandler) MyPrograms(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}

	programs, err := h.programService.GetUserPrograms(c.Request.Context(), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// Get handles GET /programs/:id (owner, assignee, or template).
func (h *ProgramHandler) Get(c *gin.Context) {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), viewerID, programID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// Update handles PATCH /programs/:id (owner only). Partial: omitted fields
// keep their stored values.
func (h *ProgramHandler) Update(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	var req ProgramUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), actorID, programID, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// Delete handles DELETE /programs/:id (owner only, soft delete).
func (h *ProgramHandler) Delete(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), actorID, programID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}

// CopyTemplate handles POST /programs/:id/copy/:clientId (trainer only).
func (h *ProgramHandler) CopyTemplate(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	program, err := h.programService.CopyTemplate(c.Request.Context(), trainerID, templateID, clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// --- Session Methods ---

// AddSession handles POST /programs/:id/sessions (owner only).
func (h *ProgramHandler) AddSession(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.programService.AddSession(c.Request.Context(), actorID, programID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSessions handles GET /programs/:id/sessions.
func (h *ProgramHandler) GetSessions(c *gin.Context) {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	sessions, err := h.programService.GetSessions(c.Request.Context(), viewerID, programID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// UpdateSession handles PATCH /programs/sessions/:sessionId (owner only).
func (h *ProgramHandler) UpdateSession(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req SessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.programService.UpdateSession(c.Request.Context(), actorID, sessionID, req.toUpdate())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession handles DELETE /programs/sessions/:sessionId (owner only).
func (h *ProgramHandler) DeleteSession(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if err := h.programService.DeleteSession(c.Request.Context(), actorID, sessionID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// --- Prescription Methods ---

// AddExercise handles POST /programs/sessions/:sessionId/exercises (owner only).
func (h *ProgramHandler) AddExercise(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.programService.AddExercise(c.Request.Context(), actorID, sessionID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetSessionExercises handles GET /programs/sessions/:sessionId/exercises.
func (h *ProgramHandler) GetSessionExercises(c *gin.Context) {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	exercises, err := h.programService.GetSessionExercises(c.Request.Context(), viewerID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// UpdateExercise handles PATCH /programs/exercises/:exerciseId (owner only).
func (h *ProgramHandler) UpdateExercise(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programExerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req PrescriptionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.programService.UpdateExercise(c.Request.Context(), actorID, programExerciseID, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise handles DELETE /programs/exercises/:exerciseId (owner only).
func (h *ProgramHandler) DeleteExercise(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programExerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.programService.DeleteExercise(c.Request.Context(), actorID, programExerciseID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise removed from session"})
}
