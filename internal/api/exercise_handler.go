package api

import (
	"net/http"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request Structs ---

type ExerciseRequest struct {
	Name         string                  `json:"name" binding:"required"`
	NameEn       string                  `json:"nameEn"`
	Description  string                  `json:"description"`
	Category     domain.ExerciseCategory `json:"category" binding:"required,oneof=CHEST BACK LEGS SHOULDERS ARMS CORE CARDIO FULL_BODY"`
	Difficulty   domain.Difficulty       `json:"difficulty" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MuscleGroups []string                `json:"muscleGroups"`
	Equipment    []string                `json:"equipment"`
	Instructions []string                `json:"instructions"`
	Tips         []string                `json:"tips"`
	VideoURL     string                  `json:"videoUrl"`
	ThumbnailURL string                  `json:"thumbnailUrl"`
}

// ExerciseUpdateRequest carries a PATCH body: absent fields stay untouched.
type ExerciseUpdateRequest struct {
	Name         *string                  `json:"name"`
	NameEn       *string                  `json:"nameEn"`
	Description  *string                  `json:"description"`
	Category     *domain.ExerciseCategory `json:"category" binding:"omitempty,oneof=CHEST BACK LEGS SHOULDERS ARMS CORE CARDIO FULL_BODY"`
	Difficulty   *domain.Difficulty       `json:"difficulty" binding:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	MuscleGroups []string                 `json:"muscleGroups"`
	Equipment    []string                 `json:"equipment"`
	Instructions []string                 `json:"instructions"`
	Tips         []string                 `json:"tips"`
	VideoURL     *string                  `json:"videoUrl"`
	ThumbnailURL *string                  `json:"thumbnailUrl"`
}

type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:         r.Name,
		NameEn:       r.NameEn,
		Description:  r.Description,
		Category:     r.Category,
		Difficulty:   r.Difficulty,
		MuscleGroups: r.MuscleGroups,
		Equipment:    r.Equipment,
		Instructions: r.Instructions,
		Tips:         r.Tips,
		VideoURL:     r.VideoURL,
		ThumbnailURL: r.ThumbnailURL,
	}
}

func (r ExerciseUpdateRequest) toUpdate() service.ExerciseUpdate {
	return service.ExerciseUpdate{
		Name:         r.Name,
		NameEn:       r.NameEn,
		Description:  r.Description,
		Category:     r.Category,
		Difficulty:   r.Difficulty,
		MuscleGroups: r.MuscleGroups,
		Equipment:    r.Equipment,
		Instructions: r.Instructions,
		Tips:         r.Tips,
		VideoURL:     r.VideoURL,
		ThumbnailURL: r.ThumbnailURL,
	}
}

// --- Handler Methods ---

// List handles GET /exercises with optional category, difficulty, muscleGroup
// and search query filters. Public.
func (h *ExerciseHandler) List(c *gin.Context) {
	filter := repository.ExerciseFilter{
		Category:    domain.ExerciseCategory(c.Query("category")),
		Difficulty:  domain.Difficulty(c.Query("difficulty")),
		MuscleGroup: c.Query("muscleGroup"),
		Search:      c.Query("search"),
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// Get handles GET /exercises/:id. Public; soft-deleted rows still resolve.
func (h *ExerciseHandler) Get(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), exerciseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// Create handles POST /exercises.
func (h *ExerciseHandler) Create(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), actorID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// Update handles PATCH /exercises/:id. Creator only; omitted fields keep
// their stored values.
func (h *ExerciseHandler) Update(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req ExerciseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), actorID, exerciseID, req.toUpdate())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// Delete handles DELETE /exercises/:id. Creator only; soft delete.
func (h *ExerciseHandler) Delete(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), actorID, exerciseID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted"})
}

// VideoUploadURL handles POST /exercises/:id/video-upload-url. Creator only.
func (h *ExerciseHandler) VideoUploadURL(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	upload, err := h.exerciseService.GenerateVideoUploadURL(c.Request.Context(), actorID, exerciseID, req.ContentType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}
