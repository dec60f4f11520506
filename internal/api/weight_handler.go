package api

import (
	"net/http"
	"strconv"

	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightHandler serves body-weight entries, stats and chart progress.
type WeightHandler struct {
	weightService service.WeightService
}

// NewWeightHandler creates a new WeightHandler.
func NewWeightHandler(weightService service.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

// --- Request Structs ---

type WeightEntryRequest struct {
	Weight float64 `json:"weight" binding:"required"`
	Notes  string  `json:"notes"`
}

// --- Handler Methods ---

// Create handles POST /weight. Always writes the caller's own history.
func (h *WeightHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req WeightEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.weightService.AddEntry(c.Request.Context(), userID, req.Weight, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// List handles GET /weight?clientId=. A trainer reads a bound client's
// entries; a client reads their own.
func (h *WeightHandler) List(c *gin.Context) {
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

	entries, err := h.weightService.ListEntries(c.Request.Context(), actorID, role, clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Update handles PATCH /weight/:id (owner only).
func (h *WeightHandler) Update(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	entryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID format")
		return
	}

	var req WeightEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.weightService.UpdateEntry(c.Request.Context(), actorID, entryID, req.Weight, req.Notes)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /weight/:id (owner only).
func (h *WeightHandler) Delete(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	entryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID format")
		return
	}

	if err := h.weightService.DeleteEntry(c.Request.Context(), actorID, entryID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Weight entry deleted"})
}

// Stats handles GET /weight/stats?clientId=.
func (h *WeightHandler) Stats(c *gin.Context) {
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

	stats, err := h.weightService.GetWeightStats(c.Request.Context(), actorID, role, clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Progress handles GET /weight/progress?clientId=&days=.
func (h *WeightHandler) Progress(c *gin.Context) {
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

	var days *int
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			abortWithError(c, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = &parsed
	}

	points, err := h.weightService.GetWeightProgress(c.Request.Context(), actorID, role, clientID, days)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}
