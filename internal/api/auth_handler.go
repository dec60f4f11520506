package api

import (
	"net/http"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler serves registration, login, invitations and the trainer's
// client views.
type AuthHandler struct {
	authService    service.AuthService
	trainerService service.TrainerService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, trainerService service.TrainerService) *AuthHandler {
	return &AuthHandler{authService: authService, trainerService: trainerService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=8"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role" binding:"omitempty,oneof=TRAINER USER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenRegisterRequest struct {
	Token     string `json:"token" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserResponse excludes sensitive info like the password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FirstName string      `json:"firstName,omitempty"`
	LastName  string      `json:"lastName,omitempty"`
	Role      domain.Role `json:"role"`
	TrainerID *string     `json:"trainerId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type RegistrationLinkResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Link      string    `json:"link"`
}

// --- Handler Methods ---

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{AccessToken: token, User: MapUserToResponse(user)})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GenerateRegistrationLink handles POST /auth/generate-registration-link
// (trainer only).
func (h *AuthHandler) GenerateRegistrationLink(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	invite, err := h.authService.GenerateRegistrationToken(c.Request.Context(), trainerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RegistrationLinkResponse{
		Token:     invite.Token.Token,
		ExpiresAt: invite.Token.ExpiresAt,
		Link:      invite.Link,
	})
}

// RegisterWithToken handles POST /auth/register-with-token.
func (h *AuthHandler) RegisterWithToken(c *gin.Context) {
	var req TokenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.RegisterWithToken(c.Request.Context(), req.Token, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.respondWithSession(c, http.StatusCreated, user)
}

// ListRegistrationTokens handles GET /auth/registration-tokens (trainer only).
func (h *AuthHandler) ListRegistrationTokens(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	tokens, err := h.authService.ListRegistrationTokens(c.Request.Context(), trainerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// ListClients handles GET /auth/clients (trainer only).
func (h *AuthHandler) ListClients(c *gin.Context) {
	clients, err := h.trainerService.ListClients(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]UserResponse, len(clients))
	for i := range clients {
		responses[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetClientDetails handles GET /auth/clients/:id/details (trainer only).
func (h *AuthHandler) GetClientDetails(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	details, err := h.trainerService.GetClientDetails(c.Request.Context(), clientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, user *domain.User) {
	token, err := h.authService.IssueToken(user)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(status, SessionResponse{AccessToken: token, User: MapUserToResponse(user)})
}

// MapUserToResponse converts a domain User to its DTO, converting ObjectIDs
// to hex strings.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.TrainerID != nil && *user.TrainerID != primitive.NilObjectID {
		trainerIDHex := user.TrainerID.Hex()
		resp.TrainerID = &trainerIDHex
	}
	return resp
}
