package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrRegistrationToken    = errors.New("invalid or expired registration token")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

const (
	bcryptCost            = 12
	saltBytes             = 16
	registrationTokenTTL  = 7 * 24 * time.Hour
	registrationTokenSize = 32
)

// RegisterInput carries the fields of a self-service or invited registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// RegistrationInvite pairs a freshly issued token with the link a trainer
// shares with the prospective client.
type RegistrationInvite struct {
	Token *domain.RegistrationToken
	Link  string
}

// AuthService handles account creation, credential checks and invitations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	RegisterWithToken(ctx context.Context, tokenValue string, input RegisterInput) (*domain.User, error)
	GenerateRegistrationToken(ctx context.Context, trainerID primitive.ObjectID) (*RegistrationInvite, error)
	ListRegistrationTokens(ctx context.Context, trainerID primitive.ObjectID) ([]domain.RegistrationToken, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// IssueToken signs a session token for an already-authenticated user, so
	// registration can hand back the same response shape as login.
	IssueToken(user *domain.User) (string, error)
	GetJWTSecret() string
}

// --- Service Implementation ---

type authService struct {
	userRepo        repository.UserRepository
	tokenRepo       repository.TokenRepository
	jwtSecret       string
	jwtExpiration   time.Duration
	frontendBaseURL string
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtSecret string, jwtExpiration time.Duration, frontendBaseURL string) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		jwtSecret:       jwtSecret,
		jwtExpiration:   jwtExpiration,
		frontendBaseURL: frontendBaseURL,
	}
}

// Register creates an account with the requested role. The username mirrors
// the email address.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}

	return s.createUser(ctx, input, nil)
}

// RegisterWithToken redeems a trainer invitation: the new account gets the
// USER role and is bound to the issuing trainer. Token checks run in order:
// existence, single use, expiry.
func (s *authService) RegisterWithToken(ctx context.Context, tokenValue string, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	token, err := s.tokenRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRegistrationToken
		}
		return nil, err
	}
	if !token.Redeemable(time.Now()) {
		return nil, ErrRegistrationToken
	}

	input.Role = domain.RoleUser
	user, err := s.createUser(ctx, input, &token.TrainerID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.MarkUsed(ctx, token.ID, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) createUser(ctx context.Context, input RegisterInput, trainerID *primitive.ObjectID) (*domain.User, error) {
	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, ErrHashingFailed
	}
	hash, err := hashPassword(input.Password, salt)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Email:        input.Email,
		Username:     input.Email,
		PasswordHash: hash,
		Salt:         salt,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		TrainerID:    trainerID,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique email index catches the race between check and insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	user.ID = userID
	return user, nil
}

// Login verifies credentials and issues a JWT.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if !verifyPassword(password, user.Salt, user.PasswordHash) {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

// GenerateRegistrationToken issues a 7-day single-use invitation for the trainer.
func (s *authService) GenerateRegistrationToken(ctx context.Context, trainerID primitive.ObjectID) (*RegistrationInvite, error) {
	raw := make([]byte, registrationTokenSize)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	token := &domain.RegistrationToken{
		Token:     hex.EncodeToString(raw),
		TrainerID: trainerID,
		ExpiresAt: time.Now().Add(registrationTokenTTL),
	}
	tokenID, err := s.tokenRepo.Create(ctx, token)
	if err != nil {
		return nil, err
	}
	token.ID = tokenID

	return &RegistrationInvite{
		Token: token,
		Link:  fmt.Sprintf("%s/register?token=%s", s.frontendBaseURL, token.Token),
	}, nil
}

func (s *authService) ListRegistrationTokens(ctx context.Context, trainerID primitive.ObjectID) ([]domain.RegistrationToken, error) {
	return s.tokenRepo.GetByTrainerID(ctx, trainerID)
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	return user, nil
}

// --- Password Helpers ---

// generateSalt returns a random per-user salt, hex encoded.
func generateSalt() (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// hashPassword concatenates password and salt before hashing, so equal
// passwords never share a bcrypt input across accounts.
func hashPassword(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(password, salt, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+salt)) == nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "coaching-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) IssueToken(user *domain.User) (string, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		return "", ErrTokenGeneration
	}
	return token, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
