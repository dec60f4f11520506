package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
	"peakform/coaching-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("only the creator can modify this exercise")
	ErrExerciseValidation   = errors.New("exercise validation failed")
)

// managedVideoPrefix marks object keys owned by this service, as opposed to
// external video URLs pasted in by trainers.
const managedVideoPrefix = "exercise-videos/"

// ExerciseInput carries the mutable fields of a catalog exercise.
type ExerciseInput struct {
	Name         string
	NameEn       string
	Description  string
	Category     domain.ExerciseCategory
	Difficulty   domain.Difficulty
	MuscleGroups []string
	Equipment    []string
	Instructions []string
	Tips         []string
	VideoURL     string
	ThumbnailURL string
}

// ExerciseUpdate applies a partial update. Nil pointers and nil slices leave
// the stored value untouched.
type ExerciseUpdate struct {
	Name         *string
	NameEn       *string
	Description  *string
	Category     *domain.ExerciseCategory
	Difficulty   *domain.Difficulty
	MuscleGroups []string
	Equipment    []string
	Instructions []string
	Tips         []string
	VideoURL     *string
	ThumbnailURL *string
}

// VideoUpload is a presigned PUT URL plus the object key it will create.
type VideoUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ExerciseService manages the exercise catalog. Rows created by a user are
// mutable by that user only; system-seeded rows (no creator) are read-only.
type ExerciseService interface {
	CreateExercise(ctx context.Context, creatorID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, actorID, exerciseID primitive.ObjectID, update ExerciseUpdate) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, actorID, exerciseID primitive.ObjectID) error
	GenerateVideoUploadURL(ctx context.Context, actorID, exerciseID primitive.ObjectID, contentType string) (*VideoUpload, error)
}

// --- Service Implementation ---

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, creatorID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" || input.Category == "" || input.Difficulty == "" {
		return nil, ErrExerciseValidation
	}

	exercise := &domain.Exercise{
		Name:         input.Name,
		NameEn:       input.NameEn,
		Description:  input.Description,
		Category:     input.Category,
		Difficulty:   input.Difficulty,
		MuscleGroups: input.MuscleGroups,
		Equipment:    input.Equipment,
		Instructions: input.Instructions,
		Tips:         input.Tips,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		IsActive:     true,
		CreatedBy:    &creatorID,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExercise resolves a single exercise, soft-deleted ones included, so that
// historical prescriptions keep their reference. Managed video keys are
// swapped for a presigned download URL.
func (s *exerciseService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if s.fileStorage != nil && strings.HasPrefix(exercise.VideoURL, managedVideoPrefix) {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoURL, storage.DefaultPresignedURLExpiry)
		if err == nil {
			exercise.VideoURL = url
		}
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	return s.exerciseRepo.Find(ctx, filter)
}

// UpdateExercise applies the set fields only; omitted fields keep their
// stored values.
func (s *exerciseService) UpdateExercise(ctx context.Context, actorID, exerciseID primitive.ObjectID, update ExerciseUpdate) (*domain.Exercise, error) {
	if update.Name != nil && *update.Name == "" {
		return nil, ErrExerciseValidation
	}
	if update.Category != nil && *update.Category == "" {
		return nil, ErrExerciseValidation
	}
	if update.Difficulty != nil && *update.Difficulty == "" {
		return nil, ErrExerciseValidation
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !existing.OwnedBy(actorID) {
		return nil, ErrExerciseAccessDenied
	}

	// Dropping a managed video key means the uploaded object is orphaned;
	// remove it from storage as well.
	if update.VideoURL != nil && s.fileStorage != nil &&
		strings.HasPrefix(existing.VideoURL, managedVideoPrefix) &&
		existing.VideoURL != *update.VideoURL {
		_ = s.fileStorage.DeleteObject(ctx, existing.VideoURL)
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.NameEn != nil {
		existing.NameEn = *update.NameEn
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.Category != nil {
		existing.Category = *update.Category
	}
	if update.Difficulty != nil {
		existing.Difficulty = *update.Difficulty
	}
	if update.MuscleGroups != nil {
		existing.MuscleGroups = update.MuscleGroups
	}
	if update.Equipment != nil {
		existing.Equipment = update.Equipment
	}
	if update.Instructions != nil {
		existing.Instructions = update.Instructions
	}
	if update.Tips != nil {
		existing.Tips = update.Tips
	}
	if update.VideoURL != nil {
		existing.VideoURL = *update.VideoURL
	}
	if update.ThumbnailURL != nil {
		existing.ThumbnailURL = *update.ThumbnailURL
	}

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise soft-deletes the exercise. The row survives so existing
// prescriptions and logs stay resolvable.
func (s *exerciseService) DeleteExercise(ctx context.Context, actorID, exerciseID primitive.ObjectID) error {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if !existing.OwnedBy(actorID) {
		return ErrExerciseAccessDenied
	}

	return s.exerciseRepo.SetActive(ctx, exerciseID, false)
}

// GenerateVideoUploadURL presigns a direct PUT upload for an exercise video
// and records the new object key on the exercise. A previously uploaded video
// is deleted from storage.
func (s *exerciseService) GenerateVideoUploadURL(ctx context.Context, actorID, exerciseID primitive.ObjectID, contentType string) (*VideoUpload, error) {
	if s.fileStorage == nil {
		return nil, errors.New("file storage is not configured")
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !existing.OwnedBy(actorID) {
		return nil, ErrExerciseAccessDenied
	}

	objectKey := fmt.Sprintf("%s%s/%s", managedVideoPrefix, exerciseID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(existing.VideoURL, managedVideoPrefix) {
		_ = s.fileStorage.DeleteObject(ctx, existing.VideoURL)
	}

	existing.VideoURL = objectKey
	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return &VideoUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}
