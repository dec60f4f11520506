package service

import (
	"context"
	"testing"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestExerciseService(t *testing.T) (ExerciseService, *fakeExerciseRepo) {
	t.Helper()
	repo := newFakeExerciseRepo(newFakeClock())
	return NewExerciseService(repo, nil), repo
}

func benchPressInput() ExerciseInput {
	return ExerciseInput{
		Name:         "Жим лежа",
		NameEn:       "Bench Press",
		Category:     domain.CategoryChest,
		Difficulty:   domain.DifficultyIntermediate,
		MuscleGroups: []string{"chest", "triceps"},
		Equipment:    []string{"barbell", "bench"},
		Instructions: []string{"Lie on the bench", "Lower the bar", "Press up"},
	}
}

func TestCreateExerciseRecordsCreator(t *testing.T) {
	svc, _ := newTestExerciseService(t)
	creatorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(context.Background(), creatorID, benchPressInput())
	require.NoError(t, err)
	assert.True(t, exercise.IsActive)
	require.NotNil(t, exercise.CreatedBy)
	assert.Equal(t, creatorID, *exercise.CreatedBy)
	// Ordered list fields round-trip exactly.
	assert.Equal(t, []string{"chest", "triceps"}, exercise.MuscleGroups)
	assert.Equal(t, []string{"Lie on the bench", "Lower the bar", "Press up"}, exercise.Instructions)
}

func TestSoftDeleteKeepsRowResolvable(t *testing.T) {
	svc, _ := newTestExerciseService(t)
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, creatorID, benchPressInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(ctx, creatorID, exercise.ID))

	// Still resolvable by ID, now inactive.
	got, err := svc.GetExercise(ctx, exercise.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Absent from default catalog reads.
	listed, err := svc.ListExercises(ctx, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestOnlyCreatorMayMutate(t *testing.T) {
	svc, _ := newTestExerciseService(t)
	ctx := context.Background()
	creatorID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, creatorID, benchPressInput())
	require.NoError(t, err)

	_, err = svc.UpdateExercise(ctx, strangerID, exercise.ID, ExerciseUpdate{Name: stringPtr("Hijacked")})
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	err = svc.DeleteExercise(ctx, strangerID, exercise.ID)
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)
}

func TestUpdateExerciseIsPartial(t *testing.T) {
	svc, _ := newTestExerciseService(t)
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	exercise, err := svc.CreateExercise(ctx, creatorID, benchPressInput())
	require.NoError(t, err)

	// A description-only body touches nothing else.
	updated, err := svc.UpdateExercise(ctx, creatorID, exercise.ID, ExerciseUpdate{
		Description: stringPtr("Flat barbell press"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Flat barbell press", updated.Description)
	assert.Equal(t, "Жим лежа", updated.Name)
	assert.Equal(t, domain.CategoryChest, updated.Category)
	assert.Equal(t, []string{"chest", "triceps"}, updated.MuscleGroups)

	// Clearing a required field is still rejected.
	_, err = svc.UpdateExercise(ctx, creatorID, exercise.ID, ExerciseUpdate{Name: stringPtr("")})
	assert.ErrorIs(t, err, ErrExerciseValidation)
}

func TestSystemExercisesAreImmutable(t *testing.T) {
	svc, repo := newTestExerciseService(t)
	ctx := context.Background()

	// System-seeded row: no creator.
	seeded := &domain.Exercise{
		Name:       "Squat",
		Category:   domain.CategoryLegs,
		Difficulty: domain.DifficultyBeginner,
		IsActive:   true,
	}
	seededID, err := repo.Create(ctx, seeded)
	require.NoError(t, err)

	actorID := primitive.NewObjectID()
	_, err = svc.UpdateExercise(ctx, actorID, seededID, ExerciseUpdate{Name: stringPtr("Front Squat")})
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	err = svc.DeleteExercise(ctx, actorID, seededID)
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)
}

func TestListExercisesFilters(t *testing.T) {
	svc, _ := newTestExerciseService(t)
	ctx := context.Background()
	creatorID := primitive.NewObjectID()

	_, err := svc.CreateExercise(ctx, creatorID, benchPressInput())
	require.NoError(t, err)

	squat := ExerciseInput{
		Name:         "Приседания",
		NameEn:       "Back Squat",
		Category:     domain.CategoryLegs,
		Difficulty:   domain.DifficultyAdvanced,
		MuscleGroups: []string{"quads", "glutes"},
	}
	_, err = svc.CreateExercise(ctx, creatorID, squat)
	require.NoError(t, err)

	byCategory, err := svc.ListExercises(ctx, repository.ExerciseFilter{Category: domain.CategoryLegs})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Приседания", byCategory[0].Name)

	byMuscle, err := svc.ListExercises(ctx, repository.ExerciseFilter{MuscleGroup: "tricep"})
	require.NoError(t, err)
	require.Len(t, byMuscle, 1)
	assert.Equal(t, "Bench Press", byMuscle[0].NameEn)

	bySearch, err := svc.ListExercises(ctx, repository.ExerciseFilter{Search: "squat"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	all, err := svc.ListExercises(ctx, repository.ExerciseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateExerciseValidation(t *testing.T) {
	svc, _ := newTestExerciseService(t)

	_, err := svc.CreateExercise(context.Background(), primitive.NewObjectID(), ExerciseInput{Name: "No category"})
	assert.ErrorIs(t, err, ErrExerciseValidation)
}
