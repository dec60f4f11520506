package service

import (
	"context"
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrainerClientLifecycle walks the whole flow: a trainer onboards a
// client through an invitation link, builds a template, clones it for the
// client, and the client performs and completes the first session.
func TestTrainerClientLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	userRepo := newFakeUserRepo(clock)
	tokenRepo := newFakeTokenRepo(clock)
	exerciseRepo := newFakeExerciseRepo(clock)
	programRepo := newFakeProgramRepo(clock)
	workoutRepo := newFakeWorkoutRepo(clock)

	authSvc := NewAuthService(userRepo, tokenRepo, testJWTSecret, time.Hour, "http://localhost:3000")
	exerciseSvc := NewExerciseService(exerciseRepo, nil)
	programSvc := NewProgramService(programRepo, exerciseRepo, userRepo)
	workoutSvc := NewWorkoutService(workoutRepo, programRepo, userRepo)

	// Trainer registers and issues an invitation.
	trainer, err := authSvc.Register(ctx, RegisterInput{
		Email: "coach@example.com", Password: "supersecret", Role: domain.RoleTrainer,
	})
	require.NoError(t, err)
	invite, err := authSvc.GenerateRegistrationToken(ctx, trainer.ID)
	require.NoError(t, err)

	// Client redeems it and ends up bound to the trainer.
	client, err := authSvc.RegisterWithToken(ctx, invite.Token.Token, RegisterInput{
		Email: "client@example.com", Password: "supersecret", FirstName: "Sam",
	})
	require.NoError(t, err)
	require.NotNil(t, client.TrainerID)
	assert.Equal(t, trainer.ID, *client.TrainerID)

	// Trainer builds a one-session template with two exercises.
	bench, err := exerciseSvc.CreateExercise(ctx, trainer.ID, ExerciseInput{
		Name: "Bench Press", Category: domain.CategoryChest, Difficulty: domain.DifficultyIntermediate,
	})
	require.NoError(t, err)
	row, err := exerciseSvc.CreateExercise(ctx, trainer.ID, ExerciseInput{
		Name: "Barbell Row", Category: domain.CategoryBack, Difficulty: domain.DifficultyIntermediate,
	})
	require.NoError(t, err)

	template, err := programSvc.CreateProgram(ctx, trainer.ID, ProgramInput{
		Name: "Upper Body Base", IsTemplate: true, Duration: 4, SessionsPerWeek: 2, Difficulty: domain.DifficultyIntermediate,
	})
	require.NoError(t, err)
	session, err := programSvc.AddSession(ctx, trainer.ID, template.ID, SessionInput{Name: "Upper A", WeekNumber: 1, Order: 1})
	require.NoError(t, err)
	_, err = programSvc.AddExercise(ctx, trainer.ID, session.ID, PrescriptionInput{ExerciseID: bench.ID, Order: 1, Sets: 3, Reps: "8-12"})
	require.NoError(t, err)
	_, err = programSvc.AddExercise(ctx, trainer.ID, session.ID, PrescriptionInput{ExerciseID: row.ID, Order: 2, Sets: 3, Reps: "8-12"})
	require.NoError(t, err)

	// Clone for the client.
	clone, err := programSvc.CopyTemplate(ctx, trainer.ID, template.ID, client.ID)
	require.NoError(t, err)
	cloneSessions, err := programSvc.GetSessions(ctx, client.ID, clone.ID)
	require.NoError(t, err)
	require.Len(t, cloneSessions, 1)
	cloneExercises, err := programSvc.GetSessionExercises(ctx, client.ID, cloneSessions[0].ID)
	require.NoError(t, err)
	require.Len(t, cloneExercises, 2)

	// Client starts the session and logs both exercises.
	log, err := workoutSvc.CreateWorkoutLog(ctx, client.ID, WorkoutLogInput{ProgramSessionID: cloneSessions[0].ID})
	require.NoError(t, err)
	assert.False(t, log.IsCompleted)
	for _, prescription := range cloneExercises {
		_, err = workoutSvc.CreateExerciseLog(ctx, client.ID, domain.RoleUser, log.ID, ExerciseLogInput{
			ProgramExerciseID: prescription.ID, ActualSets: 3, ActualReps: "12,10,8", IsCompleted: true,
		})
		require.NoError(t, err)
	}

	completed := true
	finished, err := workoutSvc.UpdateWorkoutLog(ctx, client.ID, domain.RoleUser, log.ID, WorkoutLogUpdate{IsCompleted: &completed})
	require.NoError(t, err)
	assert.True(t, finished.IsCompleted)
	assert.NotNil(t, finished.CompletedAt)

	stats, err := workoutSvc.GetWorkoutStats(ctx, client.ID, domain.RoleUser, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalWorkouts)
}
