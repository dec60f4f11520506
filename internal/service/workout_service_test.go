package service

import (
	"context"
	"testing"
	"time"

	"peakform/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	svc           WorkoutService
	programSvc    ProgramService
	userRepo      *fakeUserRepo
	trainer       *domain.User
	otherTrainer  *domain.User
	client        *domain.User
	session       *domain.ProgramSession
	otherSession  *domain.ProgramSession
	prescription  *domain.ProgramExercise
	prescription2 *domain.ProgramExercise
	foreignRx     *domain.ProgramExercise
}

func newWorkoutFixture(t *testing.T) *workoutFixture {
	t.Helper()
	ctx := context.Background()
	clock := newFakeClock()
	userRepo := newFakeUserRepo(clock)
	programRepo := newFakeProgramRepo(clock)
	exerciseRepo := newFakeExerciseRepo(clock)
	workoutRepo := newFakeWorkoutRepo(clock)

	trainer := &domain.User{Email: "trainer@example.com", Role: domain.RoleTrainer}
	_, err := userRepo.Create(ctx, trainer)
	require.NoError(t, err)
	otherTrainer := &domain.User{Email: "other@example.com", Role: domain.RoleTrainer}
	_, err = userRepo.Create(ctx, otherTrainer)
	require.NoError(t, err)
	client := &domain.User{Email: "client@example.com", Role: domain.RoleUser, TrainerID: &trainer.ID}
	_, err = userRepo.Create(ctx, client)
	require.NoError(t, err)

	catalogID, err := exerciseRepo.Create(ctx, &domain.Exercise{
		Name: "Row", Category: domain.CategoryBack, Difficulty: domain.DifficultyBeginner, IsActive: true,
	})
	require.NoError(t, err)

	programSvc := NewProgramService(programRepo, exerciseRepo, userRepo)
	program, err := programSvc.CreateProgram(ctx, trainer.ID, ProgramInput{
		Name: "Assigned", ClientID: &client.ID, Duration: 4, SessionsPerWeek: 2, Difficulty: domain.DifficultyBeginner,
	})
	require.NoError(t, err)

	session, err := programSvc.AddSession(ctx, trainer.ID, program.ID, SessionInput{Name: "Day A", WeekNumber: 1, Order: 1})
	require.NoError(t, err)
	otherSession, err := programSvc.AddSession(ctx, trainer.ID, program.ID, SessionInput{Name: "Day B", WeekNumber: 1, Order: 2})
	require.NoError(t, err)

	prescription, err := programSvc.AddExercise(ctx, trainer.ID, session.ID, PrescriptionInput{ExerciseID: catalogID, Order: 1, Sets: 3, Reps: "10"})
	require.NoError(t, err)
	prescription2, err := programSvc.AddExercise(ctx, trainer.ID, session.ID, PrescriptionInput{ExerciseID: catalogID, Order: 2, Sets: 3, Reps: "AMRAP"})
	require.NoError(t, err)
	foreignRx, err := programSvc.AddExercise(ctx, trainer.ID, otherSession.ID, PrescriptionInput{ExerciseID: catalogID, Order: 1, Sets: 5, Reps: "5"})
	require.NoError(t, err)

	return &workoutFixture{
		svc:           NewWorkoutService(workoutRepo, programRepo, userRepo),
		programSvc:    programSvc,
		userRepo:      userRepo,
		trainer:       trainer,
		otherTrainer:  otherTrainer,
		client:        client,
		session:       session,
		otherSession:  otherSession,
		prescription:  prescription,
		prescription2: prescription2,
		foreignRx:     foreignRx,
	}
}

func TestStartWorkoutRequiresAssignment(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWorkoutLog(ctx, primitive.NewObjectID(), WorkoutLogInput{ProgramSessionID: f.session.ID})
	assert.ErrorIs(t, err, ErrNotAssignedToSession)

	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	require.NoError(t, err)
	assert.False(t, log.IsCompleted)
	assert.Nil(t, log.CompletedAt)
	assert.False(t, log.StartedAt.IsZero())
}

func TestBackloggedWorkoutCreatedCompleted(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	// A workout entered after the fact carries its rating and completion
	// state from the start.
	rating := 4
	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{
		ProgramSessionID: f.session.ID, Rating: &rating, IsCompleted: true,
	})
	require.NoError(t, err)
	assert.True(t, log.IsCompleted)
	require.NotNil(t, log.CompletedAt)
	require.NotNil(t, log.Rating)
	assert.Equal(t, 4, *log.Rating)

	// A completed log is not an active one, so the same session can be
	// started again right away.
	_, err = f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	assert.NoError(t, err)

	badRating := 6
	_, err = f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{
		ProgramSessionID: f.otherSession.ID, Rating: &badRating,
	})
	assert.ErrorIs(t, err, ErrWorkoutValidation)
}

func TestSingleActiveLogPerSessionPair(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	require.NoError(t, err)

	_, err = f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	assert.ErrorIs(t, err, ErrWorkoutAlreadyActive)

	// A different session of the same program can still be started.
	_, err = f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.otherSession.ID})
	assert.NoError(t, err)
}

func TestCompletedAtTransitions(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	require.NoError(t, err)

	completed := true
	updated, err := f.svc.UpdateWorkoutLog(ctx, f.client.ID, domain.RoleUser, log.ID, WorkoutLogUpdate{IsCompleted: &completed})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	require.NotNil(t, updated.CompletedAt)

	reopened := false
	updated, err = f.svc.UpdateWorkoutLog(ctx, f.client.ID, domain.RoleUser, log.ID, WorkoutLogUpdate{IsCompleted: &reopened})
	require.NoError(t, err)
	assert.False(t, updated.IsCompleted)
	assert.Nil(t, updated.CompletedAt)
}

func TestExerciseLogMustBelongToSession(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	require.NoError(t, err)

	_, err = f.svc.CreateExerciseLog(ctx, f.client.ID, domain.RoleUser, log.ID, ExerciseLogInput{
		ProgramExerciseID: f.foreignRx.ID, ActualSets: 3, ActualReps: "10,10,10",
	})
	assert.ErrorIs(t, err, ErrExerciseOutsideSession)

	created, err := f.svc.CreateExerciseLog(ctx, f.client.ID, domain.RoleUser, log.ID, ExerciseLogInput{
		ProgramExerciseID: f.prescription.ID, ActualSets: 3, ActualReps: "10,9,8", ActualWeight: "60,60,62.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "10,9,8", created.ActualReps)
}

func TestNestedExerciseLogsAtCreation(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{
		ProgramSessionID: f.session.ID,
		ExerciseLogs: []ExerciseLogInput{
			{ProgramExerciseID: f.prescription.ID, ActualSets: 3, ActualReps: "10,10,10", IsCompleted: true},
			{ProgramExerciseID: f.prescription2.ID, ActualSets: 3, ActualReps: "12,11,9", IsCompleted: true},
		},
	})
	require.NoError(t, err)

	_, exerciseLogs, err := f.svc.GetWorkoutLog(ctx, f.client.ID, domain.RoleUser, log.ID)
	require.NoError(t, err)
	assert.Len(t, exerciseLogs, 2)
}

func TestTrainerOversightAccess(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	require.NoError(t, err)

	// The bound trainer can read and update.
	_, _, err = f.svc.GetWorkoutLog(ctx, f.trainer.ID, domain.RoleTrainer, log.ID)
	assert.NoError(t, err)
	notes := "good depth on squats"
	_, err = f.svc.UpdateWorkoutLog(ctx, f.trainer.ID, domain.RoleTrainer, log.ID, WorkoutLogUpdate{Notes: &notes})
	assert.NoError(t, err)

	// An unrelated trainer cannot.
	_, _, err = f.svc.GetWorkoutLog(ctx, f.otherTrainer.ID, domain.RoleTrainer, log.ID)
	assert.ErrorIs(t, err, ErrWorkoutAccessDenied)
}

func TestCompletedLogDeleteRestrictedToOwner(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: f.session.ID})
	require.NoError(t, err)
	completed := true
	_, err = f.svc.UpdateWorkoutLog(ctx, f.client.ID, domain.RoleUser, log.ID, WorkoutLogUpdate{IsCompleted: &completed})
	require.NoError(t, err)

	err = f.svc.DeleteWorkoutLog(ctx, f.trainer.ID, domain.RoleTrainer, log.ID)
	assert.ErrorIs(t, err, ErrCompletedLogDelete)

	err = f.svc.DeleteWorkoutLog(ctx, f.client.ID, domain.RoleUser, log.ID)
	assert.NoError(t, err)
}

func TestWorkoutStats(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	completed := true

	for _, sessionID := range []primitive.ObjectID{f.session.ID, f.otherSession.ID} {
		log, err := f.svc.CreateWorkoutLog(ctx, f.client.ID, WorkoutLogInput{ProgramSessionID: sessionID})
		require.NoError(t, err)
		rating := 4
		_, err = f.svc.UpdateWorkoutLog(ctx, f.client.ID, domain.RoleUser, log.ID, WorkoutLogUpdate{IsCompleted: &completed, Rating: &rating})
		require.NoError(t, err)
	}

	stats, err := f.svc.GetWorkoutStats(ctx, f.client.ID, domain.RoleUser, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalWorkouts)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.0, *stats.AverageRating, 0.001)
	require.NotNil(t, stats.LastWorkout)
	assert.Equal(t, "Day B", stats.LastWorkout.SessionName)
	assert.Equal(t, "Assigned", stats.LastWorkout.ProgramName)

	// Trainer path: clientId is mandatory and must be a bound client.
	_, err = f.svc.GetWorkoutStats(ctx, f.trainer.ID, domain.RoleTrainer, nil)
	assert.ErrorIs(t, err, ErrClientRequired)

	trainerStats, err := f.svc.GetWorkoutStats(ctx, f.trainer.ID, domain.RoleTrainer, &f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), trainerStats.TotalWorkouts)

	_, err = f.svc.GetWorkoutStats(ctx, f.otherTrainer.ID, domain.RoleTrainer, &f.client.ID)
	assert.ErrorIs(t, err, ErrClientAccessDenied)
}

func TestStatsWithNoWorkouts(t *testing.T) {
	f := newWorkoutFixture(t)

	stats, err := f.svc.GetWorkoutStats(context.Background(), f.client.ID, domain.RoleUser, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalWorkouts)
	assert.Nil(t, stats.LastWorkout)
	assert.Nil(t, stats.AverageRating)
}

func TestStartOfWeek(t *testing.T) {
	// Wednesday 2024-06-05 15:30 -> Sunday 2024-06-02 00:00.
	wednesday := time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), startOfWeek(wednesday))

	// A Sunday maps to its own midnight.
	sunday := time.Date(2024, 6, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), startOfWeek(sunday))
}
