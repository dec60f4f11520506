package repository

import (
	"context"
	"time"

	"peakform/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors from everything else.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByRole returns all accounts with the given role, newest first.
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	// GetClientsByTrainerID returns the users whose trainerId matches.
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
}

// TokenRepository stores registration tokens issued by trainers.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RegistrationToken) (primitive.ObjectID, error)
	GetByToken(ctx context.Context, token string) (*domain.RegistrationToken, error)
	// GetByTrainerID returns the trainer's issued tokens, newest first.
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.RegistrationToken, error)
	// MarkUsed flips IsUsed and records the redeeming user. It is called at
	// most once per token; a second call is a logic error upstream.
	MarkUsed(ctx context.Context, id, usedByID primitive.ObjectID) error
}

// ExerciseFilter narrows catalog reads. Zero values mean "no constraint";
// inactive rows are always excluded.
type ExerciseFilter struct {
	Category    domain.ExerciseCategory
	Difficulty  domain.Difficulty
	MuscleGroup string // substring match against muscle group entries
	Search      string // case-insensitive substring over name and nameEn
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	// GetByID resolves the exercise regardless of IsActive, so soft-deleted
	// rows referenced by prescriptions and logs stay readable.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// Find returns active exercises matching the filter, ordered by category
	// then name.
	Find(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// SetActive performs the soft delete (and reactivation).
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// ProgramFilter narrows program listings. Inactive programs are always excluded.
type ProgramFilter struct {
	TrainerID  *primitive.ObjectID
	ClientID   *primitive.ObjectID
	IsTemplate *bool
	Difficulty domain.Difficulty
	Search     string // case-insensitive substring over name and description
}

// ProgramRepository owns the program -> session -> prescription hierarchy.
// Keeping the three collections behind one repository lets CloneTree copy a
// whole template inside a single transaction.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	Find(ctx context.Context, filter ProgramFilter) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error

	CreateSession(ctx context.Context, session *domain.ProgramSession) (primitive.ObjectID, error)
	GetSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramSession, error)
	// GetSessionsByProgramID returns sessions ordered by week number then order.
	GetSessionsByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramSession, error)
	UpdateSession(ctx context.Context, session *domain.ProgramSession) error
	// DeleteSession removes the session and its prescriptions.
	DeleteSession(ctx context.Context, id primitive.ObjectID) error

	CreateExercise(ctx context.Context, exercise *domain.ProgramExercise) (primitive.ObjectID, error)
	GetExerciseByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error)
	// GetExercisesBySessionID returns prescriptions ordered by their order field.
	GetExercisesBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ProgramExercise, error)
	UpdateExercise(ctx context.Context, exercise *domain.ProgramExercise) error
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error

	// CloneTree inserts clone and deep-copies every session and prescription of
	// the template program into it, atomically. Returns the new program ID.
	CloneTree(ctx context.Context, templateID primitive.ObjectID, clone *domain.Program) (primitive.ObjectID, error)
}

// WorkoutRepository owns workout logs and their nested exercise logs.
type WorkoutRepository interface {
	CreateLog(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetLogByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	// GetLogsByUserIDs returns logs for any of the given users, newest started first.
	GetLogsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) ([]domain.WorkoutLog, error)
	// GetActiveLog returns the not-yet-completed log for the pair, or ErrNotFound.
	GetActiveLog(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutLog, error)
	UpdateLog(ctx context.Context, log *domain.WorkoutLog) error
	// DeleteLog removes the log and its exercise logs.
	DeleteLog(ctx context.Context, id primitive.ObjectID) error

	CreateExerciseLog(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetExerciseLogByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	// GetExerciseLogsByLogID returns exercise logs oldest first.
	GetExerciseLogsByLogID(ctx context.Context, workoutLogID primitive.ObjectID) ([]domain.ExerciseLog, error)
	UpdateExerciseLog(ctx context.Context, log *domain.ExerciseLog) error

	CountCompleted(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountCompletedSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (int64, error)
	// GetLatestCompleted returns the most recently completed log, or ErrNotFound.
	GetLatestCompleted(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutLog, error)
	// AverageRating averages non-null ratings over completed logs; nil when none.
	AverageRating(ctx context.Context, userID primitive.ObjectID) (*float64, error)
}

// WeightRepository stores body-weight entries.
type WeightRepository interface {
	Create(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeightEntry, error)
	// GetByUserID returns all entries, oldest first when ascending, else newest first.
	GetByUserID(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]domain.WeightEntry, error)
	// GetByUserIDSince returns entries with createdAt >= since, oldest first.
	GetByUserIDSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.WeightEntry, error)
	// GetRecent returns the newest entries up to limit, newest first.
	GetRecent(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.WeightEntry, error)
	Update(ctx context.Context, entry *domain.WeightEntry) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
