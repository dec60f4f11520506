package service

import (
	"context"
	"errors"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutLogNotFound     = errors.New("workout log not found")
	ErrExerciseLogNotFound    = errors.New("exercise log not found")
	ErrWorkoutAccessDenied    = errors.New("you do not have access to this workout log")
	ErrWorkoutAlreadyActive   = errors.New("there is already an active workout session for this program session")
	ErrNotAssignedToSession   = errors.New("you are not assigned to this program session")
	ErrExerciseOutsideSession = errors.New("exercise does not belong to this session")
	ErrCompletedLogDelete     = errors.New("completed workout logs can only be deleted by their owner")
	ErrWorkoutValidation      = errors.New("workout log validation failed")
)

// WorkoutLogInput starts a workout, optionally with per-exercise results
// recorded in the same call. A log entered after the fact can be created
// already completed, rating included.
type WorkoutLogInput struct {
	ProgramSessionID primitive.ObjectID
	Notes            string
	Rating           *int
	IsCompleted      bool
	ExerciseLogs     []ExerciseLogInput
}

// ExerciseLogInput records actual performance of one prescription.
type ExerciseLogInput struct {
	ProgramExerciseID primitive.ObjectID
	ActualSets        int
	ActualReps        string
	ActualWeight      string
	ActualRestPeriod  *int
	ActualRPE         *int
	Notes             string
	IsCompleted       bool
}

// WorkoutLogUpdate carries the mutable fields of a workout log. Nil pointers
// leave the field untouched.
type WorkoutLogUpdate struct {
	Notes       *string
	Rating      *int
	IsCompleted *bool
}

// ExerciseLogUpdate mirrors WorkoutLogUpdate for exercise logs.
type ExerciseLogUpdate struct {
	ActualSets       *int
	ActualReps       *string
	ActualWeight     *string
	ActualRestPeriod *int
	ActualRPE        *int
	Notes            *string
	IsCompleted      *bool
}

// WorkoutStats summarizes a client's completed workouts.
type WorkoutStats struct {
	TotalWorkouts    int64              `json:"totalWorkouts"`
	WorkoutsThisWeek int64              `json:"workoutsThisWeek"`
	LastWorkout      *LastWorkout       `json:"lastWorkout,omitempty"`
	AverageRating    *float64           `json:"averageRating,omitempty"`
	UserID           primitive.ObjectID `json:"userId"`
}

// LastWorkout names the most recently completed session and its program.
type LastWorkout struct {
	ID          primitive.ObjectID `json:"id"`
	SessionName string             `json:"sessionName"`
	ProgramName string             `json:"programName"`
	CompletedAt time.Time          `json:"completedAt"`
}

// WorkoutService manages workout execution logs. A client writes their own
// logs; a trainer gets read/update oversight over clients bound to them.
type WorkoutService interface {
	CreateWorkoutLog(ctx context.Context, userID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutLog, error)
	GetWorkoutLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID) (*domain.WorkoutLog, []domain.ExerciseLog, error)
	ListWorkoutLogs(ctx context.Context, actorID primitive.ObjectID, role domain.Role) ([]domain.WorkoutLog, error)
	UpdateWorkoutLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID, update WorkoutLogUpdate) (*domain.WorkoutLog, error)
	DeleteWorkoutLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID) error

	CreateExerciseLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID, input ExerciseLogInput) (*domain.ExerciseLog, error)
	UpdateExerciseLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, exerciseLogID primitive.ObjectID, update ExerciseLogUpdate) (*domain.ExerciseLog, error)

	GetWorkoutStats(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) (*WorkoutStats, error)
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	programRepo repository.ProgramRepository
	userRepo    repository.UserRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, programRepo repository.ProgramRepository, userRepo repository.UserRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		programRepo: programRepo,
		userRepo:    userRepo,
	}
}

// CreateWorkoutLog starts a session for the assigned client. A second start
// while an active log exists for the same (user, session) pair is rejected;
// starting a different session concurrently is allowed.
func (s *workoutService) CreateWorkoutLog(ctx context.Context, userID primitive.ObjectID, input WorkoutLogInput) (*domain.WorkoutLog, error) {
	session, err := s.programRepo.GetSessionByID(ctx, input.ProgramSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	program, err := s.programRepo.GetByID(ctx, session.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.ClientID == nil || *program.ClientID != userID {
		return nil, ErrNotAssignedToSession
	}

	if _, err := s.workoutRepo.GetActiveLog(ctx, userID, input.ProgramSessionID); err == nil {
		return nil, ErrWorkoutAlreadyActive
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrWorkoutValidation
	}

	log := &domain.WorkoutLog{
		UserID:           userID,
		ProgramSessionID: input.ProgramSessionID,
		StartedAt:        time.Now(),
		Notes:            input.Notes,
		Rating:           input.Rating,
		IsCompleted:      input.IsCompleted,
	}
	if input.IsCompleted {
		now := time.Now()
		log.CompletedAt = &now
	}
	logID, err := s.workoutRepo.CreateLog(ctx, log)
	if err != nil {
		return nil, err
	}
	log.ID = logID

	for _, exInput := range input.ExerciseLogs {
		if _, err := s.createExerciseLog(ctx, log, exInput); err != nil {
			return nil, err
		}
	}
	return s.workoutRepo.GetLogByID(ctx, logID)
}

func (s *workoutService) GetWorkoutLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID) (*domain.WorkoutLog, []domain.ExerciseLog, error) {
	log, err := s.getAccessibleLog(ctx, actorID, role, logID)
	if err != nil {
		return nil, nil, err
	}
	exerciseLogs, err := s.workoutRepo.GetExerciseLogsByLogID(ctx, log.ID)
	if err != nil {
		return nil, nil, err
	}
	return log, exerciseLogs, nil
}

// ListWorkoutLogs returns the actor's own logs, or for a trainer the logs of
// every client bound to them.
func (s *workoutService) ListWorkoutLogs(ctx context.Context, actorID primitive.ObjectID, role domain.Role) ([]domain.WorkoutLog, error) {
	if role != domain.RoleTrainer {
		return s.workoutRepo.GetLogsByUserIDs(ctx, []primitive.ObjectID{actorID})
	}

	clients, err := s.userRepo.GetClientsByTrainerID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return []domain.WorkoutLog{}, nil
	}
	clientIDs := make([]primitive.ObjectID, len(clients))
	for i, client := range clients {
		clientIDs[i] = client.ID
	}
	return s.workoutRepo.GetLogsByUserIDs(ctx, clientIDs)
}

// UpdateWorkoutLog applies partial updates. The IsCompleted transition drives
// CompletedAt: set on false->true, cleared on true->false.
func (s *workoutService) UpdateWorkoutLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID, update WorkoutLogUpdate) (*domain.WorkoutLog, error) {
	log, err := s.getAccessibleLog(ctx, actorID, role, logID)
	if err != nil {
		return nil, err
	}
	if update.Rating != nil && (*update.Rating < 1 || *update.Rating > 5) {
		return nil, ErrWorkoutValidation
	}

	if update.Notes != nil {
		log.Notes = *update.Notes
	}
	if update.Rating != nil {
		log.Rating = update.Rating
	}
	if update.IsCompleted != nil && *update.IsCompleted != log.IsCompleted {
		log.IsCompleted = *update.IsCompleted
		if log.IsCompleted {
			now := time.Now()
			log.CompletedAt = &now
		} else {
			log.CompletedAt = nil
		}
	}

	if err := s.workoutRepo.UpdateLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// DeleteWorkoutLog removes a log and its exercise logs. A completed log is a
// client's history; only the owning client may delete it.
func (s *workoutService) DeleteWorkoutLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID) error {
	log, err := s.getAccessibleLog(ctx, actorID, role, logID)
	if err != nil {
		return err
	}
	if log.IsCompleted && log.UserID != actorID {
		return ErrCompletedLogDelete
	}
	return s.workoutRepo.DeleteLog(ctx, logID)
}

func (s *workoutService) CreateExerciseLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID, input ExerciseLogInput) (*domain.ExerciseLog, error) {
	log, err := s.getAccessibleLog(ctx, actorID, role, logID)
	if err != nil {
		return nil, err
	}
	return s.createExerciseLog(ctx, log, input)
}

func (s *workoutService) createExerciseLog(ctx context.Context, log *domain.WorkoutLog, input ExerciseLogInput) (*domain.ExerciseLog, error) {
	prescription, err := s.programRepo.GetExerciseByID(ctx, input.ProgramExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrescriptionMissing
		}
		return nil, err
	}
	if prescription.SessionID != log.ProgramSessionID {
		return nil, ErrExerciseOutsideSession
	}
	if input.ActualSets < 0 {
		return nil, ErrWorkoutValidation
	}
	if input.ActualRPE != nil && (*input.ActualRPE < 1 || *input.ActualRPE > 10) {
		return nil, ErrWorkoutValidation
	}

	exerciseLog := &domain.ExerciseLog{
		WorkoutLogID:      log.ID,
		ProgramExerciseID: input.ProgramExerciseID,
		ActualSets:        input.ActualSets,
		ActualReps:        input.ActualReps,
		ActualWeight:      input.ActualWeight,
		ActualRestPeriod:  input.ActualRestPeriod,
		ActualRPE:         input.ActualRPE,
		Notes:             input.Notes,
		IsCompleted:       input.IsCompleted,
	}
	exerciseLogID, err := s.workoutRepo.CreateExerciseLog(ctx, exerciseLog)
	if err != nil {
		return nil, err
	}
	return s.workoutRepo.GetExerciseLogByID(ctx, exerciseLogID)
}

func (s *workoutService) UpdateExerciseLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, exerciseLogID primitive.ObjectID, update ExerciseLogUpdate) (*domain.ExerciseLog, error) {
	exerciseLog, err := s.workoutRepo.GetExerciseLogByID(ctx, exerciseLogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseLogNotFound
		}
		return nil, err
	}
	// Authorization is derived from the parent workout log.
	if _, err := s.getAccessibleLog(ctx, actorID, role, exerciseLog.WorkoutLogID); err != nil {
		return nil, err
	}
	if update.ActualRPE != nil && (*update.ActualRPE < 1 || *update.ActualRPE > 10) {
		return nil, ErrWorkoutValidation
	}

	if update.ActualSets != nil {
		exerciseLog.ActualSets = *update.ActualSets
	}
	if update.ActualReps != nil {
		exerciseLog.ActualReps = *update.ActualReps
	}
	if update.ActualWeight != nil {
		exerciseLog.ActualWeight = *update.ActualWeight
	}
	if update.ActualRestPeriod != nil {
		exerciseLog.ActualRestPeriod = update.ActualRestPeriod
	}
	if update.ActualRPE != nil {
		exerciseLog.ActualRPE = update.ActualRPE
	}
	if update.Notes != nil {
		exerciseLog.Notes = *update.Notes
	}
	if update.IsCompleted != nil {
		exerciseLog.IsCompleted = *update.IsCompleted
	}

	if err := s.workoutRepo.UpdateExerciseLog(ctx, exerciseLog); err != nil {
		return nil, err
	}
	return exerciseLog, nil
}

// GetWorkoutStats aggregates completed-workout counts, the most recent
// completed session and the average rating. Trainers must name one of their
// own clients; clients always read their own stats.
func (s *workoutService) GetWorkoutStats(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) (*WorkoutStats, error) {
	targetID, err := resolveClientScope(ctx, s.userRepo, actorID, role, clientID)
	if err != nil {
		return nil, err
	}

	total, err := s.workoutRepo.CountCompleted(ctx, targetID)
	if err != nil {
		return nil, err
	}
	thisWeek, err := s.workoutRepo.CountCompletedSince(ctx, targetID, startOfWeek(time.Now()))
	if err != nil {
		return nil, err
	}
	averageRating, err := s.workoutRepo.AverageRating(ctx, targetID)
	if err != nil {
		return nil, err
	}

	stats := &WorkoutStats{
		TotalWorkouts:    total,
		WorkoutsThisWeek: thisWeek,
		AverageRating:    averageRating,
		UserID:           targetID,
	}

	latest, err := s.workoutRepo.GetLatestCompleted(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return stats, nil
		}
		return nil, err
	}
	last := &LastWorkout{ID: latest.ID}
	if latest.CompletedAt != nil {
		last.CompletedAt = *latest.CompletedAt
	}
	// Session and program names are best-effort; an archived program still
	// resolves because reads by ID ignore IsActive.
	if session, err := s.programRepo.GetSessionByID(ctx, latest.ProgramSessionID); err == nil {
		last.SessionName = session.Name
		if program, err := s.programRepo.GetByID(ctx, session.ProgramID); err == nil {
			last.ProgramName = program.Name
		}
	}
	stats.LastWorkout = last
	return stats, nil
}

// getAccessibleLog resolves a log and enforces the oversight rule: the owning
// client always has access; a trainer has access when the owner is bound to
// them.
func (s *workoutService) getAccessibleLog(ctx context.Context, actorID primitive.ObjectID, role domain.Role, logID primitive.ObjectID) (*domain.WorkoutLog, error) {
	log, err := s.workoutRepo.GetLogByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutLogNotFound
		}
		return nil, err
	}
	if log.UserID == actorID {
		return log, nil
	}
	if role == domain.RoleTrainer {
		owner, err := s.userRepo.GetByID(ctx, log.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrWorkoutAccessDenied
			}
			return nil, err
		}
		if owner.TrainerID != nil && *owner.TrainerID == actorID {
			return log, nil
		}
	}
	return nil, ErrWorkoutAccessDenied
}

// startOfWeek returns the most recent local Sunday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}
