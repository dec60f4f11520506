package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Each fake keeps a slice guarded by a mutex and
// hands out copies, mirroring the read/write semantics of the mongo layer
// closely enough for service tests.

// fakeClock produces strictly increasing timestamps so "newest first"
// orderings are deterministic inside a single test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// --- User repository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	clock *fakeClock
	users []domain.User
}

func newFakeUserRepo(clock *fakeClock) *fakeUserRepo {
	return &fakeUserRepo{clock: clock}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = r.clock.Next()
	user.UpdatedAt = user.CreatedAt
	r.users = append(r.users, *user)
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for i := len(r.users) - 1; i >= 0; i-- {
		if r.users[i].Role == role {
			result = append(result, r.users[i])
		}
	}
	return result, nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.TrainerID != nil && *user.TrainerID == trainerID {
			result = append(result, user)
		}
	}
	return result, nil
}

// --- Token repository ---

type fakeTokenRepo struct {
	mu     sync.Mutex
	clock  *fakeClock
	tokens []domain.RegistrationToken
}

func newFakeTokenRepo(clock *fakeClock) *fakeTokenRepo {
	return &fakeTokenRepo{clock: clock}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *domain.RegistrationToken) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = primitive.NewObjectID()
	token.CreatedAt = r.clock.Next()
	r.tokens = append(r.tokens, *token)
	return token.ID, nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, value string) (*domain.RegistrationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tokens {
		if r.tokens[i].Token == value {
			token := r.tokens[i]
			return &token, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTokenRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.RegistrationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.RegistrationToken
	for i := len(r.tokens) - 1; i >= 0; i-- {
		if r.tokens[i].TrainerID == trainerID {
			result = append(result, r.tokens[i])
		}
	}
	return result, nil
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, id, usedByID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tokens {
		if r.tokens[i].ID == id {
			r.tokens[i].IsUsed = true
			r.tokens[i].UsedByID = &usedByID
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Exercise repository ---

type fakeExerciseRepo struct {
	mu        sync.Mutex
	clock     *fakeClock
	exercises []domain.Exercise
}

func newFakeExerciseRepo(clock *fakeClock) *fakeExerciseRepo {
	return &fakeExerciseRepo{clock: clock}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = r.clock.Next()
	exercise.UpdatedAt = exercise.CreatedAt
	r.exercises = append(r.exercises, *exercise)
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exercises {
		if r.exercises[i].ID == id {
			exercise := r.exercises[i]
			return &exercise, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) Find(_ context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Exercise
	for _, exercise := range r.exercises {
		if !exercise.IsActive {
			continue
		}
		if filter.Category != "" && exercise.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && exercise.Difficulty != filter.Difficulty {
			continue
		}
		if filter.MuscleGroup != "" && !containsSubstring(exercise.MuscleGroups, filter.MuscleGroup) {
			continue
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(exercise.Name), search) &&
				!strings.Contains(strings.ToLower(exercise.NameEn), search) {
				continue
			}
		}
		result = append(result, exercise)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exercises {
		if r.exercises[i].ID == exercise.ID {
			exercise.UpdatedAt = r.clock.Next()
			r.exercises[i] = *exercise
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeExerciseRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exercises {
		if r.exercises[i].ID == id {
			r.exercises[i].IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func containsSubstring(values []string, substring string) bool {
	needle := strings.ToLower(substring)
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// --- Program repository ---

type fakeProgramRepo struct {
	mu        sync.Mutex
	clock     *fakeClock
	programs  []domain.Program
	sessions  []domain.ProgramSession
	exercises []domain.ProgramExercise
}

func newFakeProgramRepo(clock *fakeClock) *fakeProgramRepo {
	return &fakeProgramRepo{clock: clock}
}

func (r *fakeProgramRepo) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	program.ID = primitive.NewObjectID()
	program.CreatedAt = r.clock.Next()
	program.UpdatedAt = program.CreatedAt
	r.programs = append(r.programs, *program)
	return program.ID, nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.programs {
		if r.programs[i].ID == id {
			program := r.programs[i]
			return &program, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) Find(_ context.Context, filter repository.ProgramFilter) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Program
	for _, program := range r.programs {
		if !program.IsActive {
			continue
		}
		if filter.TrainerID != nil && program.TrainerID != *filter.TrainerID {
			continue
		}
		if filter.ClientID != nil && (program.ClientID == nil || *program.ClientID != *filter.ClientID) {
			continue
		}
		if filter.IsTemplate != nil && program.IsTemplate != *filter.IsTemplate {
			continue
		}
		if filter.Difficulty != "" && program.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(program.Name), search) &&
				!strings.Contains(strings.ToLower(program.Description), search) {
				continue
			}
		}
		result = append(result, program)
	}
	return result, nil
}

func (r *fakeProgramRepo) Update(_ context.Context, program *domain.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.programs {
		if r.programs[i].ID == program.ID {
			program.UpdatedAt = r.clock.Next()
			r.programs[i] = *program
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.programs {
		if r.programs[i].ID == id {
			r.programs[i].IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) CreateSession(_ context.Context, session *domain.ProgramSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = primitive.NewObjectID()
	session.CreatedAt = r.clock.Next()
	session.UpdatedAt = session.CreatedAt
	r.sessions = append(r.sessions, *session)
	return session.ID, nil
}

func (r *fakeProgramRepo) GetSessionByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			session := r.sessions[i]
			return &session, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) GetSessionsByProgramID(_ context.Context, programID primitive.ObjectID) ([]domain.ProgramSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ProgramSession
	for _, session := range r.sessions {
		if session.ProgramID == programID {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].WeekNumber != result[j].WeekNumber {
			return result[i].WeekNumber < result[j].WeekNumber
		}
		return result[i].Order < result[j].Order
	})
	return result, nil
}

func (r *fakeProgramRepo) UpdateSession(_ context.Context, session *domain.ProgramSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == session.ID {
			session.UpdatedAt = r.clock.Next()
			r.sessions[i] = *session
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) DeleteSession(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			var kept []domain.ProgramExercise
			for _, exercise := range r.exercises {
				if exercise.SessionID != id {
					kept = append(kept, exercise)
				}
			}
			r.exercises = kept
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) CreateExercise(_ context.Context, exercise *domain.ProgramExercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = r.clock.Next()
	exercise.UpdatedAt = exercise.CreatedAt
	r.exercises = append(r.exercises, *exercise)
	return exercise.ID, nil
}

func (r *fakeProgramRepo) GetExerciseByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exercises {
		if r.exercises[i].ID == id {
			exercise := r.exercises[i]
			return &exercise, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) GetExercisesBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.ProgramExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ProgramExercise
	for _, exercise := range r.exercises {
		if exercise.SessionID == sessionID {
			result = append(result, exercise)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (r *fakeProgramRepo) UpdateExercise(_ context.Context, exercise *domain.ProgramExercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exercises {
		if r.exercises[i].ID == exercise.ID {
			exercise.UpdatedAt = r.clock.Next()
			r.exercises[i] = *exercise
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) DeleteExercise(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exercises {
		if r.exercises[i].ID == id {
			r.exercises = append(r.exercises[:i], r.exercises[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) CloneTree(_ context.Context, templateID primitive.ObjectID, clone *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone.ID = primitive.NewObjectID()
	clone.CreatedAt = r.clock.Next()
	clone.UpdatedAt = clone.CreatedAt
	r.programs = append(r.programs, *clone)

	for _, session := range r.sessions {
		if session.ProgramID != templateID {
			continue
		}
		newSession := session
		newSession.ID = primitive.NewObjectID()
		newSession.ProgramID = clone.ID
		newSession.CreatedAt = r.clock.Next()
		newSession.UpdatedAt = newSession.CreatedAt
		r.sessions = append(r.sessions, newSession)

		for _, exercise := range r.exercises {
			if exercise.SessionID != session.ID {
				continue
			}
			newExercise := exercise
			newExercise.ID = primitive.NewObjectID()
			newExercise.SessionID = newSession.ID
			newExercise.CreatedAt = r.clock.Next()
			newExercise.UpdatedAt = newExercise.CreatedAt
			r.exercises = append(r.exercises, newExercise)
		}
	}
	return clone.ID, nil
}

// --- Workout repository ---

type fakeWorkoutRepo struct {
	mu           sync.Mutex
	clock        *fakeClock
	logs         []domain.WorkoutLog
	exerciseLogs []domain.ExerciseLog
}

func newFakeWorkoutRepo(clock *fakeClock) *fakeWorkoutRepo {
	return &fakeWorkoutRepo{clock: clock}
}

func (r *fakeWorkoutRepo) CreateLog(_ context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = primitive.NewObjectID()
	log.CreatedAt = r.clock.Next()
	log.UpdatedAt = log.CreatedAt
	r.logs = append(r.logs, *log)
	return log.ID, nil
}

func (r *fakeWorkoutRepo) GetLogByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.logs {
		if r.logs[i].ID == id {
			log := r.logs[i]
			return &log, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) GetLogsByUserIDs(_ context.Context, userIDs []primitive.ObjectID) ([]domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, id := range userIDs {
		members[id] = true
	}
	var result []domain.WorkoutLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if members[r.logs[i].UserID] {
			result = append(result, r.logs[i])
		}
	}
	return result, nil
}

func (r *fakeWorkoutRepo) GetActiveLog(_ context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.logs {
		if r.logs[i].UserID == userID && r.logs[i].ProgramSessionID == sessionID && !r.logs[i].IsCompleted {
			log := r.logs[i]
			return &log, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) UpdateLog(_ context.Context, log *domain.WorkoutLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.logs {
		if r.logs[i].ID == log.ID {
			log.UpdatedAt = r.clock.Next()
			r.logs[i] = *log
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeWorkoutRepo) DeleteLog(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.logs {
		if r.logs[i].ID == id {
			r.logs = append(r.logs[:i], r.logs[i+1:]...)
			var kept []domain.ExerciseLog
			for _, exerciseLog := range r.exerciseLogs {
				if exerciseLog.WorkoutLogID != id {
					kept = append(kept, exerciseLog)
				}
			}
			r.exerciseLogs = kept
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeWorkoutRepo) CreateExerciseLog(_ context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = primitive.NewObjectID()
	log.CreatedAt = r.clock.Next()
	log.UpdatedAt = log.CreatedAt
	r.exerciseLogs = append(r.exerciseLogs, *log)
	return log.ID, nil
}

func (r *fakeWorkoutRepo) GetExerciseLogByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exerciseLogs {
		if r.exerciseLogs[i].ID == id {
			log := r.exerciseLogs[i]
			return &log, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) GetExerciseLogsByLogID(_ context.Context, workoutLogID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ExerciseLog
	for _, log := range r.exerciseLogs {
		if log.WorkoutLogID == workoutLogID {
			result = append(result, log)
		}
	}
	return result, nil
}

func (r *fakeWorkoutRepo) UpdateExerciseLog(_ context.Context, log *domain.ExerciseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.exerciseLogs {
		if r.exerciseLogs[i].ID == log.ID {
			log.UpdatedAt = r.clock.Next()
			r.exerciseLogs[i] = *log
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeWorkoutRepo) CountCompleted(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, log := range r.logs {
		if log.UserID == userID && log.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeWorkoutRepo) CountCompletedSince(_ context.Context, userID primitive.ObjectID, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, log := range r.logs {
		if log.UserID == userID && log.IsCompleted && log.CompletedAt != nil && !log.CompletedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeWorkoutRepo) GetLatestCompleted(_ context.Context, userID primitive.ObjectID) (*domain.WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.WorkoutLog
	for i := range r.logs {
		log := r.logs[i]
		if log.UserID != userID || !log.IsCompleted || log.CompletedAt == nil {
			continue
		}
		if latest == nil || log.CompletedAt.After(*latest.CompletedAt) {
			copied := log
			latest = &copied
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *fakeWorkoutRepo) AverageRating(_ context.Context, userID primitive.ObjectID) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count float64
	for _, log := range r.logs {
		if log.UserID == userID && log.IsCompleted && log.Rating != nil {
			sum += float64(*log.Rating)
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	average := sum / count
	return &average, nil
}

// --- Weight repository ---

type fakeWeightRepo struct {
	mu      sync.Mutex
	clock   *fakeClock
	entries []domain.WeightEntry
}

func newFakeWeightRepo(clock *fakeClock) *fakeWeightRepo {
	return &fakeWeightRepo{clock: clock}
}

func (r *fakeWeightRepo) Create(_ context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.clock.Next()
	}
	entry.UpdatedAt = entry.CreatedAt
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeWeightRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWeightRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, ascending bool) ([]domain.WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.WeightEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if ascending {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeWeightRepo) GetByUserIDSince(_ context.Context, userID primitive.ObjectID, since time.Time) ([]domain.WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.WeightEntry
	for _, entry := range r.entries {
		if entry.UserID == userID && !entry.CreatedAt.Before(since) {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeWeightRepo) GetRecent(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.WeightEntry, error) {
	all, _ := r.GetByUserID(context.Background(), userID, false)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeWeightRepo) Update(_ context.Context, entry *domain.WeightEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			entry.UpdatedAt = r.clock.Next()
			r.entries[i] = *entry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeWeightRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
