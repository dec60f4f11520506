package service

import (
	"context"
	"errors"
	"fmt"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrSessionNotFound     = errors.New("program session not found")
	ErrPrescriptionMissing = errors.New("program exercise not found")
	ErrProgramAccessDenied = errors.New("you do not have access to this program")
	ErrNotTemplate         = errors.New("source program is not a template")
	ErrProgramValidation   = errors.New("program validation failed")
	ErrUnknownRole         = errors.New("unknown role")
)

// ProgramInput carries the mutable fields of a program.
type ProgramInput struct {
	Name            string
	Description     string
	ClientID        *primitive.ObjectID
	IsTemplate      bool
	Duration        int
	SessionsPerWeek int
	Difficulty      domain.Difficulty
	Goals           []string
}

// SessionInput carries the mutable fields of a program session.
type SessionInput struct {
	Name       string
	DayOfWeek  *int
	WeekNumber int
	Order      int
	RestDay    bool
}

// PrescriptionInput carries the mutable fields of a prescribed exercise.
type PrescriptionInput struct {
	ExerciseID    primitive.ObjectID
	Order         int
	Sets          int
	Reps          string
	Weight        *float64
	RestPeriod    int
	Tempo         string
	RPE           *int
	Notes         string
	IsSuperset    bool
	SupersetGroup *int
}

// ProgramUpdate applies a partial update. Nil pointers leave the field
// untouched; RemoveClient unassigns the program explicitly, so an update
// that never mentions the client keeps the assignment.
type ProgramUpdate struct {
	Name            *string
	Description     *string
	ClientID        *primitive.ObjectID
	RemoveClient    bool
	IsTemplate      *bool
	Duration        *int
	SessionsPerWeek *int
	Difficulty      *domain.Difficulty
	Goals           []string
}

// SessionUpdate mirrors ProgramUpdate for program sessions.
type SessionUpdate struct {
	Name       *string
	DayOfWeek  *int
	WeekNumber *int
	Order      *int
	RestDay    *bool
}

// PrescriptionUpdate mirrors ProgramUpdate for prescribed exercises.
type PrescriptionUpdate struct {
	ExerciseID    *primitive.ObjectID
	Order         *int
	Sets          *int
	Reps          *string
	Weight        *float64
	RestPeriod    *int
	Tempo         *string
	RPE           *int
	Notes         *string
	IsSuperset    *bool
	SupersetGroup *int
}

// ProgramService manages the program -> session -> prescription hierarchy.
// Every sub-resource mutation re-derives the owning program's trainer through
// the session join; client-supplied IDs are never trusted on their own.
type ProgramService interface {
	CreateProgram(ctx context.Context, trainerID primitive.ObjectID, input ProgramInput) (*domain.Program, error)
	GetProgram(ctx context.Context, viewerID, programID primitive.ObjectID) (*domain.Program, error)
	ListPrograms(ctx context.Context, filter repository.ProgramFilter) ([]domain.Program, error)
	GetUserPrograms(ctx context.Context, userID primitive.ObjectID, role domain.Role) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, actorID, programID primitive.ObjectID, update ProgramUpdate) (*domain.Program, error)
	DeleteProgram(ctx context.Context, actorID, programID primitive.ObjectID) error
	CopyTemplate(ctx context.Context, trainerID, templateID, clientID primitive.ObjectID) (*domain.Program, error)

	AddSession(ctx context.Context, actorID, programID primitive.ObjectID, input SessionInput) (*domain.ProgramSession, error)
	GetSessions(ctx context.Context, viewerID, programID primitive.ObjectID) ([]domain.ProgramSession, error)
	UpdateSession(ctx context.Context, actorID, sessionID primitive.ObjectID, update SessionUpdate) (*domain.ProgramSession, error)
	DeleteSession(ctx context.Context, actorID, sessionID primitive.ObjectID) error

	AddExercise(ctx context.Context, actorID, sessionID primitive.ObjectID, input PrescriptionInput) (*domain.ProgramExercise, error)
	GetSessionExercises(ctx context.Context, viewerID, sessionID primitive.ObjectID) ([]domain.ProgramExercise, error)
	UpdateExercise(ctx context.Context, actorID, programExerciseID primitive.ObjectID, update PrescriptionUpdate) (*domain.ProgramExercise, error)
	DeleteExercise(ctx context.Context, actorID, programExerciseID primitive.ObjectID) error
}

// --- Service Implementation ---

type programService struct {
	programRepo  repository.ProgramRepository
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programRepo repository.ProgramRepository, exerciseRepo repository.ExerciseRepository, userRepo repository.UserRepository) ProgramService {
	return &programService{
		programRepo:  programRepo,
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
	}
}

func (s *programService) CreateProgram(ctx context.Context, trainerID primitive.ObjectID, input ProgramInput) (*domain.Program, error) {
	if input.Name == "" || input.Duration < 1 || input.SessionsPerWeek < 1 {
		return nil, ErrProgramValidation
	}

	if input.ClientID != nil {
		if _, err := s.userRepo.GetByID(ctx, *input.ClientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	program := &domain.Program{
		Name:            input.Name,
		Description:     input.Description,
		TrainerID:       trainerID,
		ClientID:        input.ClientID,
		IsTemplate:      input.IsTemplate,
		Duration:        input.Duration,
		SessionsPerWeek: input.SessionsPerWeek,
		Difficulty:      input.Difficulty,
		Goals:           input.Goals,
		IsActive:        true,
	}

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, programID)
}

// GetProgram enforces the read rule: owner, assignee, or template.
func (s *programService) GetProgram(ctx context.Context, viewerID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !program.ViewableBy(viewerID) {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

func (s *programService) ListPrograms(ctx context.Context, filter repository.ProgramFilter) ([]domain.Program, error) {
	return s.programRepo.Find(ctx, filter)
}

// GetUserPrograms resolves "my programs": owned for trainers, assigned for clients.
func (s *programService) GetUserPrograms(ctx context.Context, userID primitive.ObjectID, role domain.Role) ([]domain.Program, error) {
	switch role {
	case domain.RoleTrainer:
		return s.programRepo.Find(ctx, repository.ProgramFilter{TrainerID: &userID})
	case domain.RoleUser:
		return s.programRepo.Find(ctx, repository.ProgramFilter{ClientID: &userID})
	default:
		return nil, ErrUnknownRole
	}
}

// UpdateProgram applies the set fields only; everything the caller leaves
// out keeps its stored value, the client assignment included.
func (s *programService) UpdateProgram(ctx context.Context, actorID, programID primitive.ObjectID, update ProgramUpdate) (*domain.Program, error) {
	program, err := s.getOwnedProgram(ctx, actorID, programID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil && *update.Name == "" {
		return nil, ErrProgramValidation
	}
	if update.Duration != nil && *update.Duration < 1 {
		return nil, ErrProgramValidation
	}
	if update.SessionsPerWeek != nil && *update.SessionsPerWeek < 1 {
		return nil, ErrProgramValidation
	}

	if update.ClientID != nil {
		if _, err := s.userRepo.GetByID(ctx, *update.ClientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		program.ClientID = update.ClientID
	} else if update.RemoveClient {
		program.ClientID = nil
	}

	if update.Name != nil {
		program.Name = *update.Name
	}
	if update.Description != nil {
		program.Description = *update.Description
	}
	if update.IsTemplate != nil {
		program.IsTemplate = *update.IsTemplate
	}
	if update.Duration != nil {
		program.Duration = *update.Duration
	}
	if update.SessionsPerWeek != nil {
		program.SessionsPerWeek = *update.SessionsPerWeek
	}
	if update.Difficulty != nil {
		program.Difficulty = *update.Difficulty
	}
	if update.Goals != nil {
		program.Goals = update.Goals
	}

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// DeleteProgram archives the program (soft delete) so existing workout logs
// keep resolving its sessions.
func (s *programService) DeleteProgram(ctx context.Context, actorID, programID primitive.ObjectID) error {
	if _, err := s.getOwnedProgram(ctx, actorID, programID); err != nil {
		return err
	}
	return s.programRepo.SetActive(ctx, programID, false)
}

// CopyTemplate deep-copies a template program for a specific client. The clone
// is a full structural copy executed in one transaction, so edits to either
// side never leak into the other and a mid-copy failure leaves nothing behind.
func (s *programService) CopyTemplate(ctx context.Context, trainerID, templateID, clientID primitive.ObjectID) (*domain.Program, error) {
	template, err := s.getProgram(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.IsTemplate {
		return nil, ErrNotTemplate
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	clone := &domain.Program{
		Name:            fmt.Sprintf("%s - %s", template.Name, client.DisplayName()),
		Description:     template.Description,
		TrainerID:       trainerID,
		ClientID:        &clientID,
		IsTemplate:      false,
		Duration:        template.Duration,
		SessionsPerWeek: template.SessionsPerWeek,
		Difficulty:      template.Difficulty,
		Goals:           append([]string(nil), template.Goals...),
		IsActive:        true,
	}

	cloneID, err := s.programRepo.CloneTree(ctx, templateID, clone)
	if err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, cloneID)
}

// --- Sessions ---

func (s *programService) AddSession(ctx context.Context, actorID, programID primitive.ObjectID, input SessionInput) (*domain.ProgramSession, error) {
	if _, err := s.getOwnedProgram(ctx, actorID, programID); err != nil {
		return nil, err
	}
	if input.Name == "" || input.WeekNumber < 1 || input.Order < 1 {
		return nil, ErrProgramValidation
	}
	if input.DayOfWeek != nil && (*input.DayOfWeek < 1 || *input.DayOfWeek > 7) {
		return nil, ErrProgramValidation
	}

	session := &domain.ProgramSession{
		ProgramID:  programID,
		Name:       input.Name,
		DayOfWeek:  input.DayOfWeek,
		WeekNumber: input.WeekNumber,
		Order:      input.Order,
		RestDay:    input.RestDay,
	}
	sessionID, err := s.programRepo.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.programRepo.GetSessionByID(ctx, sessionID)
}

func (s *programService) GetSessions(ctx context.Context, viewerID, programID primitive.ObjectID) ([]domain.ProgramSession, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !program.ViewableBy(viewerID) {
		return nil, ErrProgramAccessDenied
	}
	return s.programRepo.GetSessionsByProgramID(ctx, programID)
}

func (s *programService) UpdateSession(ctx context.Context, actorID, sessionID primitive.ObjectID, update SessionUpdate) (*domain.ProgramSession, error) {
	session, _, err := s.getOwnedSession(ctx, actorID, sessionID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil && *update.Name == "" {
		return nil, ErrProgramValidation
	}
	if update.WeekNumber != nil && *update.WeekNumber < 1 {
		return nil, ErrProgramValidation
	}
	if update.Order != nil && *update.Order < 1 {
		return nil, ErrProgramValidation
	}
	if update.DayOfWeek != nil && (*update.DayOfWeek < 1 || *update.DayOfWeek > 7) {
		return nil, ErrProgramValidation
	}

	if update.Name != nil {
		session.Name = *update.Name
	}
	if update.DayOfWeek != nil {
		session.DayOfWeek = update.DayOfWeek
	}
	if update.WeekNumber != nil {
		session.WeekNumber = *update.WeekNumber
	}
	if update.Order != nil {
		session.Order = *update.Order
	}
	if update.RestDay != nil {
		session.RestDay = *update.RestDay
	}

	if err := s.programRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *programService) DeleteSession(ctx context.Context, actorID, sessionID primitive.ObjectID) error {
	if _, _, err := s.getOwnedSession(ctx, actorID, sessionID); err != nil {
		return err
	}
	return s.programRepo.DeleteSession(ctx, sessionID)
}

// --- Prescriptions ---

func (s *programService) AddExercise(ctx context.Context, actorID, sessionID primitive.ObjectID, input PrescriptionInput) (*domain.ProgramExercise, error) {
	if _, _, err := s.getOwnedSession(ctx, actorID, sessionID); err != nil {
		return nil, err
	}
	if input.Sets < 1 || input.Reps == "" {
		return nil, ErrProgramValidation
	}
	if input.RPE != nil && (*input.RPE < 1 || *input.RPE > 10) {
		return nil, ErrProgramValidation
	}

	// The catalog reference must resolve, soft-deleted rows included.
	if _, err := s.exerciseRepo.GetByID(ctx, input.ExerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	exercise := &domain.ProgramExercise{
		SessionID:     sessionID,
		ExerciseID:    input.ExerciseID,
		Order:         input.Order,
		Sets:          input.Sets,
		Reps:          input.Reps,
		Weight:        input.Weight,
		RestPeriod:    input.RestPeriod,
		Tempo:         input.Tempo,
		RPE:           input.RPE,
		Notes:         input.Notes,
		IsSuperset:    input.IsSuperset,
		SupersetGroup: input.SupersetGroup,
	}
	exerciseID, err := s.programRepo.CreateExercise(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.programRepo.GetExerciseByID(ctx, exerciseID)
}

func (s *programService) GetSessionExercises(ctx context.Context, viewerID, sessionID primitive.ObjectID) ([]domain.ProgramExercise, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	program, err := s.getProgram(ctx, session.ProgramID)
	if err != nil {
		return nil, err
	}
	if !program.ViewableBy(viewerID) {
		return nil, ErrProgramAccessDenied
	}
	return s.programRepo.GetExercisesBySessionID(ctx, sessionID)
}

func (s *programService) UpdateExercise(ctx context.Context, actorID, programExerciseID primitive.ObjectID, update PrescriptionUpdate) (*domain.ProgramExercise, error) {
	prescription, err := s.getOwnedPrescription(ctx, actorID, programExerciseID)
	if err != nil {
		return nil, err
	}
	if update.Sets != nil && *update.Sets < 1 {
		return nil, ErrProgramValidation
	}
	if update.Reps != nil && *update.Reps == "" {
		return nil, ErrProgramValidation
	}
	if update.RPE != nil && (*update.RPE < 1 || *update.RPE > 10) {
		return nil, ErrProgramValidation
	}

	if update.ExerciseID != nil && *update.ExerciseID != prescription.ExerciseID {
		if _, err := s.exerciseRepo.GetByID(ctx, *update.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrExerciseNotFound
			}
			return nil, err
		}
		prescription.ExerciseID = *update.ExerciseID
	}

	if update.Order != nil {
		prescription.Order = *update.Order
	}
	if update.Sets != nil {
		prescription.Sets = *update.Sets
	}
	if update.Reps != nil {
		prescription.Reps = *update.Reps
	}
	if update.Weight != nil {
		prescription.Weight = update.Weight
	}
	if update.RestPeriod != nil {
		prescription.RestPeriod = *update.RestPeriod
	}
	if update.Tempo != nil {
		prescription.Tempo = *update.Tempo
	}
	if update.RPE != nil {
		prescription.RPE = update.RPE
	}
	if update.Notes != nil {
		prescription.Notes = *update.Notes
	}
	if update.IsSuperset != nil {
		prescription.IsSuperset = *update.IsSuperset
	}
	if update.SupersetGroup != nil {
		prescription.SupersetGroup = update.SupersetGroup
	}

	if err := s.programRepo.UpdateExercise(ctx, prescription); err != nil {
		return nil, err
	}
	return prescription, nil
}

func (s *programService) DeleteExercise(ctx context.Context, actorID, programExerciseID primitive.ObjectID) error {
	if _, err := s.getOwnedPrescription(ctx, actorID, programExerciseID); err != nil {
		return err
	}
	return s.programRepo.DeleteExercise(ctx, programExerciseID)
}

// --- Ownership helpers ---

func (s *programService) getProgram(ctx context.Context, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

func (s *programService) getOwnedProgram(ctx context.Context, actorID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.TrainerID != actorID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

func (s *programService) getSession(ctx context.Context, sessionID primitive.ObjectID) (*domain.ProgramSession, error) {
	session, err := s.programRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// getOwnedSession resolves the session and its program, then checks that the
// actor owns the program. Sub-resource authorization always goes through here.
func (s *programService) getOwnedSession(ctx context.Context, actorID, sessionID primitive.ObjectID) (*domain.ProgramSession, *domain.Program, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	program, err := s.getOwnedProgram(ctx, actorID, session.ProgramID)
	if err != nil {
		return nil, nil, err
	}
	return session, program, nil
}

func (s *programService) getOwnedPrescription(ctx context.Context, actorID, programExerciseID primitive.ObjectID) (*domain.ProgramExercise, error) {
	prescription, err := s.programRepo.GetExerciseByID(ctx, programExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPrescriptionMissing
		}
		return nil, err
	}
	if _, _, err := s.getOwnedSession(ctx, actorID, prescription.SessionID); err != nil {
		return nil, err
	}
	return prescription, nil
}
