package service

import (
	"context"
	"errors"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboard sizing: how much recent history the client-details view embeds.
const (
	detailsWeightEntries = 10
	detailsRecentLogs    = 5
)

// ClientWeightSummary is the weight section of the client dashboard.
type ClientWeightSummary struct {
	Latest  *float64             `json:"latest"`
	Initial *float64             `json:"initial"`
	Change  *float64             `json:"change"`
	Entries []domain.WeightEntry `json:"entries"`
}

// ClientRecentLog is one row of the dashboard's recent-workout list.
type ClientRecentLog struct {
	Log         domain.WorkoutLog `json:"log"`
	SessionName string            `json:"sessionName,omitempty"`
	ProgramName string            `json:"programName,omitempty"`
}

// ClientWorkoutSummary is the workout section of the client dashboard.
type ClientWorkoutSummary struct {
	TotalLogs     int               `json:"totalLogs"`
	CompletedLogs int64             `json:"completedLogs"`
	RecentLogs    []ClientRecentLog `json:"recentLogs"`
}

// ClientProgramSummary is one assigned program with its session count.
type ClientProgramSummary struct {
	Program      domain.Program `json:"program"`
	SessionCount int            `json:"sessionCount"`
}

// ClientDetails is the composite dashboard a trainer sees for one client.
type ClientDetails struct {
	Client   *domain.User           `json:"client"`
	Weight   ClientWeightSummary    `json:"weight"`
	Workouts ClientWorkoutSummary   `json:"workouts"`
	Programs []ClientProgramSummary `json:"programs"`
}

// TrainerService serves trainer-facing client views.
type TrainerService interface {
	// ListClients returns every USER-role account, newest first. The pool is
	// deliberately shared across trainers; per-client data access is still
	// gated on the trainer binding elsewhere.
	ListClients(ctx context.Context) ([]domain.User, error)
	GetClientDetails(ctx context.Context, clientID primitive.ObjectID) (*ClientDetails, error)
}

// --- Service Implementation ---

type trainerService struct {
	userRepo    repository.UserRepository
	weightRepo  repository.WeightRepository
	workoutRepo repository.WorkoutRepository
	programRepo repository.ProgramRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(userRepo repository.UserRepository, weightRepo repository.WeightRepository, workoutRepo repository.WorkoutRepository, programRepo repository.ProgramRepository) TrainerService {
	return &trainerService{
		userRepo:    userRepo,
		weightRepo:  weightRepo,
		workoutRepo: workoutRepo,
		programRepo: programRepo,
	}
}

func (s *trainerService) ListClients(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.GetByRole(ctx, domain.RoleUser)
}

// GetClientDetails assembles the dashboard: profile, recent weight entries
// with the overall change, workout totals with the latest logs, and assigned
// programs with their session counts.
func (s *trainerService) GetClientDetails(ctx context.Context, clientID primitive.ObjectID) (*ClientDetails, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientAccessDenied
	}

	details := &ClientDetails{Client: client}

	// Weight: entries ascending gives initial/latest in one read.
	allEntries, err := s.weightRepo.GetByUserID(ctx, clientID, true)
	if err != nil {
		return nil, err
	}
	recentEntries, err := s.weightRepo.GetRecent(ctx, clientID, detailsWeightEntries)
	if err != nil {
		return nil, err
	}
	details.Weight.Entries = recentEntries
	if len(allEntries) > 0 {
		initial := allEntries[0].Weight
		latest := allEntries[len(allEntries)-1].Weight
		change := latest - initial
		details.Weight.Initial = &initial
		details.Weight.Latest = &latest
		details.Weight.Change = &change
	}

	// Workouts: all logs newest first; the dashboard embeds the first few
	// with their session and program names resolved.
	logs, err := s.workoutRepo.GetLogsByUserIDs(ctx, []primitive.ObjectID{clientID})
	if err != nil {
		return nil, err
	}
	completed, err := s.workoutRepo.CountCompleted(ctx, clientID)
	if err != nil {
		return nil, err
	}
	details.Workouts.TotalLogs = len(logs)
	details.Workouts.CompletedLogs = completed
	details.Workouts.RecentLogs = []ClientRecentLog{}
	for _, log := range logs {
		if len(details.Workouts.RecentLogs) == detailsRecentLogs {
			break
		}
		recent := ClientRecentLog{Log: log}
		if session, err := s.programRepo.GetSessionByID(ctx, log.ProgramSessionID); err == nil {
			recent.SessionName = session.Name
			if program, err := s.programRepo.GetByID(ctx, session.ProgramID); err == nil {
				recent.ProgramName = program.Name
			}
		}
		details.Workouts.RecentLogs = append(details.Workouts.RecentLogs, recent)
	}

	// Assigned programs with session counts.
	programs, err := s.programRepo.Find(ctx, repository.ProgramFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}
	details.Programs = make([]ClientProgramSummary, 0, len(programs))
	for _, program := range programs {
		sessions, err := s.programRepo.GetSessionsByProgramID(ctx, program.ID)
		if err != nil {
			return nil, err
		}
		details.Programs = append(details.Programs, ClientProgramSummary{
			Program:      program,
			SessionCount: len(sessions),
		})
	}

	return details, nil
}
