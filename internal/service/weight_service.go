package service

import (
	"context"
	"errors"
	"math"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWeightEntryNotFound = errors.New("weight entry not found")
	ErrWeightAccessDenied  = errors.New("only the owner can modify weight entries")
	ErrWeightOutOfRange    = errors.New("weight must be between 20 and 500 kg")
)

// Input bounds for a plausible body weight, in kg.
const (
	minWeightKg = 20
	maxWeightKg = 500
)

// Trend classification window and thresholds: the average per-step change over
// the last three entries, compared against +-0.2 kg/step.
const (
	trendWindow    = 3
	trendThreshold = 0.2
)

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// WeightStats aggregates a user's weight history. Pointer fields are nil when
// there are no entries.
type WeightStats struct {
	CurrentWeight  *float64   `json:"currentWeight"`
	StartingWeight *float64   `json:"startingWeight"`
	WeightChange   *float64   `json:"weightChange"`
	LowestWeight   *float64   `json:"lowestWeight"`
	HighestWeight  *float64   `json:"highestWeight"`
	AverageWeight  *float64   `json:"averageWeight"`
	Trend          *string    `json:"trend"`
	TotalEntries   int        `json:"totalEntries"`
	LastUpdated    *time.Time `json:"lastUpdated"`
}

// WeightProgressPoint is a chart-ready projection of one entry.
type WeightProgressPoint struct {
	ID        primitive.ObjectID `json:"id"`
	Weight    float64            `json:"weight"`
	CreatedAt time.Time          `json:"createdAt"`
	Notes     string             `json:"notes,omitempty"`
}

// WeightService manages body-weight entries. Writes are owner-only; a trainer
// may read a bound client's entries, stats and progress.
type WeightService interface {
	AddEntry(ctx context.Context, userID primitive.ObjectID, weight float64, notes string) (*domain.WeightEntry, error)
	ListEntries(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) ([]domain.WeightEntry, error)
	UpdateEntry(ctx context.Context, actorID, entryID primitive.ObjectID, weight float64, notes string) (*domain.WeightEntry, error)
	DeleteEntry(ctx context.Context, actorID, entryID primitive.ObjectID) error
	GetWeightStats(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) (*WeightStats, error)
	GetWeightProgress(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID, days *int) ([]WeightProgressPoint, error)
}

// --- Service Implementation ---

type weightService struct {
	weightRepo repository.WeightRepository
	userRepo   repository.UserRepository
}

// NewWeightService creates a new instance of weightService.
func NewWeightService(weightRepo repository.WeightRepository, userRepo repository.UserRepository) WeightService {
	return &weightService{
		weightRepo: weightRepo,
		userRepo:   userRepo,
	}
}

func (s *weightService) AddEntry(ctx context.Context, userID primitive.ObjectID, weight float64, notes string) (*domain.WeightEntry, error) {
	if weight < minWeightKg || weight > maxWeightKg {
		return nil, ErrWeightOutOfRange
	}

	entry := &domain.WeightEntry{
		UserID: userID,
		Weight: weight,
		Notes:  notes,
	}
	entryID, err := s.weightRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	return s.weightRepo.GetByID(ctx, entryID)
}

// ListEntries returns the target user's entries, newest first.
func (s *weightService) ListEntries(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) ([]domain.WeightEntry, error) {
	targetID, err := resolveClientScope(ctx, s.userRepo, actorID, role, clientID)
	if err != nil {
		return nil, err
	}
	return s.weightRepo.GetByUserID(ctx, targetID, false)
}

// UpdateEntry is owner-only: a trainer viewing a client never gets write
// access to the client's history.
func (s *weightService) UpdateEntry(ctx context.Context, actorID, entryID primitive.ObjectID, weight float64, notes string) (*domain.WeightEntry, error) {
	entry, err := s.getOwnedEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}
	if weight < minWeightKg || weight > maxWeightKg {
		return nil, ErrWeightOutOfRange
	}

	entry.Weight = weight
	entry.Notes = notes
	if err := s.weightRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *weightService) DeleteEntry(ctx context.Context, actorID, entryID primitive.ObjectID) error {
	if _, err := s.getOwnedEntry(ctx, actorID, entryID); err != nil {
		return err
	}
	return s.weightRepo.Delete(ctx, entryID)
}

func (s *weightService) GetWeightStats(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) (*WeightStats, error) {
	targetID, err := resolveClientScope(ctx, s.userRepo, actorID, role, clientID)
	if err != nil {
		return nil, err
	}
	entries, err := s.weightRepo.GetByUserID(ctx, targetID, true)
	if err != nil {
		return nil, err
	}
	return ComputeWeightStats(entries), nil
}

// GetWeightProgress returns chart points ascending by time, optionally limited
// to the trailing number of days.
func (s *weightService) GetWeightProgress(ctx context.Context, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID, days *int) ([]WeightProgressPoint, error) {
	targetID, err := resolveClientScope(ctx, s.userRepo, actorID, role, clientID)
	if err != nil {
		return nil, err
	}

	var entries []domain.WeightEntry
	if days != nil && *days > 0 {
		entries, err = s.weightRepo.GetByUserIDSince(ctx, targetID, time.Now().AddDate(0, 0, -*days))
	} else {
		entries, err = s.weightRepo.GetByUserID(ctx, targetID, true)
	}
	if err != nil {
		return nil, err
	}

	points := make([]WeightProgressPoint, len(entries))
	for i, entry := range entries {
		points[i] = WeightProgressPoint{
			ID:        entry.ID,
			Weight:    entry.Weight,
			CreatedAt: entry.CreatedAt,
			Notes:     entry.Notes,
		}
	}
	return points, nil
}

func (s *weightService) getOwnedEntry(ctx context.Context, actorID, entryID primitive.ObjectID) (*domain.WeightEntry, error) {
	entry, err := s.weightRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeightEntryNotFound
		}
		return nil, err
	}
	if entry.UserID != actorID {
		return nil, ErrWeightAccessDenied
	}
	return entry, nil
}

// ComputeWeightStats derives the aggregate view from entries ordered oldest
// to newest. With no entries every pointer is nil and TotalEntries is zero.
func ComputeWeightStats(entries []domain.WeightEntry) *WeightStats {
	stats := &WeightStats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	starting := entries[0].Weight
	current := entries[len(entries)-1].Weight
	change := current - starting

	lowest, highest, sum := entries[0].Weight, entries[0].Weight, 0.0
	for _, entry := range entries {
		if entry.Weight < lowest {
			lowest = entry.Weight
		}
		if entry.Weight > highest {
			highest = entry.Weight
		}
		sum += entry.Weight
	}
	average := math.Round(sum/float64(len(entries))*100) / 100

	stats.CurrentWeight = &current
	stats.StartingWeight = &starting
	stats.WeightChange = &change
	stats.LowestWeight = &lowest
	stats.HighestWeight = &highest
	stats.AverageWeight = &average
	lastUpdated := entries[len(entries)-1].CreatedAt
	stats.LastUpdated = &lastUpdated
	stats.Trend = classifyTrend(entries)
	return stats
}

// classifyTrend looks at the last three entries only: the average per-step
// change is (third - first) / 2, compared against the +-0.2 kg threshold.
// Below three entries there is no trend.
func classifyTrend(entries []domain.WeightEntry) *string {
	if len(entries) < trendWindow {
		return nil
	}
	recent := entries[len(entries)-trendWindow:]
	step := (recent[trendWindow-1].Weight - recent[0].Weight) / float64(trendWindow-1)

	trend := TrendStable
	if step > trendThreshold {
		trend = TrendIncreasing
	} else if step < -trendThreshold {
		trend = TrendDecreasing
	}
	return &trend
}
