package service

import (
	"context"
	"errors"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientRequired     = errors.New("client id is required for this operation")
	ErrClientNotFound     = errors.New("client not found")
	ErrClientAccessDenied = errors.New("client is not assigned to this trainer")
)

// resolveClientScope decides whose data a read targets. A client always reads
// their own data. A trainer must name a client explicitly and may only reach
// clients bound to them through registration-token redemption.
func resolveClientScope(ctx context.Context, users repository.UserRepository, actorID primitive.ObjectID, role domain.Role, clientID *primitive.ObjectID) (primitive.ObjectID, error) {
	if role != domain.RoleTrainer {
		return actorID, nil
	}

	if clientID == nil || *clientID == primitive.NilObjectID {
		return primitive.NilObjectID, ErrClientRequired
	}

	client, err := users.GetByID(ctx, *clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrClientNotFound
		}
		return primitive.NilObjectID, err
	}
	if client.TrainerID == nil || *client.TrainerID != actorID {
		return primitive.NilObjectID, ErrClientAccessDenied
	}
	return client.ID, nil
}
