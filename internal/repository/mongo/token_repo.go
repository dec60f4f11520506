package mongo

import (
	"context"
	"errors"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tokenCollectionName = "registration_tokens"

type mongoTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoTokenRepository creates a registration-token repository backed by MongoDB.
func NewMongoTokenRepository(db *mongo.Database) repository.TokenRepository {
	return &mongoTokenRepository{collection: db.Collection(tokenCollectionName)}
}

func (r *mongoTokenRepository) Create(ctx context.Context, token *domain.RegistrationToken) (primitive.ObjectID, error) {
	if token.Token == "" || token.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("token value and trainer ID are required")
	}

	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RegistrationToken, error) {
	var t domain.RegistrationToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *mongoTokenRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.RegistrationToken, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tokens := []domain.RegistrationToken{}
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *mongoTokenRepository) MarkUsed(ctx context.Context, id, usedByID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"isUsed":   true,
			"usedById": usedByID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTokenIndexes creates the indexes for the registration_tokens collection.
func EnsureTokenIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}},
		},
	}

	_, err := db.Collection(tokenCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
