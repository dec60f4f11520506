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

const (
	workoutLogCollectionName  = "workout_logs"
	exerciseLogCollectionName = "exercise_logs"
)

// mongoWorkoutRepository manages workout logs and their nested exercise logs.
type mongoWorkoutRepository struct {
	logs         *mongo.Collection
	exerciseLogs *mongo.Collection
}

// NewMongoWorkoutRepository creates a workout log repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		logs:         db.Collection(workoutLogCollectionName),
		exerciseLogs: db.Collection(exerciseLogCollectionName),
	}
}

func (r *mongoWorkoutRepository) CreateLog(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	if log.UserID == primitive.NilObjectID || log.ProgramSessionID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("user ID and program session ID are required")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now
	if log.StartedAt.IsZero() {
		log.StartedAt = now
	}

	result, err := r.logs.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoWorkoutRepository) GetLogByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.logs.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *mongoWorkoutRepository) GetLogsByUserIDs(ctx context.Context, userIDs []primitive.ObjectID) ([]domain.WorkoutLog, error) {
	if len(userIDs) == 0 {
		return []domain.WorkoutLog{}, nil
	}

	filter := bson.M{"userId": bson.M{"$in": userIDs}}
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	cursor, err := r.logs.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.WorkoutLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoWorkoutRepository) GetActiveLog(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.WorkoutLog, error) {
	filter := bson.M{
		"userId":           userID,
		"programSessionId": sessionID,
		"isCompleted":      false,
	}

	var log domain.WorkoutLog
	err := r.logs.FindOne(ctx, filter).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *mongoWorkoutRepository) UpdateLog(ctx context.Context, log *domain.WorkoutLog) error {
	update := bson.M{
		"$set": bson.M{
			"notes":       log.Notes,
			"rating":      log.Rating,
			"isCompleted": log.IsCompleted,
			"completedAt": log.CompletedAt,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.logs.UpdateOne(ctx, bson.M{"_id": log.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteLog removes the log together with its exercise logs.
func (r *mongoWorkoutRepository) DeleteLog(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.logs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	_, err = r.exerciseLogs.DeleteMany(ctx, bson.M{"workoutLogId": id})
	return err
}

func (r *mongoWorkoutRepository) CreateExerciseLog(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	if log.WorkoutLogID == primitive.NilObjectID || log.ProgramExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log ID and program exercise ID are required")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	result, err := r.exerciseLogs.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoWorkoutRepository) GetExerciseLogByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	err := r.exerciseLogs.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *mongoWorkoutRepository) GetExerciseLogsByLogID(ctx context.Context, workoutLogID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.exerciseLogs.Find(ctx, bson.M{"workoutLogId": workoutLogID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.ExerciseLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoWorkoutRepository) UpdateExerciseLog(ctx context.Context, log *domain.ExerciseLog) error {
	update := bson.M{
		"$set": bson.M{
			"actualSets":       log.ActualSets,
			"actualReps":       log.ActualReps,
			"actualWeight":     log.ActualWeight,
			"actualRestPeriod": log.ActualRestPeriod,
			"actualRpe":        log.ActualRPE,
			"notes":            log.Notes,
			"isCompleted":      log.IsCompleted,
			"updatedAt":        time.Now().UTC(),
		},
	}

	result, err := r.exerciseLogs.UpdateOne(ctx, bson.M{"_id": log.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) CountCompleted(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.logs.CountDocuments(ctx, bson.M{"userId": userID, "isCompleted": true})
}

func (r *mongoWorkoutRepository) CountCompletedSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (int64, error) {
	filter := bson.M{
		"userId":      userID,
		"isCompleted": true,
		"completedAt": bson.M{"$gte": since},
	}
	return r.logs.CountDocuments(ctx, filter)
}

func (r *mongoWorkoutRepository) GetLatestCompleted(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutLog, error) {
	filter := bson.M{"userId": userID, "isCompleted": true}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}})

	var log domain.WorkoutLog
	err := r.logs.FindOne(ctx, filter, findOptions).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// AverageRating averages non-null ratings over completed logs using an
// aggregation pipeline; returns nil when the user has no rated workouts.
func (r *mongoWorkoutRepository) AverageRating(ctx context.Context, userID primitive.ObjectID) (*float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId":      userID,
			"isCompleted": true,
			"rating":      bson.M{"$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.logs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0].Avg, nil
}

// EnsureWorkoutIndexes creates the indexes for the workout collections.
func EnsureWorkoutIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(workoutLogCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "programSessionId", Value: 1}, {Key: "isCompleted", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(exerciseLogCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "workoutLogId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}
