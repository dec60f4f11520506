package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	programCollectionName         = "programs"
	sessionCollectionName         = "program_sessions"
	programExerciseCollectionName = "program_exercises"
)

// mongoProgramRepository manages the program/session/prescription hierarchy.
// One repository for all three collections so CloneTree can run the template
// deep copy in a single transaction.
type mongoProgramRepository struct {
	client    *mongo.Client
	programs  *mongo.Collection
	sessions  *mongo.Collection
	exercises *mongo.Collection
}

// NewMongoProgramRepository creates a program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		client:    db.Client(),
		programs:  db.Collection(programCollectionName),
		sessions:  db.Collection(sessionCollectionName),
		exercises: db.Collection(programExerciseCollectionName),
	}
}

func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	if program.Name == "" || program.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program name and trainer ID are required")
	}

	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.Goals == nil {
		program.Goals = []string{}
	}

	result, err := r.programs.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.programs.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *mongoProgramRepository) Find(ctx context.Context, filter repository.ProgramFilter) ([]domain.Program, error) {
	query := bson.M{"isActive": true}
	if filter.TrainerID != nil {
		query["trainerId"] = *filter.TrainerID
	}
	if filter.ClientID != nil {
		query["clientId"] = *filter.ClientID
	}
	if filter.IsTemplate != nil {
		query["isTemplate"] = *filter.IsTemplate
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.programs.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	programs := []domain.Program{}
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *mongoProgramRepository) Update(ctx context.Context, program *domain.Program) error {
	if program.ID == primitive.NilObjectID {
		return errors.New("program ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":            program.Name,
			"description":     program.Description,
			"clientId":        program.ClientID,
			"isTemplate":      program.IsTemplate,
			"duration":        program.Duration,
			"sessionsPerWeek": program.SessionsPerWeek,
			"difficulty":      program.Difficulty,
			"goals":           program.Goals,
			"updatedAt":       time.Now().UTC(),
			// trainerId is never touched; ownership cannot move.
		},
	}

	result, err := r.programs.UpdateOne(ctx, bson.M{"_id": program.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgramRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}}

	result, err := r.programs.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// --- Sessions ---

func (r *mongoProgramRepository) CreateSession(ctx context.Context, session *domain.ProgramSession) (primitive.ObjectID, error) {
	if session.Name == "" || session.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session name and program ID are required")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.sessions.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoProgramRepository) GetSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramSession, error) {
	var session domain.ProgramSession
	err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *mongoProgramRepository) GetSessionsByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramSession, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "weekNumber", Value: 1},
		{Key: "order", Value: 1},
	})

	cursor, err := r.sessions.Find(ctx, bson.M{"programId": programID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.ProgramSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *mongoProgramRepository) UpdateSession(ctx context.Context, session *domain.ProgramSession) error {
	update := bson.M{
		"$set": bson.M{
			"name":       session.Name,
			"dayOfWeek":  session.DayOfWeek,
			"weekNumber": session.WeekNumber,
			"order":      session.Order,
			"restDay":    session.RestDay,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.sessions.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteSession removes the session together with its prescriptions.
func (r *mongoProgramRepository) DeleteSession(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.sessions.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	_, err = r.exercises.DeleteMany(ctx, bson.M{"sessionId": id})
	return err
}

// --- Prescriptions ---

func (r *mongoProgramRepository) CreateExercise(ctx context.Context, exercise *domain.ProgramExercise) (primitive.ObjectID, error) {
	if exercise.SessionID == primitive.NilObjectID || exercise.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session ID and exercise ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.exercises.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoProgramRepository) GetExerciseByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramExercise, error) {
	var exercise domain.ProgramExercise
	err := r.exercises.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *mongoProgramRepository) GetExercisesBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ProgramExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.exercises.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.ProgramExercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *mongoProgramRepository) UpdateExercise(ctx context.Context, exercise *domain.ProgramExercise) error {
	update := bson.M{
		"$set": bson.M{
			"exerciseId":    exercise.ExerciseID,
			"order":         exercise.Order,
			"sets":          exercise.Sets,
			"reps":          exercise.Reps,
			"weight":        exercise.Weight,
			"restPeriod":    exercise.RestPeriod,
			"tempo":         exercise.Tempo,
			"rpe":           exercise.RPE,
			"notes":         exercise.Notes,
			"isSuperset":    exercise.IsSuperset,
			"supersetGroup": exercise.SupersetGroup,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.exercises.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoProgramRepository) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.exercises.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CloneTree deep-copies the template's sessions and prescriptions into the
// clone program inside one transaction, so a mid-copy failure leaves nothing
// behind. Requires a replica-set or mongos deployment, as all mongo
// transactions do.
func (r *mongoProgramRepository) CloneTree(ctx context.Context, templateID primitive.ObjectID, clone *domain.Program) (primitive.ObjectID, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	newID, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		newProgramID, err := r.Create(sc, clone)
		if err != nil {
			return nil, err
		}

		sessions, err := r.GetSessionsByProgramID(sc, templateID)
		if err != nil {
			return nil, err
		}

		for _, src := range sessions {
			newSession := src
			newSession.ProgramID = newProgramID
			newSessionID, err := r.CreateSession(sc, &newSession)
			if err != nil {
				return nil, err
			}

			prescriptions, err := r.GetExercisesBySessionID(sc, src.ID)
			if err != nil {
				return nil, err
			}
			for _, srcEx := range prescriptions {
				newEx := srcEx
				newEx.SessionID = newSessionID
				if _, err := r.CreateExercise(sc, &newEx); err != nil {
					return nil, err
				}
			}
		}

		return newProgramID, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return newID.(primitive.ObjectID), nil
}

// EnsureProgramIndexes creates the indexes for the three program collections.
func EnsureProgramIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(programCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainerId", Value: 1}}},
		{Keys: bson.D{{Key: "clientId", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "isTemplate", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(sessionCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "programId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "order", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(programExerciseCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "order", Value: 1}}},
	})
	return err
}
