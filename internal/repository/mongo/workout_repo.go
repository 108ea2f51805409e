package mongo

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{collection: db.Collection(workoutCollectionName)}
}

// Create inserts a completed workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (string, error) {
	if workout.UserID == "" {
		return "", errors.New("workout user ID is required")
	}
	if workout.ID == "" {
		workout.ID = newID()
	}
	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return "", err
	}
	return workout.ID, nil
}

// GetByID fetches one of the user's workouts.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, userID, id string) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// ListRecent returns the user's workouts sorted by date, newest first.
func (r *mongoWorkoutRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Workout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"userId": userID}, findOptions)
}

// ListAll returns every stored workout, oldest first.
func (r *mongoWorkoutRepository) ListAll(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Upsert writes the workout under its existing ID.
func (r *mongoWorkoutRepository) Upsert(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == "" {
		return errors.New("workout ID is required for upsert")
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": workout.ID}, workout, options.Replace().SetUpsert(true))
	return err
}

// Delete removes one of the user's workouts.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// History is always read per user, newest first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	})
}
