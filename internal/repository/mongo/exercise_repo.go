package mongo

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// activeFilter matches exercises whose isActive flag is true, null or missing.
func activeFilter() bson.A {
	return bson.A{bson.M{"isActive": nil}, bson.M{"isActive": true}}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (string, error) {
	if exercise.Name == "" {
		return "", errors.New("exercise name is required")
	}

	exercise.ID = newID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return "", err
	}
	return exercise.ID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Search runs a case-insensitive substring match on the exercise name.
func (r *mongoExerciseRepository) Search(ctx context.Context, query string, limit int) ([]domain.Exercise, error) {
	filter := bson.M{
		"name": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
		"$or":  activeFilter(),
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit))
	return r.find(ctx, filter, findOptions)
}

// ListByTrainingDay returns active exercises tagged with the given day.
func (r *mongoExerciseRepository) ListByTrainingDay(ctx context.Context, day string, limit int) ([]domain.Exercise, error) {
	filter := bson.M{"$or": activeFilter()}
	if day != "" {
		filter["trainingDays"] = day
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, findOptions)
}

// ListAll returns the whole catalog, including inactive rows.
func (r *mongoExerciseRepository) ListAll(ctx context.Context) ([]domain.Exercise, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *mongoExerciseRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Exercise, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update modifies an existing exercise and bumps UpdatedAt.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		return errors.New("exercise ID is required for update")
	}

	exercise.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":              exercise.Name,
			"description":       exercise.Description,
			"imageUrl":          exercise.ImageURL,
			"videoUrl":          exercise.VideoURL,
			"majorMuscleGroups": exercise.MajorMuscleGroups,
			"trainingDays":      exercise.TrainingDays,
			"isActive":          exercise.IsActive,
			"updatedAt":         exercise.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Upsert writes the exercise under its existing ID.
func (r *mongoExerciseRepository) Upsert(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		return errors.New("exercise ID is required for upsert")
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	if exercise.UpdatedAt.IsZero() {
		exercise.UpdatedAt = exercise.CreatedAt
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": exercise.ID}, exercise, options.Replace().SetUpsert(true))
	return err
}

// Delete removes an exercise from the catalog.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			// Session picker lists exercises per training day
			Keys:    bson.D{{Key: "trainingDays", Value: 1}},
			Options: options.Index(),
		},
	})
}
