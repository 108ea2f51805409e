package mongo

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const goalCollectionName = "goals"

type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a Goal repository backed by MongoDB.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{collection: db.Collection(goalCollectionName)}
}

func (r *mongoGoalRepository) Get(ctx context.Context, userID string) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// Upsert replaces the user's goal document, creating it on first write.
func (r *mongoGoalRepository) Upsert(ctx context.Context, goal *domain.Goal) error {
	if goal.UserID == "" {
		return errors.New("goal user ID is required")
	}
	goal.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"userId": goal.UserID}, goal, options.Replace().SetUpsert(true))
	return err
}

// EnsureGoalIndexes creates necessary indexes for the goals collection.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
