package mongo

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plan_days"

// planDayDocument stores one plan day with its owner and position.
type planDayDocument struct {
	UserID         string `bson:"userId"`
	Position       int    `bson:"position"`
	domain.PlanDay `bson:",inline"`
}

type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a weekly plan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{collection: db.Collection(planCollectionName)}
}

func (r *mongoPlanRepository) List(ctx context.Context, userID string) ([]domain.PlanDay, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []planDayDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	days := make([]domain.PlanDay, 0, len(docs))
	for _, d := range docs {
		days = append(days, d.PlanDay)
	}
	return days, nil
}

// ReplaceAll deletes the user's stored days and inserts days in order.
func (r *mongoPlanRepository) ReplaceAll(ctx context.Context, userID string, days []domain.PlanDay) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(days))
	for i, d := range days {
		docs = append(docs, planDayDocument{UserID: userID, Position: i, PlanDay: d})
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// EnsurePlanIndexes creates necessary indexes for the plan_days collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	})
}
