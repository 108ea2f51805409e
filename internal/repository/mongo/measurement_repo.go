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

const measurementCollectionName = "measurements"

type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a Measurement repository backed by MongoDB.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{collection: db.Collection(measurementCollectionName)}
}

func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) (string, error) {
	if m.UserID == "" {
		return "", errors.New("measurement user ID is required")
	}
	if m.ID == "" {
		m.ID = newID()
	}
	if _, err := r.collection.InsertOne(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

func (r *mongoMeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	filter := bson.M{"_id": m.ID, "userId": m.UserID}
	result, err := r.collection.ReplaceOne(ctx, filter, m)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMeasurementRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Measurement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "takenAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	measurements := []domain.Measurement{}
	if err = cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	return measurements, cursor.Err()
}

func (r *mongoMeasurementRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMeasurementIndexes creates necessary indexes for the measurements collection.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "takenAt", Value: -1}},
			Options: options.Index(),
		},
	})
}
