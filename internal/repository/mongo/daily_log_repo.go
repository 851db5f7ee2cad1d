package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitness-ledger/internal/domain"
	"alcyxob/fitness-ledger/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dailyLogCollectionName = "daily_logs"

// mongoDailyLogRepository implements repository.DailyLogRepository.
type mongoDailyLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyLogRepository creates a new daily ledger repository.
func NewMongoDailyLogRepository(db *mongo.Database) repository.DailyLogRepository {
	return &mongoDailyLogRepository{
		collection: db.Collection(dailyLogCollectionName),
	}
}

// Get retrieves the ledger document for one (user, date) pair.
func (r *mongoDailyLogRepository) Get(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	var log domain.DailyLog
	filter := bson.M{"userId": userID, "date": date}
	err := r.collection.FindOne(ctx, filter).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Put replaces the whole ledger document, creating it if absent. This is
// deliberately a full-document overwrite: the document is the unit of
// atomicity and the last writer wins.
func (r *mongoDailyLogRepository) Put(ctx context.Context, log *domain.DailyLog) error {
	if log.UserID == "" || log.Date == "" {
		return errors.New("daily log requires userId and date")
	}
	log.UpdatedAt = time.Now().UTC()

	filter := bson.M{"userId": log.UserID, "date": log.Date}
	// Never overwrite _id; ReplaceOne keeps the existing one on match.
	log.ID = primitive.NilObjectID
	_, err := r.collection.ReplaceOne(ctx, filter, log, options.Replace().SetUpsert(true))
	return err
}

// Delete removes the ledger document for one date.
func (r *mongoDailyLogRepository) Delete(ctx context.Context, userID, date string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "date": date})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser fetches all ledger documents for the user, newest date first.
// Callers filter in memory; the sort is the only server-side help used.
func (r *mongoDailyLogRepository) ListByUser(ctx context.Context, userID string) ([]domain.DailyLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.DailyLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// EnsureDailyLogIndexes creates necessary indexes. Call during startup.
func EnsureDailyLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One document per (user, date); also serves the per-date Get.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
