package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/infra/persistence/model"
)

const defaultCollectionName = "exchange_journal"

type JournalRepository struct {
	coll *mongo.Collection
}

func NewJournalRepository(db *mongo.Database) *JournalRepository {
	return &JournalRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

// Append 无序批量写入；重试时已写入的 _id 会报重复键，按成功处理。
func (r *JournalRepository) Append(ctx context.Context, events []entity.ExchangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb journal collection is nil")
	}

	docs := make([]any, 0, len(events))
	for _, e := range events {
		docs = append(docs, model.EventToDoc(e))
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && mongo.IsDuplicateKeyError(err) && onlyDuplicates(err) {
		return nil
	}
	return err
}

func onlyDuplicates(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return false
	}
	if bwe.WriteConcernError != nil {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}
