package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/infra/persistence/model"
	"Geocache/modules/kit/errx"
)

const OpAppendJournal = "repo.journal.Append"

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Migrate 建表，启动时调用一次。
func (r *JournalRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.ExchangeRecord{})
}

// Append 重试时主键冲突直接跳过。
func (r *JournalRepository) Append(ctx context.Context, events []entity.ExchangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.ExchangeRecord, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.EventToRecord(e))
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, len(rows)).Error
	if err != nil {
		return errx.ErrUnavailable.WithData("op", OpAppendJournal).WithCause(err)
	}
	return nil
}
