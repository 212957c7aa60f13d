package model

import (
	"time"

	"Geocache/internal/game/entity"
)

// ExchangeRecord 是交换记录的 MySQL 行。
type ExchangeRecord struct {
	ID              int64     `gorm:"column:id;type:bigint;comment:snowflake id;primaryKey;autoIncrement:false;" json:"id"`
	SessionID       string    `gorm:"column:session_id;type:varchar(64);comment:会话id;index;not null;" json:"session_id"`
	CellI           int       `gorm:"column:cell_i;type:int;comment:行;not null;" json:"cell_i"`
	CellJ           int       `gorm:"column:cell_j;type:int;comment:列;not null;" json:"cell_j"`
	Policy          string    `gorm:"column:policy;type:varchar(32);comment:交换策略;not null;" json:"policy"`
	InventoryBefore int       `gorm:"column:inventory_before;type:int;comment:交换前背包面值，0为空;not null;default:0;" json:"inventory_before"`
	CacheBefore     int       `gorm:"column:cache_before;type:int;comment:交换前格子面值，0为空;not null;default:0;" json:"cache_before"`
	InventoryAfter  int       `gorm:"column:inventory_after;type:int;comment:交换后背包面值;not null;default:0;" json:"inventory_after"`
	CacheAfter      int       `gorm:"column:cache_after;type:int;comment:交换后格子面值;not null;default:0;" json:"cache_after"`
	Rejected        bool      `gorm:"column:rejected;type:tinyint(1);comment:是否被拒绝;not null;default:0;" json:"rejected"`
	At              time.Time `gorm:"column:at;type:datetime(3);comment:发生时间;not null;" json:"at"`
}

func (r *ExchangeRecord) TableName() string {
	return "exchange_journal"
}

// ExchangeDoc 是交换记录的 Mongo 文档。
type ExchangeDoc struct {
	ID              int64     `bson:"_id"`
	SessionID       string    `bson:"session_id"`
	CellI           int       `bson:"i"`
	CellJ           int       `bson:"j"`
	Policy          string    `bson:"policy"`
	InventoryBefore int       `bson:"inventory_before"`
	CacheBefore     int       `bson:"cache_before"`
	InventoryAfter  int       `bson:"inventory_after"`
	CacheAfter      int       `bson:"cache_after"`
	Rejected        bool      `bson:"rejected"`
	At              time.Time `bson:"at"`
}

func EventToRecord(e entity.ExchangeEvent) ExchangeRecord {
	return ExchangeRecord{
		ID:              e.ID,
		SessionID:       string(e.SessionID),
		CellI:           e.Cell.I,
		CellJ:           e.Cell.J,
		Policy:          string(e.Policy),
		InventoryBefore: e.InventoryBefore,
		CacheBefore:     e.CacheBefore,
		InventoryAfter:  e.InventoryAfter,
		CacheAfter:      e.CacheAfter,
		Rejected:        e.Rejected,
		At:              e.At,
	}
}

func EventToDoc(e entity.ExchangeEvent) ExchangeDoc {
	return ExchangeDoc{
		ID:              e.ID,
		SessionID:       string(e.SessionID),
		CellI:           e.Cell.I,
		CellJ:           e.Cell.J,
		Policy:          string(e.Policy),
		InventoryBefore: e.InventoryBefore,
		CacheBefore:     e.CacheBefore,
		InventoryAfter:  e.InventoryAfter,
		CacheAfter:      e.CacheAfter,
		Rejected:        e.Rejected,
		At:              e.At,
	}
}
