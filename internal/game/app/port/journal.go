package port

import (
	"context"

	"Geocache/internal/game/entity"
)

// JournalRepository 只追加交换记录，不提供读取。
type JournalRepository interface {
	Append(ctx context.Context, events []entity.ExchangeEvent) error
}
