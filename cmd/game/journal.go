package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Geocache/internal/game/app/port"
	"Geocache/internal/game/infra/persistence/memory"
	"Geocache/internal/game/infra/persistence/mongodb"
	"Geocache/internal/game/infra/persistence/mysql"
	"Geocache/internal/shared/infrastructure/db"
	sharedmongo "Geocache/internal/shared/infrastructure/mongo"
	"Geocache/internal/shared/logs"
	"Geocache/internal/shared/serverconfig"
)

// openJournalRepo 按 journal.driver 打开审计存储，返回的 closer 在退出时调用。
func openJournalRepo(cfg serverconfig.Config) (port.JournalRepository, func(), error) {
	switch cfg.Journal.Driver {
	case "", serverconfig.JournalMemory:
		return memory.NewJournalRepository(), func() {}, nil

	case serverconfig.JournalMongoDB:
		client, database, err := sharedmongo.Open(cfg.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, fmt.Errorf("open mongodb: %w", err)
		}
		closer := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logs.Warn("mongodb disconnect failed", zap.Error(err))
			}
		}
		return mongodb.NewJournalRepository(database), closer, nil

	case serverconfig.JournalMySQL:
		gormDB, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		repo := mysql.NewJournalRepository(gormDB)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate exchange journal: %w", err)
		}
		closer := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closer, nil

	default:
		return nil, nil, fmt.Errorf("journal.driver %q is not supported", cfg.Journal.Driver)
	}
}
