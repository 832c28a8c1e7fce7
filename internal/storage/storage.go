package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/senyabanana/bid-dashboard/internal/db"
	"github.com/senyabanana/bid-dashboard/internal/router/config"
)

// Storage - постоянное клиентское хранилище ключ-значение.
// Отсутствующий ключ возвращается как пустая строка без ошибки.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// New создает хранилище по драйверу из конфигурации.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (Storage, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "", "memory":
		logger.Info("using in-memory client storage")
		return NewMemoryStorage(), nil
	case "redis":
		store, err := NewRedisStorage(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: cfg.StorageNamespace,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using redis client storage", "addr", cfg.RedisAddr, "namespace", cfg.StorageNamespace)
		return store, nil
	case "postgres":
		if err := db.RunMigration(cfg.MigrationURL, cfg.PostgresConn); err != nil {
			return nil, err
		}
		logger.Info("client storage migrated successfully")
		pool, err := db.InitDb(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres client storage", "namespace", cfg.StorageNamespace)
		return NewPostgresStorage(pool, cfg.StorageNamespace), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
