package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage хранит значения в таблице client_storage.
type PostgresStorage struct {
	DB        *pgxpool.Pool
	namespace string
}

// NewPostgresStorage создает новый экземпляр PostgresStorage.
func NewPostgresStorage(db *pgxpool.Pool, namespace string) *PostgresStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &PostgresStorage{DB: db, namespace: namespace}
}

// Get читает значение по ключу; отсутствующий ключ даёт пустую строку.
func (p *PostgresStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`
	err := p.DB.QueryRow(ctx, query, p.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

// Set записывает значение по ключу.
func (p *PostgresStorage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO client_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := p.DB.Exec(ctx, query, p.namespace, key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete удаляет ключи; отсутствующие ключи пропускаются.
func (p *PostgresStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM client_storage WHERE namespace = $1 AND key = ANY($2)`
	if _, err := p.DB.Exec(ctx, query, p.namespace, keys); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Close закрывает хранилище.
func (p *PostgresStorage) Close() error {
	p.DB.Close()
	return nil
}
