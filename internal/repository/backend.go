package repository

import (
	"context"
	"time"
)

// Backend - операции HTTP-адаптера, которыми пользуются репозитории.
type Backend interface {
	Get(ctx context.Context, path string) (any, error)
	GetWithFallback(ctx context.Context, paths []string) (any, error)
	Put(ctx context.Context, path string, payload any) (any, error)
	Post(ctx context.Context, path string, payload any) (any, error)
	PostWithTimeout(ctx context.Context, path string, payload any, timeout time.Duration) (any, error)
}
