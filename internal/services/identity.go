package services

import (
	"context"
	"errors"

	"github.com/senyabanana/bid-dashboard/internal/identity"
)

// Identity - источник текущего пользователя для сервисов.
type Identity interface {
	RequireUser(ctx context.Context) (string, error)
	CurrentUserID(ctx context.Context) (string, error)
	Save(ctx context.Context, token, userID string) error
	Clear(ctx context.Context) error
}

func isUnauthenticated(err error) bool {
	return errors.Is(err, identity.ErrUnauthenticated)
}
