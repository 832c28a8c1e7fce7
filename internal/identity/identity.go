// Package identity resolves the current user and bearer token from the client storage.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

// Ключи клиентского хранилища.
const (
	KeyToken       = "token"
	KeyLegacyToken = "userToken"
	KeyUserID      = "userId"
)

// ErrUnauthenticated возвращается, когда в хранилище нет токена или идентификатора пользователя.
var ErrUnauthenticated = errors.New("not signed in")

// Context отдаёт данные текущего пользователя всем компонентам, которые ходят в бэкенд.
type Context struct {
	store storage.Storage
	now   func() time.Time
}

// New создает контекст идентичности поверх клиентского хранилища.
func New(store storage.Storage) *Context {
	return &Context{store: store, now: time.Now}
}

// AuthToken возвращает токен: первый непустой из "token", затем "userToken".
// Просроченный JWT считается отсутствующим.
func (c *Context) AuthToken(ctx context.Context) (string, error) {
	for _, key := range []string{KeyToken, KeyLegacyToken} {
		value, err := c.store.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		if c.expired(value) {
			return "", nil
		}
		return value, nil
	}
	return "", nil
}

// CurrentUserID возвращает идентификатор пользователя из "userId",
// а при его отсутствии - из claims токена (userId, id, sub).
func (c *Context) CurrentUserID(ctx context.Context) (string, error) {
	value, err := c.store.Get(ctx, KeyUserID)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", KeyUserID, err)
	}
	if value = strings.TrimSpace(value); value != "" {
		return value, nil
	}

	token, err := c.AuthToken(ctx)
	if err != nil || token == "" {
		return "", err
	}
	claims, ok := parseClaims(token)
	if !ok {
		return "", nil
	}
	for _, key := range []string{"userId", "id", "sub"} {
		if id, ok := claims[key].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", nil
}

// AuthHeaders возвращает заголовок Authorization, если пользователь вошёл.
func (c *Context) AuthHeaders(ctx context.Context) (map[string]string, error) {
	token, err := c.AuthToken(ctx)
	if err != nil {
		return nil, err
	}
	headers := make(map[string]string, 1)
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers, nil
}

// RequireUser возвращает идентификатор пользователя или ErrUnauthenticated.
func (c *Context) RequireUser(ctx context.Context) (string, error) {
	token, err := c.AuthToken(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrUnauthenticated
	}
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

// Save сохраняет токен и пользователя после входа и удаляет устаревший ключ "userToken".
func (c *Context) Save(ctx context.Context, token, userID string) error {
	if err := c.store.Set(ctx, KeyToken, token); err != nil {
		return err
	}
	if userID == "" {
		return c.store.Delete(ctx, KeyLegacyToken, KeyUserID)
	}
	if err := c.store.Set(ctx, KeyUserID, userID); err != nil {
		return err
	}
	return c.store.Delete(ctx, KeyLegacyToken)
}

// Clear удаляет все ключи сессии.
func (c *Context) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, KeyToken, KeyLegacyToken, KeyUserID)
}

func (c *Context) expired(token string) bool {
	claims, ok := parseClaims(token)
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.Time.After(c.now())
}

// parseClaims читает claims без проверки подписи: её проверяет бэкенд.
func parseClaims(token string) (jwt.MapClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
