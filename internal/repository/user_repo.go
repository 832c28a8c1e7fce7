package repository

import (
	"context"
	"net/url"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/normalize"
)

// UserRepository - интерфейс для работы с профилями.
type UserRepository interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// SessionRepository - интерфейс для входа на площадку.
type SessionRepository interface {
	Login(ctx context.Context, input models.LoginInput, timeout time.Duration) (token, userID string, err error)
}

// HTTPUserRepository реализует UserRepository и SessionRepository поверх API площадки.
type HTTPUserRepository struct {
	API Backend
}

// NewHTTPUserRepository создает новый экземпляр HTTPUserRepository.
func NewHTTPUserRepository(api Backend) *HTTPUserRepository {
	return &HTTPUserRepository{API: api}
}

// GetProfile возвращает профиль пользователя.
func (r *HTTPUserRepository) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	payload, err := r.API.Get(ctx, "/api/users/profile/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	user := normalize.User(payload)
	if user.ID == "" {
		user.ID = userID
	}
	return &user, nil
}

// Login обменивает учётные данные на токен. Вызов ограничен timeout.
func (r *HTTPUserRepository) Login(ctx context.Context, input models.LoginInput, timeout time.Duration) (string, string, error) {
	payload, err := r.API.PostWithTimeout(ctx, "/api/auth/login", input, timeout)
	if err != nil {
		return "", "", err
	}
	obj, _ := payload.(map[string]any)
	token := normalize.FirstString(obj, "token", "accessToken")
	userID := normalize.FirstID(obj, "userId")
	if user, ok := obj["user"].(map[string]any); ok && userID == "" {
		userID = normalize.FirstID(user, "_id", "id")
	}
	return token, userID, nil
}
