package services

import (
	"context"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/repository"
)

// UserService отдаёт профили пользователей.
type UserService struct {
	Repo     repository.UserRepository
	Identity Identity
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo repository.UserRepository, identity Identity) *UserService {
	return &UserService{Repo: repo, Identity: identity}
}

// Profile возвращает профиль пользователя; пустой userID означает текущего пользователя.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	current, err := s.Identity.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = current
	}
	return s.Repo.GetProfile(ctx, userID)
}
