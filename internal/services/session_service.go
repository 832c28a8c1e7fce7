package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/apiclient"
	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/repository"

	"github.com/go-playground/validator/v10"
)

// Причины неудачного входа.
const (
	ReasonUnreachable        = "unreachable"
	ReasonTimeout            = "timeout"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonError              = "error"
	ReasonInvalidInput       = "invalid_input"
)

// SessionService выполняет вход и выход.
type SessionService struct {
	Repo        repository.SessionRepository
	Identity    Identity
	validate    *validator.Validate
	authTimeout time.Duration
}

// NewSessionService создает новый экземпляр SessionService.
func NewSessionService(repo repository.SessionRepository, identity Identity, validate *validator.Validate, authTimeout time.Duration) *SessionService {
	return &SessionService{Repo: repo, Identity: identity, validate: validate, authTimeout: authTimeout}
}

// Login обменивает учётные данные на токен и сохраняет его в клиентском хранилище.
func (s *SessionService) Login(ctx context.Context, input models.LoginInput) (*models.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, validationMessage(err)).WithCode(ReasonInvalidInput)
	}

	token, userID, err := s.Repo.Login(ctx, input, s.authTimeout)
	if err != nil {
		return nil, loginError(err)
	}
	if token == "" {
		return nil, models.NewErrorResponse(http.StatusBadGateway, "login response did not contain a token").WithCode(ReasonError)
	}
	if err = s.Identity.Save(ctx, token, userID); err != nil {
		return nil, err
	}
	return s.Current(ctx)
}

// Logout удаляет токен и идентификатор пользователя.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.Identity.Clear(ctx)
}

// Current описывает текущую сессию. Отсутствие токена ошибкой не является.
func (s *SessionService) Current(ctx context.Context) (*models.Session, error) {
	userID, err := s.Identity.RequireUser(ctx)
	if err != nil {
		if isUnauthenticated(err) {
			return &models.Session{}, nil
		}
		return nil, err
	}
	return &models.Session{UserID: userID, Authenticated: true}, nil
}

func loginError(err error) *models.ErrorResponse {
	switch {
	case errors.Is(err, apiclient.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return models.NewErrorResponse(http.StatusGatewayTimeout, "backend timed out, try again later").WithCode(ReasonTimeout)
	case errors.Is(err, apiclient.ErrBackendUnreachable):
		return models.NewErrorResponse(http.StatusServiceUnavailable, "backend unreachable, check your connection").WithCode(ReasonUnreachable)
	}
	switch apiclient.StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return models.NewErrorResponse(http.StatusUnauthorized, err.Error()).WithCode(ReasonInvalidCredentials)
	}
	return models.NewErrorResponse(http.StatusBadGateway, err.Error()).WithCode(ReasonError)
}
