package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/services"
	"github.com/senyabanana/bid-dashboard/internal/utils"
)

// SessionHandler - обработчик входа, выхода и профиля.
type SessionHandler struct {
	Sessions *services.SessionService
	Users    *services.UserService
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewSessionHandler создает новый экземпляр SessionHandler.
func NewSessionHandler(sessions *services.SessionService, users *services.UserService, logger *slog.Logger, timeout time.Duration) *SessionHandler {
	return &SessionHandler{
		Sessions: sessions,
		Users:    users,
		Logger:   logger,
		Timeout:  timeout,
	}
}

// Login обрабатывает вход по email и паролю.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	session, err := h.Sessions.Login(ctx, input)
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to sign in")
		return
	}
	h.Logger.Info("signed in", "user_id", session.UserID)
	utils.SendJSON(w, http.StatusOK, session)
}

// Logout обрабатывает выход.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Sessions.Logout(ctx); err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession обрабатывает запрос текущей сессии.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	session, err := h.Sessions.Current(ctx)
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to read session")
		return
	}
	utils.SendJSON(w, http.StatusOK, session)
}

// GetProfile обрабатывает запрос профиля; userId в query выбирает чужой профиль.
func (h *SessionHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	user, err := h.Users.Profile(ctx, r.URL.Query().Get("userId"))
	if err != nil {
		utils.HandleServiceError(w, h.Logger, err, "failed to load profile")
		return
	}
	utils.SendJSON(w, http.StatusOK, user)
}
