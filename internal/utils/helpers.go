package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/senyabanana/bid-dashboard/internal/apiclient"
	"github.com/senyabanana/bid-dashboard/internal/identity"
	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/router/config"
)

// LoginPath - куда отправлять пользователя без действующего токена.
const LoginPath = "/login"

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendError(w, models.NewErrorResponse(statusCode, message))
}

// SendError отправляет готовую ошибку вместе с кодом причины и адресом перехода.
func SendError(w http.ResponseWriter, errorResponse *models.ErrorResponse) {
	SendJSON(w, errorResponse.StatusCode, errorResponse)
}

// SendJSON отправляет тело в формате JSON
func SendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// HandleServiceError переводит ошибку сервиса в HTTP-ответ.
// Отсутствие или отказ токена дают 401 с переходом на страницу входа.
func HandleServiceError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	var configErr *config.ConfigError
	var apiErr *apiclient.APIError

	switch {
	case errors.As(err, &errorResponse):
		logger.Info("request rejected", "status", errorResponse.StatusCode, "error", err)
		SendError(w, errorResponse)
	case errors.Is(err, identity.ErrUnauthenticated), apiclient.IsAuthError(err):
		logger.Info("authentication required", "error", err)
		resp := models.NewErrorResponse(http.StatusUnauthorized, "sign in required")
		resp.Redirect = LoginPath
		SendError(w, resp)
	case errors.As(err, &configErr):
		logger.Error("configuration error", "error", err)
		SendError(w, models.NewErrorResponse(http.StatusServiceUnavailable, err.Error()).WithCode("configuration"))
	case errors.Is(err, apiclient.ErrTimeout):
		logger.Warn("backend timed out", "error", err)
		SendError(w, models.NewErrorResponse(http.StatusGatewayTimeout, "backend timed out").WithCode("timeout"))
	case errors.Is(err, apiclient.ErrBackendUnreachable):
		logger.Warn("backend unreachable", "error", err)
		SendError(w, models.NewErrorResponse(http.StatusBadGateway, "backend unreachable").WithCode("unreachable"))
	case errors.As(err, &apiErr):
		logger.Warn("backend returned error", "status", apiErr.StatusCode, "path", apiErr.Path, "error", err)
		status := apiErr.StatusCode
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		SendErrorResponse(w, status, apiErr.Message)
	default:
		logger.Error(fallback, "error", err)
		SendErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [1:100]")
		}
	} else {
		limit = 50
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

// Paginate возвращает окно [offset, offset+limit) из списка.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ParseBool принимает пустую строку как false.
func ParseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean parameter %q", s)
	}
	return b, nil
}
