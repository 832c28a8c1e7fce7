package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrBackendUnreachable - бэкенд не принял соединение.
	ErrBackendUnreachable = errors.New("backend unreachable")
	// ErrTimeout - бэкенд не ответил за отведённое время.
	ErrTimeout = errors.New("backend timed out")
	// ErrNoCandidates - перебору маршрутов не передали ни одного варианта.
	ErrNoCandidates = errors.New("no candidate paths")
)

// APIError - ответ бэкенда с кодом вне диапазона 2xx.
type APIError struct {
	StatusCode int
	Message    string
	Path       string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuthError сообщает, что бэкенд отклонил токен.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// StatusCode возвращает код ответа бэкенда или 0, если ошибка не от бэкенда.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// newAPIError берёт человекочитаемое сообщение из поля "message" тела ответа.
func newAPIError(path string, status int, body []byte) *APIError {
	message := fmt.Sprintf("Request failed (%d)", status)

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if m := strings.TrimSpace(payload.Message); m != "" {
			message = m
		} else if m := strings.TrimSpace(payload.Error); m != "" {
			message = m
		}
	}
	return &APIError{StatusCode: status, Message: message, Path: path}
}
