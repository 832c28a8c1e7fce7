package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// HeaderSource отдаёт заголовки авторизации для исходящих запросов.
type HeaderSource interface {
	AuthHeaders(ctx context.Context) (map[string]string, error)
}

// Client - адаптер HTTP API площадки.
type Client struct {
	baseURL    string
	auth       HeaderSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient создает клиент бэкенда. baseURL должен быть уже разрешён конфигурацией.
func NewClient(baseURL string, auth HeaderSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// WithRateLimit ограничивает частоту исходящих запросов. rps <= 0 снимает ограничение.
func (c *Client) WithRateLimit(rps float64) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithHTTPClient подменяет транспорт.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// BaseURL возвращает адрес бэкенда.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get выполняет авторизованный GET и возвращает декодированный JSON.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeStrict(path, body)
}

// GetWithFallback перебирает варианты маршрута и возвращает первый успешный ответ.
func (c *Client) GetWithFallback(ctx context.Context, paths []string) (any, error) {
	return FirstSuccess(ctx, paths, c.Get)
}

// Put выполняет авторизованный PUT. Тело ответа, не являющееся JSON, игнорируется.
func (c *Client) Put(ctx context.Context, path string, payload any) (any, error) {
	body, err := c.do(ctx, http.MethodPut, path, payload)
	if err != nil {
		return nil, err
	}
	return decodeLenient(body), nil
}

// Post выполняет авторизованный POST. Тело ответа, не являющееся JSON, игнорируется.
func (c *Client) Post(ctx context.Context, path string, payload any) (any, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return decodeLenient(body), nil
}

// PostWithTimeout - POST с явным дедлайном, для вызовов авторизации.
// Истечение дедлайна возвращается как ErrTimeout.
func (c *Client) PostWithTimeout(ctx context.Context, path string, payload any, timeout time.Duration) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Post(ctx, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		headers, err := c.auth.AuthHeaders(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve auth headers: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	route := routeLabel(path)
	timer := time.Now()
	resp, err := c.httpClient.Do(req)
	backendLatency.WithLabelValues(method, route).Observe(time.Since(timer).Seconds())
	if err != nil {
		backendReqTotal.WithLabelValues(method, route, "error").Inc()
		c.logger.Warn("backend request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()
	backendReqTotal.WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", classifyTransportError(ctx, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(path, resp.StatusCode, body)
		c.logger.Debug("backend returned error", "request_id", requestID, "method", method, "path", path,
			"status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}
	c.logger.Debug("backend request completed", "request_id", requestID, "method", method, "path", path, "status", resp.StatusCode)
	return body, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
}

func decodeStrict(path string, body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response from %s: %w", path, err)
	}
	return out, nil
}

func decodeLenient(body []byte) any {
	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil
	}
	return out
}
