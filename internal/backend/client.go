// Package backend is the HTTP client for the remote ticketing backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/config"
	apperrors "github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

const maxErrorBody = 256

// Client talks JSON to the backend. Calls are not aborted once issued; the
// context is only consulted before a request leaves.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a client for the configured backend.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.RequestTimeout,
		logger:  logger.Named("backend"),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	agent := fiber.Get(c.baseURL + path)
	if len(query) > 0 {
		agent.QueryString(query.Encode())
	}
	return c.do(ctx, agent, "GET "+path)
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	agent := fiber.Post(c.baseURL + path)
	if payload != nil {
		agent.JSON(payload)
	}
	return c.do(ctx, agent, "POST "+path)
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, call string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, err
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	started := time.Now()
	code, body, errs := agent.Bytes()
	c.logger.Debug("backend call",
		zap.String("call", call),
		zap.Int("status", code),
		zap.Duration("took", time.Since(started)))

	if len(errs) > 0 {
		return nil, apperrors.NewBackendUnavailable(call, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, apperrors.NewBackendRejected(call, code, truncate(body))
	}
	return body, nil
}

// decodeList decodes a JSON array. Any other document, including an empty
// body, decodes to an empty list.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeObject(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode object: %w", err)
	}
	return nil
}

func truncate(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	return string(body[:maxErrorBody]) + "..."
}
