// Package interpreter is the HTTP client for the command interpreter service.
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
	"github.com/kailas-cloud/recordbook/internal/metrics"
)

const (
	backend = "remote"

	// CommandPath is the interpreter endpoint that classifies a command.
	CommandPath = "/api/command"
	// PingPath is the interpreter liveness endpoint.
	PingPath = "/ping"

	maxResponseBytes = 1 << 20
)

var errMissingModule = errors.New("missing module")

// Config holds interpreter client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls a remote interpreter over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an interpreter client. A zero timeout leaves deadlines to the caller's context.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Module   *string        `json:"module"`
	Entities map[string]any `json:"entities"`
	Message  string         `json:"message"`
}

// Classify posts the command text and decodes the classification.
// Network failures, non-2xx statuses, non-JSON bodies and a missing module
// all wrap domain.ErrInterpreterUnavailable.
func (c *Client) Classify(ctx context.Context, text string) (command.Classification, error) {
	body, err := json.Marshal(commandRequest{Command: text})
	if err != nil {
		return command.Classification{}, fmt.Errorf("marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CommandPath, bytes.NewReader(body))
	if err != nil {
		return command.Classification{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	metrics.InterpreterRequestDuration.WithLabelValues(backend).Observe(duration.Seconds())

	if err != nil {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "error").Inc()
		return command.Classification{}, fmt.Errorf("post command: %w: %w", domain.ErrInterpreterUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "error").Inc()
		return command.Classification{}, fmt.Errorf("read response: %w: %w", domain.ErrInterpreterUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "http_"+strconv.Itoa(resp.StatusCode)).Inc()
		return command.Classification{}, fmt.Errorf("interpreter status %d: %w", resp.StatusCode, domain.ErrInterpreterUnavailable)
	}

	var decoded commandResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "invalid").Inc()
		return command.Classification{}, fmt.Errorf("decode response: %w: %w", domain.ErrInterpreterUnavailable, err)
	}
	if decoded.Module == nil {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "invalid").Inc()
		return command.Classification{}, fmt.Errorf("%w: %w", domain.ErrInterpreterUnavailable, errMissingModule)
	}

	metrics.InterpreterRequestsTotal.WithLabelValues(backend, "success").Inc()
	entities := decoded.Entities
	if entities == nil {
		entities = map[string]any{}
	}
	c.logger.Debug("Interpreter responded",
		zap.String("module", *decoded.Module),
		zap.Int("entities", len(entities)),
		zap.Duration("duration", duration),
	)
	return command.Classification{
		Module:   *decoded.Module,
		Entities: entities,
		Message:  decoded.Message,
	}, nil
}

// HealthCheck calls the interpreter's ping endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PingPath, http.NoBody)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping interpreter: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping interpreter: status %d", resp.StatusCode)
	}
	return nil
}
