package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
	"github.com/kailas-cloud/recordbook/internal/metrics"
)

const backend = "openai"

const systemPrompt = `You route commands for a police records application.
Classify the user's command into one module and extract search entities.

Modules:
- "citizens": fields name, age, address, governmentId
- "criminals": fields name, crime, governmentId, dateArrested (YYYY-MM-DD)

Reply with JSON only, no prose:
{"module": "citizens" | "criminals" | "unknown", "entities": {<field>: <value>}, "message": "<short summary>"}
Only include entities the user actually mentioned.`

// Classifier turns free text into a command classification using an
// OpenAI-compatible chat completion API.
type Classifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the classifier provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewClassifier creates an OpenAI-compatible classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

// Classify sends text to the chat completion API and parses the JSON reply.
func (c *Classifier) Classify(ctx context.Context, text string) (command.Classification, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "error").Inc()
		return command.Classification{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "error").Inc()
		return command.Classification{}, fmt.Errorf("empty completion: %w", domain.ErrInterpreterUnavailable)
	}

	cls, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.InterpreterRequestsTotal.WithLabelValues(backend, "error").Inc()
		return command.Classification{}, fmt.Errorf("%w: %w", domain.ErrInterpreterUnavailable, err)
	}

	metrics.InterpreterRequestsTotal.WithLabelValues(backend, "success").Inc()
	metrics.InterpreterRequestDuration.WithLabelValues(backend).Observe(duration.Seconds())
	c.logger.Debug("Command classified",
		zap.String("model", c.model),
		zap.String("module", cls.Module),
		zap.Int("entities", len(cls.Entities)),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return cls, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseResponse decodes the model reply, tolerating markdown code fences.
func parseResponse(raw string) (command.Classification, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var cls command.Classification
	if err := json.Unmarshal([]byte(raw), &cls); err != nil {
		return command.Classification{}, fmt.Errorf("parse json: %w (response: %s)", err, raw)
	}
	if strings.EqualFold(cls.Module, "unknown") {
		cls.Module = ""
	}
	if cls.Entities == nil {
		cls.Entities = map[string]any{}
	}
	return cls, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrInterpreterUnavailable for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrInterpreterUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w: %w", wrap, err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
