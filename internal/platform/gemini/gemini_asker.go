package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthapp/hearth-api/internal/assistant"
	"github.com/hearthapp/hearth-api/internal/config"
	"google.golang.org/genai"
)

// defaultRequestTimeout bounds a single API call when the configuration
// doesn't provide a positive timeout.
const defaultRequestTimeout = 10 * time.Second

// GeminiAsker implements the assistant.Asker interface using Google's
// Gemini API. Each Ask is exactly one request: callers that can tolerate
// retries layer them on top, and callers that can't (the recurrence oracle)
// get the single-attempt behavior they need by default.
type GeminiAsker struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// timeout caps the duration of a single API call
	timeout time.Duration
}

// NewGeminiAsker creates a new GeminiAsker with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and request timeout
//
// Returns:
//   - A properly initialized GeminiAsker or an error if initialization fails
func NewGeminiAsker(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiAsker, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", assistant.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", assistant.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			assistant.ErrInvalidConfig, err)
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &GeminiAsker{
		logger:  logger.With(slog.String("component", "gemini_asker")),
		client:  client,
		model:   cfg.ModelName,
		timeout: timeout,
	}, nil
}

// Ensure GeminiAsker implements assistant.Asker interface
var _ assistant.Asker = (*GeminiAsker)(nil)

// Ask implements assistant.Asker.Ask
// It sends the prompt to the Gemini API and returns the reply text. The call
// is bounded by the configured request timeout and is never retried here.
// Replies are requested at temperature zero so repeated judgments over the
// same prompt stay stable.
func (g *GeminiAsker) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.DebugContext(ctx, "making Gemini API call",
		slog.String("model", g.model),
		slog.Int("prompt_length", len(prompt)))

	generateConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), generateConfig)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			g.logger.WarnContext(ctx, "Gemini API call timed out",
				slog.String("model", g.model),
				slog.Duration("timeout", g.timeout))
			return "", fmt.Errorf("%w: %v", assistant.ErrTransientFailure, err)
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.String("model", g.model),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", assistant.ErrAskFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", assistant.ErrEmptyReply)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		g.logger.WarnContext(ctx, "Gemini reply blocked by safety filters",
			slog.String("model", g.model))
		return "", fmt.Errorf("%w: reply blocked by safety filters", assistant.ErrContentBlocked)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: blank reply", assistant.ErrEmptyReply)
	}

	g.logger.DebugContext(ctx, "Gemini API call succeeded",
		slog.Int("reply_length", len(text)))
	return text, nil
}
