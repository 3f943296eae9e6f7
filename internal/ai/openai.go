package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// Config configures OpenAIClient.
type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint. Empty uses the OpenAI default.
	BaseURL string
	Model   string
	// Timeout bounds each completion. Zero disables the bound.
	Timeout time.Duration
}

// OpenAIClient implements Client with the OpenAI chat completions API.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpenAIClient creates a client that never retries.
func NewOpenAIClient(cfg Config, logger *slog.Logger) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Complete sends req as a chat completion and returns the text of the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2) //nolint:mnd // system and user.
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))
	params := openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
		Messages: messages,
		Model:    openai.ChatModel(c.model),
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{ //nolint:exhaustruct // union.
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{}, //nolint:exhaustruct // constant type.
		}
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		genErr := classify(err)
		c.logger.LogAttrs(ctx, slog.LevelWarn, "chat completion failed",
			slog.String("model", c.model), slog.String("kind", string(genErr.Kind)),
			slog.Int("status_code", genErr.StatusCode), slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return "", genErr
	}

	var content string
	if len(completion.Choices) > 0 {
		content = strings.TrimSpace(completion.Choices[0].Message.Content)
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "chat completion received",
		slog.String("model", c.model), slog.Duration("duration", time.Since(start)),
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens),
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens),
		slog.Bool("has_content", content != ""))
	if content == "" {
		return "", &Error{Kind: KindEmpty, StatusCode: 0, Err: nil}
	}
	return content, nil
}

// Disabled is the Client used when no API key is configured. Every completion fails.
type Disabled struct{}

func (Disabled) Complete(context.Context, Request) (string, error) {
	return "", &Error{Kind: KindDisabled, StatusCode: 0, Err: nil}
}
