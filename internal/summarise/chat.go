// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarise

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/pdiddy/genesearch/pkg/types"
)

// DefaultChatModel is used when ChatConfig.Model is empty.
const DefaultChatModel = "gpt-3.5-turbo"

// ChatCompleter performs one prompt/response round trip. Tests supply a
// scripted implementation.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIChat is a ChatCompleter backed by the OpenAI chat completions API.
// Requests use temperature 0 and are never retried.
type OpenAIChat struct {
	client openai.Client
	model  shared.ChatModel
}

// NewOpenAIChat builds a client from cfg. The API key is required.
func NewOpenAIChat(cfg types.ChatConfig) (*OpenAIChat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing chat API key (set OPENAI_API_KEY)")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}

	return &OpenAIChat{
		client: openai.NewClient(opts...),
		model:  shared.ChatModel(model),
	}, nil
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (c *OpenAIChat) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
