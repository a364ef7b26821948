package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"golang.org/x/sync/semaphore"
)

// Client talks to an OpenAI compatible chat completion API.
//
// A Client should be created using New.
type Client struct {
	chatModel string
	chatURL   string

	reqLock *semaphore.Weighted
	metrics ai.MetricsRecorder

	ChatClient *openai.Client
}

// Params configures a Client.
//
// ChatURL may be empty to use the public OpenAI endpoint.
// MaxConcurrentRequests <= 0 means one request at a time.
type Params struct {
	ChatModel string
	ChatURL   string
	ChatKey   string

	MaxConcurrentRequests int64
}

// New creates a client from params. It fails when no API
// key is configured.
//
//	client, err := openai.New(openai.Params{
//		ChatModel: "gpt-4o-mini",
//		ChatKey:   os.Getenv("AI_CHAT_KEY"),
//	})
func New(params Params) (*Client, error) {
	if params.ChatKey == "" {
		return nil, errors.New("openai: missing API key")
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.ChatKey),
	}
	if params.ChatURL != "" {
		options = append(options, option.WithBaseURL(params.ChatURL))
	}
	client := openai.NewClient(options...)

	return &Client{
		chatModel:  params.ChatModel,
		chatURL:    params.ChatURL,
		reqLock:    semaphore.NewWeighted(max(params.MaxConcurrentRequests, 1)),
		ChatClient: &client,
	}, nil
}

// GenerateCompletion sends a single-turn prompt to the chat model and
// returns the generated completion as plain text.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.3,
	}, opts...)

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}
	if options.Thinking != "" {
		// Reasoning models on the public endpoint only accept temperature 1.
		if c.chatURL == "" {
			body.Temperature = openai.Float(1.0)
		}
		body.ReasoningEffort = shared.ReasoningEffort(options.Thinking)
	}
	if options.Schema != nil {
		body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   options.SchemaName,
					Schema: options.Schema,
				},
			},
		}
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}

	c.metrics.Add(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   time.Since(start).Milliseconds(),
	})

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}
	return response.Choices[0].Message.Content, nil
}

// ResetMetrics clears the accumulated usage.
func (c *Client) ResetMetrics() { c.metrics.Reset() }

// GetMetrics returns the usage accumulated since the last reset.
func (c *Client) GetMetrics() ai.ModelMetrics { return c.metrics.Get() }
