package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/OFFIS-RIT/docvis/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// Ollama allocates 4096 context tokens unless told otherwise.
const (
	defaultContext  = 4096
	responseReserve = 200
)

// Client implements ai.CompletionClient against a local or hosted
// Ollama server.
type Client struct {
	chatModel string

	reqLock *semaphore.Weighted
	metrics ai.MetricsRecorder

	chat *api.Client
}

// Params contains configuration options for creating a new Client.
type Params struct {
	ChatModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// New connects to the Ollama server at BaseURL, or the
// environment default when it is empty.
func New(params Params) (*Client, error) {
	var u *url.URL
	if params.BaseURL != "" {
		parsed, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
		u = parsed
	}

	rt := http.DefaultTransport
	if params.ApiKey != "" {
		rt = &headerTransport{
			headers: map[string]string{"Authorization": "Bearer " + params.ApiKey},
			rt:      rt,
		}
	}

	var cli *api.Client
	if u != nil {
		cli = api.NewClient(u, &http.Client{Transport: rt})
	} else {
		env, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
		cli = env
	}

	return &Client{
		chatModel: params.ChatModel,
		reqLock:   semaphore.NewWeighted(max(params.MaxConcurrentRequests, 1)),
		chat:      cli,
	}, nil
}

// GenerateCompletion sends a single-turn prompt and returns assistant text.
// The context window grows with the prompt when it would not fit the
// server default.
func (c *Client) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.3,
	}, opts...)

	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.Thinking != "" {
		req.Think = &api.ThinkValue{Value: options.Thinking}
	}
	if options.Schema != nil {
		format, err := json.Marshal(options.Schema)
		if err != nil {
			return "", fmt.Errorf("encode response schema: %w", err)
		}
		req.Format = format
	}

	tokens, err := ai.CountTokens(prompt)
	if err != nil {
		return "", err
	}
	if needed := tokens + responseReserve; needed > defaultContext {
		req.Options["num_ctx"] = needed
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.chat.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", err
	}

	c.metrics.Add(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	return final.Message.Content, nil
}

func (c *Client) ResetMetrics()               { c.metrics.Reset() }
func (c *Client) GetMetrics() ai.ModelMetrics { return c.metrics.Get() }
