// Package ai defines the language model client used to build concept maps
// and the helpers shared by its backends.
package ai

import (
	"context"

	"github.com/invopop/jsonschema"
)

// CompletionClient turns a prompt into model text. Implementations must be
// safe for concurrent use and keep usage counters between resets.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}

// GenerateOptions is the per-request configuration a backend receives after
// its defaults and the caller's options are applied.
type GenerateOptions struct {
	Model         string
	SystemPrompts []string
	Temperature   float64
	// Thinking is a reasoning effort ("low", "medium", "high"). Empty
	// leaves reasoning off.
	Thinking string

	// Schema, when set, asks the backend to constrain its output to it.
	Schema     *jsonschema.Schema
	SchemaName string
}

// ModelMetrics is the usage a client accumulated since its last reset.
type ModelMetrics struct {
	InputTokens    int     `json:"inputTokens"`
	OutputTokens   int     `json:"outputTokens"`
	TotalTokens    int     `json:"totalTokens"`
	DurationMs     int64   `json:"durationMs"`
	TokenPerSecond float32 `json:"tokensPerSecond"`
	Requests       int     `json:"requests"`
}

type GenerateOption func(*GenerateOptions)

func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) { o.Model = model }
}

func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) { o.SystemPrompts = prompts }
}

func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) { o.Temperature = temp }
}

func WithThinking(effort string) GenerateOption {
	return func(o *GenerateOptions) { o.Thinking = effort }
}

// WithJSONSchema requests structured output. name labels the schema for
// backends that require one.
func WithJSONSchema(name string, schema *jsonschema.Schema) GenerateOption {
	return func(o *GenerateOptions) {
		o.SchemaName = name
		o.Schema = schema
	}
}

// ApplyOptions starts from defaults and applies opts in order.
func ApplyOptions(defaults GenerateOptions, opts ...GenerateOption) GenerateOptions {
	for _, apply := range opts {
		apply(&defaults)
	}
	return defaults
}
