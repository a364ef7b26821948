package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/ai"
)

const completionResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1760000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "{\"nodes\": [], \"edges\": []}"},
    "finish_reason": "stop"
  }],
  "usage": {"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42}
}`

func TestGenerateCompletion(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat *struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name string `json:"name"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse))
	}))
	defer srv.Close()

	client, err := New(Params{
		ChatModel: "gpt-4o-mini",
		ChatURL:   srv.URL + "/v1/",
		ChatKey:   "secret",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := client.GenerateCompletion(context.Background(), "Analiza el texto", ai.WithSystemPrompts("Responde en JSON"))
	if err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}
	if out != `{"nodes": [], "edges": []}` {
		t.Errorf("GenerateCompletion() = %q", out)
	}

	if got.Model != "gpt-4o-mini" || len(got.Messages) != 2 {
		t.Fatalf("request = %+v", got)
	}
	if got.Messages[0].Role != "system" || got.Messages[1].Content != "Analiza el texto" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.ResponseFormat != nil {
		t.Errorf("response_format sent without a schema: %+v", got.ResponseFormat)
	}

	m := client.GetMetrics()
	if m.TotalTokens != 42 || m.InputTokens != 30 || m.Requests != 1 {
		t.Errorf("GetMetrics() = %+v", m)
	}
	client.ResetMetrics()
	if client.GetMetrics().Requests != 0 {
		t.Errorf("ResetMetrics() did not clear requests")
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(Params{ChatModel: "gpt-4o-mini"}); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestGenerateCompletion_JSONSchema(t *testing.T) {
	var got struct {
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string         `json:"name"`
				Schema map[string]any `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse))
	}))
	defer srv.Close()

	client, err := New(Params{ChatModel: "gpt-4o-mini", ChatURL: srv.URL + "/v1/", ChatKey: "secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	type answer struct {
		Nodes []string `json:"nodes"`
	}
	_, err = client.GenerateCompletion(context.Background(), "Analiza el texto",
		ai.WithJSONSchema("concept_map", ai.GenerateSchema(&answer{})))
	if err != nil {
		t.Fatalf("GenerateCompletion() error = %v", err)
	}

	if got.ResponseFormat.Type != "json_schema" || got.ResponseFormat.JSONSchema.Name != "concept_map" {
		t.Fatalf("response_format = %+v", got.ResponseFormat)
	}
	if _, ok := got.ResponseFormat.JSONSchema.Schema["properties"]; !ok {
		t.Errorf("schema has no properties: %v", got.ResponseFormat.JSONSchema.Schema)
	}
}
