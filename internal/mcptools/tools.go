// Package mcptools exposes the document pipeline as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools holds the pipeline used by the tool handlers.
type Tools struct {
	Pipeline *pipeline.Pipeline
}

// New creates an MCP server with every document tool registered.
func New(p *pipeline.Pipeline, version string) *mcp.Server {
	t := &Tools{Pipeline: p}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "docvis",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Segment a document and extract its entities, relationships, patterns and recommended visualizations",
	}, t.AnalyzeDocument)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "document_stats",
		Description: "Report segment count, reading time, complexity, patterns, topics and readability of a document",
	}, t.DocumentStats)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_visualization",
		Description: "Generate a FLOWCHART, CONCEPT_MAP, HIERARCHICAL_SCHEME or MIND_MAP graph from a document",
	}, t.GenerateVisualization)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generate_concept_map",
		Description: "Build a leveled concept map with the language model, falling back to the keyword map",
	}, t.GenerateConceptMap)

	return srv
}

// --- Input types ---

type DocumentInput struct {
	Content string `json:"content,omitempty" jsonschema:"Document text. Takes precedence over source"`
	Source  string `json:"source,omitempty" jsonschema:"File path, http(s) URL or s3:// key to load the document from"`
}

type AnalyzeInput struct {
	Content    string `json:"content,omitempty" jsonschema:"Document text. Takes precedence over source"`
	Source     string `json:"source,omitempty" jsonschema:"File path, http(s) URL or s3:// key to load the document from"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"Identifier stored with the analysis, generated when empty"`
}

type VisualizationInput struct {
	Content    string `json:"content,omitempty" jsonschema:"Document text. Takes precedence over source"`
	Source     string `json:"source,omitempty" jsonschema:"File path, http(s) URL or s3:// key to load the document from"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"Identifier stored with the graph, generated when empty"`
	Type       string `json:"type,omitempty" jsonschema:"FLOWCHART, CONCEPT_MAP, HIERARCHICAL_SCHEME or MIND_MAP. Defaults to the first recommendation"`
	Persist    bool   `json:"persist,omitempty" jsonschema:"Store the generated graph"`
}

type ConceptMapInput struct {
	Content string `json:"content,omitempty" jsonschema:"Document text. Takes precedence over source"`
	Source  string `json:"source,omitempty" jsonschema:"File path, http(s) URL or s3:// key to load the document from"`
	UseAI   *bool  `json:"use_ai,omitempty" jsonschema:"Ask the language model first. Defaults to true"`
}

// --- Handlers ---

var errNoDocument = errors.New("content or source is required")

func (t *Tools) content(ctx context.Context, content, source string) (string, error) {
	if content != "" {
		return content, nil
	}
	if source == "" {
		return "", errNoDocument
	}
	return t.Pipeline.Load(ctx, source)
}

func (t *Tools) AnalyzeDocument(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	content, err := t.content(ctx, input.Content, input.Source)
	if err != nil {
		return toolError("Failed to load document: %v", err), nil, nil
	}

	res, err := t.Pipeline.Analyze(ctx, input.DocumentID, content)
	if err != nil {
		return toolError("Failed to analyze document: %v", err), nil, nil
	}

	return toolJSON(res)
}

func (t *Tools) DocumentStats(ctx context.Context, _ *mcp.CallToolRequest, input DocumentInput) (*mcp.CallToolResult, any, error) {
	content, err := t.content(ctx, input.Content, input.Source)
	if err != nil {
		return toolError("Failed to load document: %v", err), nil, nil
	}

	stats, err := t.Pipeline.Stats(ctx, content)
	if err != nil {
		return toolError("Failed to compute stats: %v", err), nil, nil
	}

	return toolJSON(stats)
}

type visualizationResult struct {
	ID          string                     `json:"id,omitempty"`
	DocumentID  string                     `json:"documentId"`
	Type        common.VisualizationType   `json:"type"`
	Data        visualization.Graph        `json:"data"`
	Recommended []common.VisualizationType `json:"recommended"`
	Confidence  float64                    `json:"confidence"`
}

func (t *Tools) GenerateVisualization(ctx context.Context, _ *mcp.CallToolRequest, input VisualizationInput) (*mcp.CallToolResult, any, error) {
	content, err := t.content(ctx, input.Content, input.Source)
	if err != nil {
		return toolError("Failed to load document: %v", err), nil, nil
	}

	out, err := t.Pipeline.Visualize(ctx, pipeline.VisualizeParams{
		DocumentID: input.DocumentID,
		Content:    content,
		Type:       common.VisualizationType(input.Type),
		Persist:    input.Persist,
	})
	if err != nil {
		return toolError("Failed to generate visualization: %v", err), nil, nil
	}

	res := visualizationResult{
		DocumentID:  out.Analysis.DocumentID,
		Type:        out.Graph.VisualizationType(),
		Data:        out.Graph,
		Recommended: out.Analysis.RecommendedVisualizations,
		Confidence:  out.Analysis.Confidence,
	}
	if out.Record != nil {
		res.ID = out.Record.ID
	}
	return toolJSON(res)
}

func (t *Tools) GenerateConceptMap(ctx context.Context, _ *mcp.CallToolRequest, input ConceptMapInput) (*mcp.CallToolResult, any, error) {
	content, err := t.content(ctx, input.Content, input.Source)
	if err != nil {
		return toolError("Failed to load document: %v", err), nil, nil
	}

	useAI := input.UseAI == nil || *input.UseAI
	data, fallback, err := t.Pipeline.ConceptMap(ctx, content, useAI)
	if err != nil {
		return toolError("Failed to generate concept map: %v", err), nil, nil
	}

	return toolJSON(struct {
		Fallback bool `json:"fallback"`
		Data     any  `json:"data"`
	}{fallback, data})
}

// --- Helpers ---

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
