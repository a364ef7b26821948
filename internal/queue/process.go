package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/internal/storage"
	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/generator"
	"github.com/OFFIS-RIT/docvis/pkg/loader"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/render"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidMessage marks messages that can never succeed. They skip the
// retry queue.
var ErrInvalidMessage = errors.New("invalid queue message")

// QueueVisualizationMsg asks the worker to build and store one
// visualization. Content wins over Source when both are set.
type QueueVisualizationMsg struct {
	DocumentID string `json:"document_id"`
	Source     string `json:"source,omitempty"`
	Content    string `json:"content,omitempty"`
	Type       string `json:"type,omitempty"`
}

// VisualizationCreatedEvent is published on TopicVisualizationCreated.
type VisualizationCreatedEvent struct {
	ID         string                   `json:"id"`
	DocumentID string                   `json:"documentId"`
	Type       common.VisualizationType `json:"type"`
	Confidence float64                  `json:"confidence"`
	// SVGKey is empty when no bucket is configured.
	SVGKey    string    `json:"svgKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Processor handles visualization messages.
type Processor struct {
	Pipeline  *pipeline.Pipeline
	Publisher Publisher
	// S3 and Bucket enable SVG export when both are set.
	S3     *s3.Client
	Bucket string
	SVG    render.SVGAdapter
}

// IsPermanent reports whether err should bypass the retry queue.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidMessage) ||
		errors.Is(err, pipeline.ErrEmptyContent) ||
		errors.Is(err, pipeline.ErrNoRecommendation) ||
		errors.Is(err, generator.ErrUnsupportedType) ||
		errors.Is(err, loader.ErrNotFound) ||
		errors.Is(err, loader.ErrUnsupportedSource)
}

func (p *Processor) content(ctx context.Context, data *QueueVisualizationMsg) (string, error) {
	if data.Content != "" {
		return data.Content, nil
	}
	if data.Source == "" {
		return "", fmt.Errorf("%w: content or source is required", ErrInvalidMessage)
	}
	return p.Pipeline.Load(ctx, data.Source)
}

// ProcessVisualizationMessage loads, analyzes, generates and stores the
// visualization described by body, exports it as SVG and announces it.
func (p *Processor) ProcessVisualizationMessage(ctx context.Context, body []byte) error {
	data := new(QueueVisualizationMsg)
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if data.DocumentID == "" {
		return fmt.Errorf("%w: document_id is required", ErrInvalidMessage)
	}

	content, err := p.content(ctx, data)
	if err != nil {
		return err
	}

	out, err := p.Pipeline.Visualize(ctx, pipeline.VisualizeParams{
		DocumentID: data.DocumentID,
		Content:    content,
		Type:       common.VisualizationType(data.Type),
		Persist:    true,
	})
	if err != nil {
		return err
	}
	rec := out.Record

	event := VisualizationCreatedEvent{
		ID:         rec.ID,
		DocumentID: rec.DocumentID,
		Type:       rec.Type,
		Confidence: rec.Confidence,
		CreatedAt:  rec.CreatedAt,
	}

	if p.S3 != nil && p.Bucket != "" {
		var buf bytes.Buffer
		if err := p.SVG.Render(&buf, out.Graph); err != nil {
			return fmt.Errorf("failed to render svg: %w", err)
		}
		key := storage.SVGKey(rec.ID)
		err := util.RetryErrWithContext(ctx, 3, time.Second, func(ctx context.Context) error {
			return storage.PutFile(ctx, p.S3, p.Bucket, key, bytes.NewReader(buf.Bytes()))
		})
		if err != nil {
			return err
		}
		event.SVGKey = key
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := PublishTopic(ctx, p.Publisher, TopicVisualizationCreated, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Info("[Queue] Visualization created",
		"id", rec.ID,
		"document_id", rec.DocumentID,
		"type", rec.Type,
		"svg", event.SVGKey != "",
	)
	return nil
}
