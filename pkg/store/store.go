// Package store persists generated visualizations.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("visualization not found")

// Record is a stored visualization. Data holds the graph envelope written
// by visualization.Marshal.
type Record struct {
	ID         string                   `json:"id"`
	DocumentID string                   `json:"documentId"`
	Type       common.VisualizationType `json:"type"`
	Data       json.RawMessage          `json:"data"`
	Confidence float64                  `json:"confidence"`
	Complexity float64                  `json:"complexity"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// Store saves and loads visualization records. Implementations are safe for
// concurrent use.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// ListByDocument returns the records of a document, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]Record, error)
	Close() error
}

// NewRecord wraps g into an unsaved record.
func NewRecord(g visualization.Graph) (*Record, error) {
	data, err := visualization.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("error encoding visualization: %w", err)
	}
	meta := g.Meta()
	return &Record{
		ID:         textutil.GenerateID("vis"),
		DocumentID: meta.DocumentID,
		Type:       g.VisualizationType(),
		Data:       data,
		Confidence: meta.Confidence,
		Complexity: meta.Complexity,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Graph decodes the stored graph.
func (r *Record) Graph() (visualization.Graph, error) {
	return visualization.Unmarshal(r.Data)
}

// Prepare fills in a missing id and timestamp and checks the required
// fields. Stores call it before writing.
func Prepare(rec *Record) error {
	if rec == nil {
		return errors.New("nil record")
	}
	if rec.DocumentID == "" {
		return errors.New("record has no document id")
	}
	if !rec.Type.Valid() {
		return fmt.Errorf("record has invalid type %q", rec.Type)
	}
	if len(rec.Data) == 0 {
		return errors.New("record has no data")
	}
	if rec.ID == "" {
		rec.ID = textutil.GenerateID("vis")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return nil
}
