// Package storetest runs the behaviour every store.Store must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/store"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

func flowchart(documentID string) *visualization.FlowchartGraph {
	return &visualization.FlowchartGraph{
		Nodes: []visualization.FlowchartNode{
			{ID: "start", Label: "Inicio", Type: visualization.FlowStart},
			{ID: "end", Label: "Fin", Type: visualization.FlowEnd},
		},
		Edges: []visualization.FlowchartEdge{{ID: "e", Source: "start", Target: "end"}},
		Metadata: visualization.Metadata{
			Title:      "Diagrama de Flujo - " + documentID,
			DocumentID: documentID,
			Complexity: 1.3,
			Confidence: 0.8,
		},
	}
}

// Run exercises s. open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("save and get", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		rec, err := store.NewRecord(flowchart("doc-1"))
		if err != nil {
			t.Fatalf("NewRecord() error = %v", err)
		}
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.DocumentID != "doc-1" || got.Type != common.Flowchart {
			t.Errorf("Get() = %+v", got)
		}
		if got.Confidence != 0.8 || got.Complexity != 1.3 {
			t.Errorf("scores = %v/%v", got.Confidence, got.Complexity)
		}
		if got.CreatedAt.Sub(rec.CreatedAt).Abs() > time.Millisecond {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
		}

		g, err := got.Graph()
		if err != nil {
			t.Fatalf("Graph() error = %v", err)
		}
		fc, ok := g.(*visualization.FlowchartGraph)
		if !ok || len(fc.Nodes) != 2 || fc.Edges[0].Target != "end" {
			t.Errorf("Graph() = %#v", g)
		}
	})

	t.Run("missing", func(t *testing.T) {
		s := open(t)
		if _, err := s.Get(context.Background(), "vis_missing"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid record", func(t *testing.T) {
		s := open(t)
		err := s.Save(context.Background(), &store.Record{DocumentID: "doc", Type: "PIE", Data: []byte("{}")})
		if err == nil {
			t.Fatalf("Save() accepted an unknown type")
		}
	})

	t.Run("list by document", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		base := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

		for i, doc := range []string{"doc-a", "doc-b", "doc-a"} {
			rec, err := store.NewRecord(flowchart(doc))
			if err != nil {
				t.Fatalf("NewRecord() error = %v", err)
			}
			rec.ID = []string{"vis_1", "vis_2", "vis_3"}[i]
			rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
		}

		recs, err := s.ListByDocument(ctx, "doc-a")
		if err != nil {
			t.Fatalf("ListByDocument() error = %v", err)
		}
		if len(recs) != 2 || recs[0].ID != "vis_3" || recs[1].ID != "vis_1" {
			t.Fatalf("ListByDocument() = %+v", recs)
		}

		none, err := s.ListByDocument(ctx, "doc-z")
		if err != nil || len(none) != 0 {
			t.Fatalf("ListByDocument(unknown) = %v, %v", none, err)
		}
	})

	t.Run("save overwrites", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		rec, _ := store.NewRecord(flowchart("doc-1"))
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		rec.Confidence = 0.5
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("second Save() error = %v", err)
		}
		got, err := s.Get(ctx, rec.ID)
		if err != nil || got.Confidence != 0.5 {
			t.Fatalf("Get() = %+v, %v", got, err)
		}
		recs, _ := s.ListByDocument(ctx, "doc-1")
		if len(recs) != 1 {
			t.Fatalf("got %d records after overwrite, want 1", len(recs))
		}
	})
}
