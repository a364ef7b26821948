package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/store"
	"github.com/OFFIS-RIT/docvis/pkg/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(context.Background(), filepath.Join(t.TempDir(), "docvis.db"))
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docvis.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rec := &store.Record{DocumentID: "doc", Type: "MIND_MAP", Data: []byte(`{"type":"MIND_MAP","data":{}}`)}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, rec.ID); err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
}
