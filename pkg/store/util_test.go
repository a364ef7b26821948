package store

import (
	"testing"
	"time"
)

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "Diagrama de Flujo - doc",
			want:  "Diagrama de Flujo - doc",
		},
		{
			name:  "contains null byte",
			input: "ener\x00gía",
			want:  "energía",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("SanitizePostgresText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortNewestFirst(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	recs := []Record{
		{ID: "a", CreatedAt: t0},
		{ID: "c", CreatedAt: t0.Add(time.Hour)},
		{ID: "b", CreatedAt: t0},
	}
	SortNewestFirst(recs)

	want := []string{"c", "b", "a"}
	for i, id := range want {
		if recs[i].ID != id {
			t.Fatalf("order = %v, want %v", []string{recs[0].ID, recs[1].ID, recs[2].ID}, want)
		}
	}
}
