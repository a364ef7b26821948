package conceptmap

import (
	"math"
	"reflect"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     []string
	}{
		{"fits", "Agua", 12, []string{"Agua"}},
		{"two words", "Energía renovable", 12, []string{"Energía", "renovable"}},
		{"long first word is cut", "Electroencefalografía", 12, []string{"Electroen..."}},
		{"long second word kept whole", "Paneles fotovoltaicos", 8, []string{"Paneles", "fotovoltaicos"}},
		{"stops after two lines", "uno dos tres cuatro cinco seis", 8, []string{"uno dos", "tres"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitText(tt.text, tt.maxChars, maxLabelLines)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("splitText(%q, %d) = %q, want %q", tt.text, tt.maxChars, got, tt.want)
			}
		})
	}
}

func TestNodeSize(t *testing.T) {
	tests := []struct {
		label string
		level Level
		want  float64
	}{
		{"Energía renovable", LevelCentral, 106.4},
		{"Electroencefalografía", LevelCentral, 135.2},
		{"Solar", LevelPrimary, 80},
		{"Paneles fotovoltaicos", LevelSecondary, 105.6},
		{"Sol", LevelDetail, 45},
	}
	for _, tt := range tests {
		if got := nodeSize(tt.label, tt.level); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("nodeSize(%q, %s) = %v, want %v", tt.label, tt.level, got, tt.want)
		}
	}
}

func TestRingPosition(t *testing.T) {
	x, y := ringPosition(0, 1, 100)
	if x != 700 || y != 450 {
		t.Errorf("ringPosition(0, 1) = (%v, %v), want (700, 450)", x, y)
	}

	// Fewer than three nodes still step by a third of a turn.
	x, y = ringPosition(1, 2, 100)
	if math.Abs(x-550) > 1e-9 || math.Abs(y-(450+100*math.Sin(2*math.Pi/3))) > 1e-9 {
		t.Errorf("ringPosition(1, 2) = (%v, %v)", x, y)
	}
}
