package textutil

import (
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

func TestSegmentDocument_Scenario(t *testing.T) {
	segs := SegmentDocument("# Tema\nPrimero se hace A.\nLuego se hace B.\nFinalmente C.")
	if len(segs) != 4 {
		t.Fatalf("len(segments) = %d, want 4", len(segs))
	}
	if segs[0].Type != common.SegmentHeading || segs[0].Level != 1 {
		t.Fatalf("first segment = %+v, want heading level 1", segs[0])
	}
	var paragraphs []string
	for _, s := range segs[1:] {
		if s.Type != common.SegmentParagraph {
			t.Fatalf("segment %q type = %s, want paragraph", s.Content, s.Type)
		}
		paragraphs = append(paragraphs, s.Content)
	}

	got := DetectPatterns(strings.Join(paragraphs, " "))
	want := common.PatternFlags{HasProcesses: true}
	if got != want {
		t.Fatalf("DetectPatterns = %+v, want %+v", got, want)
	}
}

func TestSegmentDocument_Classification(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  common.SegmentType
		level int
	}{
		{"HeadingLevel3", "### Subtema", common.SegmentHeading, 3},
		{"NumberedList", "1. Preparar los datos", common.SegmentList, 0},
		{"Bullet", "• elemento", common.SegmentList, 0},
		{"Dash", "- elemento", common.SegmentList, 0},
		{"Star", "* elemento", common.SegmentList, 0},
		{"Definition", "Célula: unidad básica de la vida", common.SegmentDefinition, 0},
		{"TwoColons", "Hora: 10:30", common.SegmentParagraph, 0},
		{"EmptyDefinitionSide", "Nota:", common.SegmentParagraph, 0},
		{"Paragraph", "Texto normal sin marcas", common.SegmentParagraph, 0},
		{"HeadingBeatsDefinition", "# Título: subtítulo", common.SegmentHeading, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			segs := SegmentDocument(tc.line)
			if len(segs) != 1 {
				t.Fatalf("SegmentDocument(%q) returned %d segments", tc.line, len(segs))
			}
			if segs[0].Type != tc.want || segs[0].Level != tc.level {
				t.Fatalf("SegmentDocument(%q) = %s/%d, want %s/%d", tc.line, segs[0].Type, segs[0].Level, tc.want, tc.level)
			}
		})
	}
}

func TestSegmentDocument_PreservesLines(t *testing.T) {
	in := "\n  uno  \n\n\tdos\r\ntres\n   \n"
	segs := SegmentDocument(in)

	var got []string
	ids := map[string]bool{}
	for _, s := range segs {
		got = append(got, s.Content)
		if ids[s.ID] {
			t.Fatalf("duplicate segment id %q", s.ID)
		}
		ids[s.ID] = true
	}
	want := []string{"uno", "dos", "tres"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("contents = %q, want %q", got, want)
	}
}

func TestSegmentDocument_Empty(t *testing.T) {
	if segs := SegmentDocument(""); len(segs) != 0 {
		t.Fatalf("expected no segments, got %d", len(segs))
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("La fotosíntesis produce energía, y la FOTOSÍNTESIS también usa luz para crecer.")
	want := []string{"fotosíntesis", "produce", "energía", "crecer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractKeywords = %q, want %q", got, want)
	}
}
