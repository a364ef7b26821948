package conceptmap

import (
	"math"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

const maxLabelLines = 2

type sizing struct {
	minSize     float64
	fontSize    float64
	padding     float64
	charsInLine int
}

var levelSizing = map[Level]sizing{
	LevelCentral:   {minSize: 100, fontSize: 16, padding: 20, charsInLine: 12},
	LevelPrimary:   {minSize: 80, fontSize: 14, padding: 16, charsInLine: 10},
	LevelSecondary: {minSize: 60, fontSize: 12, padding: 12, charsInLine: 8},
	LevelDetail:    {minSize: 45, fontSize: 10, padding: 8, charsInLine: 8},
}

// Base radius per ring for model generated maps; nodes are jittered by up
// to half of aiJitter either way.
var aiRadii = map[Level]float64{
	LevelPrimary:   180,
	LevelSecondary: 320,
	LevelDetail:    460,
}

const aiJitter = 40

// splitText wraps text greedily into at most maxLines lines of maxChars.
// Words split on single spaces; a first word that does not fit is cut and
// ends the wrap. Lines after the first may exceed maxChars when a single
// word is longer.
func splitText(text string, maxChars, maxLines int) []string {
	if textutil.RuneLen(text) <= maxChars {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range strings.Split(text, " ") {
		if len(lines) >= maxLines {
			break
		}
		if textutil.RuneLen(current+" "+word) <= maxChars {
			if current != "" {
				current += " " + word
			} else {
				current = word
			}
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		r := []rune(word)
		lines = append(lines, string(r[:max(maxChars-3, 0)])+"...")
		break
	}
	if current != "" && len(lines) < maxLines {
		lines = append(lines, current)
	}
	return lines
}

// nodeSize is the diameter a label of the given level needs once wrapped,
// never below the level minimum.
func nodeSize(label string, level Level) float64 {
	cfg := levelSizing[level]
	charWidth := cfg.fontSize * 0.6
	lineHeight := cfg.fontSize * 1.2

	lines := splitText(label, cfg.charsInLine, maxLabelLines)
	longest := 0
	for _, l := range lines {
		longest = max(longest, textutil.RuneLen(l))
	}
	textWidth := float64(longest) * charWidth
	textHeight := float64(len(lines)) * lineHeight

	return max(max(textWidth, textHeight)+cfg.padding, cfg.minSize)
}

// ringPosition places the index-th of count nodes on a ring. The angle step
// assumes at least three nodes so small rings do not collapse onto a line.
func ringPosition(index, count int, radius float64) (float64, float64) {
	angle := float64(index) * 2 * math.Pi / float64(max(count, 3))
	return centerX + radius*math.Cos(angle), centerY + radius*math.Sin(angle)
}

// jitter returns a value in [-spread/2, spread/2).
func jitter(float func() float64, spread float64) float64 {
	return (float() - 0.5) * spread
}
