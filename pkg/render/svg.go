package render

import (
	"fmt"
	"io"
	"math"
	"regexp"

	svg "github.com/ajstarks/svgo"

	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

const (
	svgPadding       = 40
	svgEmptyWidth    = 200
	svgEmptyHeight   = 100
	svgLabelFontSize = 11
	svgArrowID       = "arrow"
	svgEdgeColor     = "#6b7280"
)

var reSafeColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([0-9., ]+\))$`)

// safeColor keeps c only when it is a plain hex or rgb color, so model
// supplied colors cannot inject markup.
func safeColor(c, fallback string) string {
	if reSafeColor.MatchString(c) {
		return c
	}
	return fallback
}

// SVGAdapter renders graphs as standalone SVG documents using the same
// visual encoding as the vis-network payload.
type SVGAdapter struct {
	Vis VisAdapter
}

// Render writes g to w as SVG.
func (a SVGAdapter) Render(w io.Writer, g visualization.Graph) error {
	network, err := a.Vis.Convert(g)
	if err != nil {
		return err
	}
	return RenderNetwork(w, network)
}

// nodeBox is a node resolved to canvas coordinates and extents.
type nodeBox struct {
	node   VisNode
	x, y   float64
	hw, hh float64
}

// boundary returns the point where the segment from (fx, fy) to the center
// of b crosses the outline of b.
func (b nodeBox) boundary(fx, fy float64) (float64, float64) {
	dx, dy := b.x-fx, b.y-fy
	if dx == 0 && dy == 0 {
		return b.x, b.y
	}
	adx, ady := math.Abs(dx), math.Abs(dy)

	var t float64
	switch b.node.Shape {
	case "box":
		t = math.Inf(1)
		if adx > 0 {
			t = b.hw / adx
		}
		if ady > 0 {
			t = min(t, b.hh/ady)
		}
	case "diamond":
		t = 1 / (adx/b.hw + ady/b.hh)
	default:
		t = 1 / math.Sqrt((dx/b.hw)*(dx/b.hw)+(dy/b.hh)*(dy/b.hh))
	}
	t = min(t, 1)
	return b.x - dx*t, b.y - dy*t
}

func extents(n VisNode) (float64, float64) {
	chars := float64(textutil.RuneLen(n.Label))
	switch n.Shape {
	case "box":
		return max(40, 4*chars+10), 20
	case "diamond":
		return max(50, 4*chars+10), 35
	case "circle":
		r := max(n.Size, 30, 3.5*chars)
		return r, r
	default:
		rx := max(40, 4*chars+15)
		if n.Size > 0 {
			rx = max(rx, n.Size)
			return rx, max(22, n.Size*0.6)
		}
		return rx, 22
	}
}

// RenderNetwork draws an already converted network.
func RenderNetwork(w io.Writer, network VisNetwork) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	if len(network.Nodes) == 0 {
		canvas.Start(svgEmptyWidth, svgEmptyHeight)
		canvas.End()
		return ew.err
	}

	boxes := make(map[string]nodeBox, len(network.Nodes))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, n := range network.Nodes {
		x, y := float64(100+i*120), 100.0
		if n.X != nil && n.Y != nil {
			x, y = *n.X, *n.Y
		}
		hw, hh := extents(n)
		boxes[n.ID] = nodeBox{node: n, x: x, y: y, hw: hw, hh: hh}
		minX, maxX = min(minX, x-hw), max(maxX, x+hw)
		minY, maxY = min(minY, y-hh), max(maxY, y+hh)
	}
	offX, offY := svgPadding-minX, svgPadding-minY
	width := int(math.Ceil(maxX-minX)) + 2*svgPadding
	height := int(math.Ceil(maxY-minY)) + 2*svgPadding
	px := func(v float64) int { return int(math.Round(v + offX)) }
	py := func(v float64) int { return int(math.Round(v + offY)) }

	canvas.Start(width, height)
	canvas.Def()
	canvas.Marker(svgArrowID, 9, 5, 10, 10, `orient="auto"`, `markerUnits="strokeWidth"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:"+svgEdgeColor)
	canvas.MarkerEnd()
	canvas.DefEnd()
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	canvas.Group(`class="edges"`)
	for _, e := range visualization.PruneDanglingEdges(network.Nodes, network.Edges) {
		from, to := boxes[e.From], boxes[e.To]
		x1, y1 := from.boundary(to.x, to.y)
		x2, y2 := to.boundary(from.x, from.y)

		opacity := e.Color.Opacity
		if opacity == 0 {
			opacity = 1
		}
		style := []string{fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-opacity:%.2f;fill:none",
			safeColor(e.Color.Color, svgEdgeColor), max(e.Width, 1), opacity)}
		if e.Arrows == "to" {
			style = append(style, fmt.Sprintf(`marker-end="url(#%s)"`, svgArrowID))
		}
		canvas.Line(px(x1), py(y1), px(x2), py(y2), style...)

		if e.Label != "" {
			size := svgLabelFontSize
			if e.Font != nil && e.Font.Size > 0 {
				size = e.Font.Size
			}
			canvas.Text(px((x1+x2)/2), py((y1+y2)/2), e.Label,
				fmt.Sprintf("font-size:%dpx;fill:#374151;text-anchor:middle;paint-order:stroke;stroke:#ffffff;stroke-width:3", size))
		}
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`)
	for _, n := range network.Nodes {
		drawNode(canvas, boxes[n.ID], px, py)
	}
	canvas.Gend()

	canvas.End()
	return ew.err
}

func drawNode(canvas *svg.SVG, b nodeBox, px, py func(float64) int) {
	n := b.node
	style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2",
		safeColor(n.Color.Background, defaultFill), safeColor(n.Color.Border, defaultBorder))
	cx, cy := px(b.x), py(b.y)
	hw, hh := int(math.Round(b.hw)), int(math.Round(b.hh))

	canvas.Group(`class="node"`)
	if n.Title != "" {
		canvas.Title(n.Title)
	}
	switch n.Shape {
	case "box":
		canvas.Roundrect(cx-hw, cy-hh, 2*hw, 2*hh, 6, 6, style)
	case "diamond":
		canvas.Polygon([]int{cx, cx + hw, cx, cx - hw}, []int{cy - hh, cy, cy + hh, cy}, style)
	case "circle":
		canvas.Circle(cx, cy, hw, style)
	default:
		canvas.Ellipse(cx, cy, hw, hh, style)
	}

	size := n.Font.Size
	if size == 0 {
		size = defaultFontSize
	}
	color := safeColor(n.Font.Color, darkText)
	canvas.Text(cx, cy, n.Label,
		fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:%s;text-anchor:middle;dominant-baseline:central", size, color))
	canvas.Gend()
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
