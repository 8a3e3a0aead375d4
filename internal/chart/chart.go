// Package chart turns point series into a renderer-agnostic drawable
// model: a flat list of primitive draw instructions that a raster, SVG,
// or terminal backend can paint without knowing any chart semantics.
package chart

// Point is one chart-space datum. X is typically a millisecond
// timestamp, Y the observed value.
type Point struct {
	X float64
	Y float64
}

// Bounds is the data-space viewport of a render.
type Bounds struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// Mode selects the chart representation.
type Mode string

const (
	ModeLine Mode = "line"
	ModeBar  Mode = "bar"
)

// Padding is the pixel inset between canvas edge and drawing area.
type Padding struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Config tunes geometry and density limits.
type Config struct {
	Width          float64
	Height         float64
	Padding        Padding
	MaxPoints      int
	YPaddingPct    float64
	BarMinWidth    float64
	BarMaxWidth    float64
	BarWidthRatio  float64
	LabelThreshold int
	GridLines      int
}

// DefaultConfig mirrors the tuning the embedded widget ships with.
func DefaultConfig() Config {
	return Config{
		Width:          360,
		Height:         200,
		Padding:        Padding{Left: 38, Right: 8, Top: 10, Bottom: 20},
		MaxPoints:      400,
		YPaddingPct:    0.05,
		BarMinWidth:    2,
		BarMaxWidth:    12,
		BarWidthRatio:  0.7,
		LabelThreshold: 60,
		GridLines:      4,
	}
}

// Op is one primitive draw instruction.
type Op interface {
	op()
}

// Drawable is an ordered list of draw instructions, painted first to last.
type Drawable []Op

// GridLine is a single horizontal guide line.
type GridLine struct {
	X1, Y1, X2, Y2 float64
}

// Label is positioned text. Anchor is "start", "middle", or "end".
type Label struct {
	X, Y   float64
	Text   string
	Anchor string
}

// EmptyState signals that the series had nothing to draw.
type EmptyState struct {
	X, Y float64
	Text string
}

// SegmentKind discriminates path segments.
type SegmentKind int

const (
	MoveTo SegmentKind = iota
	LineTo
	CubicTo
	ClosePath
)

// Segment is one path step. C1/C2 are set for CubicTo only.
type Segment struct {
	Kind     SegmentKind
	X, Y     float64
	C1X, C1Y float64
	C2X, C2Y float64
}

// StrokePath is an open stroked path.
type StrokePath struct {
	Segments []Segment
}

// GradientArea is a closed region filled with a vertical gradient that
// fades from TopOpacity at the top edge to transparent at the bottom.
type GradientArea struct {
	Segments   []Segment
	TopOpacity float64
}

// Marker is a filled dot, used for single-point series and hover cursors.
type Marker struct {
	X, Y, Radius float64
}

// Bar is one vertical bar.
type Bar struct {
	X, Y          float64
	Width, Height float64
}

func (GridLine) op()     {}
func (Label) op()        {}
func (EmptyState) op()   {}
func (StrokePath) op()   {}
func (GradientArea) op() {}
func (Marker) op()       {}
func (Bar) op()          {}

type area struct {
	x, y, w, h float64
}

func drawingArea(cfg Config) area {
	return area{
		x: cfg.Padding.Left,
		y: cfg.Padding.Top,
		w: cfg.Width - cfg.Padding.Left - cfg.Padding.Right,
		h: cfg.Height - cfg.Padding.Top - cfg.Padding.Bottom,
	}
}

func gridOps(cfg Config) Drawable {
	if cfg.GridLines <= 0 {
		return nil
	}
	a := drawingArea(cfg)
	ops := make(Drawable, 0, cfg.GridLines+1)
	for i := 0; i <= cfg.GridLines; i++ {
		y := a.y + a.h*float64(i)/float64(cfg.GridLines)
		ops = append(ops, GridLine{X1: a.x, Y1: y, X2: a.x + a.w, Y2: y})
	}
	return ops
}

const emptyStateText = "insufficient data"

func emptyDrawable(cfg Config) Drawable {
	a := drawingArea(cfg)
	return Drawable{EmptyState{X: a.x + 8, Y: a.y + a.h/2, Text: emptyStateText}}
}
