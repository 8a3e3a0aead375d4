package chart

import "strconv"

// Render maps a point series into a drawable model. Points must be in
// ascending X order. When bounds is nil they are derived from the data,
// padded vertically, and clamped to a non-negative floor since the
// charted values are a currency balance.
func Render(points []Point, mode Mode, bounds *Bounds, cfg Config) Drawable {
	points = Simplify(points, cfg.MaxPoints)

	var b Bounds
	if bounds != nil {
		b = *bounds
	} else {
		b = AddPadding(CalculateBounds(points), cfg.YPaddingPct)
		if b.MinY < 0 {
			b.MinY = 0
		}
		// a lone point or identical timestamps collapse the X span;
		// widen it so the series still renders
		if b.MaxX == b.MinX {
			b.MinX--
			b.MaxX++
		}
	}

	if len(points) == 0 || b.MaxX <= b.MinX {
		return emptyDrawable(cfg)
	}

	switch mode {
	case ModeBar:
		return renderBar(points, b, cfg)
	default:
		return renderLine(points, b, cfg)
	}
}

func renderLine(points []Point, b Bounds, cfg Config) Drawable {
	a := drawingArea(cfg)
	xOf := xMapper(a, b)
	yOf := yMapper(a, b, b.MinY)

	ops := gridOps(cfg)

	if len(points) == 1 {
		p := points[0]
		ops = append(ops,
			Marker{X: xOf(p.X), Y: yOf(p.Y), Radius: 3},
			Label{X: xOf(p.X) + 6, Y: yOf(p.Y) - 6, Text: formatValue(p.Y), Anchor: "start"},
		)
		return append(ops, axisLabels(a, b)...)
	}

	line := splineSegments(points, xOf, yOf)

	fill := make([]Segment, len(line), len(line)+3)
	copy(fill, line)
	bottom := a.y + a.h
	fill = append(fill,
		Segment{Kind: LineTo, X: xOf(points[len(points)-1].X), Y: bottom},
		Segment{Kind: LineTo, X: xOf(points[0].X), Y: bottom},
		Segment{Kind: ClosePath},
	)

	ops = append(ops,
		GradientArea{Segments: fill, TopOpacity: 0.35},
		StrokePath{Segments: line},
	)
	return append(ops, axisLabels(a, b)...)
}

// splineSegments converts the series into a Catmull-Rom smoothed cubic
// path through every point, tension fixed at 1.
func splineSegments(points []Point, xOf, yOf func(float64) float64) []Segment {
	scaled := make([]Point, len(points))
	for i, p := range points {
		scaled[i] = Point{X: xOf(p.X), Y: yOf(p.Y)}
	}

	segs := make([]Segment, 0, len(scaled))
	segs = append(segs, Segment{Kind: MoveTo, X: scaled[0].X, Y: scaled[0].Y})
	for i := 0; i < len(scaled)-1; i++ {
		p0 := scaled[max(i-1, 0)]
		p1 := scaled[i]
		p2 := scaled[i+1]
		p3 := p2
		if i+2 < len(scaled) {
			p3 = scaled[i+2]
		}
		segs = append(segs, Segment{
			Kind: CubicTo,
			C1X:  p1.X + (p2.X-p0.X)/6,
			C1Y:  p1.Y + (p2.Y-p0.Y)/6,
			C2X:  p2.X - (p3.X-p1.X)/6,
			C2Y:  p2.Y - (p3.Y-p1.Y)/6,
			X:    p2.X,
			Y:    p2.Y,
		})
	}
	return segs
}

func xMapper(a area, b Bounds) func(float64) float64 {
	span := b.MaxX - b.MinX
	if span == 0 {
		span = 1
	}
	return func(x float64) float64 {
		return a.x + (x-b.MinX)/span*a.w
	}
}

func yMapper(a area, b Bounds, floor float64) func(float64) float64 {
	maxY := b.MaxY
	if maxY <= floor {
		maxY = floor + 1
	}
	span := maxY - floor
	return func(y float64) float64 {
		t := (y - floor) / span
		return a.y + (1-t)*a.h
	}
}

func axisLabels(a area, b Bounds) Drawable {
	return Drawable{
		Label{X: 6, Y: a.y + 10, Text: formatValue(b.MaxY), Anchor: "start"},
		Label{X: 6, Y: a.y + a.h + 11, Text: formatValue(b.MinY), Anchor: "start"},
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
