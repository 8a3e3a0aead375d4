package chart

import "math"

// Simplify decimates points by fixed-stride selection when the series
// exceeds maxPoints. Deterministic and order-preserving; not a
// statistical binning.
func Simplify(points []Point, maxPoints int) []Point {
	if maxPoints <= 0 || len(points) <= maxPoints {
		return points
	}
	step := float64(len(points)) / float64(maxPoints)
	result := make([]Point, 0, maxPoints)
	// the float stride can round into one extra iteration, so the
	// length guard keeps the cap exact
	for i := 0.0; i < float64(len(points)) && len(result) < maxPoints; i += step {
		result = append(result, points[int(math.Floor(i))])
	}
	return result
}

// CalculateBounds computes the tight data-space bounds of points. The
// empty input yields the unit square so downstream mappers stay finite.
func CalculateBounds(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	}
	b := Bounds{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// AddPadding widens the Y span by a percentage of itself, at least one
// unit in each direction so flat series still get breathing room.
func AddPadding(b Bounds, yPaddingPct float64) Bounds {
	span := b.MaxY - b.MinY
	if span == 0 {
		span = 1
	}
	pad := math.Max(1, span*yPaddingPct)
	b.MinY -= pad
	b.MaxY += pad
	return b
}

// NearestPointIndex maps a pointer X position (in canvas pixels) back to
// data space and scans for the point with the closest X. Ties keep the
// lowest index. Returns -1 for an empty set.
func NearestPointIndex(points []Point, pointerX float64, b Bounds, cfg Config) int {
	if len(points) == 0 {
		return -1
	}
	a := drawingArea(cfg)
	span := b.MaxX - b.MinX
	if span == 0 {
		span = 1
	}
	target := (pointerX-a.x)/a.w*span + b.MinX

	best := 0
	bestDist := math.Abs(points[0].X - target)
	for i := 1; i < len(points); i++ {
		if d := math.Abs(points[i].X - target); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
