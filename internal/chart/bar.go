package chart

import "math"

func renderBar(points []Point, b Bounds, cfg Config) Drawable {
	a := drawingArea(cfg)
	xOf := xMapper(a, b)
	floor := math.Min(0, b.MinY)
	yOf := yMapper(a, b, floor)

	ops := gridOps(cfg)

	labelEvery := 1
	if cfg.LabelThreshold > 0 && len(points) > cfg.LabelThreshold {
		labelEvery = int(math.Ceil(float64(len(points)) / float64(cfg.LabelThreshold)))
	}

	baseline := yOf(0)
	for i, p := range points {
		x := xOf(p.X)

		nextX := x + 6
		if i < len(points)-1 {
			nextX = xOf(points[i+1].X)
		}
		prevX := x - 6
		if i > 0 {
			prevX = xOf(points[i-1].X)
		}
		step := math.Min(nextX-x, x-prevX)
		width := clamp(step*cfg.BarWidthRatio, cfg.BarMinWidth, cfg.BarMaxWidth)

		top := math.Min(baseline, yOf(p.Y))
		height := math.Max(1, math.Abs(yOf(p.Y)-baseline))
		ops = append(ops, Bar{X: x - width/2, Y: top, Width: width, Height: height})

		if i%labelEvery == 0 && height > 10 && width >= 6 {
			labelY := math.Max(top-2, a.y+10)
			ops = append(ops, Label{X: x, Y: labelY, Text: formatValue(p.Y), Anchor: "middle"})
		}
	}

	ops = append(ops,
		Label{X: 6, Y: a.y + 10, Text: formatValue(b.MaxY), Anchor: "start"},
		Label{X: 6, Y: a.y + a.h + 11, Text: "0", Anchor: "start"},
	)
	return ops
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
