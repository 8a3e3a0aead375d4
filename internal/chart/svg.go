package chart

import (
	"fmt"
	"io"
	"strings"
)

// Theme carries the presentation colors an encoder paints with. The
// drawable model itself is colorless.
type Theme struct {
	Line  string
	Grid  string
	Text  string
	Empty string
}

// DefaultTheme matches the widget's dark styling.
func DefaultTheme() Theme {
	return Theme{
		Line:  "#00ffa3",
		Grid:  "rgba(255,255,255,0.08)",
		Text:  "rgba(255,255,255,0.6)",
		Empty: "rgba(255,255,255,0.45)",
	}
}

// EncodeSVG writes a drawable model as a standalone SVG document.
func EncodeSVG(w io.Writer, d Drawable, cfg Config, theme Theme) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f">`, cfg.Width, cfg.Height)
	sb.WriteString("\n")

	gradientUsed := false
	for _, op := range d {
		if ga, ok := op.(GradientArea); ok && !gradientUsed {
			fmt.Fprintf(&sb, `<defs><linearGradient id="area" x1="0" y1="0" x2="0" y2="1">`+
				`<stop offset="0%%" stop-color="%s" stop-opacity="%.2f"/>`+
				`<stop offset="100%%" stop-color="%s" stop-opacity="0"/>`+
				`</linearGradient></defs>`, theme.Line, ga.TopOpacity, theme.Line)
			sb.WriteString("\n")
			gradientUsed = true
		}
	}

	for _, op := range d {
		switch v := op.(type) {
		case GridLine:
			fmt.Fprintf(&sb, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-dasharray="3 3"/>`,
				v.X1, v.Y1, v.X2, v.Y2, theme.Grid)
		case GradientArea:
			fmt.Fprintf(&sb, `<path d="%s" fill="url(#area)" stroke="none"/>`, pathData(v.Segments))
		case StrokePath:
			fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="%s" stroke-width="3" stroke-linecap="round" stroke-linejoin="round"/>`,
				pathData(v.Segments), theme.Line)
		case Marker:
			fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`, v.X, v.Y, v.Radius, theme.Line)
		case Bar:
			fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
				v.X, v.Y, v.Width, v.Height, theme.Line)
		case Label:
			fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" text-anchor="%s" fill="%s" font-size="11">%s</text>`,
				v.X, v.Y, v.Anchor, theme.Text, escapeText(v.Text))
		case EmptyState:
			fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" fill="%s" font-size="12">%s</text>`,
				v.X, v.Y, theme.Empty, escapeText(v.Text))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func pathData(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case MoveTo:
			fmt.Fprintf(&sb, "M%.2f,%.2f", s.X, s.Y)
		case LineTo:
			fmt.Fprintf(&sb, " L%.2f,%.2f", s.X, s.Y)
		case CubicTo:
			fmt.Fprintf(&sb, " C%.2f,%.2f %.2f,%.2f %.2f,%.2f", s.C1X, s.C1Y, s.C2X, s.C2Y, s.X, s.Y)
		case ClosePath:
			sb.WriteString(" Z")
		}
	}
	return sb.String()
}

func escapeText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
