package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/deckdown/diagramscene/pkg/scene"
)

// EMUPerPixel maps scene units to SVG pixels at 96 dpi.
const EMUPerPixel = scene.EMUPerInch / 96

const svgDefs = `  <defs>
    <marker id="m-triangle" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="context-stroke"/></marker>
    <marker id="m-arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10" fill="none" stroke="context-stroke" stroke-width="1.5"/></marker>
    <marker id="m-diamond" viewBox="0 0 12 12" refX="12" refY="6" markerWidth="10" markerHeight="10" orient="auto-start-reverse"><path d="M0,6 L6,0 L12,6 L6,12 z" fill="context-stroke"/></marker>
  </defs>
`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	padding    float64
	background string
	fontSize   float64
	fontFamily string
}

// WithPadding sets the margin around the drawing in pixels (default 16).
func WithPadding(px float64) SVGOption { return func(r *svgRenderer) { r.padding = px } }

// WithBackground fills the canvas with a hex color such as "FFFFFF".
func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }

// WithFont sets the text font family and size in pixels.
func WithFont(family string, px float64) SVGOption {
	return func(r *svgRenderer) { r.fontFamily, r.fontSize = family, px }
}

// RenderSVG draws s. The viewBox covers the scene bounds plus padding; an
// empty scene yields an empty canvas.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{padding: 16, fontSize: 12, fontFamily: "Helvetica, Arial, sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := s.Bounds()
	x0, y0 := px(minX)-r.padding, px(minY)-r.padding
	w, h := px(maxX-minX)+2*r.padding, px(maxY-minY)+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f" font-family="%s" font-size="%.0f" data-kind="%s">`+"\n",
		x0, y0, w, h, w, h, html.EscapeString(r.fontFamily), r.fontSize, s.Kind)
	buf.WriteString(svgDefs)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%s"/>`+"\n", x0, y0, w, h, r.background)
	}

	mids := make(map[[2]int64]bool, len(s.Connectors))
	for _, c := range s.Connectors {
		mids[[2]int64{(c.StartX + c.EndX) / 2, (c.StartY + c.EndY) / 2}] = true
	}
	var labels []scene.Shape
	for _, sh := range s.Shapes {
		cx, cy := sh.Center()
		if sh.Text != "" && mids[[2]int64{cx, cy}] {
			labels = append(labels, sh)
			continue
		}
		r.shape(&buf, sh)
	}
	for _, c := range s.Connectors {
		r.connector(&buf, c)
	}
	for _, sh := range labels {
		r.shape(&buf, sh)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) shape(buf *bytes.Buffer, sh scene.Shape) {
	x, y, w, h := px(sh.X), px(sh.Y), px(sh.Width), px(sh.Height)
	paint := paint(sh.FillColor, sh.LineColor, sh.LineWidth)

	fmt.Fprintf(buf, `  <g id="shape-%d" class="%s">`, sh.ID, sh.Kind)
	switch {
	case sh.Arc != nil:
		fmt.Fprintf(buf, `<path d="%s" %s/>`, wedge(x, y, w, h, *sh.Arc), paint)
	case sh.Kind == scene.RoundedRectangle:
		rx := math.Min(w, h) * 0.2
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" %s/>`, x, y, w, h, rx, paint)
	case sh.Kind == scene.Ellipse:
		fmt.Fprintf(buf, `<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" %s/>`, x+w/2, y+h/2, w/2, h/2, paint)
	case sh.Kind == scene.Diamond:
		fmt.Fprintf(buf, `<polygon points="%s" %s/>`, points(x+w/2, y, x+w, y+h/2, x+w/2, y+h, x, y+h/2), paint)
	case sh.Kind == scene.Hexagon:
		d := w / 4
		fmt.Fprintf(buf, `<polygon points="%s" %s/>`, points(x+d, y, x+w-d, y, x+w, y+h/2, x+w-d, y+h, x+d, y+h, x, y+h/2), paint)
	case sh.Kind == scene.RightArrow:
		head := math.Min(w/2, h)
		fmt.Fprintf(buf, `<polygon points="%s" %s/>`, points(x, y+h/4, x+w-head, y+h/4, x+w-head, y, x+w, y+h/2, x+w-head, y+h, x+w-head, y+3*h/4, x, y+3*h/4), paint)
	case sh.Kind == scene.LeftArrow:
		head := math.Min(w/2, h)
		fmt.Fprintf(buf, `<polygon points="%s" %s/>`, points(x+w, y+h/4, x+head, y+h/4, x+head, y, x, y+h/2, x+head, y+h, x+head, y+3*h/4, x+w, y+3*h/4), paint)
	default:
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`, x, y, w, h, paint)
	}
	if sh.Text != "" {
		r.text(buf, x+w/2, y+h/2, sh.Text, textColor(sh.FillColor))
	}
	buf.WriteString("</g>\n")
}

func (r *svgRenderer) connector(buf *bytes.Buffer, c scene.Connector) {
	sx, sy, ex, ey := px(c.StartX), px(c.StartY), px(c.EndX), px(c.EndY)
	color := c.LineColor
	if color == "" {
		color = "000000"
	}
	attrs := fmt.Sprintf(`fill="none" stroke="#%s" stroke-width="%.2f"`, color, strokePx(c.LineWidth))
	if c.Dash == scene.Dashed {
		attrs += ` stroke-dasharray="6 4"`
	}
	if m := marker(c.StartArrow); m != "" {
		attrs += fmt.Sprintf(` marker-start="url(#%s)"`, m)
	}
	if m := marker(c.EndArrow); m != "" {
		attrs += fmt.Sprintf(` marker-end="url(#%s)"`, m)
	}

	fmt.Fprintf(buf, `  <g id="connector-%d" class="%s">`, c.ID, c.Routing)
	if c.Routing == scene.Elbow {
		fmt.Fprintf(buf, `<polyline points="%s" %s/>`, points(elbow(c, sx, sy, ex, ey)...), attrs)
	} else {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" %s/>`, sx, sy, ex, ey, attrs)
	}
	if c.Label != "" {
		r.text(buf, (sx+ex)/2, (sy+ey)/2-r.fontSize/2, c.Label, "000000")
	}
	buf.WriteString("</g>\n")
}

// elbow bends once at the midpoint, leaving the start shape perpendicular
// to the side it is anchored on.
func elbow(c scene.Connector, sx, sy, ex, ey float64) []float64 {
	vertical := c.StartAnchor != nil && (c.StartAnchor.Side == scene.Top || c.StartAnchor.Side == scene.Bottom)
	if c.StartAnchor == nil {
		vertical = math.Abs(ey-sy) > math.Abs(ex-sx)
	}
	if vertical {
		my := (sy + ey) / 2
		return []float64{sx, sy, sx, my, ex, my, ex, ey}
	}
	mx := (sx + ex) / 2
	return []float64{sx, sy, mx, sy, mx, ey, ex, ey}
}

func (r *svgRenderer) text(buf *bytes.Buffer, cx, cy float64, text, color string) {
	lines := strings.Split(text, "\n")
	top := cy - float64(len(lines)-1)*r.fontSize*0.6
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" fill="#%s" text-anchor="middle" dominant-baseline="central">`, cx, top, color)
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintf(buf, `<tspan x="%.1f">%s</tspan>`, cx, html.EscapeString(line))
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, cx, r.fontSize*1.2, html.EscapeString(line))
	}
	buf.WriteString("</text>")
}

// wedge draws a pie slice of the ellipse in the box, angles in degrees
// clockwise from three o'clock.
func wedge(x, y, w, h float64, a scene.Arc) string {
	cx, cy, rx, ry := x+w/2, y+h/2, w/2, h/2
	if a.Sweep >= 360 {
		return fmt.Sprintf("M%.1f,%.1f a%.1f,%.1f 0 1,0 %.1f,0 a%.1f,%.1f 0 1,0 %.1f,0 z", cx-rx, cy, rx, ry, 2*rx, rx, ry, -2*rx)
	}
	start := a.Start * math.Pi / 180
	end := (a.Start + a.Sweep) * math.Pi / 180
	x1, y1 := cx+rx*math.Cos(start), cy+ry*math.Sin(start)
	x2, y2 := cx+rx*math.Cos(end), cy+ry*math.Sin(end)
	large := 0
	if a.Sweep > 180 {
		large = 1
	}
	return fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f z", cx, cy, x1, y1, rx, ry, large, x2, y2)
}

func paint(fill, line string, width uint32) string {
	f := "none"
	if fill != "" {
		f = "#" + fill
	}
	if line == "" || width == 0 {
		return fmt.Sprintf(`fill="%s" stroke="none"`, f)
	}
	return fmt.Sprintf(`fill="%s" stroke="#%s" stroke-width="%.2f"`, f, line, strokePx(width))
}

func marker(a scene.ArrowKind) string {
	switch a {
	case scene.ArrowTriangle:
		return "m-triangle"
	case scene.ArrowOpen:
		return "m-arrow"
	case scene.ArrowDiamond:
		return "m-diamond"
	}
	return ""
}

// textColor picks white on dark fills and black otherwise.
func textColor(fill string) string {
	if len(fill) != 6 {
		return "000000"
	}
	var r, g, b int
	if _, err := fmt.Sscanf(fill, "%02x%02x%02x", &r, &g, &b); err != nil {
		return "000000"
	}
	if 299*r+587*g+114*b < 128_000 {
		return "FFFFFF"
	}
	return "000000"
}

func points(coords ...float64) string {
	parts := make([]string, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", coords[i], coords[i+1]))
	}
	return strings.Join(parts, " ")
}

func px(emu int64) float64 { return float64(emu) / EMUPerPixel }

// strokePx converts an outline width, keeping hairlines visible.
func strokePx(emu uint32) float64 { return math.Max(float64(emu)/EMUPerPixel, 0.5) }
