package layout

import (
	"fmt"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// pieLayout draws the pie as one circle in the first palette color, with
// optional per-slice wedges on top, and a legend listing every slice with
// its percentage. The legend does not depend on how the pie is drawn.
func pieLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.PieModel)
	r := newResult(diagram.Pie)
	if !ok || len(m.Slices) == 0 {
		return r
	}
	t := &th.Pie
	d := 2 * t.Radius
	cx, cy := t.Center.X-t.Radius, t.Center.Y-t.Radius

	if m.Title != "" {
		r.add("", scene.LayerBackground, scene.Shape{
			Kind: scene.Rectangle, X: t.Title.X, Y: t.Title.Y,
			Width: t.TitleSize.Width, Height: t.TitleSize.Height, Text: m.Title,
		})
	}
	r.node("pie", styled(scene.Ellipse, cx, cy, d, d, pick(t.Colors, 0), t.Stroke, ""))

	if t.Wedges {
		var start float64 = -90
		for i := range m.Slices {
			sweep := m.Percent(i) * 3.6
			if sweep <= 0 {
				continue
			}
			w := styled(scene.Ellipse, cx, cy, d, d, pick(t.Colors, i), t.Stroke, "")
			w.Arc = &scene.Arc{Start: start, Sweep: sweep}
			r.add("", scene.LayerNode, w)
			start += sweep
		}
	}

	for i, s := range m.Slices {
		y := t.Legend.Y + int64(i)*t.LegendRow
		r.add("", scene.LayerNode, scene.Shape{
			Kind: scene.Rectangle, X: t.Legend.X, Y: y,
			Width: t.Swatch, Height: t.Swatch, FillColor: pick(t.Colors, i),
		})
		r.add("", scene.LayerNode, scene.Shape{
			Kind: scene.Rectangle, X: t.Legend.X + t.LabelOffset, Y: y,
			Width: t.Label.Width, Height: t.Label.Height,
			Text: fmt.Sprintf("%s (%.1f%%)", s.Label, m.Percent(i)),
		})
	}
	return r
}
