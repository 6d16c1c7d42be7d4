package layout

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// timelineLayout draws a horizontal baseline with one column per event: a
// marker on the line, the date above and the items in a block below.
func timelineLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.TimelineModel)
	r := newResult(diagram.Timeline)
	if !ok {
		return r
	}
	t := &th.Timeline
	sx := t.Origin.X

	if m.Title != "" {
		r.add("", scene.LayerBackground, scene.Shape{
			Kind: scene.Rectangle, X: sx, Y: t.Origin.Y,
			Width: t.Title.Width, Height: t.Title.Height, Text: m.Title,
		})
	}
	if len(m.Events) == 0 {
		return r
	}
	r.add("", scene.LayerBackground, scene.Shape{
		Kind: scene.Rectangle, X: sx, Y: t.BaselineY,
		Width:     int64(len(m.Events))*t.EventSpacing + t.BaselinePad,
		Height:    t.BaselineH,
		FillColor: t.Accent,
	})

	for i, ev := range m.Events {
		x := sx + int64(i)*t.EventSpacing
		r.add("", scene.LayerNode, scene.Shape{
			Kind: scene.Ellipse, X: x + t.EventWidth/2 - t.Marker/2, Y: t.BaselineY - t.MarkerLift,
			Width: t.Marker, Height: t.Marker, FillColor: t.Accent,
		})
		r.node(ev.Date, scene.Shape{
			Kind: scene.Rectangle, X: x, Y: t.BaselineY - t.DateHeight - t.DateGap,
			Width: t.EventWidth, Height: t.DateHeight, FillColor: t.Accent, Text: ev.Date,
		})
		r.add("", scene.LayerNode, styled(scene.RoundedRectangle,
			x, t.BaselineY+t.ItemOffset, t.EventWidth, int64(max(len(ev.Items), 1))*t.ItemHeight,
			pick(t.Colors, i), t.ItemStroke, strings.Join(ev.Items, "\n")))
	}
	return r
}
