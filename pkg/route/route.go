// Package route turns layout links into connectors.
//
// For every [layout.Link] whose endpoints both have positions, [Route]
// chooses the facing sides of the two bounding boxes, computes endpoints at
// the middle of those sides, picks straight or elbow routing, applies the
// decoration for the link kind and, for labelled links, emits a label shape
// centred on the connector span. Links with a missing endpoint are dropped.
package route

import (
	"github.com/deckdown/diagramscene/pkg/layout"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// Default label box used when a decoration does not size its labels.
const (
	defaultLabelWidth  = 800_000
	defaultLabelHeight = 250_000
)

// Route resolves links against positions using theme t (the default theme
// when nil). It returns label parts and wires in link order.
func Route(pos layout.PositionMap, links []layout.Link, t *layout.Theme) ([]scene.Part, []scene.Wire) {
	if t == nil {
		t = layout.DefaultTheme()
	}
	var (
		labels []scene.Part
		wires  []scene.Wire
	)
	for _, l := range links {
		from, ok := pos.Lookup(l.From)
		if !ok {
			continue
		}
		to, ok := pos.Lookup(l.To)
		if !ok {
			continue
		}

		fromSide, toSide := Sides(from, to)
		if l.From == l.To {
			fromSide, toSide = scene.Right, scene.Top
		}
		sx, sy := SidePoint(from, fromSide)
		ex, ey := SidePoint(to, toSide)

		d := t.Decoration(l.Kind)
		c := scene.Connector{
			Routing:    Routing(sx, sy, ex, ey, t.Router.Tolerance),
			StartX:     sx,
			StartY:     sy,
			EndX:       ex,
			EndY:       ey,
			LineColor:  d.Color,
			LineWidth:  d.Width,
			StartArrow: d.StartArrow,
			EndArrow:   d.EndArrow,
		}
		if l.From == l.To {
			c.Routing = scene.Elbow
		}
		if d.Dashed {
			c.Dash = scene.Dashed
		}

		if l.Label != "" {
			if t.Router.InlineLabels {
				c.Label = l.Label
			} else {
				labels = append(labels, labelPart(l.Label, (sx+ex)/2, (sy+ey)/2, d))
			}
		}
		wires = append(wires, scene.Wire{Connector: c, From: l.From, FromSide: fromSide, To: l.To, ToSide: toSide})
	}
	return labels, wires
}

// Sides picks the facing sides of two boxes along the axis with the larger
// centre offset. Ties go to the horizontal axis.
func Sides(from, to layout.PositionedElement) (scene.Side, scene.Side) {
	fx, fy := from.Center()
	tx, ty := to.Center()
	dx, dy := tx-fx, ty-fy
	switch {
	case abs(dx) >= abs(dy) && dx >= 0:
		return scene.Right, scene.Left
	case abs(dx) >= abs(dy):
		return scene.Left, scene.Right
	case dy > 0:
		return scene.Bottom, scene.Top
	default:
		return scene.Top, scene.Bottom
	}
}

// SidePoint returns the midpoint of side s of box e.
func SidePoint(e layout.PositionedElement, s scene.Side) (int64, int64) {
	cx, cy := e.Center()
	switch s {
	case scene.Top:
		return cx, e.Y
	case scene.Bottom:
		return cx, e.Y + e.Height
	case scene.Left:
		return e.X, cy
	default:
		return e.X + e.Width, cy
	}
}

// Routing is straight when the endpoints are aligned on either axis within
// tolerance, and elbow otherwise.
func Routing(sx, sy, ex, ey, tolerance int64) scene.Routing {
	if abs(ex-sx) < tolerance || abs(ey-sy) < tolerance {
		return scene.Straight
	}
	return scene.Elbow
}

func labelPart(text string, mx, my int64, d layout.Decoration) scene.Part {
	w, h := d.Label.Width, d.Label.Height
	if w <= 0 || h <= 0 {
		w, h = defaultLabelWidth, defaultLabelHeight
	}
	return scene.Part{
		Layer: scene.LayerLabel,
		Shape: scene.Shape{
			Kind:      scene.RoundedRectangle,
			X:         mx - w/2,
			Y:         my - h/2,
			Width:     w,
			Height:    h,
			FillColor: d.LabelFill,
			LineColor: d.LabelStroke.Color,
			LineWidth: d.LabelStroke.Width,
			Text:      text,
		},
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
