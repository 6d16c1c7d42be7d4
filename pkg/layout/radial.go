package layout

import (
	"math"
	"strconv"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// mindmapLayout centres the root and spreads level-1 branches evenly on a
// circle of Radius1, starting at twelve o'clock. Level-2 children sit on a
// circle of Radius2 around their parent's angle, fanned out by ChildSpread
// radians per sibling.
func mindmapLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.MindmapModel)
	r := newResult(diagram.Mindmap)
	if !ok || m.Root == "" {
		return r
	}
	t := &th.Mindmap
	cx, cy := t.Center.X, t.Center.Y

	const rootKey = "root"
	r.node(rootKey, styled(scene.Ellipse, cx-t.Root.Width/2, cy-t.Root.Height/2, t.Root.Width, t.Root.Height, t.RootFill, t.RootStroke, m.Root))

	n := len(m.Branches)
	step := 0.0
	if n > 0 {
		step = 2 * math.Pi / float64(n)
	}
	for i, b := range m.Branches {
		angle := float64(i)*step - math.Pi/2
		key := "b" + strconv.Itoa(i)
		x, y := polar(cx, cy, t.Radius1, angle)
		r.node(key, scene.Shape{
			Kind:      scene.RoundedRectangle,
			X:         x - t.Node.Width/2,
			Y:         y - t.Node.Height/2,
			Width:     t.Node.Width,
			Height:    t.Node.Height,
			FillColor: pick(t.Colors, i),
			Text:      b.Text,
		})
		if t.Branches {
			r.Links = append(r.Links, Link{From: rootKey, To: key, Kind: LinkBranch})
		}

		k := len(b.Children)
		for j, child := range b.Children {
			a := angle + (float64(j)-float64(k-1)/2)*t.ChildSpread
			x, y := polar(cx, cy, t.Radius2, a)
			ckey := key + "." + strconv.Itoa(j)
			r.node(ckey, styled(scene.RoundedRectangle, x-t.Node.Width/2, y-t.Node.Height/2, t.Node.Width, t.Node.Height, t.LeafFill, t.LeafStroke, child))
			if t.Branches {
				r.Links = append(r.Links, Link{From: key, To: ckey, Kind: LinkBranch})
			}
		}
	}
	return r
}

// polar converts a radius and angle around (cx, cy) to a point, truncating
// toward zero like the integer grid the other layouts use.
func polar(cx, cy, radius int64, angle float64) (int64, int64) {
	return cx + int64(float64(radius)*math.Cos(angle)), cy + int64(float64(radius)*math.Sin(angle))
}
