package layout

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

var classLinks = map[diagram.RelationKind]LinkKind{
	diagram.Extends:    LinkExtends,
	diagram.Uses:       LinkUses,
	diagram.Associates: LinkAssociates,
}

// classLayout places class boxes on a grid. Each box is an invisible frame
// (the connector anchor) followed by a header, an attribute section and a
// method section.
func classLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.ClassModel)
	r := newResult(diagram.ClassDiagram)
	if !ok {
		return r
	}
	t := &th.Class
	for i, c := range m.Classes {
		col, row := cell(i, t.Columns)
		x := t.Origin.X + int64(col)*t.HSpacing
		y := t.Origin.Y + int64(row)*t.VSpacing
		attrH := int64(max(len(c.Attributes), 1)) * t.Row
		methH := int64(max(len(c.Methods), 1)) * t.Row

		r.node(c.Name, scene.Shape{Kind: scene.Rectangle, X: x, Y: y, Width: t.Width, Height: t.Header + attrH + methH})
		r.add("", scene.LayerNode, styled(scene.Rectangle, x, y, t.Width, t.Header, t.HeaderFill, t.HeaderLine, c.Name))
		r.add("", scene.LayerNode, styled(scene.Rectangle, x, y+t.Header, t.Width, attrH, t.AttrFill, t.SectionLine, strings.Join(c.Attributes, "\n")))
		r.add("", scene.LayerNode, styled(scene.Rectangle, x, y+t.Header+attrH, t.Width, methH, t.MethodFill, t.SectionLine, strings.Join(c.Methods, "\n")))
	}
	for _, rel := range m.Relations {
		r.Links = append(r.Links, Link{From: rel.From, To: rel.To, Label: rel.Label, Kind: classLinks[rel.Kind]})
	}
	return r
}

// stateLayout places states on a grid. Start and end pseudo-states are
// small dark circles centred in their cell.
func stateLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.StateModel)
	r := newResult(diagram.StateDiagram)
	if !ok {
		return r
	}
	t := &th.State
	for i, s := range m.States {
		col, row := cell(i, t.Columns)
		x := t.Origin.X + int64(col)*t.HSpacing
		y := t.Origin.Y + int64(row)*t.VSpacing

		if s.Kind != diagram.StateNormal {
			d := t.PseudoSize
			r.node(s.ID, styled(scene.Ellipse, x+(t.State.Width-d)/2, y+(t.State.Height-d)/2, d, d, t.PseudoFill, t.Stroke, ""))
			continue
		}
		r.node(s.ID, styled(scene.RoundedRectangle, x, y, t.State.Width, t.State.Height, t.Fill, t.Stroke, s.ID))
	}
	for _, tr := range m.Transitions {
		r.Links = append(r.Links, Link{From: tr.From, To: tr.To, Label: tr.Label, Kind: LinkTransition})
	}
	return r
}

// erLayout places entity boxes on a grid: an invisible anchor frame, a
// header and one attribute block with a row per attribute.
func erLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.ERModel)
	r := newResult(diagram.ErDiagram)
	if !ok {
		return r
	}
	t := &th.ER
	for i, e := range m.Entities {
		col, row := cell(i, t.Columns)
		x := t.Origin.X + int64(col)*t.HSpacing
		y := t.Origin.Y + int64(row)*t.VSpacing
		attrH := int64(max(len(e.Attributes), 1)) * t.Row

		lines := make([]string, 0, len(e.Attributes))
		for _, a := range e.Attributes {
			lines = append(lines, strings.Join(strings.Fields(a.Type+" "+a.Name+" "+a.Key), " "))
		}
		r.node(e.Name, scene.Shape{Kind: scene.Rectangle, X: x, Y: y, Width: t.Width, Height: t.Header + attrH})
		r.add("", scene.LayerNode, styled(scene.Rectangle, x, y, t.Width, t.Header, t.HeaderFill, t.HeaderLine, e.Name))
		r.add("", scene.LayerNode, styled(scene.Rectangle, x, y+t.Header, t.Width, attrH, t.AttrFill, t.AttrLine, strings.Join(lines, "\n")))
	}
	for _, rel := range m.Relations {
		r.Links = append(r.Links, Link{From: rel.From, To: rel.To, Label: rel.Label, Kind: LinkRelationship})
	}
	return r
}
