package layout

import (
	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

var flowShapes = map[diagram.NodeShape]scene.ShapeKind{
	diagram.ShapeRectangle:   scene.Rectangle,
	diagram.ShapeRoundedRect: scene.RoundedRectangle,
	diagram.ShapeStadium:     scene.RoundedRectangle,
	diagram.ShapeDiamond:     scene.Diamond,
	diagram.ShapeCircle:      scene.Ellipse,
	diagram.ShapeHexagon:     scene.Hexagon,
}

var flowLinks = map[diagram.ArrowStyle]LinkKind{
	diagram.ArrowSolid:  LinkFlow,
	diagram.ArrowOpen:   LinkFlowOpen,
	diagram.ArrowDotted: LinkFlowDotted,
	diagram.ArrowThick:  LinkFlowThick,
}

func flowchartLayout(dm diagram.Model, t *Theme) *Result {
	m, ok := dm.(*diagram.FlowchartModel)
	r := newResult(diagram.Flowchart)
	if !ok {
		return r
	}
	if len(m.Subgraphs) > 0 {
		flowchartGroups(m, &t.Flowchart, r)
	} else {
		flowchartGrid(m, &t.Flowchart, r)
	}
	for _, e := range m.Edges {
		r.Links = append(r.Links, Link{From: e.From, To: e.To, Label: e.Label, Kind: flowLinks[e.Style]})
	}
	return r
}

// flowchartGrid places nodes in insertion order on a grid: up to
// MaxColumns per row for horizontal flows, a single column otherwise.
// RL mirrors columns and BT mirrors rows.
func flowchartGrid(m *diagram.FlowchartModel, t *FlowchartTheme, r *Result) {
	n := len(m.Nodes)
	cols := 1
	if m.Direction.Horizontal() {
		cols = min(max(t.MaxColumns, 1), max(n, 1))
	}
	rows := (n + cols - 1) / cols

	for i, node := range m.Nodes {
		col, row := cell(i, cols)
		if m.Direction == diagram.RightToLeft {
			col = cols - 1 - col
		}
		if m.Direction == diagram.BottomToTop {
			row = rows - 1 - row
		}
		x := t.Origin.X + int64(col)*t.HSpacing
		y := t.Origin.Y + int64(row)*t.VSpacing
		r.node(node.ID, flowNodeShape(node, x, y, t))
	}
}

// flowchartGroups draws each subgraph as a tinted column with its members
// stacked inside; nodes outside every subgraph form a trailing column.
func flowchartGroups(m *diagram.FlowchartModel, t *FlowchartTheme, r *Result) {
	byID := make(map[string]diagram.FlowNode, len(m.Nodes))
	for _, n := range m.Nodes {
		byID[n.ID] = n
	}
	grouped := make(map[string]bool)

	x := t.GroupOrigin.X
	width := t.Node.Width + t.GroupPadding
	for i, sg := range m.Subgraphs {
		height := int64(len(sg.Members))*t.VSpacing + t.GroupPadding
		r.add("", scene.LayerBackground,
			styled(scene.RoundedRectangle, x, t.GroupOrigin.Y, width, height, pick(t.GroupFills, i), t.GroupStroke, sg.Title))

		for j, id := range sg.Members {
			node, ok := byID[id]
			if !ok || grouped[id] {
				continue
			}
			grouped[id] = true
			ny := t.GroupOrigin.Y + t.GroupInset.Y + int64(j)*t.VSpacing
			r.node(id, flowNodeShape(node, x+t.GroupInset.X, ny, t))
		}
		x += width + t.GroupGap
	}

	row := 0
	for _, node := range m.Nodes {
		if grouped[node.ID] {
			continue
		}
		r.node(node.ID, flowNodeShape(node, x, t.GroupOrigin.Y+int64(row)*t.VSpacing, t))
		row++
	}
}

func flowNodeShape(n diagram.FlowNode, x, y int64, t *FlowchartTheme) scene.Shape {
	fill := t.NodeFill
	switch n.Shape {
	case diagram.ShapeDiamond:
		fill = t.DiamondFill
	case diagram.ShapeCircle:
		fill = t.CircleFill
	}
	return styled(flowShapes[n.Shape], x, y, t.Node.Width, t.Node.Height, fill, t.NodeStroke, n.Label)
}
