// Package layout assigns EMU coordinates to the entities of a parsed
// diagram.
//
// [Compute] dispatches a [diagram.Model] to the strategy for its kind:
//
//   - grid placement for flowcharts, state, class and ER diagrams
//   - side-by-side subgraph columns for flowcharts that declare subgraphs
//   - lanes for sequence diagrams
//   - a circle and legend for pie charts
//   - stacked bars for gantt charts
//   - radial placement for mindmaps
//   - a horizontal axis for timelines
//
// The result is a list of [scene.Part] values (shapes without ids), a
// [PositionMap] from entity id to bounding box, and the [Link] values the
// connector router turns into connectors. Every size, spacing and color
// comes from a [Theme].
package layout

import (
	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// PositionedElement is the bounding box of one entity.
type PositionedElement struct {
	ID     string
	X      int64
	Y      int64
	Width  int64
	Height int64
}

// Center returns the midpoint of the element.
func (e PositionedElement) Center() (int64, int64) {
	return e.X + e.Width/2, e.Y + e.Height/2
}

// PositionMap maps entity ids to their bounding boxes.
type PositionMap map[string]PositionedElement

// Lookup returns the element for id. A missing id reports false.
func (m PositionMap) Lookup(id string) (PositionedElement, bool) {
	e, ok := m[id]
	return e, ok
}

func (m PositionMap) set(id string, x, y, w, h int64) {
	m[id] = PositionedElement{ID: id, X: x, Y: y, Width: w, Height: h}
}

// LinkKind selects how the router decorates a link.
type LinkKind int

const (
	LinkFlow         LinkKind = iota // flowchart -->
	LinkFlowOpen                     // flowchart ---
	LinkFlowDotted                   // flowchart -.->
	LinkFlowThick                    // flowchart ==>
	LinkTransition                   // state transition
	LinkRelationship                 // ER relationship
	LinkExtends                      // class inheritance
	LinkUses                         // class dependency
	LinkAssociates                   // class association
	LinkBranch                       // mindmap branch
)

var linkKindNames = [...]string{"flow", "flow_open", "flow_dotted", "flow_thick", "transition", "relationship", "extends", "uses", "associates", "branch"}

func (k LinkKind) String() string {
	if k < 0 || int(k) >= len(linkKindNames) {
		return "flow"
	}
	return linkKindNames[k]
}

// Link is a relationship between two positioned entities.
type Link struct {
	From  string
	To    string
	Label string
	Kind  LinkKind
}

// Result is the output of [Compute].
type Result struct {
	Kind      diagram.Kind
	Parts     []scene.Part
	Positions PositionMap
	Links     []Link
}

func newResult(k diagram.Kind) *Result {
	return &Result{Kind: k, Positions: make(PositionMap)}
}

// add appends a shape part.
func (r *Result) add(key string, layer scene.Layer, sh scene.Shape) {
	r.Parts = append(r.Parts, scene.Part{Key: key, Layer: layer, Shape: sh})
}

// node appends an entity shape and records its position under key.
func (r *Result) node(key string, sh scene.Shape) {
	r.add(key, scene.LayerNode, sh)
	r.Positions.set(key, sh.X, sh.Y, sh.Width, sh.Height)
}

type engine func(m diagram.Model, t *Theme) *Result

var engines = map[diagram.Kind]engine{
	diagram.Flowchart:    flowchartLayout,
	diagram.Sequence:     sequenceLayout,
	diagram.Pie:          pieLayout,
	diagram.Gantt:        ganttLayout,
	diagram.ClassDiagram: classLayout,
	diagram.StateDiagram: stateLayout,
	diagram.ErDiagram:    erLayout,
	diagram.Mindmap:      mindmapLayout,
	diagram.Timeline:     timelineLayout,
}

// Compute lays out m with theme t (the default theme when nil). Models of
// Unknown kind, or whose concrete type does not match their kind, produce an
// empty result.
func Compute(m diagram.Model, t *Theme) *Result {
	if t == nil {
		t = DefaultTheme()
	}
	if m == nil {
		return newResult(diagram.Unknown)
	}
	eng, ok := engines[m.Kind()]
	if !ok {
		return newResult(m.Kind())
	}
	return eng(m, t)
}

// =============================================================================
// Shared placement helpers
// =============================================================================

// cell returns the column and row of item i in a grid with cols columns.
func cell(i, cols int) (int, int) {
	if cols < 1 {
		cols = 1
	}
	return i % cols, i / cols
}

// pick returns palette[i mod len], or "" for an empty palette.
func pick(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[i%len(palette)]
}

func styled(kind scene.ShapeKind, x, y, w, h int64, fill string, line Stroke, text string) scene.Shape {
	return scene.Shape{
		Kind:      kind,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
		FillColor: fill,
		LineColor: line.Color,
		LineWidth: line.Width,
		Text:      text,
	}
}
