package scene

import (
	"sort"

	"github.com/deckdown/diagramscene/pkg/diagram"
)

// Layer orders parts in the final scene: backgrounds are emitted first,
// then entity shapes, then labels.
type Layer int

const (
	LayerBackground Layer = iota
	LayerNode
	LayerLabel
)

// Part is a shape awaiting an id. Key names the entity the shape stands for
// so connectors can anchor to it; decorations leave Key empty.
type Part struct {
	Key   string
	Layer Layer
	Shape Shape
}

// Wire is a connector whose anchors are expressed as entity keys. An empty
// key leaves that end unanchored.
type Wire struct {
	Connector Connector
	From      string
	FromSide  Side
	To        string
	ToSide    Side
}

// Fallback placeholder geometry and style.
const (
	fallbackX      = 1_000_000
	fallbackY      = 2_000_000
	fallbackWidth  = 7_000_000
	fallbackHeight = 3_000_000
	fallbackFill   = "F5F5F5"
	fallbackLine   = "757575"
)

// Assemble orders parts by layer (stable within a layer), assigns shape ids
// from [BaseID] upward and resolves wire keys into anchors. Connector ids
// continue after the last shape id. If either key of a wire has no shape,
// the wire keeps its geometry but loses both anchors.
func Assemble(kind diagram.Kind, parts []Part, wires []Wire) *Scene {
	ordered := make([]Part, len(parts))
	copy(ordered, parts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Layer < ordered[j].Layer
	})

	sc := &Scene{
		Kind:       kind,
		Shapes:     make([]Shape, 0, len(ordered)),
		Connectors: make([]Connector, 0, len(wires)),
	}
	ids := make(map[string]uint32, len(ordered))
	next := BaseID
	for _, p := range ordered {
		sh := p.Shape
		sh.ID = next
		next++
		if p.Key != "" {
			if _, dup := ids[p.Key]; !dup {
				ids[p.Key] = sh.ID
			}
		}
		sc.Shapes = append(sc.Shapes, sh)
	}

	for _, w := range wires {
		c := w.Connector
		c.StartAnchor, c.EndAnchor = nil, nil
		from, okFrom := ids[w.From]
		to, okTo := ids[w.To]
		if okFrom && okTo {
			c.StartAnchor = &Anchor{ShapeID: from, Side: w.FromSide}
			c.EndAnchor = &Anchor{ShapeID: to, Side: w.ToSide}
		}
		c.ID = next
		next++
		sc.Connectors = append(sc.Connectors, c)
	}
	return sc
}

// Fallback returns the placeholder scene used for unrecognized text, or
// for empty diagrams when the caller asks for one. first is the first
// meaningful line of the input.
func Fallback(kind diagram.Kind, first string) *Scene {
	text := "Diagram"
	if first != "" {
		text = "Diagram: " + first
	}
	return &Scene{
		Kind: kind,
		Shapes: []Shape{{
			ID:        BaseID,
			Kind:      Rectangle,
			X:         fallbackX,
			Y:         fallbackY,
			Width:     fallbackWidth,
			Height:    fallbackHeight,
			FillColor: fallbackFill,
			LineColor: fallbackLine,
			LineWidth: EMUPerPoint,
			Text:      text,
		}},
		Connectors: []Connector{},
	}
}
