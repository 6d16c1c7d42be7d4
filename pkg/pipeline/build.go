package pipeline

import (
	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/parse"
	"github.com/deckdown/diagramscene/pkg/layout"
	"github.com/deckdown/diagramscene/pkg/route"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// Trace records the intermediate value of every stage of one build. The
// inspector shows it; Build keeps only the Scene.
type Trace struct {
	Source   *diagram.Source
	Model    diagram.Model
	Layout   *layout.Result
	Labels   []scene.Part
	Wires    []scene.Wire
	Scene    *scene.Scene
	Fallback bool
}

// Build runs all stages on in. It is pure, safe for concurrent use and
// never fails. opts need not be validated; a nil Theme means the default.
func Build(in Input, opts Options) *scene.Scene {
	return Run(in, opts).Scene
}

// Run is Build, keeping the intermediate results.
func Run(in Input, opts Options) *Trace {
	tr := &Trace{Source: diagram.Split(in.Text, in.Hint)}
	tr.Model = parse.Parse(tr.Source)

	kind := tr.Model.Kind()
	if kind == diagram.Unknown || (tr.Model.Empty() && opts.FallbackOnEmpty) {
		tr.Scene = scene.Fallback(kind, tr.Source.First)
		tr.Fallback = true
		return tr
	}
	if tr.Model.Empty() {
		tr.Scene = scene.Assemble(kind, nil, nil)
		return tr
	}

	theme := opts.Theme
	if theme == nil {
		theme = layout.DefaultTheme()
	}
	tr.Layout = layout.Compute(tr.Model, theme)
	tr.Labels, tr.Wires = route.Route(tr.Layout.Positions, tr.Layout.Links, theme)

	parts := make([]scene.Part, 0, len(tr.Layout.Parts)+len(tr.Labels))
	parts = append(parts, tr.Layout.Parts...)
	parts = append(parts, tr.Labels...)
	tr.Scene = scene.Assemble(kind, parts, tr.Wires)
	return tr
}
