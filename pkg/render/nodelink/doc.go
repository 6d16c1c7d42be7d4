// Package nodelink renders graph-shaped diagrams through Graphviz.
//
// Flowcharts, state diagrams, class diagrams, ER diagrams and mindmaps are
// graphs at heart. [ToDOT] turns their parsed model into DOT source, and
// [RenderSVG] lays it out in-process with Graphviz. The result ignores the
// scene geometry entirely; it is the "let Graphviz decide" view used by
// `diagramscene render -f dot` and by the inspector.
//
//	dot, err := nodelink.ToDOT(model, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Sequence, pie, gantt and timeline diagrams have no graph form and return
// [ErrUnsupported].
//
// This package uses [github.com/goccy/go-graphviz] for rendering.
package nodelink
