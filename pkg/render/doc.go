// Package render converts built scenes into output files.
//
// The [sink] subpackage draws a [scene.Scene] as SVG or JSON, and as PNG or
// PDF by converting the SVG. The [nodelink] subpackage renders graph-shaped
// diagrams (flowcharts, state, class, ER and mindmaps) through Graphviz as
// an alternative view that ignores the scene geometry.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (librsvg):
//
//	svg := sink.RenderSVG(s)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [sink]: github.com/deckdown/diagramscene/pkg/render/sink
// [nodelink]: github.com/deckdown/diagramscene/pkg/render/nodelink
// [scene.Scene]: github.com/deckdown/diagramscene/pkg/scene.Scene
package render
