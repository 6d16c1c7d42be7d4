// Package sink writes a [scene.Scene] in an output format.
//
//   - [RenderSVG]: vector drawing, EMU mapped to pixels at 96 dpi
//   - [RenderJSON] / [ReadJSON]: the scene itself, for external tools
//   - [RenderPNG], [RenderPDF]: the SVG converted by rsvg-convert
//
// SVG output draws shapes in scene order, then connectors. Shapes centred
// on a connector midpoint (edge labels) are held back and drawn after the
// connectors so the line never crosses the label text.
//
// [scene.Scene]: github.com/deckdown/diagramscene/pkg/scene.Scene
package sink
