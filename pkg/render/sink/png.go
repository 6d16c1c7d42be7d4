package sink

import (
	"context"

	"github.com/deckdown/diagramscene/pkg/render"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders s as PNG via SVG conversion. PNG has no transparent
// default here: the canvas is white unless the SVG options say otherwise.
func RenderPNG(ctx context.Context, s *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	svg := RenderSVG(s, append([]SVGOption{WithBackground("FFFFFF")}, r.svgOpts...)...)
	return render.ToPNG(ctx, svg, r.scale)
}
