package sink

import (
	"context"

	"github.com/deckdown/diagramscene/pkg/render"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// RenderPDF renders s as a single-page PDF via SVG conversion.
func RenderPDF(ctx context.Context, s *scene.Scene, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(s, opts...))
}
