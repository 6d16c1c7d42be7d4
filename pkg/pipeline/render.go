package pipeline

import (
	"context"
	"errors"

	"github.com/deckdown/diagramscene/pkg/diagram/parse"
	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/render"
	"github.com/deckdown/diagramscene/pkg/render/nodelink"
	"github.com/deckdown/diagramscene/pkg/render/sink"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// Render produces one artifact per requested format. The dot formats need
// the source model, so they re-parse in; every other format draws s.
func Render(ctx context.Context, s *scene.Scene, in Input, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(s)
		case FormatJSON:
			data, err = sink.RenderJSON(s, sink.WithSource(in.Name), sink.WithIndent())
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, s, sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, s)
		case FormatDOT:
			var dot string
			dot, err = nodelink.ToDOT(parse.Text(in.Text, in.Hint), nodelink.Options{Detailed: opts.Detailed})
			data = []byte(dot)
		case FormatDOTSVG:
			var dot string
			dot, err = nodelink.ToDOT(parse.Text(in.Text, in.Hint), nodelink.Options{Detailed: opts.Detailed})
			if err == nil {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errs.Wrap(renderCode(err), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderCode classifies a backend failure.
func renderCode(err error) errs.Code {
	switch {
	case errors.Is(err, nodelink.ErrUnsupported):
		return errs.ErrCodeUnsupported
	case errors.Is(err, render.ErrNoConverter):
		return errs.ErrCodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return errs.ErrCodeTimeout
	}
	return errs.ErrCodeInternal
}
