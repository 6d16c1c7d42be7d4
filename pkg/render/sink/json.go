package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deckdown/diagramscene/pkg/scene"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	source string
}

// WithIndent pretty-prints the output.
func WithIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithSource records the name of the file or block the scene came from.
func WithSource(name string) JSONOption { return func(r *jsonRenderer) { r.source = name } }

type jsonOutput struct {
	Source string   `json:"source,omitempty"`
	Bounds [4]int64 `json:"bounds"`
	*scene.Scene
}

// RenderJSON serializes s with its bounds (minX, minY, maxX, maxY). Nil
// slices are written as empty arrays.
func RenderJSON(s *scene.Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}
	out := *s
	if out.Shapes == nil {
		out.Shapes = []scene.Shape{}
	}
	if out.Connectors == nil {
		out.Connectors = []scene.Connector{}
	}
	minX, minY, maxX, maxY := s.Bounds()
	doc := jsonOutput{Source: r.source, Bounds: [4]int64{minX, minY, maxX, maxY}, Scene: &out}

	if r.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ReadJSON decodes a scene written by [RenderJSON] and checks it.
func ReadJSON(r io.Reader) (*scene.Scene, error) {
	var s scene.Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}
