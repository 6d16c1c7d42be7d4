// Package pkg provides the core libraries for diagramscene.
//
// # Overview
//
// diagramscene turns Mermaid-style diagram text into a positioned scene: a
// flat list of shapes and connectors in EMU (English Metric Units) that a
// slide or document writer can place directly. Nine diagram kinds are
// supported: flowchart, sequence, pie, gantt, class, state, ER, mindmap and
// timeline.
//
// # Architecture
//
// The data flow through diagramscene:
//
//	Diagram text (or a Markdown fence, see [source])
//	         ↓
//	    [diagram] Split + detect the kind
//	         ↓
//	    [diagram/parse] typed model per kind
//	         ↓
//	    [layout] parts and links in EMU
//	         ↓
//	    [route] connectors with anchor sides and label boxes
//	         ↓
//	    [scene] ids, layer order, anchors resolved
//	         ↓
//	    SVG/JSON/DOT/PNG/PDF via [render]
//
// Unrecognized input never fails: it yields a single placeholder shape.
//
// # Quick Start
//
//	import "github.com/deckdown/diagramscene/pkg/pipeline"
//
//	s := pipeline.Build(pipeline.Input{Text: "graph LR\nA --> B"}, pipeline.Options{})
//	fmt.Println(len(s.Shapes), len(s.Connectors)) // 2 1
//
// For caching and rendering use a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	res, err := runner.Execute(ctx, in, pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// [pipeline] - Orchestration (detect → parse → layout → route → assemble →
// render) used by the CLI and the HTTP server.
//
// [cache] - Scene and artifact caching with file, memory, Redis and MongoDB
// backends.
//
// [server] - HTTP API over a [pipeline.Runner].
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [observability] - Hooks for logging or metrics around builds, caches and
// requests.
//
// [diagram]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/diagram
// [diagram/parse]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/diagram/parse
// [source]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/source
// [layout]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/layout
// [route]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/route
// [scene]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/scene
// [render]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/cache
// [server]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/server
// [errors]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/errors
// [observability]: https://pkg.go.dev/github.com/deckdown/diagramscene/pkg/observability
package pkg
