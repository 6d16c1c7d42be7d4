// Package diagram defines the diagram kinds understood by diagramscene, the
// type detector that classifies raw diagram text, and the structured models
// produced by the per-kind parsers.
//
// # Overview
//
// Diagram text uses a Mermaid-like notation: a header line names the kind
// ("graph LR", "sequenceDiagram", "pie", ...) and the following lines describe
// the diagram body. [Split] turns raw text into a [Source] (kind, header, body
// lines, optional front-matter title), and [Detect] is the shorthand that only
// reports the [Kind].
//
// # Models
//
// Each kind has its own model type implementing [Model]:
//
//   - [FlowchartModel]: nodes, edges, subgraphs and a flow [Direction]
//   - [SequenceModel]: participants and messages
//   - [PieModel]: labelled slices
//   - [GanttModel]: sections holding tasks
//   - [ClassModel]: classes with members and relationships
//   - [StateModel]: states (including start/end pseudo-states) and transitions
//   - [ERModel]: entities with attributes and relationships
//   - [MindmapModel]: a root with up to two levels of branches
//   - [TimelineModel]: dated events with items
//
// All collections are slices kept in insertion order, so every consumer that
// iterates a model does so deterministically.
//
// The [lex] subpackage tokenizes single lines and the [parse] subpackage
// builds models from a [Source].
//
// [lex]: github.com/deckdown/diagramscene/pkg/diagram/lex
// [parse]: github.com/deckdown/diagramscene/pkg/diagram/parse
package diagram
