// Package parse builds structured diagram models from diagram text.
//
// [Parse] dispatches a [diagram.Source] to the parser registered for its
// kind. Parsers are total: lines they do not understand are skipped, and
// they never return an error. Unknown text yields a [diagram.UnknownModel].
//
// Each parser walks the body lines in order and tokenizes them with the
// shared [lex] tokenizer, so ordering of nodes, participants and slices in
// the resulting model always follows the order of first appearance.
package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

type parser func(src *diagram.Source) diagram.Model

var parsers = map[diagram.Kind]parser{
	diagram.Flowchart:    parseFlowchart,
	diagram.Sequence:     parseSequence,
	diagram.Pie:          parsePie,
	diagram.Gantt:        parseGantt,
	diagram.ClassDiagram: parseClass,
	diagram.StateDiagram: parseState,
	diagram.ErDiagram:    parseER,
	diagram.Mindmap:      parseMindmap,
	diagram.Timeline:     parseTimeline,
}

// Parse builds the model for src. A nil source parses as empty Unknown text.
func Parse(src *diagram.Source) diagram.Model {
	if src == nil {
		return &diagram.UnknownModel{}
	}
	p, ok := parsers[src.Kind]
	if !ok {
		return &diagram.UnknownModel{Meta: diagram.Meta{Title: src.Title}, First: src.First}
	}
	return p(src)
}

// Text splits and parses raw diagram text. hint may be empty.
func Text(text, hint string) diagram.Model {
	return Parse(diagram.Split(text, hint))
}

// =============================================================================
// Helpers shared by the per-kind parsers
// =============================================================================

// keyword reports whether line starts with the word kw (case-insensitive)
// and returns the trimmed remainder.
func keyword(line, kw string) (string, bool) {
	if len(line) < len(kw) || !strings.EqualFold(line[:len(kw)], kw) {
		return "", false
	}
	rest := line[len(kw):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// unquote trims whitespace and one pair of surrounding double quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return strings.Trim(s, `"`)
}

// index returns the position of the first token of kind k, or -1.
func index(toks []lex.Token, k lex.Kind) int {
	for i, t := range toks {
		if t.Kind == k {
			return i
		}
	}
	return -1
}

// after returns the trimmed text of line following token t.
func after(line string, t lex.Token) string {
	return strings.TrimSpace(line[t.End:])
}

// labelAfterColon returns the unquoted text after the first colon token.
func labelAfterColon(line string, toks []lex.Token) string {
	if i := index(toks, lex.Colon); i >= 0 {
		return unquote(after(line, toks[i]))
	}
	return ""
}

// title returns the body title if set, else the front-matter title.
func title(body, front string) string {
	if body != "" {
		return body
	}
	return front
}

// orderedSet tracks names in insertion order.
type orderedSet struct {
	index map[string]int
	names []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]int)}
}

// add inserts name if missing and reports its position and whether it was new.
func (s *orderedSet) add(name string) (int, bool) {
	if i, ok := s.index[name]; ok {
		return i, false
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	return len(s.names) - 1, true
}

func (s *orderedSet) has(name string) bool {
	_, ok := s.index[name]
	return ok
}
