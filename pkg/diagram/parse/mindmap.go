package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

// parseMindmap derives levels from relative indentation: the first line is
// the root, the first deeper indentation defines level 1, and anything
// deeper than that is level 2, parented to the latest level-1 node.
func parseMindmap(src *diagram.Source) diagram.Model {
	m := &diagram.MindmapModel{Meta: diagram.Meta{Title: src.Title}}
	rootIndent, level1Indent := -1, -1

	for _, line := range src.Lines {
		if strings.HasPrefix(line.Text, "::") {
			continue
		}
		text := mindmapText(line.Text)
		if text == "" {
			continue
		}
		switch {
		case rootIndent < 0:
			m.Root, rootIndent = text, line.Indent
		case line.Indent <= rootIndent:
			// a second root is not representable
		case level1Indent < 0 || line.Indent <= level1Indent:
			if level1Indent < 0 {
				level1Indent = line.Indent
			}
			m.Branches = append(m.Branches, diagram.Branch{Text: text})
		default:
			b := &m.Branches[len(m.Branches)-1]
			b.Children = append(b.Children, text)
		}
	}
	return m
}

// mindmapText extracts the display text of a node line: "id((label))"
// yields "label"; bullets and stray brackets are trimmed otherwise.
func mindmapText(s string) string {
	toks := lex.Tokenize(s)
	switch {
	case len(toks) == 2 && toks[0].Kind == lex.Ident && toks[1].Kind == lex.Group:
		return unquote(toks[1].Inner)
	case len(toks) == 1 && toks[0].Kind == lex.Group:
		return unquote(toks[0].Inner)
	}
	s = strings.TrimLeft(s, "-+* ")
	s = strings.Trim(s, "()[]{} ")
	return unquote(s)
}
