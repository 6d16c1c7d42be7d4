package parse

import (
	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

var stateArrows = lex.WithArrows("-->")

func parseState(src *diagram.Source) diagram.Model {
	m := &diagram.StateModel{Meta: diagram.Meta{Title: src.Title}}
	states := newOrderedSet()
	ensure := func(id string, kind diagram.StateKind) {
		if _, isNew := states.add(id); isNew {
			m.States = append(m.States, diagram.State{ID: id, Kind: kind})
		}
	}

	for _, line := range src.Lines {
		text := line.Text
		if _, ok := keyword(text, "direction"); ok {
			continue
		}
		if rest, ok := keyword(text, "state"); ok {
			if toks := lex.Tokenize(rest); len(toks) > 0 && toks[0].Kind == lex.Ident && len(toks) == 1 {
				ensure(toks[0].Text, diagram.StateNormal)
			}
			continue
		}

		toks := lex.Tokenize(text, stateArrows)
		op := index(toks, lex.Arrow)
		if op != 1 || op+1 >= len(toks) {
			continue
		}
		from, fromKind, ok := stateRef(toks[0], true)
		if !ok {
			continue
		}
		to, toKind, ok := stateRef(toks[op+1], false)
		if !ok {
			continue
		}
		ensure(from, fromKind)
		ensure(to, toKind)
		m.Transitions = append(m.Transitions, diagram.Transition{
			From:  from,
			To:    to,
			Label: labelAfterColon(text, toks),
		})
	}
	return m
}

// stateRef maps a token to a state id. "[*]" is the start pseudo-state on
// the source side of a transition and the end pseudo-state on the target side.
func stateRef(t lex.Token, source bool) (string, diagram.StateKind, bool) {
	switch {
	case t.Kind == lex.Group && t.Delim == "[" && t.Inner == "*":
		if source {
			return diagram.StartStateID, diagram.StateStart, true
		}
		return diagram.EndStateID, diagram.StateEnd, true
	case t.Kind == lex.Ident:
		return t.Text, diagram.StateNormal, true
	}
	return "", diagram.StateNormal, false
}
