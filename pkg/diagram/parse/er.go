package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

func parseER(src *diagram.Source) diagram.Model {
	m := &diagram.ERModel{Meta: diagram.Meta{Title: src.Title}}
	entities := newOrderedSet()
	ensure := func(name string) int {
		i, isNew := entities.add(name)
		if isNew {
			m.Entities = append(m.Entities, diagram.Entity{Name: name})
		}
		return i
	}

	body := -1
	for _, line := range src.Lines {
		text := line.Text
		if body >= 0 {
			if strings.HasPrefix(text, "}") {
				body = -1
				continue
			}
			if attr, ok := erAttribute(text); ok {
				m.Entities[body].Attributes = append(m.Entities[body].Attributes, attr)
			}
			continue
		}

		toks := lex.Tokenize(text, lex.WithRelations())
		if op := index(toks, lex.Arrow); op >= 0 {
			if rel, ok := erRelation(text, toks, op); ok {
				ensure(rel.From)
				ensure(rel.To)
				m.Relations = append(m.Relations, rel)
			}
			continue
		}
		if len(toks) >= 2 && toks[0].Kind == lex.Ident && toks[len(toks)-1].Is(lex.Open, "{") {
			body = ensure(toks[0].Text)
			continue
		}
		if len(toks) == 1 && toks[0].Kind == lex.Ident {
			ensure(toks[0].Text)
		}
	}
	return m
}

// erRelation reads `A ||--o{ B : label`. Names inferred from a relationship
// line must start with an uppercase letter.
func erRelation(text string, toks []lex.Token, op int) (diagram.ERRelation, bool) {
	if op == 0 || op+1 >= len(toks) {
		return diagram.ERRelation{}, false
	}
	from, to := toks[op-1], toks[op+1]
	if from.Kind != lex.Ident || to.Kind != lex.Ident || !upperStart(from.Text) || !upperStart(to.Text) {
		return diagram.ERRelation{}, false
	}
	return diagram.ERRelation{
		From:        from.Text,
		To:          to.Text,
		Label:       labelAfterColon(text, toks),
		Cardinality: toks[op].Text,
	}, true
}

// erAttribute splits "string name PK" into type, name and key markers.
func erAttribute(text string) (diagram.Attribute, bool) {
	fields := strings.Fields(text)
	switch len(fields) {
	case 0:
		return diagram.Attribute{}, false
	case 1:
		return diagram.Attribute{Name: fields[0]}, true
	}
	a := diagram.Attribute{Type: fields[0], Name: fields[1]}
	if len(fields) > 2 {
		a.Key = strings.Join(fields[2:], " ")
	}
	return a, true
}

func upperStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
