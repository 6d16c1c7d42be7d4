package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

var classArrows = lex.WithArrows("<|--", "--|>", "<|..", "..|>", "*--", "--*", "o--", "--o", "-->", "<--", "..>", "<..", "--", "..")

func parseClass(src *diagram.Source) diagram.Model {
	m := &diagram.ClassModel{Meta: diagram.Meta{Title: src.Title}}
	classes := newOrderedSet()
	ensure := func(name string) int {
		i, isNew := classes.add(name)
		if isNew {
			m.Classes = append(m.Classes, diagram.Class{Name: name})
		}
		return i
	}

	body := -1 // index of the class whose body is open
	for _, line := range src.Lines {
		text := line.Text
		if body >= 0 {
			if strings.HasPrefix(text, "}") {
				body = -1
				continue
			}
			addMember(&m.Classes[body], text)
			continue
		}

		if rest, ok := keyword(text, "class"); ok {
			toks := lex.Tokenize(rest)
			if len(toks) == 0 || toks[0].Kind != lex.Ident {
				continue
			}
			i := ensure(toks[0].Text)
			if last := toks[len(toks)-1]; last.Kind == lex.Open && last.Text == "{" {
				body = i
			}
			continue
		}

		rel, ok := classRelation(text)
		if !ok {
			continue
		}
		ensure(rel.From)
		ensure(rel.To)
		m.Relations = append(m.Relations, rel)
	}
	return m
}

// addMember files a body line as method when it has parentheses.
func addMember(c *diagram.Class, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if strings.Contains(text, "(") {
		c.Methods = append(c.Methods, text)
		return
	}
	c.Attributes = append(c.Attributes, text)
}

// classRelation parses `A <|-- B`, `A --> B : label` and friends.
// Cardinality strings such as "1" before or after the operator are skipped.
func classRelation(text string) (diagram.ClassRelation, bool) {
	toks := lex.Tokenize(text, classArrows)
	op := index(toks, lex.Arrow)
	if op <= 0 {
		return diagram.ClassRelation{}, false
	}
	from, to := "", ""
	for i := op - 1; i >= 0; i-- {
		if toks[i].Kind == lex.Ident {
			from = toks[i].Text
			break
		}
	}
	for i := op + 1; i < len(toks) && toks[i].Kind != lex.Colon; i++ {
		if toks[i].Kind == lex.Ident {
			to = toks[i].Text
			break
		}
	}
	if from == "" || to == "" {
		return diagram.ClassRelation{}, false
	}
	return diagram.ClassRelation{
		From:  from,
		To:    to,
		Label: labelAfterColon(text, toks),
		Kind:  relationKind(toks[op].Text),
	}, true
}

func relationKind(op string) diagram.RelationKind {
	switch {
	case strings.Contains(op, "<|") || strings.Contains(op, "|>"):
		return diagram.Extends
	case op == "-->" || op == "..>" || op == "<--" || op == "<..":
		return diagram.Uses
	default:
		return diagram.Associates
	}
}
