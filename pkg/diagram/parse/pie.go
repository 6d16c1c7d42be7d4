package parse

import (
	"math"
	"strconv"
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

func parsePie(src *diagram.Source) diagram.Model {
	m := &diagram.PieModel{}
	bodyTitle := pieHeaderTitle(src.Header)

	for _, line := range src.Lines {
		text := line.Text
		if rest, ok := keyword(text, "title"); ok {
			bodyTitle = rest
			continue
		}
		toks := lex.Tokenize(text)
		c := index(toks, lex.Colon)
		if c < 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text[toks[c].End:]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m.Slices = append(m.Slices, diagram.Slice{
			Label: unquote(text[:toks[c].Pos]),
			Value: v,
		})
	}
	m.Title = title(bodyTitle, src.Title)
	return m
}

// pieHeaderTitle extracts the title from "pie [showData] title Text".
func pieHeaderTitle(header string) string {
	l := lex.New(header)
	for t := l.Next(); t.Kind != lex.EOF; t = l.Next() {
		if t.Is(lex.Ident, "title") {
			return l.Rest()
		}
	}
	return ""
}
