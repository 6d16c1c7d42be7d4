package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

var seqArrows = lex.WithArrows("-->>", "->>", "-->", "->", "--x", "-x", "--)", "-)")

func parseSequence(src *diagram.Source) diagram.Model {
	m := &diagram.SequenceModel{}
	seen := newOrderedSet()
	declare := func(id, alias string) {
		if _, isNew := seen.add(id); isNew {
			m.Participants = append(m.Participants, diagram.Participant{ID: id, Alias: alias})
		}
	}

	var bodyTitle string
	for _, line := range src.Lines {
		text := line.Text
		if rest, ok := keyword(text, "title"); ok {
			bodyTitle = rest
			continue
		}
		if rest, ok := participantDecl(text); ok {
			l := lex.New(rest)
			id := l.Next()
			if id.Kind != lex.Ident {
				continue
			}
			alias := ""
			if as := l.Next(); as.Is(lex.Ident, "as") {
				alias = l.Rest()
			}
			declare(id.Text, alias)
			continue
		}

		msg, ok := message(text)
		if !ok {
			continue
		}
		declare(msg.From, "")
		declare(msg.To, "")
		m.Messages = append(m.Messages, msg)
	}
	m.Title = title(bodyTitle, src.Title)
	return m
}

func participantDecl(text string) (string, bool) {
	if rest, ok := keyword(text, "participant"); ok {
		return rest, true
	}
	return keyword(text, "actor")
}

// message parses "From->>To: text". Activation markers (+/-) before the
// target are skipped.
func message(text string) (diagram.Message, bool) {
	toks := lex.Tokenize(text, seqArrows)
	if len(toks) < 3 || toks[0].Kind != lex.Ident || toks[1].Kind != lex.Arrow {
		return diagram.Message{}, false
	}
	i := 2
	if toks[i].Is(lex.Punct, "+") || toks[i].Is(lex.Punct, "-") {
		i++
	}
	if i >= len(toks) || toks[i].Kind != lex.Ident {
		return diagram.Message{}, false
	}
	msg := diagram.Message{
		From:  toks[0].Text,
		To:    toks[i].Text,
		Reply: strings.HasPrefix(toks[1].Text, "--"),
	}
	if i+1 < len(toks) && toks[i+1].Kind == lex.Colon {
		msg.Text = after(text, toks[i+1])
	}
	return msg, true
}
