package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expectedToken struct {
	kind  Kind
	text  string
	inner string
}

func runLexerTest(t *testing.T, line string, want []expectedToken, opts ...Option) []Token {
	t.Helper()
	toks := Tokenize(line, opts...)
	require.Len(t, toks, len(want), "token count for %q: %+v", line, toks)
	for i, exp := range want {
		assert.Equal(t, exp.kind, toks[i].Kind, "Test %d: kind mismatch (%q)", i, toks[i].Text)
		assert.Equal(t, exp.text, toks[i].Text, "Test %d: text mismatch", i)
		if exp.inner != "" {
			assert.Equal(t, exp.inner, toks[i].Inner, "Test %d: inner mismatch", i)
		}
	}
	return toks
}

func TestFlowchartEdge(t *testing.T) {
	toks := runLexerTest(t, `A[Start here] -->|yes| B((End))`, []expectedToken{
		{Ident, "A", ""},
		{Group, "[Start here]", "Start here"},
		{Arrow, "-->", ""},
		{Pipe, "|yes|", "yes"},
		{Ident, "B", ""},
		{Group, "((End))", "End"},
	}, WithArrows("-->", "---", "->"))
	assert.Equal(t, "[", toks[1].Delim)
	assert.Equal(t, "((", toks[5].Delim)
	assert.Equal(t, 1, toks[1].Pos)
	assert.Equal(t, 13, toks[1].End)
}

func TestLongestArrowWins(t *testing.T) {
	runLexerTest(t, "A-.->B==>C", []expectedToken{
		{Ident, "A", ""},
		{Arrow, "-.->", ""},
		{Ident, "B", ""},
		{Arrow, "==>", ""},
		{Ident, "C", ""},
	}, WithArrows("->", "-.->", "==>", "-->"))
}

func TestGroupDelimiters(t *testing.T) {
	tests := []struct {
		line  string
		delim string
		inner string
	}{
		{"([stadium])", "([", "stadium"},
		{"{{hex}}", "{{", "hex"},
		{"{choice}", "{", "choice"},
		{"(round)", "(", "round"},
		{"[*]", "[", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			toks := Tokenize(tt.line)
			require.Len(t, toks, 1)
			assert.Equal(t, Group, toks[0].Kind)
			assert.Equal(t, tt.delim, toks[0].Delim)
			assert.Equal(t, tt.inner, toks[0].Inner)
		})
	}
}

func TestUnmatchedBrackets(t *testing.T) {
	runLexerTest(t, "class Animal {", []expectedToken{
		{Ident, "class", ""},
		{Ident, "Animal", ""},
		{Open, "{", ""},
	})
	runLexerTest(t, "}", []expectedToken{{Close, "}", ""}})
}

func TestSequenceMessage(t *testing.T) {
	l := New("Alice->>Bob: Hello there", WithArrows("->>", "-->>"))
	assert.Equal(t, Token{Kind: Ident, Text: "Alice", Pos: 0, End: 5}, l.Next())
	assert.Equal(t, "->>", l.Next().Text)
	assert.Equal(t, "Bob", l.Next().Text)
	assert.Equal(t, Colon, l.Next().Kind)
	assert.Equal(t, "Hello there", l.Rest())
}

func TestRelations(t *testing.T) {
	runLexerTest(t, `CUSTOMER ||--o{ ORDER : "places"`, []expectedToken{
		{Ident, "CUSTOMER", ""},
		{Arrow, "||--o{", ""},
		{Ident, "ORDER", ""},
		{Colon, ":", ""},
		{String, `"places"`, "places"},
	}, WithRelations())

	runLexerTest(t, "order }o..o| item", []expectedToken{
		{Ident, "order", ""},
		{Arrow, "}o..o|", ""},
		{Ident, "item", ""},
	}, WithRelations())
}

func TestRelationsDoNotEatIdentifiers(t *testing.T) {
	runLexerTest(t, "owner {", []expectedToken{
		{Ident, "owner", ""},
		{Open, "{", ""},
	}, WithRelations())
}

func TestCommentAndStrings(t *testing.T) {
	runLexerTest(t, `"Dogs" : 386 %% trailing`, []expectedToken{
		{String, `"Dogs"`, "Dogs"},
		{Colon, ":", ""},
		{Ident, "386", ""},
		{Comment, "%% trailing", ""},
	})
	toks := Tokenize(`"unterminated`)
	require.Len(t, toks, 1)
	assert.Equal(t, "unterminated", toks[0].Inner)
}

func TestUnicodeIdentifiers(t *testing.T) {
	runLexerTest(t, "Überblick --> Ende", []expectedToken{
		{Ident, "Überblick", ""},
		{Arrow, "-->", ""},
		{Ident, "Ende", ""},
	}, WithArrows("-->"))
}

func TestEmptyLine(t *testing.T) {
	assert.Empty(t, Tokenize("   "))
	assert.Equal(t, EOF, New("").Next().Kind)
}

func TestRelationsHyphenatedNames(t *testing.T) {
	runLexerTest(t, "ORDER ||--|{ LINE-ITEM : contains", []expectedToken{
		{Ident, "ORDER", ""},
		{Arrow, "||--|{", ""},
		{Ident, "LINE-ITEM", ""},
		{Colon, ":", ""},
		{Ident, "contains", ""},
	}, WithRelations())
}
