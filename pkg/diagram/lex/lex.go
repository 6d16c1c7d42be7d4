// Package lex tokenizes single lines of diagram text.
//
// Every per-kind parser shares this tokenizer instead of probing raw
// substrings. A [Lexer] is configured with the arrow operators of the
// diagram kind being parsed ([WithArrows]) and, for entity-relationship
// diagrams, with cardinality operators ([WithRelations]).
//
// Tokens carry byte offsets into the line so parsers can slice free text,
// such as a message after a colon, directly from the source.
package lex

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the class of a [Token].
type Kind int

const (
	EOF     Kind = iota
	Ident        // run of letters, digits and underscores
	String       // double-quoted text; Inner holds the unquoted value
	Group        // bracket pair such as [text] or ((text)); Delim holds the opener
	Arrow        // a configured arrow or relation operator
	Colon        // ':'
	Pipe         // |text| edge label; Inner holds the text
	Comment      // "%%" to end of line
	Open         // an opening bracket without a matching closer on the line
	Close        // a closing bracket outside any group
	Punct        // any other single rune
)

var kindNames = [...]string{"EOF", "Ident", "String", "Group", "Arrow", "Colon", "Pipe", "Comment", "Open", "Close", "Punct"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Token is one lexical unit of a line.
type Token struct {
	Kind  Kind
	Text  string // raw token text
	Inner string // content of a Group, String or Pipe
	Delim string // opening delimiter of a Group
	Pos   int    // byte offset of the first character
	End   int    // byte offset just past the token
}

// Is reports whether the token has kind k and, when text is non-empty, the
// given raw text.
func (t Token) Is(k Kind, text string) bool {
	return t.Kind == k && (text == "" || t.Text == text)
}

// groups lists bracket pairs, longer openers first so "((" wins over "(".
var groups = []struct{ open, close string }{
	{"((", "))"},
	{"([", "])"},
	{"[(", ")]"},
	{"[[", "]]"},
	{"{{", "}}"},
	{"[", "]"},
	{"(", ")"},
	{"{", "}"},
}

// Lexer scans one line.
type Lexer struct {
	src       string
	pos       int
	arrows    []string
	relations bool
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithArrows registers arrow operators. Longer operators are tried first.
func WithArrows(ops ...string) Option {
	return func(l *Lexer) {
		l.arrows = append(l.arrows, ops...)
	}
}

// WithRelations enables entity-relationship cardinality operators such as
// "||--o{" and "}|..|{". They are reported as [Arrow] tokens. Identifiers
// may then contain inner hyphens ("LINE-ITEM").
func WithRelations() Option {
	return func(l *Lexer) { l.relations = true }
}

// New returns a lexer over line.
func New(line string, opts ...Option) *Lexer {
	l := &Lexer{src: line}
	for _, opt := range opts {
		opt(l)
	}
	sort.SliceStable(l.arrows, func(i, j int) bool {
		return len(l.arrows[i]) > len(l.arrows[j])
	})
	return l
}

// Tokenize returns every token of line, excluding the trailing EOF.
func Tokenize(line string, opts ...Option) []Token {
	l := New(line, opts...)
	var toks []Token
	for {
		t := l.Next()
		if t.Kind == EOF {
			return toks
		}
		toks = append(toks, t)
	}
}

// Next returns the next token, or an EOF token at the end of the line.
func (l *Lexer) Next() Token {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Pos: l.pos, End: l.pos}
	}
	rest := l.src[l.pos:]

	if strings.HasPrefix(rest, "%%") {
		return l.emit(Comment, len(rest))
	}
	if l.relations {
		if n := relationLen(rest); n > 0 {
			return l.emit(Arrow, n)
		}
	}
	for _, op := range l.arrows {
		if strings.HasPrefix(rest, op) {
			return l.emit(Arrow, len(op))
		}
	}

	r, w := utf8.DecodeRuneInString(rest)
	switch {
	case isWord(r):
		n := 0
		for n < len(rest) {
			r, w := utf8.DecodeRuneInString(rest[n:])
			if !isWord(r) && !(l.relations && r == '-' && n+1 < len(rest) && isWordByte(rest[n+1])) {
				break
			}
			n += w
		}
		return l.emit(Ident, n)
	case r == '"':
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			t := l.emit(String, len(rest))
			t.Inner = rest[1:]
			return t
		}
		t := l.emit(String, end+2)
		t.Inner = rest[1 : end+1]
		return t
	case r == ':':
		return l.emit(Colon, 1)
	case r == '|':
		if end := strings.IndexByte(rest[1:], '|'); end >= 0 {
			t := l.emit(Pipe, end+2)
			t.Inner = strings.TrimSpace(rest[1 : end+1])
			return t
		}
		return l.emit(Punct, 1)
	case r == '[' || r == '(' || r == '{':
		for _, g := range groups {
			if !strings.HasPrefix(rest, g.open) {
				continue
			}
			end := strings.Index(rest[len(g.open):], g.close)
			if end < 0 {
				continue
			}
			t := l.emit(Group, len(g.open)+end+len(g.close))
			t.Delim = g.open
			t.Inner = rest[len(g.open) : len(g.open)+end]
			return t
		}
		return l.emit(Open, 1)
	case r == ']' || r == ')' || r == '}':
		return l.emit(Close, 1)
	}
	return l.emit(Punct, w)
}

// Rest returns the unread remainder of the line, trimmed.
func (l *Lexer) Rest() string {
	return strings.TrimSpace(l.src[l.pos:])
}

func (l *Lexer) emit(k Kind, n int) Token {
	t := Token{Kind: k, Text: l.src[l.pos : l.pos+n], Pos: l.pos, End: l.pos + n}
	l.pos += n
	return t
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, w := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += w
	}
}

// isWordByte reports whether b starts a word rune; non-ASCII bytes count.
func isWordByte(b byte) bool {
	return b >= utf8.RuneSelf || isWord(rune(b))
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// relationLen returns the length of a cardinality operator at the start of
// s, or 0. An operator is a run of the characters |o{}-. containing "--"
// or "..".
func relationLen(s string) int {
	n := 0
	for n < len(s) && strings.IndexByte("|o{}-.", s[n]) >= 0 {
		n++
	}
	run := s[:n]
	if n < 4 || !(strings.Contains(run, "--") || strings.Contains(run, "..")) {
		return 0
	}
	// Operators end in "|", "{" or "}"; anything after belongs to the next token.
	for n > 0 && strings.IndexByte("|{}", s[n-1]) < 0 {
		n--
	}
	if n < 4 {
		return 0
	}
	return n
}
