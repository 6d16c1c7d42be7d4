package diagram

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// tabWidth is the number of spaces a leading tab counts for in [Line.Indent].
const tabWidth = 4

// Line is one meaningful body line of diagram text.
type Line struct {
	// Text is the line with surrounding whitespace removed.
	Text string
	// Indent is the count of leading spaces (tabs count as four).
	Indent int
	// No is the 1-based line number in the original text.
	No int
}

// Source is diagram text split into its parts.
type Source struct {
	// Kind is the detected kind, or the hinted kind when a hint was given.
	Kind Kind
	// Header is the recognized header line ("graph LR", "pie title Pets").
	// It is empty when a hint was given and no header line was present.
	Header string
	// First is the first non-blank, non-comment line, used for placeholders.
	First string
	// Title is the title declared in YAML front matter, if any.
	Title string
	// Lines are the body lines after the header. Blank lines and "%%"
	// comment lines are dropped.
	Lines []Line
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// Detect classifies diagram text by its first non-blank line. Text that is
// empty or whose first line matches no keyword is Unknown.
func Detect(text string) Kind {
	return Split(text, "").Kind
}

// Split breaks diagram text into header and body. A non-empty hint that
// names a known kind overrides detection; an unrecognized hint is ignored.
// Split never fails: malformed front matter is treated as ordinary lines.
func Split(text, hint string) *Source {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	src := &Source{}

	start, title := skipFrontMatter(raw)
	src.Title = title

	var body []Line
	for i := start; i < len(raw); i++ {
		t := strings.TrimSpace(raw[i])
		if t == "" || strings.HasPrefix(t, "%%") {
			continue
		}
		body = append(body, Line{Text: t, Indent: indentOf(raw[i]), No: i + 1})
	}
	if len(body) == 0 {
		src.Kind = ParseKind(hint)
		return src
	}

	src.First = body[0].Text
	detected := DetectLine(body[0].Text)
	src.Kind = detected
	if k := ParseKind(hint); k != Unknown {
		// With a hint the body may start with content, so only a whole
		// keyword counts as a header.
		detected = headerKind(body[0].Text)
		src.Kind = k
	}

	switch {
	case detected != Unknown:
		src.Header = body[0].Text
		src.Lines = body[1:]
	case src.Kind != Unknown:
		src.Lines = body
	default:
		src.Lines = body[1:]
	}
	return src
}

// statementWords are short header keywords that also open body statements,
// as in "class Animal" or "state Idle".
var statementWords = map[string]bool{"class": true, "state": true}

// headerKind matches the first word of line exactly against the header
// keywords, so "Pieces" or "error --> retry" are not taken for headers.
func headerKind(line string) Kind {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Unknown
	}
	word := strings.TrimSuffix(fields[0], ";")
	if len(fields) > 1 && statementWords[strings.ToLower(word)] {
		return Unknown
	}
	return KeywordKind(word)
}

// skipFrontMatter returns the index of the first line after a leading
// "---" delimited block and the title it declares.
func skipFrontMatter(raw []string) (int, string) {
	first := -1
	for i, l := range raw {
		if strings.TrimSpace(l) != "" {
			first = i
			break
		}
	}
	if first < 0 || strings.TrimSpace(raw[first]) != "---" {
		return 0, ""
	}
	for j := first + 1; j < len(raw); j++ {
		if strings.TrimSpace(raw[j]) != "---" {
			continue
		}
		var fm frontMatter
		if err := yaml.Unmarshal([]byte(strings.Join(raw[first+1:j], "\n")), &fm); err != nil {
			return j + 1, ""
		}
		return j + 1, strings.TrimSpace(fm.Title)
	}
	return 0, ""
}

func indentOf(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ':
			n++
		case '\t':
			n += tabWidth
		default:
			return n
		}
	}
	return n
}
