package diagram

import "strings"

// Kind identifies the diagram family of a piece of diagram text.
type Kind int

// Diagram kinds. Unknown is the zero value and covers any text whose header
// line is not recognized.
const (
	Unknown Kind = iota
	Flowchart
	Sequence
	Pie
	Gantt
	ClassDiagram
	StateDiagram
	ErDiagram
	Mindmap
	Timeline
)

var kindNames = [...]string{
	Unknown:      "unknown",
	Flowchart:    "flowchart",
	Sequence:     "sequence",
	Pie:          "pie",
	Gantt:        "gantt",
	ClassDiagram: "class",
	StateDiagram: "state",
	ErDiagram:    "er",
	Mindmap:      "mindmap",
	Timeline:     "timeline",
}

// String returns the short lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name; unrecognized names decode to Unknown.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// Kinds lists every recognized kind in keyword-table order.
func Kinds() []Kind {
	return []Kind{Flowchart, Sequence, Pie, Gantt, ClassDiagram, StateDiagram, ErDiagram, Mindmap, Timeline}
}

// keywords is the ordered header keyword table. Matching is by prefix of the
// lowercased header line and the first match wins, so "sequence" must be
// tested before "state" and longer forms before their abbreviations.
var keywords = []struct {
	prefix string
	kind   Kind
}{
	{"graph", Flowchart},
	{"flowchart", Flowchart},
	{"sequencediagram", Sequence},
	{"sequence", Sequence},
	{"pie", Pie},
	{"gantt", Gantt},
	{"classdiagram", ClassDiagram},
	{"class", ClassDiagram},
	{"statediagram", StateDiagram},
	{"state", StateDiagram},
	{"erdiagram", ErDiagram},
	{"er", ErDiagram},
	{"mindmap", Mindmap},
	{"timeline", Timeline},
}

// DetectLine classifies a single header line.
func DetectLine(line string) Kind {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, kw := range keywords {
		if strings.HasPrefix(l, kw.prefix) {
			return kw.kind
		}
	}
	return Unknown
}

// ParseKind resolves a kind hint such as "flowchart", "sequenceDiagram" or
// "er". Header-style hints go through the keyword table; short names accepted
// by [Kind.String] round-trip.
func ParseKind(hint string) Kind {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return Unknown
	}
	for k, name := range kindNames {
		if h == name {
			return Kind(k)
		}
	}
	return DetectLine(h)
}

// Style holds the presentation defaults for a kind: a pale background, an
// accent color and a human-readable title.
type Style struct {
	Background string
	Accent     string
	Title      string
}

var styles = map[Kind]Style{
	Flowchart:    {"E3F2FD", "1565C0", "Flowchart"},
	Sequence:     {"F3E5F5", "7B1FA2", "Sequence Diagram"},
	Pie:          {"FFF8E1", "FF8F00", "Pie Chart"},
	Gantt:        {"E8F5E9", "2E7D32", "Gantt Chart"},
	ClassDiagram: {"FFF3E0", "E65100", "Class Diagram"},
	StateDiagram: {"E0F7FA", "00838F", "State Diagram"},
	ErDiagram:    {"FCE4EC", "C2185B", "ER Diagram"},
	Mindmap:      {"E8EAF6", "3949AB", "Mind Map"},
	Timeline:     {"EFEBE9", "5D4037", "Timeline"},
	Unknown:      {"F5F5F5", "757575", "Diagram"},
}

// StyleFor returns the presentation defaults for k.
func StyleFor(k Kind) Style {
	if s, ok := styles[k]; ok {
		return s
	}
	return styles[Unknown]
}

// KeywordKind resolves a single word that exactly equals a header keyword,
// ignoring case and a "-v2" suffix. Unlike [DetectLine] it does not match by
// prefix, so "graphql" and "erlang" are Unknown.
func KeywordKind(word string) Kind {
	w := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(word)), "-v2")
	for _, kw := range keywords {
		if w == kw.prefix {
			return kw.kind
		}
	}
	return Unknown
}
