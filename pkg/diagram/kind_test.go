package diagram

import "testing"

func TestDetectLine(t *testing.T) {
	tests := []struct {
		line string
		want Kind
	}{
		{"graph LR", Flowchart},
		{"flowchart TD", Flowchart},
		{"  Graph TB;", Flowchart},
		{"sequenceDiagram", Sequence},
		{"pie title Pets", Pie},
		{"gantt", Gantt},
		{"classDiagram", ClassDiagram},
		{"stateDiagram-v2", StateDiagram},
		{"erDiagram", ErDiagram},
		{"mindmap", Mindmap},
		{"timeline", Timeline},
		{"hello world", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := DetectLine(tt.line); got != tt.want {
				t.Errorf("DetectLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestDetectOrderedPrefixes(t *testing.T) {
	// "sequence" must win over "state" style prefixes and "er" catches
	// anything else starting with those letters.
	if got := DetectLine("sequence"); got != Sequence {
		t.Errorf("DetectLine(sequence) = %v, want %v", got, Sequence)
	}
	if got := DetectLine("error"); got != ErDiagram {
		t.Errorf("DetectLine(error) = %v, want %v", got, ErDiagram)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		hint string
		want Kind
	}{
		{"flowchart", Flowchart},
		{"class", ClassDiagram},
		{"sequenceDiagram", Sequence},
		{"ER", ErDiagram},
		{"", Unknown},
		{"bogus", Unknown},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.hint); got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.hint, got, tt.want)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range append(Kinds(), Unknown) {
		b, _ := k.MarshalText()
		var got Kind
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if got != k {
			t.Errorf("round trip %v = %v", k, got)
		}
	}
}

func TestStyleFor(t *testing.T) {
	if got := StyleFor(Sequence).Title; got != "Sequence Diagram" {
		t.Errorf("StyleFor(Sequence).Title = %q", got)
	}
	if got := StyleFor(Kind(99)).Accent; got != "757575" {
		t.Errorf("StyleFor(99).Accent = %q, want fallback", got)
	}
}

func TestKeywordKind(t *testing.T) {
	tests := []struct {
		word string
		want Kind
	}{
		{"graph", Flowchart},
		{"stateDiagram-v2", StateDiagram},
		{"erDiagram", ErDiagram},
		{"Mindmap", Mindmap},
		{"graphql", Unknown},
		{"erlang", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := KeywordKind(tt.word); got != tt.want {
			t.Errorf("KeywordKind(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
