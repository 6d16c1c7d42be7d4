package nodelink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deckdown/diagramscene/pkg/diagram"
)

func TestToDOTFlowchart(t *testing.T) {
	m := &diagram.FlowchartModel{
		Direction: diagram.LeftToRight,
		Nodes: []diagram.FlowNode{
			{ID: "A", Label: "Start"},
			{ID: "B", Label: "Ok?", Shape: diagram.ShapeDiamond},
		},
		Edges:     []diagram.FlowEdge{{From: "A", To: "B", Label: "go", Style: diagram.ArrowDotted}},
		Subgraphs: []diagram.Subgraph{{ID: "one", Title: "One", Members: []string{"A"}}},
	}
	dot, err := ToDOT(m, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`subgraph "cluster_one"`,
		`"A" [label="Start", shape=box];`,
		`"B" [label="Ok?", shape=diamond];`,
		`"A" -> "B" [label="go", style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTState(t *testing.T) {
	m := &diagram.StateModel{
		States: []diagram.State{
			{ID: diagram.StartStateID, Kind: diagram.StateStart},
			{ID: "Idle"},
		},
		Transitions: []diagram.Transition{{From: diagram.StartStateID, To: "Idle"}},
	}
	dot, err := ToDOT(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `"[*]start" [label="", shape=circle`) {
		t.Errorf("start state not drawn as a dot:\n%s", dot)
	}
	if !strings.Contains(dot, `"[*]start" -> "Idle";`) {
		t.Errorf("transition missing:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	m := &diagram.ClassModel{
		Classes:   []diagram.Class{{Name: "Animal", Attributes: []string{"+name"}, Methods: []string{"+eat()"}}, {Name: "Dog"}},
		Relations: []diagram.ClassRelation{{From: "Dog", To: "Animal", Kind: diagram.Extends}},
	}
	plain, _ := ToDOT(m, Options{})
	if strings.Contains(plain, "+name") {
		t.Error("plain DOT should not list members")
	}
	detailed, _ := ToDOT(m, Options{Detailed: true})
	if !strings.Contains(detailed, `Animal\n--\n+name\n+eat()`) {
		t.Errorf("detailed DOT missing members:\n%s", detailed)
	}
	if !strings.Contains(detailed, "arrowhead=empty") {
		t.Error("inheritance should use an empty arrowhead")
	}

	er := &diagram.ERModel{
		Entities:  []diagram.Entity{{Name: "CUSTOMER", Attributes: []diagram.Attribute{{Type: "string", Name: "id", Key: "PK"}}}, {Name: "ORDER"}},
		Relations: []diagram.ERRelation{{From: "CUSTOMER", To: "ORDER", Label: "places", Cardinality: "||--o{"}},
	}
	dot, _ := ToDOT(er, Options{Detailed: true})
	if !strings.Contains(dot, `string id PK`) || !strings.Contains(dot, `label="places ||--o{"`) {
		t.Errorf("ER DOT:\n%s", dot)
	}
}

func TestToDOTMindmap(t *testing.T) {
	m := &diagram.MindmapModel{Root: "Root", Branches: []diagram.Branch{{Text: "A", Children: []string{"a1"}}}}
	dot, err := ToDOT(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `"root" -> "b0"`) || !strings.Contains(dot, `"b0" -> "b0.0"`) {
		t.Errorf("mindmap edges missing:\n%s", dot)
	}
}

func TestToDOTUnsupported(t *testing.T) {
	for _, m := range []diagram.Model{
		&diagram.PieModel{},
		&diagram.SequenceModel{},
		&diagram.GanttModel{},
		&diagram.TimelineModel{},
		&diagram.UnknownModel{},
		&diagram.MindmapModel{},
		nil,
	} {
		if _, err := ToDOT(m, Options{}); !errors.Is(err, ErrUnsupported) {
			t.Errorf("ToDOT(%T) err = %v, want ErrUnsupported", m, err)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	dot, _ := ToDOT(&diagram.FlowchartModel{
		Nodes: []diagram.FlowNode{{ID: "A", Label: "A"}, {ID: "B", Label: "B"}},
		Edges: []diagram.FlowEdge{{From: "A", To: "B"}},
	}, Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<?xml") && !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0`) {
		t.Errorf("unexpected SVG: %.200s", svg)
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg>"))) != "<svg>" {
		t.Error("SVG without viewBox should be unchanged")
	}
}
