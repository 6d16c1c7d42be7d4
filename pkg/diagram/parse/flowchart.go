package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/diagram/lex"
)

var flowArrows = lex.WithArrows("==>", "===", "-.->", "-.-", "-->", "---", "->")

var arrowStyles = map[string]diagram.ArrowStyle{
	"==>":  diagram.ArrowThick,
	"===":  diagram.ArrowThick,
	"-.->": diagram.ArrowDotted,
	"-.-":  diagram.ArrowDotted,
	"-->":  diagram.ArrowSolid,
	"->":   diagram.ArrowSolid,
	"---":  diagram.ArrowOpen,
}

var nodeShapes = map[string]diagram.NodeShape{
	"((": diagram.ShapeCircle,
	"([": diagram.ShapeStadium,
	"{{": diagram.ShapeHexagon,
	"[":  diagram.ShapeRectangle,
	"[[": diagram.ShapeRectangle,
	"[(": diagram.ShapeRectangle,
	"(":  diagram.ShapeRoundedRect,
	"{":  diagram.ShapeDiamond,
}

// styling statements carry no structure and are skipped.
var flowIgnored = []string{"classDef", "class", "style", "linkStyle", "click", "direction"}

type flowParser struct {
	m     *diagram.FlowchartModel
	nodes map[string]int // id -> index into m.Nodes
	stack []int          // open subgraphs, innermost last
}

func parseFlowchart(src *diagram.Source) diagram.Model {
	p := &flowParser{
		m:     &diagram.FlowchartModel{Meta: diagram.Meta{Title: src.Title}},
		nodes: make(map[string]int),
	}
	p.m.Direction = flowDirection(src.Header)

	for _, line := range src.Lines {
		p.line(line.Text)
	}
	return p.m
}

// flowDirection reads LR/RL/BT/TD from the header; anything else flows top to bottom.
func flowDirection(header string) diagram.Direction {
	fields := strings.Fields(strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(header), ";")))
	if len(fields) < 2 {
		return diagram.TopToBottom
	}
	switch strings.TrimSuffix(fields[1], ";") {
	case "LR":
		return diagram.LeftToRight
	case "RL":
		return diagram.RightToLeft
	case "BT":
		return diagram.BottomToTop
	default:
		return diagram.TopToBottom
	}
}

func (p *flowParser) line(text string) {
	if rest, ok := keyword(text, "subgraph"); ok {
		p.openSubgraph(rest)
		return
	}
	if strings.TrimSuffix(text, ";") == "end" {
		if n := len(p.stack); n > 0 {
			p.stack = p.stack[:n-1]
		}
		return
	}
	if ignored(text, flowIgnored) {
		return
	}
	p.statement(lex.Tokenize(text, flowArrows))
}

func (p *flowParser) openSubgraph(rest string) {
	sg := diagram.Subgraph{ID: rest, Title: rest}
	toks := lex.Tokenize(rest)
	if len(toks) == 2 && toks[0].Kind == lex.Ident && toks[1].Kind == lex.Group {
		sg.ID = toks[0].Text
		sg.Title = unquote(toks[1].Inner)
	}
	p.m.Subgraphs = append(p.m.Subgraphs, sg)
	p.stack = append(p.stack, len(p.m.Subgraphs)-1)
}

// statement handles a node declaration or a chain of edges:
// A[label] -->|text| B --> C
func (p *flowParser) statement(toks []lex.Token) {
	from, i, ok := p.nodeRef(toks, 0)
	if !ok {
		return
	}
	for i < len(toks) && toks[i].Kind == lex.Arrow {
		style := arrowStyles[toks[i].Text]
		i++
		label := ""
		if i < len(toks) && toks[i].Kind == lex.Pipe {
			label = toks[i].Inner
			i++
		}
		to, next, ok := p.nodeRef(toks, i)
		if !ok {
			return
		}
		p.m.Edges = append(p.m.Edges, diagram.FlowEdge{From: from, To: to, Label: label, Style: style})
		from, i = to, next
	}
}

// nodeRef reads "id" or "id<bracket>label<bracket>" at toks[i], registering
// the node, and returns its id and the index after it.
func (p *flowParser) nodeRef(toks []lex.Token, i int) (string, int, bool) {
	if i >= len(toks) || toks[i].Kind != lex.Ident {
		return "", i, false
	}
	id := toks[i].Text
	i++

	shape, label := diagram.ShapeRectangle, id
	if i < len(toks) && toks[i].Kind == lex.Group {
		if s, ok := nodeShapes[toks[i].Delim]; ok {
			shape, label = s, unquote(toks[i].Inner)
		}
		if label == "" {
			label = id
		}
		i++
	}
	p.register(id, label, shape)
	return id, i, true
}

// register adds a node on first sight. The first occurrence wins, so a bare
// reference fixes the label to the id even if a bracketed form follows.
func (p *flowParser) register(id, label string, shape diagram.NodeShape) {
	if _, ok := p.nodes[id]; ok {
		return
	}
	p.nodes[id] = len(p.m.Nodes)
	p.m.Nodes = append(p.m.Nodes, diagram.FlowNode{ID: id, Label: label, Shape: shape})
	if n := len(p.stack); n > 0 {
		sg := &p.m.Subgraphs[p.stack[n-1]]
		sg.Members = append(sg.Members, id)
	}
}
