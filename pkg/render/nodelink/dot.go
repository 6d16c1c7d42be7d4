package nodelink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/render"
)

// ErrUnsupported is returned for diagram kinds without a graph form.
var ErrUnsupported = errors.New("diagram kind has no node-link form")

// Options configures DOT generation.
type Options struct {
	// Detailed adds class members and entity attributes to node labels.
	Detailed bool
}

var dotShapes = map[diagram.NodeShape]string{
	diagram.ShapeRectangle:   `shape=box`,
	diagram.ShapeRoundedRect: `shape=box, style="rounded,filled"`,
	diagram.ShapeStadium:     `shape=box, style="rounded,filled"`,
	diagram.ShapeDiamond:     `shape=diamond`,
	diagram.ShapeCircle:      `shape=circle`,
	diagram.ShapeHexagon:     `shape=hexagon`,
}

var dotEdges = map[diagram.ArrowStyle]string{
	diagram.ArrowSolid:  ``,
	diagram.ArrowOpen:   `arrowhead=none`,
	diagram.ArrowDotted: `style=dashed`,
	diagram.ArrowThick:  `penwidth=3`,
}

var rankdirs = map[diagram.Direction]string{
	diagram.TopToBottom: "TB",
	diagram.LeftToRight: "LR",
	diagram.RightToLeft: "RL",
	diagram.BottomToTop: "BT",
}

// ToDOT converts m to Graphviz DOT source.
func ToDOT(m diagram.Model, opts Options) (string, error) {
	w := &dotWriter{}
	switch m := m.(type) {
	case *diagram.FlowchartModel:
		w.header(rankdirs[m.Direction], m.Title)
		for _, sg := range m.Subgraphs {
			fmt.Fprintf(&w.buf, "  subgraph %q {\n    label=%q;\n    style=\"rounded,filled\";\n    fillcolor=\"#F5F5F5\";\n", "cluster_"+sg.ID, sg.Title)
			for _, id := range sg.Members {
				fmt.Fprintf(&w.buf, "    %q;\n", id)
			}
			w.buf.WriteString("  }\n")
		}
		for _, n := range m.Nodes {
			w.node(n.ID, n.Label, dotShapes[n.Shape])
		}
		for _, e := range m.Edges {
			w.edge(e.From, e.To, e.Label, dotEdges[e.Style])
		}
	case *diagram.StateModel:
		w.header("TB", m.Title)
		for _, s := range m.States {
			switch s.Kind {
			case diagram.StateStart:
				w.node(s.ID, "", `shape=circle, style=filled, fillcolor=black, width=0.25`)
			case diagram.StateEnd:
				w.node(s.ID, "", `shape=doublecircle, style=filled, fillcolor=black, width=0.2`)
			default:
				w.node(s.ID, s.ID, `style="rounded,filled"`)
			}
		}
		for _, t := range m.Transitions {
			w.edge(t.From, t.To, t.Label, "")
		}
	case *diagram.ClassModel:
		w.header("BT", m.Title)
		for _, c := range m.Classes {
			label := c.Name
			if opts.Detailed {
				label = strings.Join(append(append([]string{c.Name, "--"}, c.Attributes...), c.Methods...), "\n")
			}
			w.node(c.Name, label, "")
		}
		for _, r := range m.Relations {
			attrs := map[diagram.RelationKind]string{
				diagram.Extends:    `arrowhead=empty`,
				diagram.Uses:       `arrowhead=vee, style=dashed`,
				diagram.Associates: `arrowhead=none`,
			}[r.Kind]
			w.edge(r.From, r.To, r.Label, attrs)
		}
	case *diagram.ERModel:
		w.header("LR", m.Title)
		for _, e := range m.Entities {
			label := e.Name
			if opts.Detailed {
				lines := []string{e.Name, "--"}
				for _, a := range e.Attributes {
					lines = append(lines, strings.Join(strings.Fields(a.Type+" "+a.Name+" "+a.Key), " "))
				}
				label = strings.Join(lines, "\n")
			}
			w.node(e.Name, label, "")
		}
		for _, r := range m.Relations {
			label := r.Label
			if opts.Detailed && r.Cardinality != "" {
				label = strings.TrimSpace(label + " " + r.Cardinality)
			}
			w.edge(r.From, r.To, label, `arrowhead=none`)
		}
	case *diagram.MindmapModel:
		if m.Root == "" {
			return "", fmt.Errorf("mindmap: %w", ErrUnsupported)
		}
		w.header("LR", m.Title)
		w.node("root", m.Root, `shape=ellipse, style=filled, fillcolor="#3949AB", fontcolor=white`)
		for i, b := range m.Branches {
			key := "b" + strconv.Itoa(i)
			w.node(key, b.Text, "")
			w.edge("root", key, "", `arrowhead=none`)
			for j, c := range b.Children {
				ckey := key + "." + strconv.Itoa(j)
				w.node(ckey, c, "")
				w.edge(key, ckey, "", `arrowhead=none`)
			}
		}
	default:
		kind := diagram.Unknown
		if m != nil {
			kind = m.Kind()
		}
		return "", fmt.Errorf("%s: %w", kind, ErrUnsupported)
	}
	w.buf.WriteString("}\n")
	return w.buf.String(), nil
}

type dotWriter struct {
	buf bytes.Buffer
}

func (w *dotWriter) header(rankdir, title string) {
	w.buf.WriteString("digraph G {\n")
	fmt.Fprintf(&w.buf, "  rankdir=%s;\n", rankdir)
	w.buf.WriteString("  bgcolor=\"transparent\";\n")
	w.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	w.buf.WriteString("  ranksep=0.5;\n")
	w.buf.WriteString("  nodesep=0.3;\n")
	if title != "" {
		fmt.Fprintf(&w.buf, "  label=%q;\n  labelloc=t;\n", title)
	}
	w.buf.WriteString("\n")
}

func (w *dotWriter) node(id, label, attrs string) {
	parts := []string{fmt.Sprintf("label=%q", label)}
	if attrs != "" {
		parts = append(parts, attrs)
	}
	fmt.Fprintf(&w.buf, "  %q [%s];\n", id, strings.Join(parts, ", "))
}

func (w *dotWriter) edge(from, to, label, attrs string) {
	var parts []string
	if label != "" {
		parts = append(parts, fmt.Sprintf("label=%q", label))
	}
	if attrs != "" {
		parts = append(parts, attrs)
	}
	if len(parts) == 0 {
		fmt.Fprintf(&w.buf, "  %q -> %q;\n", from, to)
		return
	}
	fmt.Fprintf(&w.buf, "  %q -> %q [%s];\n", from, to, strings.Join(parts, ", "))
}

// RenderSVG lays out and renders DOT source to SVG with Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a pixel
// one whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF. Requires rsvg-convert.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG at scale. Requires rsvg-convert.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
