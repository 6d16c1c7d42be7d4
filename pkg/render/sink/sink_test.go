package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		Kind: diagram.Flowchart,
		Shapes: []scene.Shape{
			{ID: 10, Kind: scene.Rectangle, X: 0, Y: 0, Width: 952500, Height: 476250, FillColor: "FFFFFF", LineColor: "1565C0", LineWidth: 25400, Text: "A & B"},
			{ID: 11, Kind: scene.Diamond, X: 1905000, Y: 0, Width: 952500, Height: 476250, FillColor: "1A237E", Text: "dark"},
			{ID: 12, Kind: scene.RoundedRectangle, X: 1200000, Y: 100000, Width: 400000, Height: 200000, Text: "yes"},
		},
		Connectors: []scene.Connector{{
			ID: 13, Routing: scene.Straight,
			StartX: 952500, StartY: 238125, EndX: 1905000, EndY: 238125,
			StartAnchor: &scene.Anchor{ShapeID: 10, Side: scene.Right},
			EndAnchor:   &scene.Anchor{ShapeID: 11, Side: scene.Left},
			LineColor:   "757575", LineWidth: 19050, Dash: scene.Dashed, EndArrow: scene.ArrowTriangle,
		}},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testScene()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`data-kind="flowchart"`,
		`<g id="shape-10" class="rectangle"><rect x="0.0" y="0.0" width="100.0" height="50.0"`,
		`stroke="#1565C0" stroke-width="2.67"`,
		`A &amp; B`,
		`<polygon points="250.0,0.0 300.0,25.0 250.0,50.0 200.0,25.0"`,
		`fill="#FFFFFF" text-anchor="middle"`,
		`stroke-dasharray="6 4"`,
		`marker-end="url(#m-triangle)"`,
		`<line x1="100.0" y1="25.0" x2="200.0" y2="25.0"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGDrawsEdgeLabelsLast(t *testing.T) {
	s := testScene()
	// move the label onto the connector midpoint
	s.Shapes[2].X = (952500+1905000)/2 - 200000
	s.Shapes[2].Y = 238125 - 100000
	svg := string(RenderSVG(s))

	conn := strings.Index(svg, `id="connector-13"`)
	label := strings.Index(svg, `id="shape-12"`)
	if conn < 0 || label < 0 || label < conn {
		t.Errorf("label at %d should follow connector at %d", label, conn)
	}
}

func TestRenderSVGViewBox(t *testing.T) {
	svg := string(RenderSVG(testScene(), WithPadding(0), WithBackground("FAFAFA")))
	if !strings.Contains(svg, `viewBox="0.0 0.0 300.0 50.0"`) {
		t.Errorf("unexpected viewBox in %s", svg[:200])
	}
	if !strings.Contains(svg, `fill="#FAFAFA"`) {
		t.Error("background not drawn")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(&scene.Scene{}))
	if strings.Contains(svg, "<g id=") {
		t.Error("empty scene should draw nothing")
	}
}

func TestRenderSVGShapes(t *testing.T) {
	tests := []struct {
		shape scene.Shape
		want  string
	}{
		{scene.Shape{Kind: scene.Ellipse, Width: 190500, Height: 95250}, `<ellipse cx="10.0" cy="5.0" rx="10.0" ry="5.0"`},
		{scene.Shape{Kind: scene.RoundedRectangle, Width: 190500, Height: 95250}, `rx="2.0"`},
		{scene.Shape{Kind: scene.Hexagon, Width: 381000, Height: 95250}, `<polygon points="10.0,0.0 30.0,0.0 40.0,5.0`},
		{scene.Shape{Kind: scene.RightArrow, Width: 952500, Height: 95250}, `<polygon points="0.0,2.5 90.0,2.5 90.0,0.0 100.0,5.0`},
		{scene.Shape{Kind: scene.LeftArrow, Width: 952500, Height: 95250}, `<polygon points="100.0,2.5 10.0,2.5 10.0,0.0 0.0,5.0`},
		{scene.Shape{Kind: scene.Ellipse, Width: 190500, Height: 190500, Arc: &scene.Arc{Start: -90, Sweep: 90}}, `<path d="M10.0,10.0 L10.0,0.0 A10.0,10.0 0 0,1 20.0,10.0 z"`},
	}
	for _, tt := range tests {
		t.Run(tt.shape.Kind.String(), func(t *testing.T) {
			svg := string(RenderSVG(&scene.Scene{Shapes: []scene.Shape{tt.shape}}, WithPadding(0)))
			if !strings.Contains(svg, tt.want) {
				t.Errorf("SVG missing %q:\n%s", tt.want, svg)
			}
		})
	}
}

func TestElbow(t *testing.T) {
	c := scene.Connector{StartAnchor: &scene.Anchor{Side: scene.Bottom}}
	got := elbow(c, 0, 0, 10, 20)
	want := []float64{0, 0, 0, 10, 10, 10, 10, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("elbow = %v, want %v", got, want)
		}
	}
	got = elbow(scene.Connector{}, 0, 0, 20, 10)
	if got[2] != 10 || got[3] != 0 {
		t.Errorf("free elbow should bend horizontally first: %v", got)
	}
}

func TestTextColor(t *testing.T) {
	tests := map[string]string{
		"":       "000000",
		"FFFFFF": "000000",
		"000000": "FFFFFF",
		"1A237E": "FFFFFF",
		"FFF3E0": "000000",
		"zz":     "000000",
	}
	for fill, want := range tests {
		if got := textColor(fill); got != want {
			t.Errorf("textColor(%q) = %s, want %s", fill, got, want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testScene(), WithSource("README.md#2"), WithIndent())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["kind"] != "flowchart" || doc["source"] != "README.md#2" {
		t.Errorf("doc = %v", doc)
	}
	if b := doc["bounds"].([]any); b[2].(float64) != 2857500 {
		t.Errorf("bounds = %v", b)
	}
	shapes := doc["shapes"].([]any)
	if shapes[1].(map[string]any)["kind"] != "diamond" {
		t.Errorf("shape kind = %v", shapes[1])
	}

	back, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(back.Shapes) != 3 || back.Connectors[0].EndAnchor.ShapeID != 11 || back.Connectors[0].Dash != scene.Dashed {
		t.Errorf("ReadJSON = %+v", back)
	}
}

func TestRenderJSONEmptyArrays(t *testing.T) {
	data, err := RenderJSON(&scene.Scene{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"shapes":[]`) || !strings.Contains(string(data), `"connectors":[]`) {
		t.Errorf("want empty arrays, got %s", data)
	}
}

func TestReadJSONRejectsDanglingAnchor(t *testing.T) {
	in := `{"kind":"state","shapes":[{"id":10}],"connectors":[{"routing":"straight","dash":"solid","startArrow":"none","endArrow":"none","endAnchor":{"shape":99,"side":"top"}}]}`
	_, err := ReadJSON(strings.NewReader(in))
	if !errors.Is(err, scene.ErrDanglingAnchor) {
		t.Errorf("ReadJSON err = %v, want ErrDanglingAnchor", err)
	}
}
