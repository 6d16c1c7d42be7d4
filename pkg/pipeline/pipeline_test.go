package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/deckdown/diagramscene/pkg/cache"
	"github.com/deckdown/diagramscene/pkg/diagram"
	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/layout"
	"github.com/deckdown/diagramscene/pkg/scene"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateHint(t *testing.T) {
	tests := []struct {
		hint    string
		wantErr bool
	}{
		{"", false},
		{"  ", false},
		{"flowchart", false},
		{"graph", false},
		{"sequenceDiagram", false},
		{"er", false},
		{"bogus", true},
	}

	for _, tt := range tests {
		err := ValidateHint(tt.hint)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateHint(%q) error = %v, wantErr %v", tt.hint, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidKind) {
			t.Errorf("ValidateHint(%q) code = %v", tt.hint, errs.GetCode(err))
		}
	}
}

func TestValidateInput(t *testing.T) {
	if err := ValidateInput(Input{Text: "graph TD\nA-->B", Name: "doc.md#1"}); err != nil {
		t.Errorf("valid input should pass: %v", err)
	}
	big := Input{Text: strings.Repeat("a", MaxInputBytes+1)}
	if err := ValidateInput(big); !errs.Is(err, errs.ErrCodeInputTooLarge) {
		t.Errorf("oversized input error = %v", err)
	}
	if err := ValidateInput(Input{Text: "pie", Hint: "nope"}); !errs.Is(err, errs.ErrCodeInvalidKind) {
		t.Errorf("bad hint error = %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should pass: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", opts.Concurrency, DefaultConcurrency)
	}
	if opts.Theme == nil || opts.Logger == nil {
		t.Error("Theme and Logger should be set")
	}
	if opts.themeHash != "" {
		t.Errorf("default theme hash = %q, want empty", opts.themeHash)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"png"}, Scale: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestOptionsThemePath(t *testing.T) {
	dir := t.TempDir()

	missing := Options{ThemePath: filepath.Join(dir, "missing.toml")}
	if err := missing.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing theme error = %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[flowchart]\nmax_columns = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := Options{ThemePath: bad}
	if err := invalid.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidTheme) {
		t.Errorf("invalid theme error = %v", err)
	}

	var buf bytes.Buffer
	th := layout.DefaultTheme()
	th.Flowchart.MaxColumns = 2
	if err := th.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := Options{ThemePath: good}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Theme.Flowchart.MaxColumns != 2 {
		t.Errorf("MaxColumns = %d, want 2", opts.Theme.Flowchart.MaxColumns)
	}
	if opts.themeHash == "" {
		t.Error("custom theme should hash to a non-empty key part")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Detailed: true}
	if got := opts.ArtifactKeyOpts(FormatPNG); got.Scale != 3 || got.Detailed {
		t.Errorf("png key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); got.Scale != 0 || !got.Detailed {
		t.Errorf("dot key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG); got != (cache.ArtifactKeyOpts{Format: FormatSVG}) {
		t.Errorf("svg key opts = %+v", got)
	}
}

func TestBuildFlowchartLR(t *testing.T) {
	s := Build(Input{Text: "flowchart LR\n  A[Start] --> B[End]"}, Options{})

	if len(s.Shapes) != 2 || len(s.Connectors) != 1 {
		t.Fatalf("got %d shapes, %d connectors, want 2 and 1", len(s.Shapes), len(s.Connectors))
	}
	for i, want := range []string{"Start", "End"} {
		if s.Shapes[i].Kind != scene.Rectangle || s.Shapes[i].Text != want {
			t.Errorf("shape %d = %v %q, want rectangle %q", i, s.Shapes[i].Kind, s.Shapes[i].Text, want)
		}
	}
	c := s.Connectors[0]
	if c.EndArrow != scene.ArrowTriangle {
		t.Errorf("EndArrow = %v, want triangle", c.EndArrow)
	}
	if c.Routing != scene.Straight {
		t.Errorf("Routing = %v, want straight", c.Routing)
	}
	if c.StartAnchor == nil || c.EndAnchor == nil {
		t.Fatal("connector should be anchored at both ends")
	}
	if c.StartAnchor.Side != scene.Right || c.EndAnchor.Side != scene.Left {
		t.Errorf("sides = %v→%v, want right→left", c.StartAnchor.Side, c.EndAnchor.Side)
	}
	if c.StartAnchor.ShapeID != s.Shapes[0].ID || c.EndAnchor.ShapeID != s.Shapes[1].ID {
		t.Error("anchors should reference Start and End")
	}
	if c.ID <= s.Shapes[1].ID {
		t.Errorf("connector id %d should follow shape ids", c.ID)
	}
}

func TestBuildPie(t *testing.T) {
	s := Build(Input{Text: "pie\n  \"Dogs\" : 30\n  \"Cats\" : 70"}, Options{})

	var circles int
	var legend []string
	for _, sh := range s.Shapes {
		if sh.Kind == scene.Ellipse {
			circles++
		}
		if strings.Contains(sh.Text, "%") {
			legend = append(legend, sh.Text)
		}
	}
	if circles != 1 {
		t.Errorf("circles = %d, want 1", circles)
	}
	want := []string{"Dogs (30.0%)", "Cats (70.0%)"}
	if strings.Join(legend, "|") != strings.Join(want, "|") {
		t.Errorf("legend = %v, want %v", legend, want)
	}
	if len(s.Connectors) != 0 {
		t.Errorf("connectors = %d, want 0", len(s.Connectors))
	}
}

func TestBuildSequence(t *testing.T) {
	s := Build(Input{Text: "sequenceDiagram\n  Alice->>Bob: Hi"}, Options{})

	var boxes, arrows int
	for _, sh := range s.Shapes {
		switch {
		case sh.Text == "Alice" || sh.Text == "Bob":
			boxes++
		case sh.Kind == scene.RightArrow:
			arrows++
		}
	}
	if boxes != 4 {
		t.Errorf("participant boxes = %d, want 4", boxes)
	}
	if arrows != 1 {
		t.Errorf("right arrows = %d, want 1", arrows)
	}
}

func TestBuildUnknown(t *testing.T) {
	tr := Run(Input{Text: "unknownDiagramType\nfoo bar"}, Options{})

	if tr.Source.Kind != diagram.Unknown {
		t.Errorf("kind = %v, want unknown", tr.Source.Kind)
	}
	if !tr.Fallback {
		t.Error("unknown text should fall back")
	}
	if len(tr.Scene.Shapes) != 1 || len(tr.Scene.Connectors) != 0 {
		t.Fatalf("got %d shapes, %d connectors, want 1 and 0", len(tr.Scene.Shapes), len(tr.Scene.Connectors))
	}
	if got := tr.Scene.Shapes[0].Text; !strings.Contains(got, "unknownDiagramType") {
		t.Errorf("fallback text = %q", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, text := range []string{"", "   \n\n", "%% only a comment"} {
		s := Build(Input{Text: text}, Options{})
		if s == nil {
			t.Fatalf("Build(%q) returned nil", text)
		}
		if len(s.Shapes) > 1 || len(s.Connectors) != 0 {
			t.Errorf("Build(%q) = %d shapes, %d connectors", text, len(s.Shapes), len(s.Connectors))
		}
	}
}

func TestBuildFallbackOnEmpty(t *testing.T) {
	in := Input{Text: "flowchart TD\n"}

	if s := Build(in, Options{}); !s.Empty() {
		t.Errorf("empty flowchart without fallback = %d shapes", len(s.Shapes))
	}

	tr := Run(in, Options{FallbackOnEmpty: true})
	if !tr.Fallback || len(tr.Scene.Shapes) != 1 {
		t.Fatalf("empty flowchart with fallback = %d shapes", len(tr.Scene.Shapes))
	}
	if tr.Scene.Kind != diagram.Flowchart {
		t.Errorf("fallback kind = %v, want flowchart", tr.Scene.Kind)
	}
}

func TestBuildHintOverridesDetection(t *testing.T) {
	s := Build(Input{Hint: "pie", Text: "\"A\" : 1\n\"B\" : 3"}, Options{})
	if s.Kind != diagram.Pie {
		t.Errorf("kind = %v, want pie", s.Kind)
	}
}

func TestBuildHintKeepsFirstLine(t *testing.T) {
	s := Build(Input{Hint: "flowchart", Text: "error --> retry\nretry --> done"}, Options{})
	if len(s.Shapes) != 3 || len(s.Connectors) != 2 {
		t.Errorf("got %d shapes, %d connectors; want 3, 2", len(s.Shapes), len(s.Connectors))
	}

	s = Build(Input{Hint: "mindmap", Text: "Pieces\n  Red\n  Blue"}, Options{})
	if len(s.Shapes) == 0 || !hasText(s, "Pieces") {
		t.Errorf("mindmap root dropped: %+v", s.Shapes)
	}
}

func hasText(s *scene.Scene, text string) bool {
	for _, sh := range s.Shapes {
		if sh.Text == text {
			return true
		}
	}
	return false
}

var corpus = []string{
	"flowchart TD\n  A{Ready?} -->|yes| B((Go))\n  A -.->|no| C[Wait]\n  subgraph S [Group]\n  B\n  end",
	"sequenceDiagram\n  participant A as Alice\n  A->>B: ping\n  B-->>A: pong\n  A->>A: think",
	"pie title Pets\n  \"Dogs\" : 3\n  \"Cats\" : 1",
	"gantt\n  section Build\n  Design :des1, 2024-01-01, 3d\n  Code :crit, 5d",
	"classDiagram\n  Animal <|-- Duck\n  Animal : +int age",
	"stateDiagram-v2\n  [*] --> Still\n  Still --> Moving\n  Moving --> [*]",
	"erDiagram\n  CUSTOMER ||--o{ ORDER : places",
	"mindmap\n  root((Plan))\n    A\n      A1\n    B",
	"timeline\n  title History\n  2020 : One\n  2021 : Two : Three",
}

func TestBuildDeterministic(t *testing.T) {
	for _, text := range corpus {
		first, err := json.Marshal(Build(Input{Text: text}, Options{}))
		if err != nil {
			t.Fatal(err)
		}

		var wg sync.WaitGroup
		outs := make([][]byte, 8)
		for i := range outs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				outs[i], _ = json.Marshal(Build(Input{Text: text}, Options{}))
			}()
		}
		wg.Wait()
		for i, out := range outs {
			if !bytes.Equal(first, out) {
				t.Errorf("run %d differs for %q", i, strings.SplitN(text, "\n", 2)[0])
			}
		}
	}
}

func TestBuildSceneConsistent(t *testing.T) {
	for _, text := range corpus {
		s := Build(Input{Text: text}, Options{})
		if s.Empty() {
			t.Errorf("%q built an empty scene", strings.SplitN(text, "\n", 2)[0])
		}
		if err := s.Check(); err != nil {
			t.Errorf("%q: %v", strings.SplitN(text, "\n", 2)[0], err)
		}
	}
}

func TestBuildTotal(t *testing.T) {
	inputs := []string{
		"", "x", "\n", "%%", "graph", "graph LR\n-->", "graph\nA-->",
		"sequenceDiagram\n->>:", "pie\n\"a\" : NaN\n\"b\" : -3", "gantt\n:", "gantt\nsection",
		"classDiagram\n<|--", "stateDiagram\n[*]-->", "erDiagram\n||--o{ :", "mindmap\n\t\t\t(",
		"timeline\n:::", "flowchart TD\nA[unclosed", "flowchart TD\nA-->B-->C-->A",
		"---\ntitle: x\n", "---\n: : :\n---\npie", "\x00\x01\x02", "💥\nflowchart",
	}
	for _, text := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Build(%q) panicked: %v", text, r)
				}
			}()
			s := Build(Input{Text: text}, Options{})
			if s == nil {
				t.Errorf("Build(%q) returned nil", text)
				return
			}
			if err := s.Check(); err != nil {
				t.Errorf("Build(%q): %v", text, err)
			}
		}()
	}
}

func TestRender(t *testing.T) {
	in := Input{Text: "flowchart LR\n  A --> B", Name: "doc.md#1"}
	s := Build(in, Options{})

	arts, err := Render(context.Background(), s, in, Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(arts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg = %.40q", arts[FormatSVG])
	}
	if !bytes.Contains(arts[FormatJSON], []byte(`"source": "doc.md#1"`)) {
		t.Errorf("json should name its source: %.80q", arts[FormatJSON])
	}
	if !bytes.HasPrefix(arts[FormatDOT], []byte("digraph")) {
		t.Errorf("dot = %.40q", arts[FormatDOT])
	}
}

func TestRenderDOTUnsupported(t *testing.T) {
	in := Input{Text: "pie\n\"a\" : 1"}
	for _, format := range []string{FormatDOT, FormatDOTSVG} {
		_, err := Render(context.Background(), Build(in, Options{}), in, Options{Formats: []string{format}})
		if !errs.Is(err, errs.ErrCodeUnsupported) {
			t.Errorf("%s: pie has no node-link form, got err = %v", format, err)
		}
	}
}

func TestRenderGraphView(t *testing.T) {
	in := Input{Text: "flowchart LR\n  A[Start] --> B[End]"}
	arts, err := Render(context.Background(), Build(in, Options{}), in, Options{Formats: []string{FormatDOTSVG}})
	if err != nil {
		t.Fatal(err)
	}
	svg := arts[FormatDOTSVG]
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("graph view should have a normalized root: %.200q", svg)
	}
	for _, label := range []string{"Start", "End"} {
		if !bytes.Contains(svg, []byte(label)) {
			t.Errorf("graph view missing node %q", label)
		}
	}
}

func TestRenderPieWedgesSkipNonFinite(t *testing.T) {
	th := layout.DefaultTheme()
	th.Pie.Wedges = true
	in := Input{Text: "pie\n\"A\" : NaN\n\"B\" : 10"}
	s := Build(in, Options{Theme: th})

	var legend []string
	for _, sh := range s.Shapes {
		if sh.Arc != nil && sh.Arc.Sweep != 360 {
			t.Errorf("single slice should sweep the full circle, got %+v", *sh.Arc)
		}
		if strings.Contains(sh.Text, "%") {
			legend = append(legend, sh.Text)
		}
	}
	if len(legend) != 1 || legend[0] != "B (100.0%)" {
		t.Errorf("legend = %v, want [B (100.0%%)]", legend)
	}
	if _, err := Render(context.Background(), s, in, Options{Formats: []string{FormatJSON}}); err != nil {
		t.Errorf("render json: %v", err)
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	r := NewRunner(mem, nil, nil)
	defer r.Close()

	ctx := context.Background()
	in := Input{Text: "flowchart LR\n  A --> B"}
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, in, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SceneHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Shapes != 2 || first.Stats.Connectors != 1 || first.Stats.Fallback {
		t.Errorf("stats = %+v", first.Stats)
	}
	if first.SceneHash == "" {
		t.Error("SceneHash should be set")
	}

	second, err := r.Execute(ctx, in, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SceneHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if second.SceneHash != first.SceneHash {
		t.Error("cached scene should hash identically")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	refreshed, err := r.Execute(ctx, in, Options{Formats: []string{FormatSVG}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.SceneHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("refresh should skip reads: %+v", refreshed.CacheInfo)
	}
}

func TestRunnerFallbackSurvivesCache(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0), nil, nil)
	ctx := context.Background()
	in := Input{Text: "nonsense"}

	for i := 0; i < 2; i++ {
		res, err := r.Execute(ctx, in, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Stats.Fallback {
			t.Errorf("run %d: Fallback = false", i)
		}
	}
}

func TestRunnerThemeChangesKey(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0), nil, nil)
	ctx := context.Background()
	in := Input{Text: "flowchart LR\nA-->B-->C"}

	if _, err := r.Execute(ctx, in, Options{}); err != nil {
		t.Fatal(err)
	}
	th := layout.DefaultTheme()
	th.Flowchart.MaxColumns = 1
	res, err := r.Execute(ctx, in, Options{Theme: th})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.SceneHit {
		t.Error("a different theme should not reuse the cached scene")
	}
}

func TestRunnerRejectsInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Input{Text: "pie"}, Options{Formats: []string{"gif"}}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
	if _, err := r.Execute(ctx, Input{Text: "pie", Hint: "venn"}, Options{}); !errs.Is(err, errs.ErrCodeInvalidKind) {
		t.Errorf("bad hint error = %v", err)
	}
}

func TestRunnerBuildAll(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0), nil, nil)
	inputs := make([]Input, len(corpus))
	for i, text := range corpus {
		inputs[i] = Input{Text: text}
	}

	results, err := r.BuildAll(context.Background(), inputs, Options{Concurrency: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	for i, res := range results {
		want := diagram.Split(inputs[i].Text, "").Kind
		if res.Scene.Kind != want {
			t.Errorf("result %d kind = %v, want %v", i, res.Scene.Kind, want)
		}
	}
}

func TestRunnerBuildAllError(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	inputs := []Input{{Text: "pie"}, {Text: "pie", Hint: "venn", Name: "bad"}}
	if _, err := r.BuildAll(context.Background(), inputs, Options{}); err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("BuildAll error = %v, want one naming the bad input", err)
	}
}
