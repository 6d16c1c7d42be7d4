package layout

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/deckdown/diagramscene/pkg/scene"
)

// Outline widths in EMU.
const (
	thin  = uint32(scene.EMUPerPoint)
	thick = uint32(2 * scene.EMUPerPoint)
)

// Theme holds every size, spacing, origin and color the layout engine and
// connector router use. All lengths are EMU. The zero Theme is not useful;
// start from [DefaultTheme] and override fields, or load a TOML file with
// [LoadTheme] which applies overrides on top of the defaults.
type Theme struct {
	Flowchart FlowchartTheme `toml:"flowchart"`
	Sequence  SequenceTheme  `toml:"sequence"`
	Pie       PieTheme       `toml:"pie"`
	Gantt     GanttTheme     `toml:"gantt"`
	Class     ClassTheme     `toml:"class"`
	State     StateTheme     `toml:"state"`
	ER        ERTheme        `toml:"er"`
	Mindmap   MindmapTheme   `toml:"mindmap"`
	Timeline  TimelineTheme  `toml:"timeline"`
	Router    RouterTheme    `toml:"router"`
}

// Point is a position in EMU.
type Point struct {
	X int64 `toml:"x"`
	Y int64 `toml:"y"`
}

// Size is an extent in EMU.
type Size struct {
	Width  int64 `toml:"width"`
	Height int64 `toml:"height"`
}

// Stroke is an outline color and width. A zero width draws no outline.
type Stroke struct {
	Color string `toml:"color"`
	Width uint32 `toml:"width"`
}

type FlowchartTheme struct {
	Origin       Point    `toml:"origin"`
	Node         Size     `toml:"node"`
	HSpacing     int64    `toml:"h_spacing"`
	VSpacing     int64    `toml:"v_spacing"`
	MaxColumns   int      `toml:"max_columns"`
	NodeFill     string   `toml:"node_fill"`
	DiamondFill  string   `toml:"diamond_fill"`
	CircleFill   string   `toml:"circle_fill"`
	NodeStroke   Stroke   `toml:"node_stroke"`
	GroupOrigin  Point    `toml:"group_origin"`
	GroupPadding int64    `toml:"group_padding"`
	GroupInset   Point    `toml:"group_inset"`
	GroupGap     int64    `toml:"group_gap"`
	GroupFills   []string `toml:"group_fills"`
	GroupStroke  Stroke   `toml:"group_stroke"`
}

type SequenceTheme struct {
	Origin         Point  `toml:"origin"`
	Participant    Size   `toml:"participant"`
	HSpacing       int64  `toml:"h_spacing"`
	LifelineHeight int64  `toml:"lifeline_height"`
	LifelineWidth  int64  `toml:"lifeline_width"`
	LifelineFill   string `toml:"lifeline_fill"`
	MessageOffset  int64  `toml:"message_offset"`
	MessageSpacing int64  `toml:"message_spacing"`
	ArrowHeight    int64  `toml:"arrow_height"`
	SelfWidth      int64  `toml:"self_width"`
	TextOffset     int64  `toml:"text_offset"`
	TextHeight     int64  `toml:"text_height"`
	Fill           string `toml:"fill"`
	Stroke         Stroke `toml:"stroke"`
	ArrowFill      string `toml:"arrow_fill"`
	ReplyFill      string `toml:"reply_fill"`
}

type PieTheme struct {
	Center      Point    `toml:"center"`
	Radius      int64    `toml:"radius"`
	Colors      []string `toml:"colors"`
	Stroke      Stroke   `toml:"stroke"`
	Wedges      bool     `toml:"wedges"`
	Legend      Point    `toml:"legend"`
	LegendRow   int64    `toml:"legend_row"`
	Swatch      int64    `toml:"swatch"`
	LabelOffset int64    `toml:"label_offset"`
	Label       Size     `toml:"label"`
	Title       Point    `toml:"title"`
	TitleSize   Size     `toml:"title_size"`
}

type GanttTheme struct {
	Origin        Point    `toml:"origin"`
	Title         Size     `toml:"title"`
	TitleGap      int64    `toml:"title_gap"`
	SectionHeight int64    `toml:"section_height"`
	SectionGap    int64    `toml:"section_gap"`
	SectionFill   string   `toml:"section_fill"`
	Width         int64    `toml:"width"`
	LabelWidth    int64    `toml:"label_width"`
	TaskHeight    int64    `toml:"task_height"`
	TaskSpacing   int64    `toml:"task_spacing"`
	BarGap        int64    `toml:"bar_gap"`
	BarStagger    int64    `toml:"bar_stagger"`
	UnitWidth     int64    `toml:"unit_width"`
	Colors        []string `toml:"colors"`
	CriticalFill  string   `toml:"critical_fill"`
}

type ClassTheme struct {
	Origin      Point  `toml:"origin"`
	Width       int64  `toml:"width"`
	HSpacing    int64  `toml:"h_spacing"`
	VSpacing    int64  `toml:"v_spacing"`
	Columns     int    `toml:"columns"`
	Header      int64  `toml:"header"`
	Row         int64  `toml:"row"`
	HeaderFill  string `toml:"header_fill"`
	HeaderLine  Stroke `toml:"header_stroke"`
	AttrFill    string `toml:"attr_fill"`
	MethodFill  string `toml:"method_fill"`
	SectionLine Stroke `toml:"section_stroke"`
}

type StateTheme struct {
	Origin     Point  `toml:"origin"`
	State      Size   `toml:"state"`
	HSpacing   int64  `toml:"h_spacing"`
	VSpacing   int64  `toml:"v_spacing"`
	Columns    int    `toml:"columns"`
	PseudoSize int64  `toml:"pseudo_size"`
	Fill       string `toml:"fill"`
	PseudoFill string `toml:"pseudo_fill"`
	Stroke     Stroke `toml:"stroke"`
}

type ERTheme struct {
	Origin     Point  `toml:"origin"`
	Width      int64  `toml:"width"`
	Header     int64  `toml:"header"`
	Row        int64  `toml:"row"`
	HSpacing   int64  `toml:"h_spacing"`
	VSpacing   int64  `toml:"v_spacing"`
	Columns    int    `toml:"columns"`
	HeaderFill string `toml:"header_fill"`
	HeaderLine Stroke `toml:"header_stroke"`
	AttrFill   string `toml:"attr_fill"`
	AttrLine   Stroke `toml:"attr_stroke"`
}

type MindmapTheme struct {
	Center      Point    `toml:"center"`
	Root        Size     `toml:"root"`
	Node        Size     `toml:"node"`
	Radius1     int64    `toml:"radius1"`
	Radius2     int64    `toml:"radius2"`
	ChildSpread float64  `toml:"child_spread"`
	RootFill    string   `toml:"root_fill"`
	RootStroke  Stroke   `toml:"root_stroke"`
	Colors      []string `toml:"colors"`
	LeafFill    string   `toml:"leaf_fill"`
	LeafStroke  Stroke   `toml:"leaf_stroke"`
	Branches    bool     `toml:"branches"`
}

type TimelineTheme struct {
	Origin       Point    `toml:"origin"`
	Title        Size     `toml:"title"`
	BaselineY    int64    `toml:"baseline_y"`
	BaselineH    int64    `toml:"baseline_height"`
	BaselinePad  int64    `toml:"baseline_pad"`
	EventWidth   int64    `toml:"event_width"`
	EventSpacing int64    `toml:"event_spacing"`
	Marker       int64    `toml:"marker"`
	MarkerLift   int64    `toml:"marker_lift"`
	DateHeight   int64    `toml:"date_height"`
	DateGap      int64    `toml:"date_gap"`
	ItemOffset   int64    `toml:"item_offset"`
	ItemHeight   int64    `toml:"item_height"`
	Accent       string   `toml:"accent"`
	Colors       []string `toml:"colors"`
	ItemStroke   Stroke   `toml:"item_stroke"`
}

// Decoration is the look of one kind of connector and its label shape.
type Decoration struct {
	Color       string          `toml:"color"`
	Width       uint32          `toml:"width"`
	Dashed      bool            `toml:"dashed"`
	StartArrow  scene.ArrowKind `toml:"start_arrow"`
	EndArrow    scene.ArrowKind `toml:"end_arrow"`
	LabelFill   string          `toml:"label_fill"`
	LabelStroke Stroke          `toml:"label_stroke"`
	Label       Size            `toml:"label"`
}

type RouterTheme struct {
	// Tolerance is the largest endpoint offset on one axis that still
	// produces a straight connector.
	Tolerance int64 `toml:"tolerance"`
	// InlineLabels puts edge labels on the connector instead of emitting
	// a separate label shape at the midpoint.
	InlineLabels bool                  `toml:"inline_labels"`
	Decorations  map[string]Decoration `toml:"decorations"`
}

// DefaultTheme returns a fresh copy of the built-in theme.
func DefaultTheme() *Theme {
	const lineW = 19050 // 1.5pt
	flowLabel := Decoration{LabelFill: "FFFFFF", LabelStroke: Stroke{"1565C0", thin}, Label: Size{900_000, 250_000}}
	deco := func(d Decoration, color string, width uint32, dashed bool, end scene.ArrowKind) Decoration {
		d.Color, d.Width, d.Dashed, d.EndArrow = color, width, dashed, end
		return d
	}

	return &Theme{
		Flowchart: FlowchartTheme{
			Origin:       Point{1_000_000, 1_800_000},
			Node:         Size{1_400_000, 500_000},
			HSpacing:     1_800_000,
			VSpacing:     900_000,
			MaxColumns:   5,
			NodeFill:     "FFFFFF",
			DiamondFill:  "FFF3E0",
			CircleFill:   "E3F2FD",
			NodeStroke:   Stroke{"1565C0", thick},
			GroupOrigin:  Point{500_000, 1_600_000},
			GroupPadding: 400_000,
			GroupInset:   Point{200_000, 300_000},
			GroupGap:     600_000,
			GroupFills:   []string{"E3F2FD", "F3E5F5", "E8F5E9", "FFF3E0", "E0F7FA", "FCE4EC"},
			GroupStroke:  Stroke{"757575", thin},
		},
		Sequence: SequenceTheme{
			Origin:         Point{500_000, 1_600_000},
			Participant:    Size{1_400_000, 400_000},
			HSpacing:       1_800_000,
			LifelineHeight: 3_000_000,
			LifelineWidth:  20_000,
			LifelineFill:   "757575",
			MessageOffset:  200_000,
			MessageSpacing: 450_000,
			ArrowHeight:    120_000,
			SelfWidth:      400_000,
			TextOffset:     180_000,
			TextHeight:     160_000,
			Fill:           "E3F2FD",
			Stroke:         Stroke{"1565C0", thick},
			ArrowFill:      "1565C0",
			ReplyFill:      "7B1FA2",
		},
		Pie: PieTheme{
			Center:      Point{2_500_000, 3_000_000},
			Radius:      1_500_000,
			Colors:      []string{"4472C4", "ED7D31", "A5A5A5", "FFC000", "5B9BD5", "70AD47", "9E480E", "997300"},
			Stroke:      Stroke{"FFFFFF", thick},
			Legend:      Point{5_000_000, 2_000_000},
			LegendRow:   350_000,
			Swatch:      200_000,
			LabelOffset: 300_000,
			Label:       Size{2_500_000, 200_000},
			Title:       Point{500_000, 1_000_000},
			TitleSize:   Size{7_000_000, 400_000},
		},
		Gantt: GanttTheme{
			Origin:        Point{500_000, 1_600_000},
			Title:         Size{7_000_000, 400_000},
			TitleGap:      500_000,
			SectionHeight: 300_000,
			SectionGap:    50_000,
			SectionFill:   "E0E0E0",
			Width:         7_000_000,
			LabelWidth:    2_000_000,
			TaskHeight:    250_000,
			TaskSpacing:   280_000,
			BarGap:        100_000,
			BarStagger:    200_000,
			UnitWidth:     600_000,
			Colors:        []string{"4472C4", "ED7D31", "70AD47", "FFC000", "5B9BD5"},
			CriticalFill:  "C62828",
		},
		Class: ClassTheme{
			Origin:      Point{500_000, 1_600_000},
			Width:       2_000_000,
			HSpacing:    2_500_000,
			VSpacing:    2_000_000,
			Columns:     3,
			Header:      350_000,
			Row:         250_000,
			HeaderFill:  "4472C4",
			HeaderLine:  Stroke{"2F5496", thick},
			AttrFill:    "D6DCE5",
			MethodFill:  "FFFFFF",
			SectionLine: Stroke{"2F5496", thin},
		},
		State: StateTheme{
			Origin:     Point{1_000_000, 1_800_000},
			State:      Size{1_500_000, 500_000},
			HSpacing:   2_200_000,
			VSpacing:   1_200_000,
			Columns:    3,
			PseudoSize: 400_000,
			Fill:       "E0F7FA",
			PseudoFill: "000000",
			Stroke:     Stroke{"00838F", thick},
		},
		ER: ERTheme{
			Origin:     Point{500_000, 1_600_000},
			Width:      2_200_000,
			Header:     400_000,
			Row:        280_000,
			HSpacing:   2_800_000,
			VSpacing:   2_500_000,
			Columns:    3,
			HeaderFill: "C2185B",
			HeaderLine: Stroke{"880E4F", thick},
			AttrFill:   "FCE4EC",
			AttrLine:   Stroke{"880E4F", thin},
		},
		Mindmap: MindmapTheme{
			Center:      Point{4_000_000, 3_000_000},
			Root:        Size{2_000_000, 600_000},
			Node:        Size{1_500_000, 400_000},
			Radius1:     2_000_000,
			Radius2:     3_200_000,
			ChildSpread: 0.3,
			RootFill:    "3949AB",
			RootStroke:  Stroke{"1A237E", thick},
			Colors:      []string{"4472C4", "ED7D31", "70AD47", "FFC000", "5B9BD5", "9E480E"},
			LeafFill:    "E8EAF6",
			LeafStroke:  Stroke{"3949AB", thin},
			Branches:    true,
		},
		Timeline: TimelineTheme{
			Origin:       Point{500_000, 1_600_000},
			Title:        Size{7_500_000, 400_000},
			BaselineY:    2_500_000,
			BaselineH:    30_000,
			BaselinePad:  500_000,
			EventWidth:   1_400_000,
			EventSpacing: 1_600_000,
			Marker:       150_000,
			MarkerLift:   60_000,
			DateHeight:   300_000,
			DateGap:      100_000,
			ItemOffset:   150_000,
			ItemHeight:   250_000,
			Accent:       "5D4037",
			Colors:       []string{"EFEBE9", "D7CCC8", "BCAAA4", "A1887F"},
			ItemStroke:   Stroke{"5D4037", thin},
		},
		Router: RouterTheme{
			Tolerance: 100_000,
			Decorations: map[string]Decoration{
				LinkFlow.String():         deco(flowLabel, "1565C0", lineW, false, scene.ArrowTriangle),
				LinkFlowOpen.String():     deco(flowLabel, "1565C0", lineW, false, scene.ArrowNone),
				LinkFlowDotted.String():   deco(flowLabel, "757575", lineW, true, scene.ArrowTriangle),
				LinkFlowThick.String():    deco(flowLabel, "E65100", 2*lineW, false, scene.ArrowTriangle),
				LinkTransition.String():   {Color: "00838F", Width: lineW, EndArrow: scene.ArrowTriangle, LabelFill: "FFFDE7", LabelStroke: Stroke{"00838F", thin}, Label: Size{800_000, 250_000}},
				LinkRelationship.String(): {Color: "880E4F", Width: lineW, EndArrow: scene.ArrowDiamond, LabelFill: "FFFFFF", LabelStroke: Stroke{"880E4F", thin}, Label: Size{1_000_000, 250_000}},
				LinkExtends.String():      {Color: "2F5496", Width: lineW, EndArrow: scene.ArrowTriangle, LabelFill: "FFFFFF", Label: Size{1_000_000, 250_000}},
				LinkUses.String():         {Color: "2F5496", Width: lineW, EndArrow: scene.ArrowOpen, LabelFill: "FFFFFF", Label: Size{1_000_000, 250_000}},
				LinkAssociates.String():   {Color: "2F5496", Width: lineW, LabelFill: "FFFFFF", Label: Size{1_000_000, 250_000}},
				LinkBranch.String():       {Color: "3949AB", Width: lineW},
			},
		},
	}
}

// Decoration returns the decoration for links of kind k, falling back to
// the default theme when the theme does not define one.
func (t *Theme) Decoration(k LinkKind) Decoration {
	if d, ok := t.Router.Decorations[k.String()]; ok {
		return d
	}
	return DefaultTheme().Router.Decorations[k.String()]
}

// DecodeTheme reads TOML from r on top of the default theme. Keys that are
// not part of the theme are reported as an error.
func DecodeTheme(r io.Reader) (*Theme, error) {
	t := DefaultTheme()
	md, err := toml.NewDecoder(r).Decode(t)
	if err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode theme: unknown keys %v", undecoded)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTheme reads a TOML theme file. See [DecodeTheme].
func LoadTheme(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTheme(f)
}

// Encode writes the theme as TOML.
func (t *Theme) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(t); err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate rejects themes the layout engine cannot use: empty palettes
// and non-positive grid column counts would otherwise divide by zero.
func (t *Theme) Validate() error {
	palettes := map[string][]string{
		"flowchart.group_fills": t.Flowchart.GroupFills,
		"pie.colors":            t.Pie.Colors,
		"gantt.colors":          t.Gantt.Colors,
		"mindmap.colors":        t.Mindmap.Colors,
		"timeline.colors":       t.Timeline.Colors,
	}
	for _, key := range []string{"flowchart.group_fills", "pie.colors", "gantt.colors", "mindmap.colors", "timeline.colors"} {
		if len(palettes[key]) == 0 {
			return fmt.Errorf("theme: %s must not be empty", key)
		}
	}
	columns := []struct {
		key string
		n   int
	}{
		{"flowchart.max_columns", t.Flowchart.MaxColumns},
		{"class.columns", t.Class.Columns},
		{"state.columns", t.State.Columns},
		{"er.columns", t.ER.Columns},
	}
	for _, c := range columns {
		if c.n <= 0 {
			return fmt.Errorf("theme: %s must be positive, got %d", c.key, c.n)
		}
	}
	return nil
}
