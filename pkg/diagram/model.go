package diagram

// Model is the structured form of one diagram. Concrete models are pointers
// to the per-kind types in this file; a type switch over [Model] is the
// single dispatch point for kind-specific behaviour.
type Model interface {
	// Kind reports which diagram family the model belongs to.
	Kind() Kind
	// Empty reports whether the model has no entities to place.
	Empty() bool
	// Caption returns the diagram title, or "" when none was declared.
	Caption() string
}

// Meta carries attributes shared by every model.
type Meta struct {
	Title string
}

// Caption returns the declared title.
func (m Meta) Caption() string { return m.Title }

// =============================================================================
// Flowchart
// =============================================================================

// Direction is the flow direction declared in a flowchart header.
type Direction int

const (
	TopToBottom Direction = iota
	LeftToRight
	RightToLeft
	BottomToTop
)

// Horizontal reports whether nodes flow along the x axis.
func (d Direction) Horizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LR"
	case RightToLeft:
		return "RL"
	case BottomToTop:
		return "BT"
	default:
		return "TB"
	}
}

// NodeShape is the outline a flowchart node declares through its brackets.
type NodeShape int

const (
	ShapeRectangle   NodeShape = iota // A[text]
	ShapeRoundedRect                  // A(text)
	ShapeStadium                      // A([text])
	ShapeDiamond                      // A{text}
	ShapeCircle                       // A((text))
	ShapeHexagon                      // A{{text}}
)

// ArrowStyle is the line style of a flowchart edge.
type ArrowStyle int

const (
	ArrowSolid  ArrowStyle = iota // -->
	ArrowOpen                     // ---
	ArrowDotted                   // -.->
	ArrowThick                    // ==>
)

// FlowNode is a flowchart vertex.
type FlowNode struct {
	ID    string
	Label string
	Shape NodeShape
}

// FlowEdge connects two flowchart nodes by id.
type FlowEdge struct {
	From  string
	To    string
	Label string
	Style ArrowStyle
}

// Subgraph groups flowchart nodes. A node is a member of at most one subgraph.
type Subgraph struct {
	ID      string
	Title   string
	Members []string
}

// FlowchartModel is a parsed flowchart.
type FlowchartModel struct {
	Meta
	Direction Direction
	Nodes     []FlowNode
	Edges     []FlowEdge
	Subgraphs []Subgraph
}

func (*FlowchartModel) Kind() Kind    { return Flowchart }
func (m *FlowchartModel) Empty() bool { return len(m.Nodes) == 0 && len(m.Subgraphs) == 0 }

// =============================================================================
// Sequence
// =============================================================================

// Participant is a lane in a sequence diagram.
type Participant struct {
	ID    string
	Alias string
}

// Label returns the alias when one was declared, else the id.
func (p Participant) Label() string {
	if p.Alias != "" {
		return p.Alias
	}
	return p.ID
}

// Message is one arrow between participants. Reply marks dashed arrows.
type Message struct {
	From  string
	To    string
	Text  string
	Reply bool
}

// SequenceModel is a parsed sequence diagram.
type SequenceModel struct {
	Meta
	Participants []Participant
	Messages     []Message
}

func (*SequenceModel) Kind() Kind    { return Sequence }
func (m *SequenceModel) Empty() bool { return len(m.Participants) == 0 }

// =============================================================================
// Pie
// =============================================================================

// Slice is one labelled value of a pie chart.
type Slice struct {
	Label string
	Value float64
}

// PieModel is a parsed pie chart.
type PieModel struct {
	Meta
	Slices []Slice
}

func (*PieModel) Kind() Kind    { return Pie }
func (m *PieModel) Empty() bool { return len(m.Slices) == 0 }

// Total sums the slice values.
func (m *PieModel) Total() float64 {
	var t float64
	for _, s := range m.Slices {
		t += s.Value
	}
	return t
}

// Percent returns the share of slice i in percent, or 0 when the total is
// not positive.
func (m *PieModel) Percent(i int) float64 {
	t := m.Total()
	if t <= 0 || i < 0 || i >= len(m.Slices) {
		return 0
	}
	return m.Slices[i].Value / t * 100
}

// =============================================================================
// Gantt
// =============================================================================

// Task is a gantt bar. Status, ID and Spec are the raw comma-separated
// fields after the colon; Duration is in abstract units.
type Task struct {
	Name     string
	Status   string
	ID       string
	Spec     string
	Duration int
}

// Critical reports whether the task was tagged "crit".
func (t Task) Critical() bool { return t.Status == "crit" }

// Section is a named group of gantt tasks. Tasks declared before the first
// section land in a section with an empty name.
type Section struct {
	Name  string
	Tasks []Task
}

// GanttModel is a parsed gantt chart.
type GanttModel struct {
	Meta
	DateFormat string
	Sections   []Section
}

func (*GanttModel) Kind() Kind    { return Gantt }
func (m *GanttModel) Empty() bool { return len(m.Sections) == 0 }

// =============================================================================
// Class
// =============================================================================

// Class is a class box with its members split into attributes and methods.
type Class struct {
	Name       string
	Attributes []string
	Methods    []string
}

// RelationKind classifies a class relationship.
type RelationKind int

const (
	Associates RelationKind = iota
	Extends
	Uses
)

func (k RelationKind) String() string {
	switch k {
	case Extends:
		return "extends"
	case Uses:
		return "uses"
	default:
		return "associates"
	}
}

// ClassRelation connects two classes by name.
type ClassRelation struct {
	From  string
	To    string
	Label string
	Kind  RelationKind
}

// ClassModel is a parsed class diagram.
type ClassModel struct {
	Meta
	Classes   []Class
	Relations []ClassRelation
}

func (*ClassModel) Kind() Kind    { return ClassDiagram }
func (m *ClassModel) Empty() bool { return len(m.Classes) == 0 }

// =============================================================================
// State
// =============================================================================

// StateKind distinguishes the start and end pseudo-states from named states.
type StateKind int

const (
	StateNormal StateKind = iota
	StateStart
	StateEnd
)

// Ids of the pseudo-states produced by "[*]".
const (
	StartStateID = "[*]start"
	EndStateID   = "[*]end"
)

// State is a node of a state diagram.
type State struct {
	ID   string
	Kind StateKind
}

// Transition connects two states by id.
type Transition struct {
	From  string
	To    string
	Label string
}

// StateModel is a parsed state diagram.
type StateModel struct {
	Meta
	States      []State
	Transitions []Transition
}

func (*StateModel) Kind() Kind    { return StateDiagram }
func (m *StateModel) Empty() bool { return len(m.States) == 0 }

// =============================================================================
// ER
// =============================================================================

// Attribute is one entity column. Key holds trailing markers such as "PK".
type Attribute struct {
	Type string
	Name string
	Key  string
}

// Entity is an ER table.
type Entity struct {
	Name       string
	Attributes []Attribute
}

// ERRelation connects two entities. Cardinality is the raw operator text.
type ERRelation struct {
	From        string
	To          string
	Label       string
	Cardinality string
}

// ERModel is a parsed entity-relationship diagram.
type ERModel struct {
	Meta
	Entities  []Entity
	Relations []ERRelation
}

func (*ERModel) Kind() Kind    { return ErDiagram }
func (m *ERModel) Empty() bool { return len(m.Entities) == 0 }

// =============================================================================
// Mindmap
// =============================================================================

// Branch is a level-1 mindmap node with its level-2 children.
type Branch struct {
	Text     string
	Children []string
}

// MindmapModel is a parsed mindmap. Nodes deeper than level 2 are folded
// into level 2.
type MindmapModel struct {
	Meta
	Root     string
	Branches []Branch
}

func (*MindmapModel) Kind() Kind    { return Mindmap }
func (m *MindmapModel) Empty() bool { return m.Root == "" }

// =============================================================================
// Timeline
// =============================================================================

// Event is a date group on a timeline.
type Event struct {
	Date  string
	Items []string
}

// TimelineModel is a parsed timeline.
type TimelineModel struct {
	Meta
	Events []Event
}

func (*TimelineModel) Kind() Kind    { return Timeline }
func (m *TimelineModel) Empty() bool { return len(m.Events) == 0 }

// =============================================================================
// Unknown
// =============================================================================

// UnknownModel stands in for text whose kind could not be determined.
type UnknownModel struct {
	Meta
	// First is the first meaningful line of the text.
	First string
}

func (*UnknownModel) Kind() Kind  { return Unknown }
func (*UnknownModel) Empty() bool { return true }
