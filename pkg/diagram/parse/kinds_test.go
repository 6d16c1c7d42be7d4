package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckdown/diagramscene/pkg/diagram"
)

func TestSequence(t *testing.T) {
	m, ok := Text(`sequenceDiagram
title Checkout
participant C as Customer
actor S
C->>S: order
S-->>+C: receipt
Note right of C: ignored
loop retry
P->>C: ping
end
C->>C`, "").(*diagram.SequenceModel)
	require.True(t, ok)
	assert.Equal(t, "Checkout", m.Title)
	require.Len(t, m.Participants, 3)
	assert.Equal(t, diagram.Participant{ID: "C", Alias: "Customer"}, m.Participants[0])
	assert.Equal(t, "Customer", m.Participants[0].Label())
	assert.Equal(t, "S", m.Participants[1].Label())
	assert.Equal(t, "P", m.Participants[2].ID, "auto-registered on first message")

	require.Len(t, m.Messages, 4)
	assert.Equal(t, diagram.Message{From: "C", To: "S", Text: "order"}, m.Messages[0])
	assert.Equal(t, diagram.Message{From: "S", To: "C", Text: "receipt", Reply: true}, m.Messages[1])
	assert.Equal(t, "C", m.Messages[3].To)
	assert.Empty(t, m.Messages[3].Text)
}

func TestPie(t *testing.T) {
	m, ok := Text(`pie showData title Pets
"Dogs" : 386
"Cats": 85.5
Rats : x
"Odd: name" : 1`, "").(*diagram.PieModel)
	require.True(t, ok)
	assert.Equal(t, "Pets", m.Title)
	require.Len(t, m.Slices, 3)
	assert.Equal(t, diagram.Slice{Label: "Dogs", Value: 386}, m.Slices[0])
	assert.Equal(t, diagram.Slice{Label: "Cats", Value: 85.5}, m.Slices[1])
	assert.Equal(t, "Odd: name", m.Slices[2].Label)
	assert.InDelta(t, 472.5, m.Total(), 1e-9)
}

func TestPieSkipsNonFinite(t *testing.T) {
	m := Text("pie\n\"A\" : NaN\n\"B\" : 10\n\"C\" : Inf\n\"D\" : -infinity", "").(*diagram.PieModel)
	require.Len(t, m.Slices, 1)
	assert.Equal(t, "B", m.Slices[0].Label)
	assert.InDelta(t, 100.0, m.Percent(0), 1e-9)
}

func TestPiePercent(t *testing.T) {
	m := &diagram.PieModel{Slices: []diagram.Slice{{Label: "a", Value: 60}, {Label: "b", Value: 40}}}
	assert.InDelta(t, 60.0, m.Percent(0), 1e-9)
	assert.Equal(t, 0.0, m.Percent(5))
	zero := &diagram.PieModel{Slices: []diagram.Slice{{Label: "a", Value: 0}}}
	assert.Equal(t, 0.0, zero.Percent(0))
}

func TestGantt(t *testing.T) {
	m, ok := Text(`gantt
title Release
dateFormat YYYY-MM-DD
axisFormat %m
Kickoff : 2024-01-01, 1d
section Build
Design : done, des1, 2024-01-01, 3d
Code : crit, after des1, 5d
section Ship
Launch : 2024-02-01`, "").(*diagram.GanttModel)
	require.True(t, ok)
	assert.Equal(t, "Release", m.Title)
	assert.Equal(t, "YYYY-MM-DD", m.DateFormat)
	require.Len(t, m.Sections, 3)
	assert.Equal(t, "", m.Sections[0].Name, "tasks before a section go to an untitled one")
	assert.Equal(t, "Build", m.Sections[1].Name)

	design := m.Sections[1].Tasks[0]
	assert.Equal(t, diagram.Task{Name: "Design", Status: "done", ID: "des1", Spec: "2024-01-01, 3d", Duration: TaskUnits}, design)
	code := m.Sections[1].Tasks[1]
	assert.True(t, code.Critical())
	assert.Empty(t, code.ID)
	assert.Equal(t, "after des1, 5d", code.Spec)
	assert.Equal(t, "Launch", m.Sections[2].Tasks[0].Name)
}

func TestClass(t *testing.T) {
	m, ok := Text(`classDiagram
class Animal {
  +String name
  +eat() void
}
class Duck
Animal <|-- Duck
Duck --> Pond : swims in
Zoo "1" *-- "many" Animal`, "").(*diagram.ClassModel)
	require.True(t, ok)
	require.Len(t, m.Classes, 4)
	assert.Equal(t, []string{"+String name"}, m.Classes[0].Attributes)
	assert.Equal(t, []string{"+eat() void"}, m.Classes[0].Methods)
	assert.Equal(t, "Pond", m.Classes[2].Name, "relationship endpoints are registered")

	require.Len(t, m.Relations, 3)
	assert.Equal(t, diagram.ClassRelation{From: "Animal", To: "Duck", Kind: diagram.Extends}, m.Relations[0])
	assert.Equal(t, diagram.ClassRelation{From: "Duck", To: "Pond", Label: "swims in", Kind: diagram.Uses}, m.Relations[1])
	assert.Equal(t, diagram.Associates, m.Relations[2].Kind)
	assert.Equal(t, "Zoo", m.Relations[2].From)
	assert.Equal(t, "Animal", m.Relations[2].To)
}

func TestState(t *testing.T) {
	m, ok := Text(`stateDiagram-v2
direction LR
state Paused
[*] --> Idle
Idle --> Running : start
Running --> [*]`, "").(*diagram.StateModel)
	require.True(t, ok)
	ids := make([]string, len(m.States))
	for i, s := range m.States {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"Paused", diagram.StartStateID, "Idle", "Running", diagram.EndStateID}, ids)
	assert.Equal(t, diagram.StateStart, m.States[1].Kind)
	assert.Equal(t, diagram.StateEnd, m.States[4].Kind)
	require.Len(t, m.Transitions, 3)
	assert.Equal(t, "start", m.Transitions[1].Label)
}

func TestER(t *testing.T) {
	m, ok := Text(`erDiagram
CUSTOMER ||--o{ ORDER : "places"
CUSTOMER {
  string name PK
  int age
}
ORDER ||--|{ LINE-ITEM : contains
lower ||--|| Thing : skipped`, "").(*diagram.ERModel)
	require.True(t, ok)
	names := make([]string, len(m.Entities))
	for i, e := range m.Entities {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"CUSTOMER", "ORDER", "LINE-ITEM"}, names)
	assert.Equal(t, []diagram.Attribute{{Type: "string", Name: "name", Key: "PK"}, {Type: "int", Name: "age"}}, m.Entities[0].Attributes)
	require.Len(t, m.Relations, 2)
	assert.Equal(t, diagram.ERRelation{From: "CUSTOMER", To: "ORDER", Label: "places", Cardinality: "||--o{"}, m.Relations[0])
}

func TestMindmap(t *testing.T) {
	m, ok := Text(`mindmap
  root((Project))
    Goals
      Revenue
        Deep idea
    ::icon(fa fa-book)
    Risks
      Budget`, "").(*diagram.MindmapModel)
	require.True(t, ok)
	assert.Equal(t, "Project", m.Root)
	require.Len(t, m.Branches, 2)
	assert.Equal(t, diagram.Branch{Text: "Goals", Children: []string{"Revenue", "Deep idea"}}, m.Branches[0])
	assert.Equal(t, diagram.Branch{Text: "Risks", Children: []string{"Budget"}}, m.Branches[1])
}

func TestMindmapBullets(t *testing.T) {
	m := Text("mindmap\nCentral\n  - First\n  + [Second]", "").(*diagram.MindmapModel)
	assert.Equal(t, "Central", m.Root)
	require.Len(t, m.Branches, 2)
	assert.Equal(t, "First", m.Branches[0].Text)
	assert.Equal(t, "Second", m.Branches[1].Text)
}

func TestTimeline(t *testing.T) {
	m, ok := Text(`timeline
title History
section Early
2002 : LinkedIn
2004 : Facebook : Google
     : Gmail
Orkut`, "").(*diagram.TimelineModel)
	require.True(t, ok)
	assert.Equal(t, "History", m.Title)
	require.Len(t, m.Events, 2)
	assert.Equal(t, diagram.Event{Date: "2002", Items: []string{"LinkedIn"}}, m.Events[0])
	assert.Equal(t, diagram.Event{Date: "2004", Items: []string{"Facebook", "Google", "Gmail", "Orkut"}}, m.Events[1])
}
