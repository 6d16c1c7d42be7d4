package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deckdown/diagramscene/pkg/pipeline"
)

func newTestInspector(t *testing.T, text string) inspectModel {
	t.Helper()
	in := pipeline.Input{Text: text, Name: "test.mmd"}
	return newInspectModel(inputName(in), pipeline.Run(in, pipeline.Options{}))
}

func press(m inspectModel, key string) inspectModel {
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(inspectModel)
}

func TestInspectModelTabs(t *testing.T) {
	m := newTestInspector(t, flowchartText)

	if m.stage != 0 {
		t.Fatalf("initial stage = %d, want 0", m.stage)
	}
	if !strings.Contains(m.View(), "graph LR") {
		t.Errorf("source page should show the header line:\n%s", m.View())
	}

	m = press(m, "right")
	if m.stage != 1 || !strings.Contains(m.View(), "Start") {
		t.Errorf("layout page missing node text:\n%s", m.View())
	}

	m = press(m, "right")
	if !strings.Contains(m.View(), "straight") {
		t.Errorf("routes page missing routing:\n%s", m.View())
	}

	m = press(m, "right")
	if !strings.Contains(m.View(), "Connectors") {
		t.Errorf("scene page missing connectors:\n%s", m.View())
	}

	m = press(m, "right")
	if m.stage != 0 {
		t.Errorf("stage after wrapping = %d, want 0", m.stage)
	}
	m = press(m, "left")
	if m.stage != len(inspectStages)-1 {
		t.Errorf("stage after left = %d, want %d", m.stage, len(inspectStages)-1)
	}
}

func TestInspectModelScroll(t *testing.T) {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for i := 0; i < 30; i++ {
		b.WriteString("N")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(" --> M\n")
	}
	m := newTestInspector(t, b.String())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 16})
	m = next.(inspectModel)

	m = press(m, "up")
	if m.offset != 0 {
		t.Errorf("offset after up at top = %d, want 0", m.offset)
	}
	for i := 0; i < 100; i++ {
		m = press(m, "down")
	}
	if m.offset != m.maxOffset() || m.offset == 0 {
		t.Errorf("offset = %d, want max %d > 0", m.offset, m.maxOffset())
	}

	m = press(m, "right")
	if m.offset != 0 {
		t.Errorf("switching stage should reset offset, got %d", m.offset)
	}
}

func TestInspectModelFallback(t *testing.T) {
	m := newTestInspector(t, "hello world\n")
	if !m.trace.Fallback {
		t.Fatal("expected fallback trace")
	}
	m = press(m, "right")
	if !strings.Contains(m.View(), "not laid out") {
		t.Errorf("fallback layout page:\n%s", m.View())
	}
}

func TestInspectModelQuit(t *testing.T) {
	m := newTestInspector(t, flowchartText)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
