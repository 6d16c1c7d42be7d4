package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/pipeline"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// Inspector styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectStages are the tabs of the inspector, one per pipeline stage.
var inspectStages = []string{"Source", "Layout", "Routes", "Scene"}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Browse the intermediate results of each pipeline stage",
		Long: `Inspect runs the pipeline on a diagram and shows what each stage produced:
the normalized source lines, the laid-out parts, the routed connectors and
the final scene. Use left/right to switch stages, up/down to scroll and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0], flags.kind, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := pipeline.ValidateInput(in); err != nil {
				return err
			}
			opts := flags.options()
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			m := newInspectModel(inputName(in), pipeline.Run(in, opts))
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func inputName(in pipeline.Input) string {
	if in.Name == "" {
		return "<stdin>"
	}
	return in.Name
}

// =============================================================================
// inspectModel - Stage browser
// =============================================================================

// inspectModel is the bubbletea model for the stage browser. Each stage is
// rendered once up front; the model only tracks the tab and scroll offset.
type inspectModel struct {
	name   string
	trace  *pipeline.Trace
	pages  [][]string
	stage  int
	offset int
	height int
}

func newInspectModel(name string, tr *pipeline.Trace) inspectModel {
	return inspectModel{
		name:   name,
		trace:  tr,
		pages:  [][]string{sourcePage(tr), layoutPage(tr), routePage(tr), scenePage(tr)},
		height: 20,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.stage = (m.stage + len(m.pages) - 1) % len(m.pages)
			m.offset = 0
		case "right", "l", "tab":
			m.stage = (m.stage + 1) % len(m.pages)
			m.offset = 0
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < m.maxOffset() {
				m.offset++
			}
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.maxOffset()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		if m.offset > m.maxOffset() {
			m.offset = m.maxOffset()
		}
	}
	return m, nil
}

func (m inspectModel) maxOffset() int {
	if n := len(m.pages[m.stage]) - m.height; n > 0 {
		return n
	}
	return 0
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s", m.trace.Scene.Kind)))
	if m.trace.Fallback {
		b.WriteString(StyleWarning.Render("  placeholder"))
	}
	b.WriteString("\n")

	tabs := make([]string, len(inspectStages))
	for i, s := range inspectStages {
		if i == m.stage {
			tabs[i] = tabActiveStyle.Render(s)
		} else {
			tabs[i] = tabInactiveStyle.Render(s)
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n\n")

	page := m.pages[m.stage]
	end := m.offset + m.height
	if end > len(page) {
		end = len(page)
	}
	for _, line := range page[m.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("←/→ stage  ↑/↓ scroll  q quit  [%d/%d]", end, len(page))))
	return b.String()
}

// =============================================================================
// Pages
// =============================================================================

func sourcePage(tr *pipeline.Trace) []string {
	src := tr.Source
	lines := []string{
		fmt.Sprintf("%s %s", StyleDim.Render("kind:  "), StyleValue.Render(src.Kind.String())),
		fmt.Sprintf("%s %s", StyleDim.Render("header:"), StyleValue.Render(src.Header)),
	}
	if src.Title != "" {
		lines = append(lines, fmt.Sprintf("%s %s", StyleDim.Render("title: "), StyleValue.Render(src.Title)))
	}
	lines = append(lines, "")
	for _, l := range src.Lines {
		lines = append(lines, fmt.Sprintf("%s %s%s",
			listDimStyle.Render(fmt.Sprintf("%4d", l.No)), strings.Repeat(" ", l.Indent), l.Text))
	}
	return lines
}

func layoutPage(tr *pipeline.Trace) []string {
	if tr.Layout == nil {
		return []string{listDimStyle.Render("(not laid out)")}
	}
	rows := make([][]string, 0, len(tr.Layout.Parts))
	for _, p := range tr.Layout.Parts {
		rows = append(rows, partRow(p.Key, layerName(p.Layer), p.Shape))
	}
	lines := tableLines([]string{"Key", "Layer", "Kind", "X", "Y", "W", "H", "Text"}, rows)

	if len(tr.Layout.Links) > 0 {
		lines = append(lines, "", headerStyle.Render("Links"))
		for _, l := range tr.Layout.Links {
			line := fmt.Sprintf("  %s → %s  %s", l.From, l.To, listDimStyle.Render(l.Kind.String()))
			if l.Label != "" {
				line += fmt.Sprintf("  %q", l.Label)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func routePage(tr *pipeline.Trace) []string {
	rows := make([][]string, 0, len(tr.Wires))
	for _, w := range tr.Wires {
		c := w.Connector
		rows = append(rows, []string{
			w.From, w.FromSide.String(), w.To, w.ToSide.String(), c.Routing.String(),
			fmt.Sprintf("%d,%d", c.StartX, c.StartY), fmt.Sprintf("%d,%d", c.EndX, c.EndY), c.Label,
		})
	}
	lines := tableLines([]string{"From", "Side", "To", "Side", "Routing", "Start", "End", "Label"}, rows)

	if len(tr.Labels) > 0 {
		lines = append(lines, "", headerStyle.Render("Labels"))
		for _, p := range tr.Labels {
			lines = append(lines, fmt.Sprintf("  %q at %d,%d", p.Shape.Text, p.Shape.X, p.Shape.Y))
		}
	}
	return lines
}

func scenePage(tr *pipeline.Trace) []string {
	rows := make([][]string, 0, len(tr.Scene.Shapes))
	for _, s := range tr.Scene.Shapes {
		rows = append(rows, partRow(fmt.Sprint(s.ID), "", s))
	}
	lines := tableLines([]string{"ID", "", "Kind", "X", "Y", "W", "H", "Text"}, rows)

	if len(tr.Scene.Connectors) > 0 {
		lines = append(lines, "", headerStyle.Render("Connectors"))
		for _, c := range tr.Scene.Connectors {
			lines = append(lines, fmt.Sprintf("  %d  %s → %s  %s  %s/%s",
				c.ID, anchorString(c.StartAnchor), anchorString(c.EndAnchor),
				c.Routing, c.StartArrow, c.EndArrow))
		}
	}
	return lines
}

func partRow(key, layer string, s scene.Shape) []string {
	return []string{
		key, layer, s.Kind.String(),
		fmt.Sprint(s.X), fmt.Sprint(s.Y), fmt.Sprint(s.Width), fmt.Sprint(s.Height),
		truncate(s.Text, 24),
	}
}

func layerName(l scene.Layer) string {
	switch l {
	case scene.LayerBackground:
		return "background"
	case scene.LayerNode:
		return "node"
	default:
		return "label"
	}
}

func anchorString(a *scene.Anchor) string {
	if a == nil {
		return "-"
	}
	return fmt.Sprintf("%d:%s", a.ShapeID, a.Side)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

// tableLines renders a bordered table and splits it for scrolling.
func tableLines(headers []string, rows [][]string) []string {
	if len(rows) == 0 {
		return []string{listDimStyle.Render("(none)")}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 3 && col <= 6 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	return strings.Split(t.Render(), "\n")
}
