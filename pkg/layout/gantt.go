package layout

import (
	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// ganttLayout stacks an optional title, then per section a header bar and
// one row per task: a label on the left and a bar whose width is the task
// duration times UnitWidth. Bars shift right by BarStagger per task index.
func ganttLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.GanttModel)
	r := newResult(diagram.Gantt)
	if !ok {
		return r
	}
	t := &th.Gantt
	x := t.Origin.X

	if m.Title != "" {
		r.add("", scene.LayerBackground, scene.Shape{
			Kind: scene.Rectangle, X: x, Y: t.Origin.Y,
			Width: t.Title.Width, Height: t.Title.Height, Text: m.Title,
		})
	}
	y := t.Origin.Y + t.TitleGap

	for si, sec := range m.Sections {
		if sec.Name != "" || len(sec.Tasks) == 0 {
			r.add("", scene.LayerBackground, scene.Shape{
				Kind: scene.Rectangle, X: x, Y: y,
				Width: t.Width, Height: t.SectionHeight,
				FillColor: t.SectionFill, Text: sec.Name,
			})
			y += t.SectionHeight + t.SectionGap
		}
		for ti, task := range sec.Tasks {
			r.add("", scene.LayerNode, scene.Shape{
				Kind: scene.Rectangle, X: x, Y: y,
				Width: t.LabelWidth, Height: t.TaskHeight, Text: task.Name,
			})
			fill := pick(t.Colors, si+ti)
			if task.Critical() && t.CriticalFill != "" {
				fill = t.CriticalFill
			}
			key := task.ID
			if key == "" {
				key = task.Name
			}
			r.node(key, scene.Shape{
				Kind:      scene.RoundedRectangle,
				X:         x + t.LabelWidth + t.BarGap + int64(ti)*t.BarStagger,
				Y:         y,
				Width:     int64(max(task.Duration, 1)) * t.UnitWidth,
				Height:    t.TaskHeight,
				FillColor: fill,
			})
			y += t.TaskSpacing
		}
	}
	return r
}
