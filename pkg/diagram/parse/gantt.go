package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
)

// TaskUnits is the fixed duration assigned to every gantt task. Dates and
// durations in task specs are kept verbatim but not evaluated.
const TaskUnits = 3

var ganttIgnored = []string{"dateFormat", "axisFormat", "excludes", "includes", "todayMarker", "tickInterval", "weekday"}

var taskStatuses = map[string]bool{"done": true, "active": true, "crit": true, "milestone": true}

func parseGantt(src *diagram.Source) diagram.Model {
	m := &diagram.GanttModel{}
	var bodyTitle string
	current := -1

	for _, line := range src.Lines {
		text := line.Text
		if rest, ok := keyword(text, "title"); ok {
			bodyTitle = rest
			continue
		}
		if rest, ok := keyword(text, "dateFormat"); ok {
			m.DateFormat = rest
			continue
		}
		if ignored(text, ganttIgnored) {
			continue
		}
		if rest, ok := keyword(text, "section"); ok {
			m.Sections = append(m.Sections, diagram.Section{Name: rest})
			current = len(m.Sections) - 1
			continue
		}
		name, meta, ok := strings.Cut(text, ":")
		if !ok {
			continue
		}
		if current < 0 {
			m.Sections = append(m.Sections, diagram.Section{})
			current = 0
		}
		task := taskFromMeta(strings.TrimSpace(name), meta)
		m.Sections[current].Tasks = append(m.Sections[current].Tasks, task)
	}
	m.Title = title(bodyTitle, src.Title)
	return m
}

// taskFromMeta splits "crit, a1, 2024-01-01, 3d" into status, id and spec.
// An id is only present when three fields follow the status.
func taskFromMeta(name, meta string) diagram.Task {
	t := diagram.Task{Name: name, Duration: TaskUnits}
	var fields []string
	for _, f := range strings.Split(meta, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) > 0 && taskStatuses[fields[0]] {
		t.Status = fields[0]
		fields = fields[1:]
	}
	if len(fields) > 2 {
		t.ID = fields[0]
		fields = fields[1:]
	}
	t.Spec = strings.Join(fields, ", ")
	return t
}

func ignored(text string, keywords []string) bool {
	for _, kw := range keywords {
		if _, ok := keyword(text, kw); ok {
			return true
		}
	}
	return false
}
