package parse

import (
	"strings"

	"github.com/deckdown/diagramscene/pkg/diagram"
)

func parseTimeline(src *diagram.Source) diagram.Model {
	m := &diagram.TimelineModel{}
	var bodyTitle string

	for _, line := range src.Lines {
		text := line.Text
		if rest, ok := keyword(text, "title"); ok {
			bodyTitle = rest
			continue
		}
		if _, ok := keyword(text, "section"); ok {
			continue
		}

		parts := strings.Split(text, ":")
		if len(parts) == 1 || strings.HasPrefix(text, ":") {
			// continuation of the current date group
			if len(m.Events) == 0 {
				continue
			}
			ev := &m.Events[len(m.Events)-1]
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					ev.Items = append(ev.Items, p)
				}
			}
			continue
		}

		ev := diagram.Event{Date: strings.TrimSpace(parts[0])}
		for _, p := range parts[1:] {
			if p = strings.TrimSpace(p); p != "" {
				ev.Items = append(ev.Items, p)
			}
		}
		m.Events = append(m.Events, ev)
	}
	m.Title = title(bodyTitle, src.Title)
	return m
}
