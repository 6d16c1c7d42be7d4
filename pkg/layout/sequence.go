package layout

import (
	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// sequenceLayout draws one lane per participant (top box, lifeline, bottom
// box) and one arrow shape plus text per message, top to bottom.
func sequenceLayout(dm diagram.Model, th *Theme) *Result {
	m, ok := dm.(*diagram.SequenceModel)
	r := newResult(diagram.Sequence)
	if !ok {
		return r
	}
	t := &th.Sequence
	pw, ph := t.Participant.Width, t.Participant.Height

	lifeline := max(t.LifelineHeight, t.MessageOffset+int64(len(m.Messages)+1)*t.MessageSpacing)
	centers := make(map[string]int64, len(m.Participants))

	for i, p := range m.Participants {
		x := t.Origin.X + int64(i)*t.HSpacing
		y := t.Origin.Y
		centers[p.ID] = x + pw/2

		r.node(p.ID, styled(scene.Rectangle, x, y, pw, ph, t.Fill, t.Stroke, p.Label()))
		r.add("", scene.LayerNode, scene.Shape{
			Kind:      scene.Rectangle,
			X:         x + pw/2 - t.LifelineWidth/2,
			Y:         y + ph,
			Width:     t.LifelineWidth,
			Height:    lifeline,
			FillColor: t.LifelineFill,
		})
		r.add("", scene.LayerNode, styled(scene.Rectangle, x, y+ph+lifeline, pw, ph, t.Fill, t.Stroke, p.Label()))
	}

	for j, msg := range m.Messages {
		from, okFrom := centers[msg.From]
		to, okTo := centers[msg.To]
		if !okFrom || !okTo {
			continue
		}
		y := t.Origin.Y + ph + t.MessageOffset + int64(j)*t.MessageSpacing

		kind, left, width := scene.RightArrow, from, to-from
		switch {
		case from == to:
			kind, width = scene.LeftArrow, t.SelfWidth
		case to < from:
			kind, left, width = scene.LeftArrow, to, from-to
		}
		fill := t.ArrowFill
		if msg.Reply {
			fill = t.ReplyFill
		}
		r.add("", scene.LayerNode, scene.Shape{
			Kind:      kind,
			X:         left,
			Y:         y,
			Width:     width,
			Height:    t.ArrowHeight,
			FillColor: fill,
		})
		if msg.Text != "" {
			r.add("", scene.LayerLabel, scene.Shape{
				Kind:   scene.Rectangle,
				X:      left,
				Y:      y - t.TextOffset,
				Width:  width,
				Height: t.TextHeight,
				Text:   msg.Text,
			})
		}
	}
	return r
}
