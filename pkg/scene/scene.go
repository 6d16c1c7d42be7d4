// Package scene defines the positioned output of diagramscene and the
// assembler that produces it.
//
// A [Scene] is a flat list of [Shape] values followed by [Connector] values,
// all measured in EMU (914400 per inch) with the origin at the top-left of
// the drawing surface. Shapes carry unique ids starting at [BaseID];
// connectors anchor to shapes by id.
//
// Zero values mean "absent": an empty FillColor draws no fill, a zero
// LineWidth draws no outline, a nil anchor leaves a connector end free and
// [ArrowNone] draws no arrowhead.
package scene

import (
	"errors"
	"fmt"

	"github.com/deckdown/diagramscene/pkg/diagram"
)

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

// EMUPerPoint is the number of English Metric Units in one typographic point.
const EMUPerPoint = 12700

// BaseID is the first shape id assigned by [Assemble].
const BaseID uint32 = 10

// Sentinel errors reported by [Scene.Check].
var (
	// ErrDuplicateID is returned when two shapes share an id.
	ErrDuplicateID = errors.New("duplicate shape id")

	// ErrDanglingAnchor is returned when a connector anchors to a missing shape.
	ErrDanglingAnchor = errors.New("connector anchors to missing shape")
)

// Arc restricts an ellipse to a wedge. Angles are in degrees, measured
// clockwise from the positive x axis.
type Arc struct {
	Start float64 `json:"start"`
	Sweep float64 `json:"sweep"`
}

// Shape is a positioned geometric primitive.
type Shape struct {
	ID        uint32    `json:"id"`
	Kind      ShapeKind `json:"kind"`
	X         int64     `json:"x"`
	Y         int64     `json:"y"`
	Width     int64     `json:"width"`
	Height    int64     `json:"height"`
	FillColor string    `json:"fill,omitempty"`
	LineColor string    `json:"line,omitempty"`
	LineWidth uint32    `json:"lineWidth,omitempty"`
	Text      string    `json:"text,omitempty"`
	Arc       *Arc      `json:"arc,omitempty"`
}

// Center returns the midpoint of the shape's bounding box.
func (s Shape) Center() (int64, int64) {
	return s.X + s.Width/2, s.Y + s.Height/2
}

// Anchor attaches a connector end to a side of a shape.
type Anchor struct {
	ShapeID uint32 `json:"shape"`
	Side    Side   `json:"side"`
}

// Connector is a line between two points, optionally anchored to shapes.
type Connector struct {
	ID          uint32    `json:"id,omitempty"`
	Routing     Routing   `json:"routing"`
	StartX      int64     `json:"startX"`
	StartY      int64     `json:"startY"`
	EndX        int64     `json:"endX"`
	EndY        int64     `json:"endY"`
	StartAnchor *Anchor   `json:"startAnchor,omitempty"`
	EndAnchor   *Anchor   `json:"endAnchor,omitempty"`
	LineColor   string    `json:"line,omitempty"`
	LineWidth   uint32    `json:"lineWidth,omitempty"`
	Dash        Dash      `json:"dash"`
	StartArrow  ArrowKind `json:"startArrow"`
	EndArrow    ArrowKind `json:"endArrow"`
	Label       string    `json:"label,omitempty"`
}

// Scene is the complete positioned output for one diagram.
type Scene struct {
	Kind       diagram.Kind `json:"kind"`
	Shapes     []Shape      `json:"shapes"`
	Connectors []Connector  `json:"connectors"`
}

// Empty reports whether the scene has nothing to draw.
func (s *Scene) Empty() bool {
	return len(s.Shapes) == 0 && len(s.Connectors) == 0
}

// Shape looks up a shape by id.
func (s *Scene) Shape(id uint32) (Shape, bool) {
	for _, sh := range s.Shapes {
		if sh.ID == id {
			return sh, true
		}
	}
	return Shape{}, false
}

// Bounds returns the bounding box of all shapes and connector endpoints as
// minimum and maximum corners. An empty scene has zero bounds.
func (s *Scene) Bounds() (minX, minY, maxX, maxY int64) {
	first := true
	grow := func(x0, y0, x1, y1 int64) {
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		if first {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			first = false
			return
		}
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
	}
	for _, sh := range s.Shapes {
		grow(sh.X, sh.Y, sh.X+sh.Width, sh.Y+sh.Height)
	}
	for _, c := range s.Connectors {
		grow(c.StartX, c.StartY, c.EndX, c.EndY)
	}
	return minX, minY, maxX, maxY
}

// Check verifies that shape ids are unique and every connector anchor
// refers to a shape in the scene.
func (s *Scene) Check() error {
	ids := make(map[uint32]bool, len(s.Shapes))
	for _, sh := range s.Shapes {
		if ids[sh.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, sh.ID)
		}
		ids[sh.ID] = true
	}
	for i, c := range s.Connectors {
		for _, a := range []*Anchor{c.StartAnchor, c.EndAnchor} {
			if a != nil && !ids[a.ShapeID] {
				return fmt.Errorf("%w: connector %d -> shape %d", ErrDanglingAnchor, i, a.ShapeID)
			}
		}
	}
	return nil
}
