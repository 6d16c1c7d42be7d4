package scene

import "fmt"

// ShapeKind is the geometric primitive of a [Shape].
type ShapeKind int

const (
	Rectangle ShapeKind = iota
	RoundedRectangle
	Ellipse
	Diamond
	Hexagon
	LeftArrow
	RightArrow
)

// Side is a face of a shape's bounding box.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Routing is the path style of a [Connector].
type Routing int

const (
	Straight Routing = iota
	Elbow
)

// Dash is the stroke pattern of a [Connector].
type Dash int

const (
	Solid Dash = iota
	Dashed
)

// ArrowKind is the decoration at a connector end.
type ArrowKind int

const (
	ArrowNone ArrowKind = iota
	ArrowTriangle
	ArrowOpen
	ArrowDiamond
)

var (
	shapeKindNames = []string{"rectangle", "roundedRectangle", "ellipse", "diamond", "hexagon", "leftArrow", "rightArrow"}
	sideNames      = []string{"top", "right", "bottom", "left"}
	routingNames   = []string{"straight", "elbow"}
	dashNames      = []string{"solid", "dash"}
	arrowNames     = []string{"none", "triangle", "arrow", "diamond"}
)

func name(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func lookup(names []string, s, what string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

func (k ShapeKind) String() string { return name(shapeKindNames, int(k)) }
func (s Side) String() string      { return name(sideNames, int(s)) }
func (r Routing) String() string   { return name(routingNames, int(r)) }
func (d Dash) String() string      { return name(dashNames, int(d)) }
func (a ArrowKind) String() string { return name(arrowNames, int(a)) }

func (k ShapeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (s Side) MarshalText() ([]byte, error)      { return []byte(s.String()), nil }
func (r Routing) MarshalText() ([]byte, error)   { return []byte(r.String()), nil }
func (d Dash) MarshalText() ([]byte, error)      { return []byte(d.String()), nil }
func (a ArrowKind) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (k *ShapeKind) UnmarshalText(b []byte) error {
	i, err := lookup(shapeKindNames, string(b), "shape kind")
	*k = ShapeKind(i)
	return err
}

func (s *Side) UnmarshalText(b []byte) error {
	i, err := lookup(sideNames, string(b), "side")
	*s = Side(i)
	return err
}

func (r *Routing) UnmarshalText(b []byte) error {
	i, err := lookup(routingNames, string(b), "routing")
	*r = Routing(i)
	return err
}

func (d *Dash) UnmarshalText(b []byte) error {
	i, err := lookup(dashNames, string(b), "dash")
	*d = Dash(i)
	return err
}

func (a *ArrowKind) UnmarshalText(b []byte) error {
	i, err := lookup(arrowNames, string(b), "arrow kind")
	*a = ArrowKind(i)
	return err
}
