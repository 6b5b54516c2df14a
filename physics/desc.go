package physics

import "github.com/jakecoffman/cp"

// BodyType selects how the engine integrates a body
type BodyType uint8

const (
	BodyDynamic BodyType = iota
	BodyKinematic
	BodyStatic
)

// BodyDesc describes a rigid body to create
// A dynamic body with zero Mass gets unit mass unless a collider sets Density
type BodyDesc struct {
	Type          BodyType
	Position      cp.Vector
	Velocity      cp.Vector
	Mass          float64
	FixedRotation bool
}

// ShapeKind tags the active ShapeDesc variant
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
	ShapeSegment
)

// ShapeDesc is collider geometry in body-local coordinates
type ShapeDesc struct {
	Kind   ShapeKind
	Radius float64
	Width  float64
	Height float64
	A, B   cp.Vector
	Offset cp.Vector
}

func Circle(radius float64) ShapeDesc { return ShapeDesc{Kind: ShapeCircle, Radius: radius} }
func Box(width, height float64) ShapeDesc {
	return ShapeDesc{Kind: ShapeBox, Width: width, Height: height}
}

// Segment is a capsule between a and b with the given radius
func Segment(a, b cp.Vector, radius float64) ShapeDesc {
	return ShapeDesc{Kind: ShapeSegment, A: a, B: b, Radius: radius}
}

// At returns the shape moved by offset from the body origin
func (s ShapeDesc) At(offset cp.Vector) ShapeDesc {
	s.Offset = offset
	return s
}

// ColliderDesc describes a collider attached to a body
// Sensor colliders report proximity instead of contacts and never push
// Margin > 0 on a sensor adds an outer ring reported as WithinMargin
type ColliderDesc struct {
	Shape      ShapeDesc
	Density    float64
	Friction   float64
	Elasticity float64
	Sensor     bool
	Margin     float64
	Filter     Filter
}

func (s ShapeDesc) build(body *cp.Body, inflate float64) *cp.Shape {
	switch s.Kind {
	case ShapeBox:
		if s.Offset == (cp.Vector{}) {
			return cp.NewBox(body, s.Width, s.Height, inflate)
		}
		hw, hh := s.Width/2, s.Height/2
		bb := cp.BB{L: s.Offset.X - hw, B: s.Offset.Y - hh, R: s.Offset.X + hw, T: s.Offset.Y + hh}
		return cp.NewBox2(body, bb, inflate)
	case ShapeSegment:
		return cp.NewSegment(body, s.A.Add(s.Offset), s.B.Add(s.Offset), s.Radius+inflate)
	default:
		return cp.NewCircle(body, s.Radius+inflate, s.Offset)
	}
}
