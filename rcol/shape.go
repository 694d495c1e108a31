package rcol

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape type codes stored in collider records.
const (
	ShapeTypeSphere  = 1
	ShapeTypeCapsule = 3
)

// Shape is the geometry of a collider.
type Shape interface {
	// Distance returns the distance from p to the shape's core divided by
	// its radius, so the surface lies at 1.
	Distance(p mgl32.Vec3) (float32, error)

	fmt.Stringer
}

// Sphere is a sphere given by its center and radius.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Distance implements Shape.
func (s Sphere) Distance(p mgl32.Vec3) (float32, error) {
	return p.Sub(s.Center).Len() / s.Radius, nil
}

func (s Sphere) String() string {
	return fmt.Sprintf("Sphere{center: %v, radius: %g}", s.Center, s.Radius)
}

// Capsule is a segment from P0 to P1 swept by Radius.
type Capsule struct {
	P0, P1 mgl32.Vec3
	Radius float32
}

// Distance implements Shape. Points beyond either end are measured to that
// end's center rather than to the extended line.
func (c Capsule) Distance(p mgl32.Vec3) (float32, error) {
	axis := c.P1.Sub(c.P0)
	var t float32
	if l2 := axis.LenSqr(); l2 > 0 {
		t = mgl32.Clamp(p.Sub(c.P0).Dot(axis)/l2, 0, 1)
	}
	closest := c.P0.Add(axis.Mul(t))
	return p.Sub(closest).Len() / c.Radius, nil
}

func (c Capsule) String() string {
	return fmt.Sprintf("Capsule{p0: %v, p1: %v, radius: %g}", c.P0, c.P1, c.Radius)
}

// Unknown is a shape type the parser does not decode. Its payload is
// skipped.
type Unknown struct {
	Type uint32
}

// Distance always fails with ErrUnsupportedShape.
func (u Unknown) Distance(mgl32.Vec3) (float32, error) {
	return 0, fmt.Errorf("%w: type %d", ErrUnsupportedShape, u.Type)
}

func (u Unknown) String() string {
	return fmt.Sprintf("Unknown{type: %d}", u.Type)
}

func transformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
