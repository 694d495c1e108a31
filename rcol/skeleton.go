package rcol

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Skeleton provides the accumulated (model-space) transform of a bone.
type Skeleton interface {
	BoneTransform(name string) (mgl32.Mat4, bool)
}

// Bones is a Skeleton backed by a map from bone name to transform.
type Bones map[string]mgl32.Mat4

// BoneTransform implements Skeleton.
func (b Bones) BoneTransform(name string) (mgl32.Mat4, bool) {
	m, ok := b[name]
	return m, ok
}

// BindSkeleton moves every collider shape from bone space into model space.
//
// Spheres and the first capsule end use BoneA; the second capsule end uses
// BoneB. Every collider's BoneA must exist, and BoneB must exist for
// capsules; otherwise ErrUnknownBone is returned and no shape is changed.
func (f *File) BindSkeleton(s Skeleton) error {
	bound := make([][]Shape, len(f.Groups))
	for gi := range f.Groups {
		g := &f.Groups[gi]
		bound[gi] = make([]Shape, len(g.Colliders))
		for ci := range g.Colliders {
			shape, err := bindShape(&g.Colliders[ci], s)
			if err != nil {
				return fmt.Errorf("rcol group %s collider %s: %w", g.Name, g.Colliders[ci].Name, err)
			}
			bound[gi][ci] = shape
		}
	}
	for gi := range f.Groups {
		for ci := range f.Groups[gi].Colliders {
			f.Groups[gi].Colliders[ci].Shape = bound[gi][ci]
		}
	}
	return nil
}

func bindShape(c *Collider, s Skeleton) (Shape, error) {
	a, ok := s.BoneTransform(c.BoneA)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBone, c.BoneA)
	}
	switch shape := c.Shape.(type) {
	case Sphere:
		return Sphere{Center: transformPoint(a, shape.Center), Radius: shape.Radius}, nil
	case Capsule:
		b, ok := s.BoneTransform(c.BoneB)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBone, c.BoneB)
		}
		return Capsule{
			P0:     transformPoint(a, shape.P0),
			P1:     transformPoint(b, shape.P1),
			Radius: shape.Radius,
		}, nil
	default:
		return c.Shape, nil
	}
}
